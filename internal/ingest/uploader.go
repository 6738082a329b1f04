package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"

	"stockfront/internal/backend"
)

// ErrNoImages is returned when the source directory holds nothing to ingest.
var ErrNoImages = errors.New("no images to ingest")

type archiveUploader interface {
	UploadArchive(ctx context.Context, token, filename string, archive io.Reader, size int64, fn backend.ProgressFunc) error
}

// Event is one upload-progress observation for a batch.
type Event struct {
	BatchID    string
	Files      int
	SentBytes  int64
	TotalBytes int64
}

// Report summarizes a completed ingestion run.
type Report struct {
	BatchID    string
	Files      int
	TotalBytes int64
}

// Uploader builds and ships bulk archives.
type Uploader struct {
	admin  archiveUploader
	logger *log.Logger
}

func NewUploader(admin archiveUploader, logger *log.Logger) *Uploader {
	return &Uploader{admin: admin, logger: logger}
}

// Run zips the images under dir into a temporary archive and uploads it under
// a fresh batch ID. Progress events fire as bytes stream out; completion is
// the collaborator's response, not a polled status.
func (u *Uploader) Run(ctx context.Context, token, dir string, progress func(Event)) (Report, error) {
	tmp, err := os.CreateTemp("", "ingest-*.zip")
	if err != nil {
		return Report{}, fmt.Errorf("create archive: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	files, err := BuildArchive(dir, tmp)
	if err != nil {
		return Report{}, err
	}
	if files == 0 {
		return Report{}, ErrNoImages
	}

	info, err := tmp.Stat()
	if err != nil {
		return Report{}, fmt.Errorf("stat archive: %w", err)
	}
	if _, err := tmp.Seek(0, 0); err != nil {
		return Report{}, fmt.Errorf("rewind archive: %w", err)
	}

	batchID := uuid.NewString()
	if u.logger != nil {
		u.logger.Printf("uploading batch %s: %d files, %d bytes", batchID, files, info.Size())
	}

	var fn backend.ProgressFunc
	if progress != nil {
		fn = func(sent, total int64) {
			progress(Event{BatchID: batchID, Files: files, SentBytes: sent, TotalBytes: total})
		}
	}
	name := batchID + ".zip"
	if err := u.admin.UploadArchive(ctx, token, name, tmp, info.Size(), fn); err != nil {
		return Report{}, fmt.Errorf("upload batch %s: %w", batchID, err)
	}

	return Report{BatchID: batchID, Files: files, TotalBytes: info.Size()}, nil
}
