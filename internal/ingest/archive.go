// Package ingest assembles bulk ZIP archives of images and streams them to
// the admin ingestion collaborator, reporting upload progress as it goes.
package ingest

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// imageExtensions lists the file types the ingestion collaborator accepts.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// BuildArchive zips every accepted image directly under dir into w, returning
// the number of files included. Non-image files are skipped, not errors.
func BuildArchive(dir string, w io.Writer) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read source dir: %w", err)
	}

	zw := zip.NewWriter(w)
	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !acceptedImage(entry.Name()) {
			continue
		}
		if err := addFile(zw, dir, entry); err != nil {
			zw.Close()
			return count, err
		}
		count++
	}
	if err := zw.Close(); err != nil {
		return count, fmt.Errorf("finalize archive: %w", err)
	}
	return count, nil
}

func addFile(zw *zip.Writer, dir string, entry fs.DirEntry) error {
	f, err := os.Open(filepath.Join(dir, entry.Name()))
	if err != nil {
		return fmt.Errorf("open %s: %w", entry.Name(), err)
	}
	defer f.Close()

	part, err := zw.Create(entry.Name())
	if err != nil {
		return fmt.Errorf("add %s: %w", entry.Name(), err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("write %s: %w", entry.Name(), err)
	}
	return nil
}

func acceptedImage(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}
