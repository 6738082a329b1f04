package backend

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"stockfront/internal/domain"
)

// AdminClient uploads assets to the admin ingestion collaborator. Real
// authorization happens server-side against the bearer credential; the
// storefront only forwards it.
type AdminClient struct {
	c *Client
}

func NewAdminClient(c *Client) *AdminClient { return &AdminClient{c: c} }

// ProgressFunc receives upload-progress events as bytes stream out. total is
// the full payload size in bytes.
type ProgressFunc func(sent, total int64)

// UploadImage sends a single image file.
func (ac *AdminClient) UploadImage(ctx context.Context, token, filename string, file io.Reader) error {
	return ac.upload(ctx, "/api/admin/images/upload", token, filename, file, 0, nil)
}

// UploadArchive sends a bulk ZIP archive. Progress is reported through fn as
// the body streams, not by polling the collaborator.
func (ac *AdminClient) UploadArchive(ctx context.Context, token, filename string, archive io.Reader, size int64, fn ProgressFunc) error {
	return ac.upload(ctx, "/api/admin/images/bulk-upload", token, filename, archive, size, fn)
}

func (ac *AdminClient) upload(ctx context.Context, path, token, filename string, file io.Reader, size int64, fn ProgressFunc) error {
	// Progress counts raw file bytes, not the multipart-encoded stream, so
	// sent never overshoots total by the envelope overhead.
	if fn != nil {
		file = &progressReader{r: file, total: size, fn: fn}
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := ac.c.newRequest(ctx, http.MethodPost, path, nil, token, pr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := ac.c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return ac.c.statusError(resp)
	}
	return nil
}

// progressReader emits cumulative byte counts as the wrapped file is consumed
// into the request body.
type progressReader struct {
	r     io.Reader
	sent  int64
	total int64
	fn    ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.sent += int64(n)
		p.fn(p.sent, p.total)
	}
	return n, err
}
