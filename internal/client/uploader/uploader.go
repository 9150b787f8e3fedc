// Package uploader implements the batched image upload flow: each selected
// file is pushed to object storage through a presigned URL, all uploads run
// concurrently, and the batch either succeeds as a whole or fails as a whole.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/vpetrenko/realhome/internal/client/api"
)

// MaxImagesPerListing caps the gallery size of one listing.
const MaxImagesPerListing = 6

// MaxImageSizeBytes caps a single image at 2 MiB, matching the server.
const MaxImageSizeBytes = 2 << 20

// Batch-level failures surfaced to the user. The texts are part of the UI.
var (
	ErrTooManyImages = errors.New("You can only upload 6 images per listing")
	ErrUploadFailed  = errors.New("Image upload failed (2 mb max per image)")
)

// File is one selected image: a name, a declared size, and its content.
type File struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// TicketIssuer obtains presigned upload destinations. *api.Client satisfies it.
type TicketIssuer interface {
	PresignUpload(ctx context.Context, fileName string, size int64) (*api.UploadTicket, error)
}

// ProgressFunc observes per-file upload progress: index is the position of
// the file in the selection, fraction is bytes transferred over total bytes.
type ProgressFunc func(index int, fraction float64)

type Uploader struct {
	tickets    TicketIssuer
	httpClient *http.Client
	onProgress ProgressFunc
	uploading  atomic.Bool
}

// NewUploader builds an Uploader. httpClient may be nil, in which case
// http.DefaultClient is used. onProgress may be nil.
func NewUploader(tickets TicketIssuer, httpClient *http.Client, onProgress ProgressFunc) *Uploader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Uploader{tickets: tickets, httpClient: httpClient, onProgress: onProgress}
}

// Uploading reports whether a batch is currently in flight. The UI uses it
// to disable repeat submissions.
func (u *Uploader) Uploading() bool {
	return u.uploading.Load()
}

// SubmitImages uploads the selected files and returns the image URL list
// with the new URLs appended in selection order.
//
// The batch is rejected up front when no file is selected or when the
// selection would push the gallery past six images; in that case existing is
// returned unchanged and no upload starts. If any single upload fails the
// whole batch fails and existing is returned unchanged.
func (u *Uploader) SubmitImages(ctx context.Context, files []File, existing []string) ([]string, error) {

	if len(files) == 0 || len(files)+len(existing) >= MaxImagesPerListing+1 {
		return existing, ErrTooManyImages
	}

	u.uploading.Store(true)
	defer u.uploading.Store(false)

	// Results are written into index-addressed slots so the final order is
	// the selection order, not the completion order.
	urls := make([]string, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			urls[idx], errs[idx] = u.storeImage(ctx, idx, files[idx])
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return existing, ErrUploadFailed
		}
	}

	out := make([]string, 0, len(existing)+len(urls))
	out = append(out, existing...)
	out = append(out, urls...)
	return out, nil
}

// storeImage pushes one file to object storage and resolves its durable URL.
func (u *Uploader) storeImage(ctx context.Context, index int, file File) (string, error) {

	if file.Size <= 0 || file.Size > MaxImageSizeBytes {
		return "", fmt.Errorf("file %q exceeds the size limit", file.Name)
	}

	ticket, err := u.tickets.PresignUpload(ctx, file.Name, file.Size)
	if err != nil {
		return "", fmt.Errorf("presign error: %w", err)
	}

	body := &progressReader{
		r:     file.Reader,
		total: file.Size,
		onChange: func(fraction float64) {
			if u.onProgress != nil {
				u.onProgress(index, fraction)
			}
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, ticket.UploadURL, body)
	if err != nil {
		return "", err
	}
	req.ContentLength = file.Size

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload error: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("upload rejected: status %d", resp.StatusCode)
	}

	return ticket.PublicURL, nil
}

// RemoveImage drops the URL at the given position. The stored object itself
// is not deleted.
func RemoveImage(urls []string, index int) []string {
	if index < 0 || index >= len(urls) {
		return urls
	}
	out := make([]string, 0, len(urls)-1)
	out = append(out, urls[:index]...)
	out = append(out, urls[index+1:]...)
	return out
}
