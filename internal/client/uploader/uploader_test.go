package uploader

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vpetrenko/realhome/internal/client/api"
)

type fakeTickets struct {
	uploadBase string
	publicBase string

	mu    sync.Mutex
	calls int

	err error
}

func (f *fakeTickets) PresignUpload(ctx context.Context, fileName string, size int64) (*api.UploadTicket, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &api.UploadTicket{
		Key:       fileName,
		UploadURL: f.uploadBase + "/" + fileName,
		PublicURL: f.publicBase + "/" + fileName,
	}, nil
}

func file(name, content string) File {
	return File{Name: name, Size: int64(len(content)), Reader: strings.NewReader(content)}
}

// storageServer accepts PUTs and optionally delays some objects to shuffle
// completion order.
func storageServer(t *testing.T, delays map[string]time.Duration, failFor string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		name := strings.TrimPrefix(r.URL.Path, "/")
		if d, ok := delays[name]; ok {
			time.Sleep(d)
		}
		if name == failFor {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestSubmitImages_PreservesSelectionOrder(t *testing.T) {
	// first file finishes last; order must still follow the selection
	ts := storageServer(t, map[string]time.Duration{
		"a.png": 80 * time.Millisecond,
		"b.png": 30 * time.Millisecond,
	}, "")
	tickets := &fakeTickets{uploadBase: ts.URL, publicBase: "http://public"}
	u := NewUploader(tickets, nil, nil)

	existing := []string{"http://public/old.png"}
	urls, err := u.SubmitImages(context.Background(),
		[]File{file("a.png", "aaa"), file("b.png", "bbb"), file("c.png", "ccc")},
		existing)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"http://public/old.png",
		"http://public/a.png",
		"http://public/b.png",
		"http://public/c.png",
	}, urls)
	assert.False(t, u.Uploading())
}

func TestSubmitImages_RejectsOverfullBatch(t *testing.T) {
	tickets := &fakeTickets{}
	u := NewUploader(tickets, nil, nil)

	existing := []string{"1", "2", "3", "4"}
	files := []File{file("a.png", "a"), file("b.png", "b"), file("c.png", "c")}

	urls, err := u.SubmitImages(context.Background(), files, existing)
	assert.ErrorIs(t, err, ErrTooManyImages)
	assert.Equal(t, existing, urls)
	// no upload was attempted
	assert.Equal(t, 0, tickets.calls)
}

func TestSubmitImages_RejectsEmptySelection(t *testing.T) {
	u := NewUploader(&fakeTickets{}, nil, nil)

	urls, err := u.SubmitImages(context.Background(), nil, []string{"1"})
	assert.ErrorIs(t, err, ErrTooManyImages)
	assert.Equal(t, []string{"1"}, urls)
}

func TestSubmitImages_SixAtOnceAllowed(t *testing.T) {
	ts := storageServer(t, nil, "")
	tickets := &fakeTickets{uploadBase: ts.URL, publicBase: "http://public"}
	u := NewUploader(tickets, nil, nil)

	files := make([]File, 6)
	for i := range files {
		files[i] = file(fmt.Sprintf("%d.png", i), "x")
	}

	urls, err := u.SubmitImages(context.Background(), files, nil)
	require.NoError(t, err)
	assert.Len(t, urls, 6)
}

func TestSubmitImages_SingleFailureFailsBatch(t *testing.T) {
	ts := storageServer(t, nil, "b.png")
	tickets := &fakeTickets{uploadBase: ts.URL, publicBase: "http://public"}
	u := NewUploader(tickets, nil, nil)

	existing := []string{"http://public/old.png"}
	urls, err := u.SubmitImages(context.Background(),
		[]File{file("a.png", "a"), file("b.png", "b")}, existing)

	assert.ErrorIs(t, err, ErrUploadFailed)
	// partial results are discarded, existing list untouched
	assert.Equal(t, existing, urls)
}

func TestSubmitImages_OversizedFileFailsBatch(t *testing.T) {
	ts := storageServer(t, nil, "")
	tickets := &fakeTickets{uploadBase: ts.URL, publicBase: "http://public"}
	u := NewUploader(tickets, nil, nil)

	big := File{Name: "big.png", Size: MaxImageSizeBytes + 1, Reader: bytes.NewReader(nil)}
	urls, err := u.SubmitImages(context.Background(), []File{file("ok.png", "x"), big}, nil)

	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Empty(t, urls)
}

func TestSubmitImages_PresignFailureFailsBatch(t *testing.T) {
	tickets := &fakeTickets{err: fmt.Errorf("boom")}
	u := NewUploader(tickets, nil, nil)

	_, err := u.SubmitImages(context.Background(), []File{file("a.png", "a")}, nil)
	assert.ErrorIs(t, err, ErrUploadFailed)
}

func TestSubmitImages_ReportsProgress(t *testing.T) {
	ts := storageServer(t, nil, "")
	tickets := &fakeTickets{uploadBase: ts.URL, publicBase: "http://public"}

	var mu sync.Mutex
	final := map[int]float64{}
	u := NewUploader(tickets, nil, func(index int, fraction float64) {
		mu.Lock()
		final[index] = fraction
		mu.Unlock()
	})

	_, err := u.SubmitImages(context.Background(),
		[]File{file("a.png", strings.Repeat("a", 100))}, nil)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.InDelta(t, 1.0, final[0], 0.001)
}

func TestRemoveImage(t *testing.T) {
	urls := []string{"a", "b", "c"}

	assert.Equal(t, []string{"a", "c"}, RemoveImage(urls, 1))
	assert.Equal(t, []string{"b", "c"}, RemoveImage(urls, 0))
	assert.Equal(t, []string{"a", "b"}, RemoveImage(urls, 2))

	// out-of-range indexes leave the list unchanged
	assert.Equal(t, urls, RemoveImage(urls, -1))
	assert.Equal(t, urls, RemoveImage(urls, 3))
}
