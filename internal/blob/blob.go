// Package blob stores uploaded files and reports upload progress.
package blob

import (
	"context"
	"strings"
	"sync"
)

// Progress is the number of bytes sent so far out of Total.
type Progress struct {
	Transferred int64 `json:"transferred"`
	Total       int64 `json:"total"`
}

type Store interface {
	// Upload starts writing data to path. Progress is reported on the returned
	// Upload until it finishes.
	Upload(ctx context.Context, path, contentType string, data []byte) *Upload
	Delete(ctx context.Context, path string) error
}

// Upload is an upload in flight. Progress is closed when the upload ends;
// Wait then returns the download URL or the failure.
type Upload struct {
	Progress <-chan Progress

	mu       sync.Mutex
	progress chan Progress
	done     chan struct{}
	url      string
	err      error
}

func newUpload() *Upload {
	ch := make(chan Progress, 16)
	return &Upload{Progress: ch, progress: ch, done: make(chan struct{})}
}

// report never blocks. When the buffer is full the oldest queued event is
// dropped, so a slow reader still ends on the latest one.
func (u *Upload) report(transferred, total int64) {
	p := Progress{Transferred: transferred, Total: total}
	u.mu.Lock()
	defer u.mu.Unlock()
	for {
		select {
		case u.progress <- p:
			return
		default:
		}
		select {
		case <-u.progress:
		default:
		}
	}
}

func (u *Upload) finish(url string, err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.url, u.err = url, err
	close(u.progress)
	close(u.done)
}

func (u *Upload) Wait() (string, error) {
	<-u.done
	return u.url, u.err
}

// DocumentType derives the tag shown for a document: PDF for any pdf media
// type, the upper-cased text after the last dot of the name for images (the
// whole name when it has no dot), DOCX otherwise.
func DocumentType(contentType, fileName string) string {
	switch {
	case strings.Contains(contentType, "pdf"):
		return "PDF"
	case strings.Contains(contentType, "image"):
		return strings.ToUpper(fileName[strings.LastIndex(fileName, ".")+1:])
	default:
		return "DOCX"
	}
}
