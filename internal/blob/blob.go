// Package blob abstracts the object store that holds AR asset binaries
// (recognition images, 3D models, videos).
package blob

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Folder conventions for the three AR asset kinds.
const (
	FolderMarkers = "markers"
	FolderModels  = "models"
	FolderVideos  = "video"
)

// ProgressFunc receives byte-level transfer progress for one upload.
// total is <= 0 when the size is unknown.
type ProgressFunc func(transferred, total int64)

// Store is a path-addressed object store returning stable public URLs.
type Store interface {
	// Upload stores the object under key and returns its public URL.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string, progress ProgressFunc) (string, error)
	// Delete removes the object addressed by a URL previously returned by
	// Upload. URLs the store did not issue are rejected.
	Delete(ctx context.Context, url string) error
}

// Key builds a collision-avoiding object key: folder/<unix-millis>_<name>.
func Key(folder, filename string) string {
	name := strings.ReplaceAll(filename, "/", "_")
	return fmt.Sprintf("%s/%d_%s", folder, time.Now().UnixMilli(), name)
}

// progressReader wraps a reader and reports cumulative byte counts.
type progressReader struct {
	r           io.Reader
	total       int64
	transferred int64
	fn          ProgressFunc
}

// NewProgressReader returns a reader that invokes fn as bytes pass through.
// fn may be nil, in which case r is returned unchanged.
func NewProgressReader(r io.Reader, total int64, fn ProgressFunc) io.Reader {
	if fn == nil {
		return r
	}
	return &progressReader{r: r, total: total, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.transferred += int64(n)
		p.fn(p.transferred, p.total)
	}
	return n, err
}
