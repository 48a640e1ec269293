package port

import (
	"context"
	"io"
	"time"
)

// Object is a blob written to the bucket that holds invoice PDFs and
// product images.
type Object struct {
	Key         string
	Body        io.Reader
	ContentType string
	// Filename, when set, is offered to browsers as the download name.
	Filename string
}

// ObjectStorage is bound to a single bucket; callers address objects by key.
// Get returns domain.ErrNotFound for a missing key.
type ObjectStorage interface {
	Put(ctx context.Context, obj Object) error
	Get(ctx context.Context, key string) ([]byte, error)
	Remove(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
