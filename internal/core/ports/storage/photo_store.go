package storage

import (
	"context"
	"time"
)

// PhotoStore abstracts the object storage backend for photo documentation.
type PhotoStore interface {
	// Upload writes the object at the given path.
	Upload(ctx context.Context, objectPath, contentType string, data []byte) error

	// SignedURL returns a time-limited GET URL for the object.
	SignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}
