package storage

import (
	"context"
	"errors"
	"time"

	portstorage "github.com/tmtrack/time_tracker_app/internal/core/ports/storage"
)

var (
	_ portstorage.PhotoStore = (*GCSPhotoStore)(nil)
	_ portstorage.PhotoStore = (*DisabledPhotoStore)(nil)
)

// ErrStoreDisabled is returned when photo storage has not been configured.
var ErrStoreDisabled = errors.New("photo storage is not configured")

// DisabledPhotoStore stands in when no bucket is configured. Every
// operation fails with ErrStoreDisabled so the rest of the API keeps
// working without photo support.
type DisabledPhotoStore struct{}

// NewDisabledPhotoStore creates a photo store that rejects all operations.
func NewDisabledPhotoStore() *DisabledPhotoStore {
	return &DisabledPhotoStore{}
}

func (s *DisabledPhotoStore) Upload(ctx context.Context, objectPath, contentType string, data []byte) error {
	return ErrStoreDisabled
}

func (s *DisabledPhotoStore) SignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	return "", ErrStoreDisabled
}
