package services

import (
	"context"

	"github.com/tmtrack/time_tracker_app/internal/dto"
)

// PhotoSvcFacade defines photo upload operations.
type PhotoSvcFacade interface {
	// UploadPhoto stores a photo for the caller and returns a long-lived
	// signed URL for it.
	UploadPhoto(ctx context.Context, requestingUserID string, req dto.UploadPhotoRequest) (*dto.UploadPhotoResponse, error)
}
