package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	portssvc "github.com/tmtrack/time_tracker_app/internal/core/ports/services"
	"github.com/tmtrack/time_tracker_app/internal/core/ports/storage"
	"github.com/tmtrack/time_tracker_app/internal/dto"
	"github.com/tmtrack/time_tracker_app/internal/platform/config"
	"github.com/tmtrack/time_tracker_app/internal/utils"
)

// maxPhotoBytes caps decoded photo payloads at 10 MiB.
const maxPhotoBytes = 10 << 20

// photoService implements the PhotoSvcFacade interface
type photoService struct {
	BaseService
	cfg        *config.Config
	photoStore storage.PhotoStore
	authorizer portssvc.CallerAuthorizerSvc
}

// NewPhotoService creates a new photo service with the provided dependencies
func NewPhotoService(cfg *config.Config, photoStore storage.PhotoStore, authorizer portssvc.CallerAuthorizerSvc) portssvc.PhotoSvcFacade {
	return &photoService{
		cfg:        cfg,
		photoStore: photoStore,
		authorizer: authorizer,
	}
}

// Ensure photoService implements the PhotoSvcFacade interface
var _ portssvc.PhotoSvcFacade = (*photoService)(nil)

// UploadPhoto decodes an inline data-URI image, stores it under a path
// namespaced by the caller, and returns a long-lived signed URL. Clients save
// the URL verbatim on timesheet records.
func (s *photoService) UploadPhoto(ctx context.Context, requestingUserID string, req dto.UploadPhotoRequest) (*dto.UploadPhotoResponse, error) {
	if _, err := s.authorizer.RequireCaller(ctx, requestingUserID); err != nil {
		return nil, err
	}

	contentType, data, err := utils.DecodeDataURI(req.PhotoData)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusBadRequest, err.Error(), apperrors.ErrValidation)
	}
	if len(data) > maxPhotoBytes {
		return nil, apperrors.NewAppError(http.StatusBadRequest, "photo exceeds the maximum allowed size", apperrors.ErrValidation)
	}

	fileName := sanitizeFileName(req.FileName)
	if path.Ext(fileName) == "" {
		fileName += utils.ExtensionForContentType(contentType)
	}
	objectPath := fmt.Sprintf("%s/%d_%s", requestingUserID, time.Now().UnixMilli(), fileName)

	if err := s.photoStore.Upload(ctx, objectPath, contentType, data); err != nil {
		s.LogError(ctx, err, "Failed to upload photo",
			slog.String("object_path", objectPath))
		return nil, err
	}

	url, err := s.photoStore.SignedURL(ctx, objectPath, s.cfg.PhotoURLExpiry)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign photo URL",
			slog.String("object_path", objectPath))
		return nil, err
	}

	s.LogInfo(ctx, "Photo uploaded",
		slog.String("object_path", objectPath),
		slog.Int("size_bytes", len(data)))
	return &dto.UploadPhotoResponse{URL: url, Path: objectPath}, nil
}

// sanitizeFileName strips any path components and characters that have no
// business in an object name.
func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		out = "photo"
	}
	return out
}
