package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	portssvc "github.com/tmtrack/time_tracker_app/internal/core/ports/services"
	"github.com/tmtrack/time_tracker_app/internal/dto"
	"github.com/tmtrack/time_tracker_app/internal/middleware"
)

// photoHandler handles HTTP requests for photo uploads.
type photoHandler struct {
	photoService portssvc.PhotoSvcFacade
}

// newPhotoHandler creates a new photoHandler.
func newPhotoHandler(ps portssvc.PhotoSvcFacade) *photoHandler {
	return &photoHandler{photoService: ps}
}

// registerPhotoRoutes registers the photo upload route.
func registerPhotoRoutes(rg *gin.RouterGroup, photoService portssvc.PhotoSvcFacade) {
	h := newPhotoHandler(photoService)

	rg.POST("/upload-photo", h.uploadPhoto)
}

// uploadPhoto godoc
// @Summary Upload a photo
// @Description Accepts an inline base64 (optionally data-URI) encoded image, stores it in the photo bucket and returns a signed URL for it.
// @Tags photos
// @Accept json
// @Produce json
// @Param photo body dto.UploadPhotoRequest true "Photo payload"
// @Success 201 {object} dto.UploadPhotoResponse
// @Failure 400 {object} map[string]string "Invalid or oversized photo data"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /upload-photo [post]
func (h *photoHandler) uploadPhoto(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UploadPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	resp, err := h.photoService.UploadPhoto(c.Request.Context(), callerID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": userFacingMessage(err, "Invalid photo data")})
		case errors.Is(err, apperrors.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		default:
			logger.Error("Failed to upload photo", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}
