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

// inviteCodeHandler handles HTTP requests related to invite codes.
type inviteCodeHandler struct {
	inviteCodeService portssvc.InviteCodeSvcFacade
}

// newInviteCodeHandler creates a new inviteCodeHandler.
func newInviteCodeHandler(ics portssvc.InviteCodeSvcFacade) *inviteCodeHandler {
	return &inviteCodeHandler{inviteCodeService: ics}
}

// ToggleInviteCodeRequest is the body for activating or deactivating a code.
type ToggleInviteCodeRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// RegisterInviteCodeRoutes registers the admin-facing invite code management
// routes.
func RegisterInviteCodeRoutes(rg *gin.RouterGroup, inviteCodeService portssvc.InviteCodeSvcFacade) {
	h := newInviteCodeHandler(inviteCodeService)

	codes := rg.Group("/invite-codes")
	{
		codes.POST("", h.createInviteCode)
		codes.PUT("/:code_id/toggle", h.toggleInviteCode)
		codes.DELETE("/:code_id", h.deleteInviteCode)
	}
}

// registerOrgInviteCodeRoutes registers the organization-nested listing route.
func registerOrgInviteCodeRoutes(orgGroup *gin.RouterGroup, inviteCodeService portssvc.InviteCodeSvcFacade) {
	h := newInviteCodeHandler(inviteCodeService)
	orgGroup.GET("/invite-codes", h.listInviteCodes)
}

// registerVerifyInviteCodeRoute registers the public validity check. It sits
// outside the authenticated group; prospective members hit it before they
// have an account.
func registerVerifyInviteCodeRoute(r *gin.Engine, inviteCodeService portssvc.InviteCodeSvcFacade, publicMiddleware ...gin.HandlerFunc) {
	h := newInviteCodeHandler(inviteCodeService)
	r.POST("/api/v1/verify-invite-code", append(publicMiddleware, h.verifyInviteCode)...)
	r.GET("/api/v1/verify-invite-code/:code", append(publicMiddleware, h.verifyInviteCodeByPath)...)
}

// createInviteCode godoc
// @Summary Create an invite code
// @Description Mints a new invite code for the admin's organization.
// @Tags invite-codes
// @Accept json
// @Produce json
// @Param invite_code body dto.CreateInviteCodeRequest true "Expiry and usage limits"
// @Success 201 {object} dto.InviteCodeResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /invite-codes [post]
func (h *inviteCodeHandler) createInviteCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateInviteCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	code, err := h.inviteCodeService.CreateInviteCode(c.Request.Context(), callerID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		default:
			logger.Error("Failed to create invite code", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invite code"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToInviteCodeResponse(code))
}

// listInviteCodes godoc
// @Summary List an organization's invite codes
// @Description Returns every invite code the organization has issued. Admin only.
// @Tags invite-codes
// @Produce json
// @Param org_id path string true "Organization ID"
// @Success 200 {object} dto.ListInviteCodesResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /organizations/{org_id}/invite-codes [get]
func (h *inviteCodeHandler) listInviteCodes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	codes, err := h.inviteCodeService.ListInviteCodes(c.Request.Context(), callerID, c.Param("org_id"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		default:
			logger.Error("Failed to list invite codes", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list invite codes"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListInviteCodesResponse(codes))
}

// toggleInviteCode godoc
// @Summary Activate or deactivate an invite code
// @Description Sets a code active or inactive. Repeating the current state is a no-op.
// @Tags invite-codes
// @Accept json
// @Produce json
// @Param code_id path string true "Invite code ID"
// @Param toggle body ToggleInviteCodeRequest true "Desired state"
// @Success 200 {object} dto.InviteCodeResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Invite code not found"
// @Security BearerAuth
// @Router /invite-codes/{code_id}/toggle [put]
func (h *inviteCodeHandler) toggleInviteCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req ToggleInviteCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	code, err := h.inviteCodeService.ToggleInviteCode(c.Request.Context(), callerID, c.Param("code_id"), *req.IsActive)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invite code not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		default:
			logger.Error("Failed to toggle invite code", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle invite code"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToInviteCodeResponse(code))
}

// deleteInviteCode godoc
// @Summary Delete an invite code
// @Description Removes a code. Users who already redeemed it are unaffected.
// @Tags invite-codes
// @Produce json
// @Param code_id path string true "Invite code ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Invite code not found"
// @Security BearerAuth
// @Router /invite-codes/{code_id} [delete]
func (h *inviteCodeHandler) deleteInviteCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	err := h.inviteCodeService.DeleteInviteCode(c.Request.Context(), callerID, c.Param("code_id"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Invite code not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		default:
			logger.Error("Failed to delete invite code", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete invite code"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// verifyInviteCode godoc
// @Summary Verify an invite code
// @Description Public validity check for an invite code. Valid codes disclose the organization name.
// @Tags invite-codes
// @Accept json
// @Produce json
// @Param code body dto.VerifyInviteCodeRequest true "Code to verify"
// @Success 200 {object} dto.VerifyInviteCodeResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Router /verify-invite-code [post]
func (h *inviteCodeHandler) verifyInviteCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.VerifyInviteCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.inviteCodeService.VerifyInviteCode(c.Request.Context(), req.Code)
	if err != nil {
		logger.Error("Failed to verify invite code", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify invite code"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// verifyInviteCodeByPath godoc
// @Summary Verify an invite code by path
// @Description Public validity check with the code in the URL path.
// @Tags invite-codes
// @Produce json
// @Param code path string true "Code to verify"
// @Success 200 {object} dto.VerifyInviteCodeResponse
// @Router /verify-invite-code/{code} [get]
func (h *inviteCodeHandler) verifyInviteCodeByPath(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	resp, err := h.inviteCodeService.VerifyInviteCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		logger.Error("Failed to verify invite code", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify invite code"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
