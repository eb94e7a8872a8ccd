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

// organizationHandler handles HTTP requests related to organizations.
type organizationHandler struct {
	orgService  portssvc.OrganizationSvcFacade
	userService portssvc.UserSvcFacade
}

// newOrganizationHandler creates a new organizationHandler.
func newOrganizationHandler(os portssvc.OrganizationSvcFacade, us portssvc.UserSvcFacade) *organizationHandler {
	return &organizationHandler{orgService: os, userService: us}
}

// registerOrganizationRoutes registers routes related to organizations and
// their members. Reporting and invite code listings nest under the same
// organization-specific group.
func registerOrganizationRoutes(
	rg *gin.RouterGroup,
	orgService portssvc.OrganizationSvcFacade,
	userService portssvc.UserSvcFacade,
	inviteCodeService portssvc.InviteCodeSvcFacade,
	reportingService portssvc.ReportingSvcFacade,
) {
	h := newOrganizationHandler(orgService, userService)

	orgSpecific := rg.Group("/organizations/:org_id")
	{
		orgSpecific.GET("", h.getOrganization)
		orgSpecific.GET("/users", h.listOrganizationUsers)

		registerReportingRoutes(orgSpecific, reportingService)
		registerOrgInviteCodeRoutes(orgSpecific, inviteCodeService)
	}
}

// getOrganization godoc
// @Summary Get an organization
// @Description Returns the organization the caller belongs to.
// @Tags organizations
// @Produce json
// @Param org_id path string true "Organization ID"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Organization not found"
// @Security BearerAuth
// @Router /organizations/{org_id} [get]
func (h *organizationHandler) getOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	org, err := h.orgService.GetOrganization(c.Request.Context(), callerID, c.Param("org_id"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		default:
			logger.Error("Failed to get organization", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get organization"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// listOrganizationUsers godoc
// @Summary List organization members
// @Description Returns every member of the caller's organization.
// @Tags organizations
// @Produce json
// @Param org_id path string true "Organization ID"
// @Success 200 {object} dto.ListUsersResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /organizations/{org_id}/users [get]
func (h *organizationHandler) listOrganizationUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	users, err := h.userService.ListOrganizationUsers(c.Request.Context(), callerID, c.Param("org_id"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		case errors.Is(err, apperrors.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		default:
			logger.Error("Failed to list organization users", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToListUsersResponse(users))
}
