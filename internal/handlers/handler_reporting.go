package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	portssvc "github.com/tmtrack/time_tracker_app/internal/core/ports/services"
	"github.com/tmtrack/time_tracker_app/internal/middleware"
)

// reportingHandler handles HTTP requests for organization-wide reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers the organization-nested reporting routes.
func registerReportingRoutes(orgGroup *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	orgGroup.GET("/timesheets", h.organizationTimesheetReport)
	orgGroup.GET("/timesheets/export", h.exportOrganizationTimesheets)
}

// organizationTimesheetReport godoc
// @Summary Organization timesheet report
// @Description Aggregates timesheet entries across the organization's members with per-user and per-project totals. Admin only. Supports startDate, endDate, projectId and userId query filters.
// @Tags reporting
// @Produce json
// @Param org_id path string true "Organization ID"
// @Param startDate query string false "Earliest start time (RFC3339 or YYYY-MM-DD)"
// @Param endDate query string false "Latest start time (RFC3339 or YYYY-MM-DD)"
// @Param projectId query string false "Restrict to one project"
// @Param userId query string false "Restrict to one member"
// @Success 200 {object} dto.OrgTimesheetReport
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /organizations/{org_id}/timesheets [get]
func (h *reportingHandler) organizationTimesheetReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	filter, err := parseTimesheetFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportingService.OrganizationTimesheetReport(c.Request.Context(), callerID, c.Param("org_id"), filter)
	if err != nil {
		respondReportingError(c, logger, err, "Failed to generate report")
		return
	}

	c.JSON(http.StatusOK, report)
}

// exportOrganizationTimesheets godoc
// @Summary Export organization timesheets as CSV
// @Description Streams the filtered entries as a CSV attachment. Admin only.
// @Tags reporting
// @Produce text/csv
// @Param org_id path string true "Organization ID"
// @Param startDate query string false "Earliest start time (RFC3339 or YYYY-MM-DD)"
// @Param endDate query string false "Latest start time (RFC3339 or YYYY-MM-DD)"
// @Param projectId query string false "Restrict to one project"
// @Param userId query string false "Restrict to one member"
// @Success 200 {string} string "CSV data"
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /organizations/{org_id}/timesheets/export [get]
func (h *reportingHandler) exportOrganizationTimesheets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	filter, err := parseTimesheetFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := h.reportingService.OrganizationTimesheetCSV(c.Request.Context(), callerID, c.Param("org_id"), filter)
	if err != nil {
		respondReportingError(c, logger, err, "Failed to export timesheets")
		return
	}

	fileName := fmt.Sprintf("timesheets_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func respondReportingError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
