package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	portssvc "github.com/tmtrack/time_tracker_app/internal/core/ports/services"
	"github.com/tmtrack/time_tracker_app/internal/dto"
	"github.com/tmtrack/time_tracker_app/internal/middleware"
)

// timesheetHandler handles HTTP requests related to timesheet entries.
type timesheetHandler struct {
	timesheetService portssvc.TimesheetSvcFacade
}

// newTimesheetHandler creates a new timesheetHandler.
func newTimesheetHandler(ts portssvc.TimesheetSvcFacade) *timesheetHandler {
	return &timesheetHandler{timesheetService: ts}
}

// RegisterTimesheetRoutes registers routes related to timesheet entries.
func RegisterTimesheetRoutes(rg *gin.RouterGroup, timesheetService portssvc.TimesheetSvcFacade) {
	h := newTimesheetHandler(timesheetService)

	timesheets := rg.Group("/timesheets")
	{
		timesheets.POST("", h.createTimesheet)
		timesheets.GET("", h.listMyTimesheets)
		timesheets.GET("/:timesheet_id", h.getTimesheet)
		timesheets.PUT("/:timesheet_id", h.updateTimesheet)
		timesheets.DELETE("/:timesheet_id", h.deleteTimesheet)
	}
}

// parseTimesheetFilter reads the optional query parameters shared by the
// listing and reporting endpoints. Dates accept RFC3339 or plain YYYY-MM-DD.
func parseTimesheetFilter(c *gin.Context) (dto.TimesheetFilter, error) {
	var filter dto.TimesheetFilter

	if raw := c.Query("startDate"); raw != "" {
		t, err := parseFlexibleTime(raw)
		if err != nil {
			return filter, errors.New("invalid startDate")
		}
		filter.StartDate = &t
	}
	if raw := c.Query("endDate"); raw != "" {
		t, err := parseFlexibleTime(raw)
		if err != nil {
			return filter, errors.New("invalid endDate")
		}
		// A bare date means "through the end of that day".
		if len(raw) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		filter.EndDate = &t
	}
	filter.ProjectID = c.Query("projectId")
	filter.UserID = c.Query("userId")
	return filter, nil
}

func parseFlexibleTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// createTimesheet godoc
// @Summary Create a timesheet entry
// @Description Records a new entry owned by the caller.
// @Tags timesheets
// @Accept json
// @Produce json
// @Param timesheet body dto.CreateTimesheetRequest true "Entry details"
// @Success 201 {object} dto.TimesheetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /timesheets [post]
func (h *timesheetHandler) createTimesheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ts, err := h.timesheetService.CreateTimesheet(c.Request.Context(), callerID, req)
	if err != nil {
		respondTimesheetError(c, logger, err, "Failed to create timesheet")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTimesheetResponse(ts))
}

// listMyTimesheets godoc
// @Summary List the caller's timesheet entries
// @Description Lists the caller's own entries, newest first. Supports startDate, endDate and projectId query filters.
// @Tags timesheets
// @Produce json
// @Param startDate query string false "Earliest start time (RFC3339 or YYYY-MM-DD)"
// @Param endDate query string false "Latest start time (RFC3339 or YYYY-MM-DD)"
// @Param projectId query string false "Restrict to one project"
// @Success 200 {object} dto.ListTimesheetsResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Security BearerAuth
// @Router /timesheets [get]
func (h *timesheetHandler) listMyTimesheets(c *gin.Context) {
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
	// The listing is always scoped to the caller.
	filter.UserID = ""

	timesheets, err := h.timesheetService.ListMyTimesheets(c.Request.Context(), callerID, filter)
	if err != nil {
		respondTimesheetError(c, logger, err, "Failed to list timesheets")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTimesheetsResponse(timesheets))
}

// getTimesheet godoc
// @Summary Get a timesheet entry
// @Description Returns one entry. Visible to the owner and to admins of the owner's organization.
// @Tags timesheets
// @Produce json
// @Param timesheet_id path string true "Timesheet ID"
// @Success 200 {object} dto.TimesheetResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Timesheet not found"
// @Security BearerAuth
// @Router /timesheets/{timesheet_id} [get]
func (h *timesheetHandler) getTimesheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ts, err := h.timesheetService.GetTimesheet(c.Request.Context(), callerID, c.Param("timesheet_id"))
	if err != nil {
		respondTimesheetError(c, logger, err, "Failed to get timesheet")
		return
	}

	c.JSON(http.StatusOK, dto.ToTimesheetResponse(ts))
}

// updateTimesheet godoc
// @Summary Update a timesheet entry
// @Description Applies a partial update to an entry owned by the caller. Duration is recomputed from the effective times.
// @Tags timesheets
// @Accept json
// @Produce json
// @Param timesheet_id path string true "Timesheet ID"
// @Param timesheet body dto.UpdateTimesheetRequest true "Fields to update"
// @Success 200 {object} dto.TimesheetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Timesheet not found"
// @Security BearerAuth
// @Router /timesheets/{timesheet_id} [put]
func (h *timesheetHandler) updateTimesheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.UpdateTimesheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ts, err := h.timesheetService.UpdateTimesheet(c.Request.Context(), callerID, c.Param("timesheet_id"), req)
	if err != nil {
		respondTimesheetError(c, logger, err, "Failed to update timesheet")
		return
	}

	c.JSON(http.StatusOK, dto.ToTimesheetResponse(ts))
}

// deleteTimesheet godoc
// @Summary Delete a timesheet entry
// @Description Removes an entry owned by the caller.
// @Tags timesheets
// @Produce json
// @Param timesheet_id path string true "Timesheet ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Timesheet not found"
// @Security BearerAuth
// @Router /timesheets/{timesheet_id} [delete]
func (h *timesheetHandler) deleteTimesheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	callerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.timesheetService.DeleteTimesheet(c.Request.Context(), callerID, c.Param("timesheet_id")); err != nil {
		respondTimesheetError(c, logger, err, "Failed to delete timesheet")
		return
	}

	c.Status(http.StatusNoContent)
}

func respondTimesheetError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Timesheet not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": userFacingMessage(err, "Invalid request")})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
