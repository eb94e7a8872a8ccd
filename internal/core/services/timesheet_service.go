package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	portsrepo "github.com/tmtrack/time_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/tmtrack/time_tracker_app/internal/core/ports/services"
	"github.com/tmtrack/time_tracker_app/internal/dto"
)

// timesheetService implements the TimesheetSvcFacade interface
type timesheetService struct {
	BaseService
	timesheetRepo portsrepo.TimesheetRepositoryFacade
	projectRepo   portsrepo.ProjectReader
	authorizer    portssvc.CallerAuthorizerSvc
}

// NewTimesheetService creates a new timesheet service with the provided dependencies
func NewTimesheetService(
	timesheetRepo portsrepo.TimesheetRepositoryFacade,
	projectRepo portsrepo.ProjectReader,
	authorizer portssvc.CallerAuthorizerSvc,
) portssvc.TimesheetSvcFacade {
	return &timesheetService{
		timesheetRepo: timesheetRepo,
		projectRepo:   projectRepo,
		authorizer:    authorizer,
	}
}

// Ensure timesheetService implements the TimesheetSvcFacade interface
var _ portssvc.TimesheetSvcFacade = (*timesheetService)(nil)

// CreateTimesheet records a new entry owned by the caller. The project must
// exist in the caller's organization; the supplied duration must be positive.
func (s *timesheetService) CreateTimesheet(ctx context.Context, requestingUserID string, req dto.CreateTimesheetRequest) (*domain.Timesheet, error) {
	caller, err := s.authorizer.RequireCaller(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if caller.OrganizationID == nil {
		return nil, apperrors.ErrForbidden
	}

	if req.DurationMinutes <= 0 {
		return nil, apperrors.NewAppError(http.StatusBadRequest, "duration must be positive", apperrors.ErrValidation)
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, apperrors.NewAppError(http.StatusBadRequest, "endTime must be after startTime", apperrors.ErrValidation)
	}

	project, err := s.projectRepo.FindProjectByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewAppError(http.StatusBadRequest, "project not found", apperrors.ErrValidation)
		}
		return nil, err
	}
	if !caller.BelongsTo(project.OrganizationID) {
		return nil, apperrors.ErrForbidden
	}

	now := time.Now()
	ts := domain.Timesheet{
		TimesheetID:     uuid.NewString(),
		UserID:          requestingUserID,
		ProjectID:       req.ProjectID,
		TaskName:        req.TaskName,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
		BeforePhotoURL:  req.BeforePhotoURL,
		AfterPhotoURL:   req.AfterPhotoURL,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	if err := s.timesheetRepo.SaveTimesheet(ctx, ts); err != nil {
		s.LogError(ctx, err, "Failed to save timesheet",
			slog.String("timesheet_id", ts.TimesheetID))
		return nil, err
	}

	s.LogInfo(ctx, "Timesheet created",
		slog.String("timesheet_id", ts.TimesheetID),
		slog.String("project_id", ts.ProjectID))
	return &ts, nil
}

// ListMyTimesheets lists the caller's own entries, newest first.
func (s *timesheetService) ListMyTimesheets(ctx context.Context, requestingUserID string, filter dto.TimesheetFilter) ([]domain.Timesheet, error) {
	timesheets, err := s.timesheetRepo.ListTimesheetsByUser(ctx, requestingUserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list timesheets",
			slog.String("user_id", requestingUserID))
		return nil, err
	}

	filtered := make([]domain.Timesheet, 0, len(timesheets))
	for i := range timesheets {
		if filter.Matches(&timesheets[i]) {
			filtered = append(filtered, timesheets[i])
		}
	}
	sortTimesheetsNewestFirst(filtered)
	return filtered, nil
}

// GetTimesheet retrieves one entry. Visible to the owner and to admins of
// the owner's organization.
func (s *timesheetService) GetTimesheet(ctx context.Context, requestingUserID, timesheetID string) (*domain.Timesheet, error) {
	ts, err := s.timesheetRepo.FindTimesheetByID(ctx, timesheetID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find timesheet",
				slog.String("timesheet_id", timesheetID))
		}
		return nil, err
	}

	if ts.UserID == requestingUserID {
		return ts, nil
	}

	caller, err := s.authorizer.RequireCaller(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.FindProjectByID(ctx, ts.ProjectID)
	if err == nil && caller.IsAdmin() && caller.BelongsTo(project.OrganizationID) {
		return ts, nil
	}
	return nil, apperrors.ErrForbidden
}

// UpdateTimesheet applies a partial update to an entry owned by the caller.
// The duration is recomputed from the effective start/end times; the owning
// user never changes.
func (s *timesheetService) UpdateTimesheet(ctx context.Context, requestingUserID, timesheetID string, req dto.UpdateTimesheetRequest) (*domain.Timesheet, error) {
	ts, err := s.timesheetRepo.FindTimesheetByID(ctx, timesheetID)
	if err != nil {
		return nil, err
	}
	if ts.UserID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}

	if req.ProjectID != nil {
		caller, err := s.authorizer.RequireCaller(ctx, requestingUserID)
		if err != nil {
			return nil, err
		}
		project, err := s.projectRepo.FindProjectByID(ctx, *req.ProjectID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewAppError(http.StatusBadRequest, "project not found", apperrors.ErrValidation)
			}
			return nil, err
		}
		if !caller.BelongsTo(project.OrganizationID) {
			return nil, apperrors.ErrForbidden
		}
		ts.ProjectID = *req.ProjectID
	}
	if req.TaskName != nil {
		ts.TaskName = *req.TaskName
	}
	if req.StartTime != nil {
		ts.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		ts.EndTime = *req.EndTime
	}
	if req.Notes != nil {
		ts.Notes = *req.Notes
	}
	if req.BeforePhotoURL != nil {
		ts.BeforePhotoURL = req.BeforePhotoURL
	}
	if req.AfterPhotoURL != nil {
		ts.AfterPhotoURL = req.AfterPhotoURL
	}

	if req.StartTime != nil || req.EndTime != nil {
		if !ts.EndTime.After(ts.StartTime) {
			return nil, apperrors.NewAppError(http.StatusBadRequest, "endTime must be after startTime", apperrors.ErrValidation)
		}
		ts.DurationMinutes = ts.ComputeDurationMinutes()
		if ts.DurationMinutes <= 0 {
			return nil, apperrors.NewAppError(http.StatusBadRequest, "duration must be positive", apperrors.ErrValidation)
		}
	}

	ts.LastUpdatedAt = time.Now()
	ts.LastUpdatedBy = requestingUserID

	if err := s.timesheetRepo.UpdateTimesheet(ctx, *ts); err != nil {
		s.LogError(ctx, err, "Failed to update timesheet",
			slog.String("timesheet_id", timesheetID))
		return nil, err
	}

	s.LogInfo(ctx, "Timesheet updated", slog.String("timesheet_id", timesheetID))
	return ts, nil
}

// DeleteTimesheet removes an entry owned by the caller.
func (s *timesheetService) DeleteTimesheet(ctx context.Context, requestingUserID, timesheetID string) error {
	ts, err := s.timesheetRepo.FindTimesheetByID(ctx, timesheetID)
	if err != nil {
		return err
	}
	if ts.UserID != requestingUserID {
		return apperrors.ErrForbidden
	}

	if err := s.timesheetRepo.DeleteTimesheet(ctx, *ts); err != nil {
		s.LogError(ctx, err, "Failed to delete timesheet",
			slog.String("timesheet_id", timesheetID))
		return err
	}

	s.LogInfo(ctx, "Timesheet deleted", slog.String("timesheet_id", timesheetID))
	return nil
}

func sortTimesheetsNewestFirst(timesheets []domain.Timesheet) {
	sort.SliceStable(timesheets, func(i, j int) bool {
		return timesheets[i].StartTime.After(timesheets[j].StartTime)
	})
}
