package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	portsrepo "github.com/tmtrack/time_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/tmtrack/time_tracker_app/internal/core/ports/services"
	"github.com/tmtrack/time_tracker_app/internal/dto"
)

// minutesPerHour converts aggregated minutes into decimal hours.
var minutesPerHour = decimal.NewFromInt(60)

// reportingService implements the ReportingSvcFacade interface
type reportingService struct {
	BaseService
	userRepo      portsrepo.UserReader
	projectRepo   portsrepo.ProjectReader
	timesheetRepo portsrepo.TimesheetReader
	authorizer    portssvc.CallerAuthorizerSvc
}

// NewReportingService creates a new reporting service with the provided dependencies
func NewReportingService(
	userRepo portsrepo.UserReader,
	projectRepo portsrepo.ProjectReader,
	timesheetRepo portsrepo.TimesheetReader,
	authorizer portssvc.CallerAuthorizerSvc,
) portssvc.ReportingSvcFacade {
	return &reportingService{
		userRepo:      userRepo,
		projectRepo:   projectRepo,
		timesheetRepo: timesheetRepo,
		authorizer:    authorizer,
	}
}

// Ensure reportingService implements the ReportingSvcFacade interface
var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// OrganizationTimesheetReport aggregates timesheet entries across every
// member of the organization. Totals are recomputed from the raw entries on
// every request; nothing is cached or stored.
func (s *reportingService) OrganizationTimesheetReport(ctx context.Context, requestingUserID, orgID string, filter dto.TimesheetFilter) (*dto.OrgTimesheetReport, error) {
	if _, err := s.authorizer.RequireOrgAdmin(ctx, requestingUserID, orgID); err != nil {
		return nil, err
	}

	users, err := s.userRepo.FindUsersByOrganization(ctx, orgID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list organization users for report",
			slog.String("organization_id", orgID))
		return nil, err
	}

	userIDs := make([]string, len(users))
	namesByUser := make(map[string]string, len(users))
	for i := range users {
		userIDs[i] = users[i].UserID
		namesByUser[users[i].UserID] = users[i].Name
	}

	timesheets, err := s.timesheetRepo.ListTimesheetsByUsers(ctx, userIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch timesheets for report",
			slog.String("organization_id", orgID))
		return nil, fmt.Errorf("failed to fetch timesheets for report: %w", err)
	}

	filtered := make([]domain.Timesheet, 0, len(timesheets))
	for i := range timesheets {
		if filter.Matches(&timesheets[i]) {
			filtered = append(filtered, timesheets[i])
		}
	}
	sortTimesheetsNewestFirst(filtered)

	projectNames, err := s.projectNamesByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	report := &dto.OrgTimesheetReport{
		OrganizationID: orgID,
		Timesheets:     make([]dto.TimesheetResponse, 0, len(filtered)),
	}

	userTotals := make(map[string]*dto.UserTimesheetTotal)
	projectTotals := make(map[string]*dto.ProjectTimesheetTotal)
	totalMinutes := 0

	for i := range filtered {
		ts := &filtered[i]
		report.Timesheets = append(report.Timesheets, dto.ToTimesheetResponse(ts))
		totalMinutes += ts.DurationMinutes

		ut, ok := userTotals[ts.UserID]
		if !ok {
			ut = &dto.UserTimesheetTotal{
				UserID:   ts.UserID,
				UserName: namesByUser[ts.UserID],
			}
			userTotals[ts.UserID] = ut
		}
		ut.EntryCount++
		ut.TotalMinutes += ts.DurationMinutes

		pt, ok := projectTotals[ts.ProjectID]
		if !ok {
			pt = &dto.ProjectTimesheetTotal{
				ProjectID:   ts.ProjectID,
				ProjectName: projectNames[ts.ProjectID],
			}
			projectTotals[ts.ProjectID] = pt
		}
		pt.EntryCount++
		pt.TotalMinutes += ts.DurationMinutes
	}

	report.UserTotals = make([]dto.UserTimesheetTotal, 0, len(userTotals))
	for _, ut := range userTotals {
		ut.TotalHours = minutesToHours(ut.TotalMinutes)
		report.UserTotals = append(report.UserTotals, *ut)
	}
	sort.Slice(report.UserTotals, func(i, j int) bool {
		return report.UserTotals[i].TotalMinutes > report.UserTotals[j].TotalMinutes
	})

	report.ProjectTotals = make([]dto.ProjectTimesheetTotal, 0, len(projectTotals))
	for _, pt := range projectTotals {
		pt.TotalHours = minutesToHours(pt.TotalMinutes)
		report.ProjectTotals = append(report.ProjectTotals, *pt)
	}
	sort.Slice(report.ProjectTotals, func(i, j int) bool {
		return report.ProjectTotals[i].TotalMinutes > report.ProjectTotals[j].TotalMinutes
	})

	report.TotalMinutes = totalMinutes
	report.TotalHours = minutesToHours(totalMinutes)

	s.LogInfo(ctx, "Organization timesheet report generated",
		slog.String("organization_id", orgID),
		slog.Int("entry_count", len(filtered)))
	return report, nil
}

// OrganizationTimesheetCSV exports the filtered entries as CSV. Admin only.
func (s *reportingService) OrganizationTimesheetCSV(ctx context.Context, requestingUserID, orgID string, filter dto.TimesheetFilter) ([]byte, error) {
	report, err := s.OrganizationTimesheetReport(ctx, requestingUserID, orgID, filter)
	if err != nil {
		return nil, err
	}

	userNames := make(map[string]string, len(report.UserTotals))
	for _, ut := range report.UserTotals {
		userNames[ut.UserID] = ut.UserName
	}
	projectNames := make(map[string]string, len(report.ProjectTotals))
	for _, pt := range report.ProjectTotals {
		projectNames[pt.ProjectID] = pt.ProjectName
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"User", "Project", "Task", "Start Time", "End Time", "Duration (minutes)", "Notes"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, ts := range report.Timesheets {
		row := []string{
			userNames[ts.UserID],
			projectNames[ts.ProjectID],
			ts.TaskName,
			ts.StartTime.Format(time.RFC3339),
			ts.EndTime.Format(time.RFC3339),
			strconv.Itoa(ts.DurationMinutes),
			ts.Notes,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// projectNamesByID maps the organization's project IDs to names. Deleted
// projects leave their IDs unresolved; the empty name is returned for those.
func (s *reportingService) projectNamesByID(ctx context.Context, orgID string) (map[string]string, error) {
	projects, err := s.projectRepo.ListProjectsByOrganization(ctx, orgID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list projects for report",
			slog.String("organization_id", orgID))
		return nil, err
	}
	names := make(map[string]string, len(projects))
	for i := range projects {
		names[projects[i].ProjectID] = projects[i].Name
	}
	return names, nil
}

func minutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).DivRound(minutesPerHour, 2)
}
