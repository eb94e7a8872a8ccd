package services

import (
	portsrepo "github.com/tmtrack/time_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/tmtrack/time_tracker_app/internal/core/ports/services"
	"github.com/tmtrack/time_tracker_app/internal/core/ports/storage"
	"github.com/tmtrack/time_tracker_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, photoStore storage.PhotoStore) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Initialize the user service first since most services authorize
	// through it
	container.User = NewUserService(repos.UserRepo)
	authorizer := container.User.(portssvc.CallerAuthorizerSvc)

	container.Organization = NewOrganizationService(repos.OrganizationRepo, authorizer)
	container.Project = NewProjectService(repos.ProjectRepo, authorizer)
	container.Timesheet = NewTimesheetService(repos.TimesheetRepo, repos.ProjectRepo, authorizer)
	container.InviteCode = NewInviteCodeService(repos.InviteCodeRepo, repos.OrganizationRepo, authorizer)
	container.Reporting = NewReportingService(repos.UserRepo, repos.ProjectRepo, repos.TimesheetRepo, authorizer)
	container.Photo = NewPhotoService(cfg, photoStore, authorizer)

	container.Auth = NewAuthService(repos.UserRepo, repos.OrganizationRepo, repos.InviteCodeRepo)
	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
