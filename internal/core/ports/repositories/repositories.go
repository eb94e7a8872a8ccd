package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	OrganizationRepo OrganizationRepositoryFacade
	UserRepo         UserRepositoryFacade
	ProjectRepo      ProjectRepositoryFacade
	TimesheetRepo    TimesheetRepositoryFacade
	InviteCodeRepo   InviteCodeRepositoryFacade
}
