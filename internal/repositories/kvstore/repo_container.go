package kvstore

import (
	portsrepo "github.com/tmtrack/time_tracker_app/internal/core/ports/repositories"
	"github.com/tmtrack/time_tracker_app/internal/platform/kv"
)

// NewRepositoryProvider wires every entity repository onto one kv.Store.
func NewRepositoryProvider(store kv.Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		OrganizationRepo: newKVOrganizationRepository(store),
		UserRepo:         newKVUserRepository(store),
		ProjectRepo:      newKVProjectRepository(store),
		TimesheetRepo:    newKVTimesheetRepository(store),
		InviteCodeRepo:   newKVInviteCodeRepository(store),
	}
}
