package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	portsrepo "github.com/tmtrack/time_tracker_app/internal/core/ports/repositories"
	"github.com/tmtrack/time_tracker_app/internal/models"
	"github.com/tmtrack/time_tracker_app/internal/platform/kv"
)

type KVTimesheetRepository struct {
	baseRepository
}

func newKVTimesheetRepository(store kv.Store) portsrepo.TimesheetRepositoryFacade {
	return &KVTimesheetRepository{baseRepository{store: store}}
}

var _ portsrepo.TimesheetRepositoryFacade = (*KVTimesheetRepository)(nil)

func toModelTimesheet(d domain.Timesheet) models.Timesheet {
	return models.Timesheet{
		TimesheetID:     d.TimesheetID,
		UserID:          d.UserID,
		ProjectID:       d.ProjectID,
		TaskName:        d.TaskName,
		StartTime:       d.StartTime,
		EndTime:         d.EndTime,
		DurationMinutes: d.DurationMinutes,
		Notes:           d.Notes,
		BeforePhotoURL:  d.BeforePhotoURL,
		AfterPhotoURL:   d.AfterPhotoURL,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

func toDomainTimesheet(m models.Timesheet) domain.Timesheet {
	return domain.Timesheet{
		TimesheetID:     m.TimesheetID,
		UserID:          m.UserID,
		ProjectID:       m.ProjectID,
		TaskName:        m.TaskName,
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		DurationMinutes: m.DurationMinutes,
		Notes:           m.Notes,
		BeforePhotoURL:  m.BeforePhotoURL,
		AfterPhotoURL:   m.AfterPhotoURL,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func (r *KVTimesheetRepository) SaveTimesheet(ctx context.Context, timesheet domain.Timesheet) error {
	return r.store.RunInTxn(ctx, func(ctx context.Context, tx kv.Txn) error {
		if err := tx.Set(ctx, timesheetKey(timesheet.TimesheetID), toModelTimesheet(timesheet)); err != nil {
			return fmt.Errorf("failed to save timesheet: %w", err)
		}
		if err := appendToIndex(ctx, tx, userTimesheetsIndexKey(timesheet.UserID), timesheet.TimesheetID); err != nil {
			return fmt.Errorf("failed to update user timesheet index: %w", err)
		}
		return nil
	})
}

func (r *KVTimesheetRepository) FindTimesheetByID(ctx context.Context, timesheetID string) (*domain.Timesheet, error) {
	var m models.Timesheet
	if err := r.store.Get(ctx, timesheetKey(timesheetID), &m); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find timesheet by ID %s: %w", timesheetID, err)
	}
	ts := toDomainTimesheet(m)
	return &ts, nil
}

func (r *KVTimesheetRepository) ListTimesheetsByUser(ctx context.Context, userID string) ([]domain.Timesheet, error) {
	return r.ListTimesheetsByUsers(ctx, []string{userID})
}

// ListTimesheetsByUsers loads every user's timesheet index, then batch
// fetches all referenced entries. Cost is O(total users x their entries);
// reports recompute from raw entries every time, there is no persisted
// aggregation.
func (r *KVTimesheetRepository) ListTimesheetsByUsers(ctx context.Context, userIDs []string) ([]domain.Timesheet, error) {
	var allIDs []string
	for _, userID := range userIDs {
		ids, err := r.readIndex(ctx, userTimesheetsIndexKey(userID))
		if err != nil {
			return nil, err
		}
		allIDs = append(allIDs, ids...)
	}

	keys := make([]string, len(allIDs))
	for i, id := range allIDs {
		keys[i] = timesheetKey(id)
	}
	raw, err := r.store.MultiGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to batch get timesheets: %w", err)
	}

	timesheets := make([]domain.Timesheet, 0, len(allIDs))
	for _, id := range allIDs {
		doc, ok := raw[timesheetKey(id)]
		if !ok {
			continue
		}
		var m models.Timesheet
		if err := jsonUnmarshal(doc, &m); err != nil {
			return nil, fmt.Errorf("failed to decode timesheet %s: %w", id, err)
		}
		timesheets = append(timesheets, toDomainTimesheet(m))
	}
	return timesheets, nil
}

func (r *KVTimesheetRepository) UpdateTimesheet(ctx context.Context, timesheet domain.Timesheet) error {
	if err := r.store.Set(ctx, timesheetKey(timesheet.TimesheetID), toModelTimesheet(timesheet)); err != nil {
		return fmt.Errorf("failed to update timesheet %s: %w", timesheet.TimesheetID, err)
	}
	return nil
}

func (r *KVTimesheetRepository) DeleteTimesheet(ctx context.Context, timesheet domain.Timesheet) error {
	return r.store.RunInTxn(ctx, func(ctx context.Context, tx kv.Txn) error {
		if err := tx.Delete(ctx, timesheetKey(timesheet.TimesheetID)); err != nil {
			return fmt.Errorf("failed to delete timesheet %s: %w", timesheet.TimesheetID, err)
		}
		if err := removeFromIndex(ctx, tx, userTimesheetsIndexKey(timesheet.UserID), timesheet.TimesheetID); err != nil {
			return fmt.Errorf("failed to update user timesheet index: %w", err)
		}
		return nil
	})
}
