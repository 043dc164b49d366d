package jsonstore

import (
	"context"
	"sort"
	"time"

	"github.com/workforcehq/workforce-management/internal"
	worklogDatamodel "github.com/workforcehq/workforce-management/internal/core/datamodel/worklog"
	"github.com/workforcehq/workforce-management/internal/datastore"
	"github.com/workforcehq/workforce-management/internal/worklog"
)

// WorkLogRepository implements worklog.Repository on the record store.
type WorkLogRepository struct {
	store *datastore.Store
}

func NewWorkLogRepository(store *datastore.Store) worklog.Repository {
	return &WorkLogRepository{store: store}
}

func (r *WorkLogRepository) Create(ctx context.Context, log *worklog.WorkLog) error {
	return datastore.Update(ctx, r.store, datastore.WorkLogs,
		func(items []worklogDatamodel.WorkLog) ([]worklogDatamodel.WorkLog, error) {
			return append(items, worklog.ToDataModel(log)), nil
		})
}

func (r *WorkLogRepository) GetByID(ctx context.Context, id string) (*worklog.WorkLog, error) {
	var found *worklog.WorkLog
	err := datastore.View(ctx, r.store, datastore.WorkLogs,
		func(items []worklogDatamodel.WorkLog) error {
			for _, it := range items {
				if it.ID == id {
					found = worklog.FromDataModel(it)
					return nil
				}
			}
			return internal.ErrWorkLogNotFound
		})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// ListByEmployee returns logs for one employee, optionally bounded by date.
// ISO date strings compare lexicographically so the range check is a plain
// string comparison. Newest first.
func (r *WorkLogRepository) ListByEmployee(ctx context.Context, filter worklog.ListFilter) ([]*worklog.WorkLog, error) {
	out := make([]*worklog.WorkLog, 0)
	err := datastore.View(ctx, r.store, datastore.WorkLogs,
		func(items []worklogDatamodel.WorkLog) error {
			for _, it := range items {
				if it.EmployeeID != filter.EmployeeID {
					continue
				}
				if filter.StartDate != "" && it.Date < filter.StartDate {
					continue
				}
				if filter.EndDate != "" && it.Date > filter.EndDate {
					continue
				}
				out = append(out, worklog.FromDataModel(it))
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ListAll returns every log in the optional date range, unsorted. Used by
// organization-wide reporting.
func (r *WorkLogRepository) ListAll(ctx context.Context, startDate, endDate string) ([]*worklog.WorkLog, error) {
	out := make([]*worklog.WorkLog, 0)
	err := datastore.View(ctx, r.store, datastore.WorkLogs,
		func(items []worklogDatamodel.WorkLog) error {
			for _, it := range items {
				if startDate != "" && it.Date < startDate {
					continue
				}
				if endDate != "" && it.Date > endDate {
					continue
				}
				out = append(out, worklog.FromDataModel(it))
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *WorkLogRepository) Update(ctx context.Context, id string, apply func(*worklog.WorkLog) error) (*worklog.WorkLog, error) {
	var updated *worklog.WorkLog
	err := datastore.Update(ctx, r.store, datastore.WorkLogs,
		func(items []worklogDatamodel.WorkLog) ([]worklogDatamodel.WorkLog, error) {
			idx := -1
			for i, it := range items {
				if it.ID == id {
					idx = i
					break
				}
			}
			if idx == -1 {
				return nil, internal.ErrWorkLogNotFound
			}

			cur := worklog.FromDataModel(items[idx])
			origID, origCreated := cur.ID, cur.CreatedAt
			if err := apply(cur); err != nil {
				return nil, err
			}
			if cur.ID != origID || !cur.CreatedAt.Equal(origCreated) {
				return nil, internal.ErrImmutableField
			}
			cur.UpdatedAt = time.Now().UTC()

			items[idx] = worklog.ToDataModel(cur)
			updated = cur
			return items, nil
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
