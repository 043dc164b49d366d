package jsonstore

import (
	"context"
	"sort"
	"time"

	"github.com/workforcehq/workforce-management/internal"
	leaveDatamodel "github.com/workforcehq/workforce-management/internal/core/datamodel/leave"
	"github.com/workforcehq/workforce-management/internal/datastore"
	"github.com/workforcehq/workforce-management/internal/leave"
)

// LeaveRequestRepository implements leave.Repository on the record store.
type LeaveRequestRepository struct {
	store *datastore.Store
}

func NewLeaveRequestRepository(store *datastore.Store) leave.Repository {
	return &LeaveRequestRepository{store: store}
}

func (r *LeaveRequestRepository) Create(ctx context.Context, req *leave.LeaveRequest) error {
	return datastore.Update(ctx, r.store, datastore.LeaveRequests,
		func(items []leaveDatamodel.LeaveRequest) ([]leaveDatamodel.LeaveRequest, error) {
			return append(items, leave.ToDataModel(req)), nil
		})
}

func (r *LeaveRequestRepository) GetByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	var found *leave.LeaveRequest
	err := datastore.View(ctx, r.store, datastore.LeaveRequests,
		func(items []leaveDatamodel.LeaveRequest) error {
			for _, it := range items {
				if it.ID == id {
					found = leave.FromDataModel(it)
					return nil
				}
			}
			return internal.ErrLeaveRequestNotFound
		})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// ListByEmployee returns one employee's requests, newest first, optionally
// filtered by status.
func (r *LeaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string, status string) ([]*leave.LeaveRequest, error) {
	out := make([]*leave.LeaveRequest, 0)
	err := datastore.View(ctx, r.store, datastore.LeaveRequests,
		func(items []leaveDatamodel.LeaveRequest) error {
			for _, it := range items {
				if it.EmployeeID != employeeID {
					continue
				}
				if status != "" && it.Status != status {
					continue
				}
				out = append(out, leave.FromDataModel(it))
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ListPending returns pending requests, oldest first so approvers work the
// queue in arrival order. An empty managerID means all pending requests.
func (r *LeaveRequestRepository) ListPending(ctx context.Context, managerID string) ([]*leave.LeaveRequest, error) {
	out := make([]*leave.LeaveRequest, 0)
	err := datastore.View(ctx, r.store, datastore.LeaveRequests,
		func(items []leaveDatamodel.LeaveRequest) error {
			for _, it := range items {
				if it.Status != leave.StatusPending {
					continue
				}
				if managerID != "" && (it.ManagerID == nil || *it.ManagerID != managerID) {
					continue
				}
				out = append(out, leave.FromDataModel(it))
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *LeaveRequestRepository) Update(ctx context.Context, id string, apply func(*leave.LeaveRequest) error) (*leave.LeaveRequest, error) {
	var updated *leave.LeaveRequest
	err := datastore.Update(ctx, r.store, datastore.LeaveRequests,
		func(items []leaveDatamodel.LeaveRequest) ([]leaveDatamodel.LeaveRequest, error) {
			idx := -1
			for i, it := range items {
				if it.ID == id {
					idx = i
					break
				}
			}
			if idx == -1 {
				return nil, internal.ErrLeaveRequestNotFound
			}

			cur := leave.FromDataModel(items[idx])
			origID, origCreated := cur.ID, cur.CreatedAt
			if err := apply(cur); err != nil {
				return nil, err
			}
			if cur.ID != origID || !cur.CreatedAt.Equal(origCreated) {
				return nil, internal.ErrImmutableField
			}
			cur.UpdatedAt = time.Now().UTC()

			items[idx] = leave.ToDataModel(cur)
			updated = cur
			return items, nil
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
