package jsonstore

import (
	"context"
	"strings"
	"time"

	"github.com/workforcehq/workforce-management/internal"
	employeeDatamodel "github.com/workforcehq/workforce-management/internal/core/datamodel/employee"
	"github.com/workforcehq/workforce-management/internal/datastore"
	"github.com/workforcehq/workforce-management/internal/employee"
)

// EmployeeRepository implements employee.Repository on the record store.
type EmployeeRepository struct {
	store *datastore.Store
}

func NewEmployeeRepository(store *datastore.Store) employee.Repository {
	return &EmployeeRepository{store: store}
}

func (r *EmployeeRepository) Create(ctx context.Context, emp *employee.Employee) error {
	return datastore.Update(ctx, r.store, datastore.Employees,
		func(items []employeeDatamodel.Employee) ([]employeeDatamodel.Employee, error) {
			// Uniqueness has to be checked inside the lock or two concurrent
			// creates could both pass the check.
			for _, it := range items {
				if strings.EqualFold(it.Email, emp.Email) {
					return nil, internal.ErrEmailTaken
				}
			}
			return append(items, employee.ToDataModel(emp)), nil
		})
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	var found *employee.Employee
	err := datastore.View(ctx, r.store, datastore.Employees,
		func(items []employeeDatamodel.Employee) error {
			for _, it := range items {
				if it.ID == id {
					found = employee.FromDataModel(it)
					return nil
				}
			}
			return internal.ErrEmployeeNotFound
		})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	var found *employee.Employee
	err := datastore.View(ctx, r.store, datastore.Employees,
		func(items []employeeDatamodel.Employee) error {
			for _, it := range items {
				if strings.EqualFold(it.Email, email) {
					found = employee.FromDataModel(it)
					return nil
				}
			}
			return internal.ErrEmployeeNotFound
		})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *EmployeeRepository) List(ctx context.Context, includeInactive bool) ([]*employee.Employee, error) {
	out := make([]*employee.Employee, 0)
	err := datastore.View(ctx, r.store, datastore.Employees,
		func(items []employeeDatamodel.Employee) error {
			for _, it := range items {
				if !includeInactive && !it.IsActive {
					continue
				}
				out = append(out, employee.FromDataModel(it))
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, id string, apply func(*employee.Employee) error) (*employee.Employee, error) {
	var updated *employee.Employee
	err := datastore.Update(ctx, r.store, datastore.Employees,
		func(items []employeeDatamodel.Employee) ([]employeeDatamodel.Employee, error) {
			idx := -1
			for i, it := range items {
				if it.ID == id {
					idx = i
					break
				}
			}
			if idx == -1 {
				return nil, internal.ErrEmployeeNotFound
			}

			cur := employee.FromDataModel(items[idx])
			origID, origCreated := cur.ID, cur.CreatedAt
			if err := apply(cur); err != nil {
				return nil, err
			}
			if cur.ID != origID || !cur.CreatedAt.Equal(origCreated) {
				return nil, internal.ErrImmutableField
			}
			for i, it := range items {
				if i != idx && strings.EqualFold(it.Email, cur.Email) {
					return nil, internal.ErrEmailTaken
				}
			}
			cur.UpdatedAt = time.Now().UTC()

			items[idx] = employee.ToDataModel(cur)
			updated = cur
			return items, nil
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
