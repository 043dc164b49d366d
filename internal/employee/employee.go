package employee

import (
	"context"
	"time"

	employeeDatamodel "github.com/workforcehq/workforce-management/internal/core/datamodel/employee"
)

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

func ValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

type Employee struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         string    `json:"role"`
	ManagerID    *string   `json:"manager_id"`
	Department   string    `json:"department,omitempty"`
	Position     string    `json:"position,omitempty"`
	HireDate     string    `json:"hire_date"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

func (e *Employee) IsManagerOrAdmin() bool {
	return e.Role == RoleManager || e.Role == RoleAdmin
}

// CanManage reports whether e can supervise records: a manager or admin role
// is required for anyone referenced as manager_id.
func (e *Employee) CanManage() bool {
	return e.IsManagerOrAdmin()
}

// CanAccess reports whether e may read targetID's data: self, direct
// manager of the target, or admin.
func (e *Employee) CanAccess(target *Employee) bool {
	if e.IsAdmin() || e.ID == target.ID {
		return true
	}
	return e.Role == RoleManager && target.ManagerID != nil && *target.ManagerID == e.ID
}

// Repository is the typed access layer over the employees collection. All
// mutations run inside the collection lock; reads observe a consistent
// snapshot.
type Repository interface {
	Create(ctx context.Context, emp *Employee) error
	GetByID(ctx context.Context, id string) (*Employee, error)
	GetByEmail(ctx context.Context, email string) (*Employee, error)
	List(ctx context.Context, includeInactive bool) ([]*Employee, error)
	// Update loads the record under lock, applies fn and persists the
	// result. id and created_at are immutable; updated_at is recomputed.
	Update(ctx context.Context, id string, apply func(*Employee) error) (*Employee, error)
}

func ToDataModel(e *Employee) employeeDatamodel.Employee {
	return employeeDatamodel.Employee{
		ID:           e.ID,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Role:         e.Role,
		ManagerID:    e.ManagerID,
		Department:   e.Department,
		Position:     e.Position,
		HireDate:     e.HireDate,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func FromDataModel(e employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:           e.ID,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Role:         e.Role,
		ManagerID:    e.ManagerID,
		Department:   e.Department,
		Position:     e.Position,
		HireDate:     e.HireDate,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
