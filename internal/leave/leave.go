package leave

import (
	"context"
	"time"

	leaveDatamodel "github.com/workforcehq/workforce-management/internal/core/datamodel/leave"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// LeaveRequest is a pending-until-decided absence request. ManagerID is
// snapshotted from the employee record at creation so a later reporting-line
// change does not reroute an in-flight request. Dates are ISO day strings.
type LeaveRequest struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	LeaveType       string     `json:"leave_type"`
	Reason          string     `json:"reason,omitempty"`
	Status          string     `json:"status"`
	ManagerID       *string    `json:"manager_id"`
	ManagerComments *string    `json:"manager_comments"`
	ApprovedBy      *string    `json:"approved_by"`
	ApprovedAt      *time.Time `json:"approved_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Pending reports whether the request can still be changed. Approved and
// rejected are terminal.
func (l *LeaveRequest) Pending() bool {
	return l.Status == StatusPending
}

type Repository interface {
	Create(ctx context.Context, req *LeaveRequest) error
	GetByID(ctx context.Context, id string) (*LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID string, status string) ([]*LeaveRequest, error)
	ListPending(ctx context.Context, managerID string) ([]*LeaveRequest, error)
	Update(ctx context.Context, id string, apply func(*LeaveRequest) error) (*LeaveRequest, error)
}

func ToDataModel(l *LeaveRequest) leaveDatamodel.LeaveRequest {
	return leaveDatamodel.LeaveRequest{
		ID:              l.ID,
		EmployeeID:      l.EmployeeID,
		StartDate:       l.StartDate,
		EndDate:         l.EndDate,
		LeaveType:       l.LeaveType,
		Reason:          l.Reason,
		Status:          l.Status,
		ManagerID:       l.ManagerID,
		ManagerComments: l.ManagerComments,
		ApprovedBy:      l.ApprovedBy,
		ApprovedAt:      l.ApprovedAt,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func FromDataModel(l leaveDatamodel.LeaveRequest) *LeaveRequest {
	return &LeaveRequest{
		ID:              l.ID,
		EmployeeID:      l.EmployeeID,
		StartDate:       l.StartDate,
		EndDate:         l.EndDate,
		LeaveType:       l.LeaveType,
		Reason:          l.Reason,
		Status:          l.Status,
		ManagerID:       l.ManagerID,
		ManagerComments: l.ManagerComments,
		ApprovedBy:      l.ApprovedBy,
		ApprovedAt:      l.ApprovedAt,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}
