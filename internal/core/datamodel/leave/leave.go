package leave

import "time"

// LeaveRequest is the persisted record shape in the leave_requests
// collection. ManagerID is snapshotted from the employee at creation time so
// later reassignments do not reroute requests already in flight.
type LeaveRequest struct {
	ID              string     `json:"id"`
	EmployeeID      string     `json:"employee_id"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	LeaveType       string     `json:"leave_type"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	ManagerID       *string    `json:"manager_id"`
	ManagerComments *string    `json:"manager_comments"`
	ApprovedBy      *string    `json:"approved_by"`
	ApprovedAt      *time.Time `json:"approved_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
