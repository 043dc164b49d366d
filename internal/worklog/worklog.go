package worklog

import (
	"context"
	"time"

	worklogDatamodel "github.com/workforcehq/workforce-management/internal/core/datamodel/worklog"
)

const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusBlocked    = "blocked"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusInProgress, StatusCompleted, StatusBlocked:
		return true
	}
	return false
}

// WorkLog is a single day's task entry. Date is a calendar day kept as an
// ISO string so entries compare and sort lexicographically.
type WorkLog struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employee_id"`
	Date            string    `json:"date"`
	TaskDescription string    `json:"task_description"`
	TimeSpent       float64   `json:"time_spent"`
	Status          string    `json:"status"`
	Project         string    `json:"project,omitempty"`
	Category        string    `json:"category,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	ManagerFeedback *string   `json:"manager_feedback"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Editable reports whether the log is still inside the edit window. The
// boundary is inclusive: at exactly the limit the log can still be edited.
func (w *WorkLog) Editable(now time.Time, window time.Duration) bool {
	return now.Sub(w.CreatedAt) <= window
}

type ListFilter struct {
	EmployeeID string
	StartDate  string
	EndDate    string
}

type Repository interface {
	Create(ctx context.Context, log *WorkLog) error
	GetByID(ctx context.Context, id string) (*WorkLog, error)
	ListByEmployee(ctx context.Context, filter ListFilter) ([]*WorkLog, error)
	ListAll(ctx context.Context, startDate, endDate string) ([]*WorkLog, error)
	Update(ctx context.Context, id string, apply func(*WorkLog) error) (*WorkLog, error)
}

// EditWindowProvider resolves the configured edit time limit. Backed by the
// settings repository.
type EditWindowProvider interface {
	EditWindow(ctx context.Context) (time.Duration, error)
}

func ToDataModel(w *WorkLog) worklogDatamodel.WorkLog {
	return worklogDatamodel.WorkLog{
		ID:              w.ID,
		EmployeeID:      w.EmployeeID,
		Date:            w.Date,
		TaskDescription: w.TaskDescription,
		TimeSpent:       w.TimeSpent,
		Status:          w.Status,
		Project:         w.Project,
		Category:        w.Category,
		Notes:           w.Notes,
		ManagerFeedback: w.ManagerFeedback,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func FromDataModel(w worklogDatamodel.WorkLog) *WorkLog {
	return &WorkLog{
		ID:              w.ID,
		EmployeeID:      w.EmployeeID,
		Date:            w.Date,
		TaskDescription: w.TaskDescription,
		TimeSpent:       w.TimeSpent,
		Status:          w.Status,
		Project:         w.Project,
		Category:        w.Category,
		Notes:           w.Notes,
		ManagerFeedback: w.ManagerFeedback,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}
