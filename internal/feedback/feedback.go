package feedback

import (
	"context"
	"time"

	feedbackDatamodel "github.com/workforcehq/workforce-management/internal/core/datamodel/feedback"
)

// Feedback is a manager's structured review of a work log entry. Records are
// write-once; there is no update path.
type Feedback struct {
	ID         string    `json:"id"`
	WorkLogID  string    `json:"work_log_id"`
	EmployeeID string    `json:"employee_id"`
	GivenBy    string    `json:"given_by"`
	Rating     *int      `json:"rating"`
	Comments   string    `json:"comments"`
	CreatedAt  time.Time `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, fb *Feedback) error
	ListByEmployee(ctx context.Context, employeeID string) ([]*Feedback, error)
	ListByWorkLog(ctx context.Context, workLogID string) ([]*Feedback, error)
	ListByGiver(ctx context.Context, givenBy string) ([]*Feedback, error)
}

func ToDataModel(f *Feedback) feedbackDatamodel.Feedback {
	return feedbackDatamodel.Feedback{
		ID:         f.ID,
		WorkLogID:  f.WorkLogID,
		EmployeeID: f.EmployeeID,
		GivenBy:    f.GivenBy,
		Rating:     f.Rating,
		Comments:   f.Comments,
		CreatedAt:  f.CreatedAt,
	}
}

func FromDataModel(f feedbackDatamodel.Feedback) *Feedback {
	return &Feedback{
		ID:         f.ID,
		WorkLogID:  f.WorkLogID,
		EmployeeID: f.EmployeeID,
		GivenBy:    f.GivenBy,
		Rating:     f.Rating,
		Comments:   f.Comments,
		CreatedAt:  f.CreatedAt,
	}
}
