package worklog

import (
	"strings"
	"time"

	"github.com/workforcehq/workforce-management/internal"
)

const dateLayout = "2006-01-02"

type CreateWorkLogDTO struct {
	Date            string  `json:"date"`
	TaskDescription string  `json:"task_description"`
	TimeSpent       float64 `json:"time_spent"`
	Status          string  `json:"status"`
	Project         string  `json:"project"`
	Category        string  `json:"category"`
	Notes           string  `json:"notes"`
}

func (dto *CreateWorkLogDTO) Validate() error {
	var fields []internal.FieldError

	dto.Date = strings.TrimSpace(dto.Date)
	if dto.Date == "" {
		fields = append(fields, internal.FieldError{Field: "date", Message: "date is required"})
	} else if _, err := time.Parse(dateLayout, dto.Date); err != nil {
		fields = append(fields, internal.FieldError{Field: "date", Message: "date must be formatted as YYYY-MM-DD"})
	}

	dto.TaskDescription = strings.TrimSpace(dto.TaskDescription)
	if dto.TaskDescription == "" {
		fields = append(fields, internal.FieldError{Field: "task_description", Message: "task_description is required"})
	}

	if dto.TimeSpent < 0 {
		fields = append(fields, internal.FieldError{Field: "time_spent", Message: "time_spent must not be negative"})
	}

	if dto.Status == "" {
		dto.Status = StatusInProgress
	} else if !ValidStatus(dto.Status) {
		fields = append(fields, internal.FieldError{Field: "status", Message: "status must be one of in_progress, completed, blocked"})
	}

	if len(fields) > 0 {
		return internal.NewValidationFieldErrors(fields)
	}
	return nil
}

type UpdateWorkLogDTO struct {
	Date            *string  `json:"date"`
	TaskDescription *string  `json:"task_description"`
	TimeSpent       *float64 `json:"time_spent"`
	Status          *string  `json:"status"`
	Project         *string  `json:"project"`
	Category        *string  `json:"category"`
	Notes           *string  `json:"notes"`
}

func (dto *UpdateWorkLogDTO) Validate() error {
	var fields []internal.FieldError

	if dto.Date != nil {
		if _, err := time.Parse(dateLayout, *dto.Date); err != nil {
			fields = append(fields, internal.FieldError{Field: "date", Message: "date must be formatted as YYYY-MM-DD"})
		}
	}
	if dto.TaskDescription != nil && strings.TrimSpace(*dto.TaskDescription) == "" {
		fields = append(fields, internal.FieldError{Field: "task_description", Message: "task_description must not be empty"})
	}
	if dto.TimeSpent != nil && *dto.TimeSpent < 0 {
		fields = append(fields, internal.FieldError{Field: "time_spent", Message: "time_spent must not be negative"})
	}
	if dto.Status != nil && !ValidStatus(*dto.Status) {
		fields = append(fields, internal.FieldError{Field: "status", Message: "status must be one of in_progress, completed, blocked"})
	}

	if len(fields) > 0 {
		return internal.NewValidationFieldErrors(fields)
	}
	return nil
}

type AddFeedbackDTO struct {
	Feedback string `json:"feedback"`
	Rating   *int   `json:"rating"`
}

func (dto *AddFeedbackDTO) Validate() error {
	var fields []internal.FieldError

	dto.Feedback = strings.TrimSpace(dto.Feedback)
	if dto.Feedback == "" {
		fields = append(fields, internal.FieldError{Field: "feedback", Message: "feedback is required"})
	}
	if dto.Rating != nil && (*dto.Rating < 1 || *dto.Rating > 5) {
		fields = append(fields, internal.FieldError{Field: "rating", Message: "rating must be between 1 and 5"})
	}

	if len(fields) > 0 {
		return internal.NewValidationFieldErrors(fields)
	}
	return nil
}

// WorkLogResponse wraps a log with the caller-specific can_edit flag.
type WorkLogResponse struct {
	*WorkLog
	CanEdit bool `json:"can_edit"`
}

type SummaryResponse struct {
	EmployeeID      string  `json:"employee_id"`
	TotalHours      float64 `json:"total_hours"`
	TotalLogs       int     `json:"total_logs"`
	CompletedTasks  int     `json:"completed_tasks"`
	InProgressTasks int     `json:"in_progress_tasks"`
	BlockedTasks    int     `json:"blocked_tasks"`
	PeriodStart     string  `json:"period_start,omitempty"`
	PeriodEnd       string  `json:"period_end,omitempty"`
}
