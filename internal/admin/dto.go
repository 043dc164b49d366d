package admin

import (
	"github.com/workforcehq/workforce-management/internal"
)

type DashboardStats struct {
	TotalEmployees       int     `json:"total_employees"`
	ActiveEmployees      int     `json:"active_employees"`
	PendingLeaveRequests int     `json:"pending_leave_requests"`
	RecentWorkLogs       int     `json:"recent_work_logs"`
	CompletionRate       float64 `json:"completion_rate"`
}

type UpdateSettingsDTO struct {
	LogEditTimeLimitHours *int      `json:"log_edit_time_limit_hours"`
	DefaultLeaveTypes     *[]string `json:"default_leave_types"`
	DefaultTaskCategories *[]string `json:"default_task_categories"`
}

func (dto *UpdateSettingsDTO) Validate() error {
	var fields []internal.FieldError

	if dto.LogEditTimeLimitHours != nil && *dto.LogEditTimeLimitHours < 1 {
		fields = append(fields, internal.FieldError{Field: "log_edit_time_limit_hours", Message: "log_edit_time_limit_hours must be at least 1"})
	}
	if dto.DefaultLeaveTypes != nil && len(*dto.DefaultLeaveTypes) == 0 {
		fields = append(fields, internal.FieldError{Field: "default_leave_types", Message: "default_leave_types must not be empty"})
	}
	if dto.DefaultTaskCategories != nil && len(*dto.DefaultTaskCategories) == 0 {
		fields = append(fields, internal.FieldError{Field: "default_task_categories", Message: "default_task_categories must not be empty"})
	}

	if len(fields) > 0 {
		return internal.NewValidationFieldErrors(fields)
	}
	return nil
}

type BulkCreateError struct {
	Row   int    `json:"row"`
	Email string `json:"email"`
	Error string `json:"error"`
}

type BulkCreateResult struct {
	Message            string            `json:"message"`
	Successful         int               `json:"successful"`
	Errors             int               `json:"errors"`
	CreatedEmployeeIDs []string          `json:"created_employee_ids"`
	ErrorDetails       []BulkCreateError `json:"error_details"`
}

type ReportFilter struct {
	StartDate  string
	EndDate    string
	Department string
}

type EmployeeProductivity struct {
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name"`
	Department      string  `json:"department,omitempty"`
	TotalHours      float64 `json:"total_hours"`
	TotalLogs       int     `json:"total_logs"`
	CompletedTasks  int     `json:"completed_tasks"`
	InProgressTasks int     `json:"in_progress_tasks"`
	BlockedTasks    int     `json:"blocked_tasks"`
	CompletionRate  float64 `json:"completion_rate"`
}

type ReportPeriod struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

type ReportSummary struct {
	TotalEmployees        int     `json:"total_employees"`
	TotalHours            float64 `json:"total_hours"`
	AverageCompletionRate float64 `json:"average_completion_rate"`
}

type ProductivityReport struct {
	ReportPeriod ReportPeriod           `json:"report_period"`
	Department   string                 `json:"department,omitempty"`
	Employees    []EmployeeProductivity `json:"employees"`
	Summary      ReportSummary          `json:"summary"`
}
