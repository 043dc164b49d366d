package worklog

import "time"

// WorkLog is the persisted record shape in the work_logs collection.
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
