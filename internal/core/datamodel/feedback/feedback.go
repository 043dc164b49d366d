package feedback

import "time"

// Feedback is the persisted record shape in the feedback collection.
// Records are write-once: there is no updated_at because feedback is never
// edited after creation.
type Feedback struct {
	ID         string    `json:"id"`
	WorkLogID  string    `json:"work_log_id"`
	EmployeeID string    `json:"employee_id"`
	GivenBy    string    `json:"given_by"`
	Rating     *int      `json:"rating"`
	Comments   string    `json:"comments"`
	CreatedAt  time.Time `json:"created_at"`
}
