package settings

import "time"

const SettingsID = "system_settings"

// Settings is the single configuration record. The settings collection holds
// exactly one element; the repository creates it with defaults on first read.
type Settings struct {
	ID                    string    `json:"id"`
	LogEditTimeLimitHours int       `json:"log_edit_time_limit_hours"`
	DefaultLeaveTypes     []string  `json:"default_leave_types"`
	DefaultTaskCategories []string  `json:"default_task_categories"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func Default(now time.Time) Settings {
	return Settings{
		ID:                    SettingsID,
		LogEditTimeLimitHours: 24,
		DefaultLeaveTypes:     []string{"Sick Leave", "Vacation", "Personal", "Maternity/Paternity"},
		DefaultTaskCategories: []string{"Development", "Testing", "Documentation", "Meetings", "Research"},
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}
