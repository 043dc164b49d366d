package settings

import (
	"context"
	"time"

	settingsDatamodel "github.com/workforcehq/workforce-management/internal/core/datamodel/settings"
)

// Settings is the single system configuration record.
type Settings struct {
	ID                    string    `json:"id"`
	LogEditTimeLimitHours int       `json:"log_edit_time_limit_hours"`
	DefaultLeaveTypes     []string  `json:"default_leave_types"`
	DefaultTaskCategories []string  `json:"default_task_categories"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// Repository reads and mutates the one settings record, creating it with
// defaults on first access. EditWindow is the hot path used on every work
// log edit.
type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, apply func(*Settings) error) (*Settings, error)
	EditWindow(ctx context.Context) (time.Duration, error)
}

func ToDataModel(s *Settings) settingsDatamodel.Settings {
	return settingsDatamodel.Settings{
		ID:                    s.ID,
		LogEditTimeLimitHours: s.LogEditTimeLimitHours,
		DefaultLeaveTypes:     s.DefaultLeaveTypes,
		DefaultTaskCategories: s.DefaultTaskCategories,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

func FromDataModel(s settingsDatamodel.Settings) *Settings {
	return &Settings{
		ID:                    s.ID,
		LogEditTimeLimitHours: s.LogEditTimeLimitHours,
		DefaultLeaveTypes:     s.DefaultLeaveTypes,
		DefaultTaskCategories: s.DefaultTaskCategories,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}
