package audit

import (
	"context"
	"time"

	auditDatamodel "github.com/workforcehq/workforce-management/internal/core/datamodel/audit"
)

// Entry is one immutable audit trail record.
type Entry struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"actor_id"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	Details    map[string]any `json:"details,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

type ListFilter struct {
	ActorID    string
	Action     string
	EntityType string
	Limit      int
}

type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	List(ctx context.Context, filter ListFilter) ([]*Entry, error)
}

func ToDataModel(e *Entry) auditDatamodel.Entry {
	return auditDatamodel.Entry{
		ID:         e.ID,
		ActorID:    e.ActorID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    e.Details,
		Timestamp:  e.Timestamp,
	}
}

func FromDataModel(e auditDatamodel.Entry) *Entry {
	return &Entry{
		ID:         e.ID,
		ActorID:    e.ActorID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    e.Details,
		Timestamp:  e.Timestamp,
	}
}
