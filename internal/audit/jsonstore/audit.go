package jsonstore

import (
	"context"
	"sort"

	"github.com/workforcehq/workforce-management/internal/audit"
	auditDatamodel "github.com/workforcehq/workforce-management/internal/core/datamodel/audit"
	"github.com/workforcehq/workforce-management/internal/datastore"
)

const maxListLimit = 1000

// AuditRepository implements audit.Repository on the record store. The
// collection is append-only.
type AuditRepository struct {
	store *datastore.Store
}

func NewAuditRepository(store *datastore.Store) audit.Repository {
	return &AuditRepository{store: store}
}

func (r *AuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	return datastore.Update(ctx, r.store, datastore.AuditTrails,
		func(items []auditDatamodel.Entry) ([]auditDatamodel.Entry, error) {
			return append(items, audit.ToDataModel(entry)), nil
		})
}

// List returns matching entries newest first, capped at the filter limit.
func (r *AuditRepository) List(ctx context.Context, filter audit.ListFilter) ([]*audit.Entry, error) {
	limit := filter.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	out := make([]*audit.Entry, 0)
	err := datastore.View(ctx, r.store, datastore.AuditTrails,
		func(items []auditDatamodel.Entry) error {
			for _, it := range items {
				if filter.ActorID != "" && it.ActorID != filter.ActorID {
					continue
				}
				if filter.Action != "" && it.Action != filter.Action {
					continue
				}
				if filter.EntityType != "" && it.EntityType != filter.EntityType {
					continue
				}
				out = append(out, audit.FromDataModel(it))
			}
			return nil
		})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
