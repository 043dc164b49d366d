package jsonstore

import (
	"context"
	"sort"

	feedbackDatamodel "github.com/workforcehq/workforce-management/internal/core/datamodel/feedback"
	"github.com/workforcehq/workforce-management/internal/datastore"
	"github.com/workforcehq/workforce-management/internal/feedback"
)

// FeedbackRepository implements feedback.Repository on the record store.
type FeedbackRepository struct {
	store *datastore.Store
}

func NewFeedbackRepository(store *datastore.Store) feedback.Repository {
	return &FeedbackRepository{store: store}
}

func (r *FeedbackRepository) Create(ctx context.Context, fb *feedback.Feedback) error {
	return datastore.Update(ctx, r.store, datastore.Feedback,
		func(items []feedbackDatamodel.Feedback) ([]feedbackDatamodel.Feedback, error) {
			return append(items, feedback.ToDataModel(fb)), nil
		})
}

func (r *FeedbackRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*feedback.Feedback, error) {
	return r.list(ctx, func(f feedbackDatamodel.Feedback) bool {
		return f.EmployeeID == employeeID
	})
}

func (r *FeedbackRepository) ListByWorkLog(ctx context.Context, workLogID string) ([]*feedback.Feedback, error) {
	return r.list(ctx, func(f feedbackDatamodel.Feedback) bool {
		return f.WorkLogID == workLogID
	})
}

func (r *FeedbackRepository) ListByGiver(ctx context.Context, givenBy string) ([]*feedback.Feedback, error) {
	return r.list(ctx, func(f feedbackDatamodel.Feedback) bool {
		return f.GivenBy == givenBy
	})
}

func (r *FeedbackRepository) list(ctx context.Context, keep func(feedbackDatamodel.Feedback) bool) ([]*feedback.Feedback, error) {
	out := make([]*feedback.Feedback, 0)
	err := datastore.View(ctx, r.store, datastore.Feedback,
		func(items []feedbackDatamodel.Feedback) error {
			for _, it := range items {
				if keep(it) {
					out = append(out, feedback.FromDataModel(it))
				}
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
