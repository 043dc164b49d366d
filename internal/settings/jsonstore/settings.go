package jsonstore

import (
	"context"
	"time"

	settingsDatamodel "github.com/workforcehq/workforce-management/internal/core/datamodel/settings"
	"github.com/workforcehq/workforce-management/internal/datastore"
	"github.com/workforcehq/workforce-management/internal/settings"
)

// SettingsRepository implements settings.Repository. The settings collection
// holds a single-element array; the record is created with defaults the
// first time anything reads it.
type SettingsRepository struct {
	store *datastore.Store
}

func NewSettingsRepository(store *datastore.Store) settings.Repository {
	return &SettingsRepository{store: store}
}

func (r *SettingsRepository) Get(ctx context.Context) (*settings.Settings, error) {
	var out *settings.Settings
	err := datastore.Update(ctx, r.store, datastore.Settings,
		func(items []settingsDatamodel.Settings) ([]settingsDatamodel.Settings, error) {
			if len(items) == 0 {
				created := settingsDatamodel.Default(time.Now().UTC())
				out = settings.FromDataModel(created)
				return []settingsDatamodel.Settings{created}, nil
			}
			out = settings.FromDataModel(items[0])
			return nil, nil
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SettingsRepository) Update(ctx context.Context, apply func(*settings.Settings) error) (*settings.Settings, error) {
	var out *settings.Settings
	err := datastore.Update(ctx, r.store, datastore.Settings,
		func(items []settingsDatamodel.Settings) ([]settingsDatamodel.Settings, error) {
			var cur *settings.Settings
			if len(items) == 0 {
				cur = settings.FromDataModel(settingsDatamodel.Default(time.Now().UTC()))
			} else {
				cur = settings.FromDataModel(items[0])
			}
			if err := apply(cur); err != nil {
				return nil, err
			}
			cur.UpdatedAt = time.Now().UTC()
			out = cur
			return []settingsDatamodel.Settings{settings.ToDataModel(cur)}, nil
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SettingsRepository) EditWindow(ctx context.Context) (time.Duration, error) {
	cfg, err := r.Get(ctx)
	if err != nil {
		return 0, err
	}
	return time.Duration(cfg.LogEditTimeLimitHours) * time.Hour, nil
}
