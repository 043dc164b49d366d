package datastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Update runs a typed read-modify-write over a collection with bounded
// retries on lock timeout. fn gets the decoded records in insertion order;
// returning a non-nil slice persists it, returning nil skips the write.
// Marshaling uses two-space indentation so the files stay diffable.
func Update[T any](ctx context.Context, s *Store, col Collection, fn func(items []T) ([]T, error)) error {
	return withRetry(ctx, s, func() error {
		return s.WithLock(ctx, col, func(data []byte) ([]byte, error) {
			items, err := decode[T](col, data)
			if err != nil {
				return nil, err
			}
			out, err := fn(items)
			if err != nil {
				return nil, err
			}
			if out == nil {
				return nil, nil
			}
			encoded, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("datastore: encode %q: %w", col, err)
			}
			return encoded, nil
		})
	})
}

// View runs fn against a consistent snapshot, also under the lock so a read
// never observes a half-applied mutation.
func View[T any](ctx context.Context, s *Store, col Collection, fn func(items []T) error) error {
	return withRetry(ctx, s, func() error {
		return s.WithLock(ctx, col, func(data []byte) ([]byte, error) {
			items, err := decode[T](col, data)
			if err != nil {
				return nil, err
			}
			return nil, fn(items)
		})
	})
}

func decode[T any](col Collection, data []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		// load already validated the JSON, so a decode failure means the
		// stored shape no longer matches the record type.
		return nil, &CorruptionError{Collection: col, Err: err}
	}
	return items, nil
}

// withRetry retries lock timeouts with exponential backoff up to the
// configured attempt count, then surfaces ErrLockTimeout to the caller.
func withRetry(ctx context.Context, s *Store, op func() error) error {
	backoff := 50 * time.Millisecond
	attempts := s.lockRetries + 1
	var err error
	for i := 0; i < attempts; i++ {
		err = op()
		if !errors.Is(err, ErrLockTimeout) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}
	return err
}
