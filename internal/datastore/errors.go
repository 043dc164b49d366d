package datastore

import (
	"errors"
	"fmt"
)

// ErrLockTimeout is returned when a collection lock could not be acquired
// within the configured bound. Callers may retry with backoff; the generic
// Update/View helpers already do.
var ErrLockTimeout = errors.New("datastore: lock acquisition timed out")

// CorruptionError means the live file is unparseable and no valid backup
// exists. It is fatal for the collection until an operator restores a copy;
// it must never be swallowed.
type CorruptionError struct {
	Collection Collection
	Path       string
	Err        error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("datastore: collection %q corrupted at %s: %v", e.Collection, e.Path, e.Err)
}

func (e *CorruptionError) Unwrap() error { return e.Err }

// WriteError wraps a failure on the write path (temp write, flush, backup
// copy or rename). The live file keeps its previous state in every case.
type WriteError struct {
	Collection Collection
	Op         string
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("datastore: %s %q: %v", e.Op, e.Collection, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func IsCorruption(err error) bool {
	var ce *CorruptionError
	return errors.As(err, &ce)
}

func IsWriteFailure(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}
