package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// Collection names one durable unit: a single JSON array file plus its
// sibling backup. Lock ordering across collections is never an issue because
// no operation holds two collection locks at once; the audit append always
// happens after the primary lock is released.
type Collection string

const (
	Employees     Collection = "employees"
	WorkLogs      Collection = "work_logs"
	LeaveRequests Collection = "leave_requests"
	Feedback      Collection = "feedback"
	AuditTrails   Collection = "audit_trails"
	Settings      Collection = "settings"
)

// Collections lists every known collection, used to initialize the data
// directory at startup.
func Collections() []Collection {
	return []Collection{Employees, WorkLogs, LeaveRequests, Feedback, AuditTrails, Settings}
}

type Config struct {
	Dir         string
	LockTimeout time.Duration
	LockRetries int
}

// Store persists named collections as JSON files with crash-safe writes.
// Every read-modify-write goes through WithLock; the unlocked load/save
// primitives are deliberately unexported so repositories cannot bypass the
// locking discipline.
type Store struct {
	dir         string
	lockTimeout time.Duration
	lockRetries int
	logger      *slog.Logger

	mu    sync.Mutex
	locks map[Collection]*collectionLock
}

// collectionLock pairs an in-process semaphore (goroutines in this process)
// with a cross-process file lock (sibling processes on the same data dir).
type collectionLock struct {
	sem chan struct{}
	fl  *flock.Flock
}

func New(cfg Config, logger *slog.Logger) (*Store, error) {
	if cfg.Dir == "" {
		return nil, errors.New("datastore: data dir is required")
	}
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("datastore: create data dir: %w", err)
	}
	return &Store{
		dir:         cfg.Dir,
		lockTimeout: cfg.LockTimeout,
		lockRetries: cfg.LockRetries,
		logger:      logger,
		locks:       make(map[Collection]*collectionLock),
	}, nil
}

func (s *Store) Dir() string { return s.dir }

// Init touches every known collection so that empty files exist before the
// first request, mirroring what load would do lazily.
func (s *Store) Init(ctx context.Context) error {
	for _, col := range Collections() {
		if err := s.WithLock(ctx, col, func(data []byte) ([]byte, error) {
			return nil, nil
		}); err != nil {
			return err
		}
	}
	return nil
}

// Check loads one collection under its lock, verifying the data directory
// is reachable and the document parses. Used by the readiness probe.
func (s *Store) Check(ctx context.Context) error {
	return s.WithLock(ctx, Settings, func(data []byte) ([]byte, error) {
		return nil, nil
	})
}

// WithLock runs fn holding the collection's exclusive lock. fn receives the
// freshly loaded document; returning a non-nil byte slice persists it
// atomically before the lock is released, returning nil leaves the file
// untouched. The lock is released on every exit path.
func (s *Store) WithLock(ctx context.Context, col Collection, fn func(data []byte) ([]byte, error)) error {
	l := s.lockFor(col)

	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()
	select {
	case l.sem <- struct{}{}:
	case <-timer.C:
		return ErrLockTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-l.sem }()

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()
	locked, err := l.fl.TryLockContext(lockCtx, 25*time.Millisecond)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrLockTimeout
		}
		return fmt.Errorf("datastore: file lock %q: %w", col, err)
	}
	if !locked {
		return ErrLockTimeout
	}
	defer func() {
		if err := l.fl.Unlock(); err != nil {
			s.logger.Warn("datastore: unlock failed", "collection", col, "error", err)
		}
	}()

	data, err := s.load(col)
	if err != nil {
		return err
	}

	out, err := fn(data)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return s.save(col, out)
}

func (s *Store) lockFor(col Collection) *collectionLock {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[col]
	if !ok {
		l = &collectionLock{
			sem: make(chan struct{}, 1),
			fl:  flock.New(filepath.Join(s.dir, string(col)+".lock")),
		}
		s.locks[col] = l
	}
	return l
}

func (s *Store) path(col Collection) string {
	return filepath.Join(s.dir, string(col)+".json")
}

func (s *Store) backupPath(col Collection) string {
	return filepath.Join(s.dir, string(col)+".json.bak")
}

// load reads the collection document. A missing file initializes an empty
// collection on disk. An unparseable file triggers recovery from the backup;
// the corrupt copy is set aside rather than deleted. No valid backup means
// the data is gone and the caller gets a CorruptionError.
func (s *Store) load(col Collection) ([]byte, error) {
	path := s.path(col)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		empty := []byte("[]")
		if werr := s.save(col, empty); werr != nil {
			return nil, werr
		}
		return empty, nil
	}
	if err != nil {
		return nil, fmt.Errorf("datastore: read %q: %w", col, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []byte("[]"), nil
	}
	if json.Valid(data) {
		return data, nil
	}

	return s.recover(col, path)
}

func (s *Store) recover(col Collection, path string) ([]byte, error) {
	backup, err := os.ReadFile(s.backupPath(col))
	if err != nil || !json.Valid(bytes.TrimSpace(backup)) {
		return nil, &CorruptionError{
			Collection: col,
			Path:       path,
			Err:        errors.New("invalid JSON and no usable backup"),
		}
	}
	backup = bytes.TrimSpace(backup)

	// Preserve the corrupt file for the operator, then promote the backup.
	aside := fmt.Sprintf("%s.corrupt-%d", path, time.Now().UnixNano())
	if err := os.Rename(path, aside); err != nil {
		return nil, &CorruptionError{Collection: col, Path: path, Err: err}
	}
	if err := s.save(col, backup); err != nil {
		return nil, err
	}
	s.logger.Warn("datastore: recovered collection from backup",
		"collection", col, "corrupt_copy", aside)
	return backup, nil
}

// save writes the document crash-safely: temp file, flush, backup of the
// previous live file, then an atomic rename. A failure at any step before
// the rename leaves the previous state untouched.
func (s *Store) save(col Collection, data []byte) error {
	path := s.path(col)
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return &WriteError{Collection: col, Op: "open temp for", Err: err}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return &WriteError{Collection: col, Op: "write temp for", Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return &WriteError{Collection: col, Op: "flush temp for", Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &WriteError{Collection: col, Op: "close temp for", Err: err}
	}

	if _, err := os.Stat(path); err == nil {
		if err := copyFile(path, s.backupPath(col)); err != nil {
			os.Remove(tmp)
			return &WriteError{Collection: col, Op: "backup", Err: err}
		}
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &WriteError{Collection: col, Op: "swap", Err: err}
	}
	s.syncDir()
	return nil
}

func (s *Store) syncDir() {
	d, err := os.Open(s.dir)
	if err != nil {
		return
	}
	defer d.Close()
	// Directory fsync is best effort; some filesystems reject it.
	_ = d.Sync()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
