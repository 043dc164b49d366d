package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Dispatcher decouples audit writes from the request path. Record enqueues
// and returns immediately; a single worker drains the queue and appends to
// the audit collection. When the queue is full the event is dropped with a
// warning, an audit write must never fail or slow a primary mutation.
type Dispatcher struct {
	repo    Repository
	queue   chan Entry
	logger  *slog.Logger
	timeout time.Duration

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(repo Repository, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		repo:    repo,
		queue:   make(chan Entry, 100),
		logger:  logger,
		timeout: 10 * time.Second,
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for entry := range d.queue {
		entry := entry // fresh variable per iteration under the pre-1.22 loopvar rules
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.repo.Append(ctx, &entry); err != nil {
			d.logger.Error("audit append failed", "error", err, "action", entry.Action, "entity_type", entry.EntityType)
		}
		cancel()
	}
}

// Record enqueues an audit event. Fire-and-forget.
func (d *Dispatcher) Record(actorID, action, entityType, entityID string, details map[string]any) {
	entry := Entry{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.logger.Warn("audit dispatcher closed, dropping event", "action", action, "entity_type", entityType, "entity_id", entityID)
		return
	}

	select {
	case d.queue <- entry:
	default:
		d.logger.Warn("audit queue full, dropping event", "action", action, "entity_type", entityType, "entity_id", entityID)
	}
}

// Close stops accepting events and blocks until queued events are flushed.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
		close(d.queue)
	})
	<-d.done
}
