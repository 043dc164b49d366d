package audit

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestAudit(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Audit Module Suite")
}

// Mock repository that can pause appends to back up the queue.
type mockAuditRepository struct {
	mu      sync.Mutex
	entries []*Entry
	block   chan struct{}
}

func (m *mockAuditRepository) Append(ctx context.Context, entry *Entry) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepository) List(ctx context.Context, filter ListFilter) ([]*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *mockAuditRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

var _ = ginkgo.Describe("Dispatcher", func() {
	var logger *slog.Logger

	ginkgo.BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	ginkgo.It("persists recorded events asynchronously", func() {
		repo := &mockAuditRepository{}
		d := NewDispatcher(repo, logger)

		d.Record("emp-1", "create", "work_log", "log-1", map[string]any{"date": "2026-08-30"})
		d.Record("emp-1", "update", "work_log", "log-1", nil)
		d.Close()

		gomega.Expect(repo.count()).To(gomega.Equal(2))
		gomega.Expect(repo.entries[0].ID).NotTo(gomega.BeEmpty())
		gomega.Expect(repo.entries[0].Action).To(gomega.Equal("create"))
		gomega.Expect(repo.entries[0].Timestamp).NotTo(gomega.BeZero())
	})

	ginkgo.It("drops events instead of blocking when the queue is full", func() {
		repo := &mockAuditRepository{block: make(chan struct{})}
		d := NewDispatcher(repo, logger)

		// One entry stalls in the worker, the rest fill the buffer, the
		// overflow must return immediately.
		overfill := cap(d.queue) + 50
		finished := make(chan struct{})
		go func() {
			for i := 0; i <= overfill; i++ {
				d.Record("emp-1", "create", "work_log", "log-1", nil)
			}
			close(finished)
		}()

		gomega.Eventually(finished, time.Second).Should(gomega.BeClosed())

		close(repo.block)
		d.Close()
		gomega.Expect(repo.count()).To(gomega.BeNumerically("<=", cap(d.queue)+1))
		gomega.Expect(repo.count()).To(gomega.BeNumerically(">", 0))
	})

	ginkgo.It("flushes queued events on Close and tolerates a double Close", func() {
		repo := &mockAuditRepository{}
		d := NewDispatcher(repo, logger)

		for i := 0; i < 10; i++ {
			d.Record("emp-1", "create", "leave_request", "req-1", nil)
		}
		d.Close()
		d.Close()

		gomega.Expect(repo.count()).To(gomega.Equal(10))
	})

	ginkgo.It("drops events recorded after Close without panicking", func() {
		repo := &mockAuditRepository{}
		d := NewDispatcher(repo, logger)

		d.Record("emp-1", "create", "work_log", "log-1", nil)
		d.Close()

		gomega.Expect(func() {
			d.Record("emp-1", "update", "work_log", "log-1", nil)
		}).NotTo(gomega.Panic())
		gomega.Expect(repo.count()).To(gomega.Equal(1))
	})
})
