package datastore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestDatastore(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Datastore Module Suite")
}

type testRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestStore(dir string) *Store {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(Config{Dir: dir, LockTimeout: 2 * time.Second, LockRetries: 1}, logger)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return s
}

var _ = ginkgo.Describe("Store", func() {
	var (
		dir   string
		store *Store
		ctx   context.Context
	)

	ginkgo.BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "datastore-test-*")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		store = newTestStore(dir)
		ctx = context.Background()
	})

	ginkgo.AfterEach(func() {
		os.RemoveAll(dir)
	})

	ginkgo.Describe("reading a collection", func() {
		ginkgo.It("initializes a missing file as an empty collection", func() {
			var got []testRecord
			err := View(ctx, store, Employees, func(items []testRecord) error {
				got = items
				return nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got).To(gomega.BeEmpty())

			data, err := os.ReadFile(filepath.Join(dir, "employees.json"))
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(string(data)).To(gomega.Equal("[]"))
		})

		ginkgo.It("treats an empty file as an empty collection", func() {
			path := filepath.Join(dir, "employees.json")
			gomega.Expect(os.WriteFile(path, []byte("  \n"), 0o644)).To(gomega.Succeed())

			err := View(ctx, store, Employees, func(items []testRecord) error {
				gomega.Expect(items).To(gomega.BeEmpty())
				return nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("updating a collection", func() {
		ginkgo.It("round-trips records through disk", func() {
			err := Update(ctx, store, Employees, func(items []testRecord) ([]testRecord, error) {
				return append(items, testRecord{ID: "1", Name: "alice"}), nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			err = Update(ctx, store, Employees, func(items []testRecord) ([]testRecord, error) {
				return append(items, testRecord{ID: "2", Name: "bob"}), nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			var got []testRecord
			err = View(ctx, store, Employees, func(items []testRecord) error {
				got = items
				return nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got).To(gomega.HaveLen(2))
			gomega.Expect(got[0].Name).To(gomega.Equal("alice"))
			gomega.Expect(got[1].Name).To(gomega.Equal("bob"))

			data, err := os.ReadFile(filepath.Join(dir, "employees.json"))
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(json.Valid(data)).To(gomega.BeTrue())
		})

		ginkgo.It("skips the write when fn returns nil", func() {
			err := Update(ctx, store, Employees, func(items []testRecord) ([]testRecord, error) {
				return append(items, testRecord{ID: "1", Name: "alice"}), nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			path := filepath.Join(dir, "employees.json")
			before, err := os.ReadFile(path)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			err = Update(ctx, store, Employees, func(items []testRecord) ([]testRecord, error) {
				return nil, nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			after, err := os.ReadFile(path)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(after).To(gomega.Equal(before))
		})

		ginkgo.It("propagates fn errors without persisting", func() {
			boom := errors.New("boom")
			err := Update(ctx, store, Employees, func(items []testRecord) ([]testRecord, error) {
				return append(items, testRecord{ID: "1"}), boom
			})
			gomega.Expect(err).To(gomega.MatchError(boom))

			err = View(ctx, store, Employees, func(items []testRecord) error {
				gomega.Expect(items).To(gomega.BeEmpty())
				return nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("keeps a backup of the previous live file", func() {
			err := Update(ctx, store, Employees, func(items []testRecord) ([]testRecord, error) {
				return []testRecord{{ID: "1", Name: "alice"}}, nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			err = Update(ctx, store, Employees, func(items []testRecord) ([]testRecord, error) {
				return []testRecord{{ID: "1", Name: "alice"}, {ID: "2", Name: "bob"}}, nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			backup, err := os.ReadFile(filepath.Join(dir, "employees.json.bak"))
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			var prev []testRecord
			gomega.Expect(json.Unmarshal(backup, &prev)).To(gomega.Succeed())
			gomega.Expect(prev).To(gomega.HaveLen(1))
			gomega.Expect(prev[0].Name).To(gomega.Equal("alice"))
		})

		ginkgo.It("ignores a leftover temp file from an interrupted write", func() {
			err := Update(ctx, store, Employees, func(items []testRecord) ([]testRecord, error) {
				return []testRecord{{ID: "1", Name: "alice"}}, nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			// Half-written temp file, as left by a crash before the rename.
			tmp := filepath.Join(dir, "employees.json.tmp")
			gomega.Expect(os.WriteFile(tmp, []byte(`[{"id":"2","name":"intr`), 0o644)).To(gomega.Succeed())

			var got []testRecord
			err = View(ctx, store, Employees, func(items []testRecord) error {
				got = items
				return nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got).To(gomega.HaveLen(1))
			gomega.Expect(got[0].Name).To(gomega.Equal("alice"))

			live, err := os.ReadFile(filepath.Join(dir, "employees.json"))
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(json.Valid(live)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("corruption recovery", func() {
		ginkgo.It("recovers from the backup and sets the corrupt file aside", func() {
			err := Update(ctx, store, Employees, func(items []testRecord) ([]testRecord, error) {
				return []testRecord{{ID: "1", Name: "alice"}}, nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			// Second write so the backup holds the one-record state.
			err = Update(ctx, store, Employees, func(items []testRecord) ([]testRecord, error) {
				return items, nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			path := filepath.Join(dir, "employees.json")
			gomega.Expect(os.WriteFile(path, []byte("{not json"), 0o644)).To(gomega.Succeed())

			var got []testRecord
			err = View(ctx, store, Employees, func(items []testRecord) error {
				got = items
				return nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got).To(gomega.HaveLen(1))
			gomega.Expect(got[0].Name).To(gomega.Equal("alice"))

			matches, err := filepath.Glob(path + ".corrupt-*")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(matches).To(gomega.HaveLen(1))

			live, err := os.ReadFile(path)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(json.Valid(live)).To(gomega.BeTrue())
		})

		ginkgo.It("fails with a corruption error when no backup exists", func() {
			path := filepath.Join(dir, "employees.json")
			gomega.Expect(os.WriteFile(path, []byte("{not json"), 0o644)).To(gomega.Succeed())

			err := View(ctx, store, Employees, func(items []testRecord) error {
				return nil
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(IsCorruption(err)).To(gomega.BeTrue())
		})

		ginkgo.It("fails when both the live file and the backup are corrupt", func() {
			path := filepath.Join(dir, "employees.json")
			gomega.Expect(os.WriteFile(path, []byte("{not json"), 0o644)).To(gomega.Succeed())
			gomega.Expect(os.WriteFile(path+".bak", []byte("also broken"), 0o644)).To(gomega.Succeed())

			err := View(ctx, store, Employees, func(items []testRecord) error {
				return nil
			})
			gomega.Expect(IsCorruption(err)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("locking", func() {
		ginkgo.It("serializes concurrent updates to one collection", func() {
			const writers = 20
			var wg sync.WaitGroup
			wg.Add(writers)
			for i := 0; i < writers; i++ {
				go func() {
					defer wg.Done()
					err := Update(ctx, store, WorkLogs, func(items []testRecord) ([]testRecord, error) {
						return append(items, testRecord{ID: "x"}), nil
					})
					gomega.Expect(err).NotTo(gomega.HaveOccurred())
				}()
			}
			wg.Wait()

			err := View(ctx, store, WorkLogs, func(items []testRecord) error {
				gomega.Expect(items).To(gomega.HaveLen(writers))
				return nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
		})

		ginkgo.It("runs critical sections back to back, never overlapped", func() {
			const hold = 100 * time.Millisecond
			start := time.Now()

			var wg sync.WaitGroup
			wg.Add(2)
			for i := 0; i < 2; i++ {
				go func() {
					defer wg.Done()
					err := store.WithLock(ctx, Employees, func(data []byte) ([]byte, error) {
						time.Sleep(hold)
						return nil, nil
					})
					gomega.Expect(err).NotTo(gomega.HaveOccurred())
				}()
			}
			wg.Wait()

			gomega.Expect(time.Since(start)).To(gomega.BeNumerically(">=", 2*hold))
		})

		ginkgo.It("times out when the lock is held past the bound", func() {
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			fast, err := New(Config{Dir: dir, LockTimeout: 100 * time.Millisecond, LockRetries: 0}, logger)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			acquired := make(chan struct{})
			release := make(chan struct{})
			go func() {
				_ = fast.WithLock(ctx, Employees, func(data []byte) ([]byte, error) {
					close(acquired)
					<-release
					return nil, nil
				})
			}()
			<-acquired
			defer close(release)

			err = Update(ctx, fast, Employees, func(items []testRecord) ([]testRecord, error) {
				return items, nil
			})
			gomega.Expect(errors.Is(err, ErrLockTimeout)).To(gomega.BeTrue())
		})

		ginkgo.It("honors context cancellation while waiting", func() {
			acquired := make(chan struct{})
			release := make(chan struct{})
			go func() {
				_ = store.WithLock(ctx, Employees, func(data []byte) ([]byte, error) {
					close(acquired)
					<-release
					return nil, nil
				})
			}()
			<-acquired
			defer close(release)

			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			err := store.WithLock(cancelled, Employees, func(data []byte) ([]byte, error) {
				return nil, nil
			})
			gomega.Expect(errors.Is(err, context.Canceled)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("Init", func() {
		ginkgo.It("creates every known collection file", func() {
			gomega.Expect(store.Init(ctx)).To(gomega.Succeed())
			for _, col := range Collections() {
				_, err := os.Stat(filepath.Join(dir, string(col)+".json"))
				gomega.Expect(err).NotTo(gomega.HaveOccurred())
			}
		})
	})
})
