package jsonstore

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/workforcehq/workforce-management/internal/datastore"
	"github.com/workforcehq/workforce-management/internal/settings"
)

func TestSettingsJSONStore(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Settings JSONStore Suite")
}

var _ = ginkgo.Describe("SettingsRepository", func() {
	var (
		dir  string
		repo settings.Repository
		ctx  context.Context
	)

	ginkgo.BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "settings-store-*")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		store, err := datastore.New(datastore.Config{Dir: dir, LockTimeout: 2 * time.Second}, logger)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		repo = NewSettingsRepository(store)
		ctx = context.Background()
	})

	ginkgo.AfterEach(func() {
		os.RemoveAll(dir)
	})

	ginkgo.It("materializes defaults on first read", func() {
		cfg, err := repo.Get(ctx)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(cfg.ID).To(gomega.Equal("system_settings"))
		gomega.Expect(cfg.LogEditTimeLimitHours).To(gomega.Equal(24))
		gomega.Expect(cfg.DefaultLeaveTypes).NotTo(gomega.BeEmpty())

		// Defaults must be on disk after the first read, as a single-element array.
		data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		var items []map[string]any
		gomega.Expect(json.Unmarshal(data, &items)).To(gomega.Succeed())
		gomega.Expect(items).To(gomega.HaveLen(1))
	})

	ginkgo.It("persists updates across reads", func() {
		_, err := repo.Update(ctx, func(cfg *settings.Settings) error {
			cfg.LogEditTimeLimitHours = 72
			return nil
		})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		cfg, err := repo.Get(ctx)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(cfg.LogEditTimeLimitHours).To(gomega.Equal(72))
	})

	ginkgo.It("converts the limit into an edit window duration", func() {
		_, err := repo.Update(ctx, func(cfg *settings.Settings) error {
			cfg.LogEditTimeLimitHours = 48
			return nil
		})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		window, err := repo.EditWindow(ctx)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(window).To(gomega.Equal(48 * time.Hour))
	})
})
