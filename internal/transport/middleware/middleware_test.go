package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Middleware Suite")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

var _ = ginkgo.Describe("CORS", func() {
	ginkgo.It("allows any origin when configured with a wildcard", func() {
		handler := CORS("*")(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		req.Header.Set("Origin", "https://anywhere.example")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(gomega.Equal("*"))
	})

	ginkgo.It("echoes only origins from the configured list", func() {
		handler := CORS("https://app.example.com, https://admin.example.com")(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		gomega.Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(gomega.Equal("https://app.example.com"))
		gomega.Expect(rec.Header().Values("Vary")).To(gomega.ContainElement("Origin"))

		req = httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		gomega.Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(gomega.BeEmpty())
	})

	ginkgo.It("short-circuits preflight requests", func() {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
		handler := CORS("*")(next)

		req := httptest.NewRequest(http.MethodOptions, "/api/v1/employees", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
		gomega.Expect(called).To(gomega.BeFalse())
	})
})

var _ = ginkgo.Describe("LoginRateLimit", func() {
	var logger *slog.Logger

	ginkgo.BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	ginkgo.It("throttles a client past the configured rate", func() {
		handler := LoginRateLimit("2-M", logger)(okHandler())

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
			req.RemoteAddr = "10.1.2.3:50000"
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}

		gomega.Expect(codes[0]).To(gomega.Equal(http.StatusOK))
		gomega.Expect(codes[1]).To(gomega.Equal(http.StatusOK))
		gomega.Expect(codes[2]).To(gomega.Equal(http.StatusTooManyRequests))
	})

	ginkgo.It("passes requests through when the rate format is invalid", func() {
		handler := LoginRateLimit("not-a-rate", logger)(okHandler())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "10.1.2.3:50000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
	})
})
