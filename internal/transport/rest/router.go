package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/workforcehq/workforce-management/internal"
	"github.com/workforcehq/workforce-management/internal/admin"
	"github.com/workforcehq/workforce-management/internal/auth"
	"github.com/workforcehq/workforce-management/internal/datastore"
	"github.com/workforcehq/workforce-management/internal/employee"
	"github.com/workforcehq/workforce-management/internal/feedback"
	"github.com/workforcehq/workforce-management/internal/leave"
	"github.com/workforcehq/workforce-management/internal/transport/middleware"
	"github.com/workforcehq/workforce-management/internal/transport/swagger"
	"github.com/workforcehq/workforce-management/internal/worklog"
)

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Auth     *auth.Handler
	Employee *employee.Handler
	WorkLog  *worklog.Handler
	Leave    *leave.Handler
	Feedback *feedback.Handler
	Admin    *admin.Handler
}

func RegisterAllRoutes(router *chi.Mux, store *datastore.Store, h Handlers, server internal.ServerConfig, logger *slog.Logger) {
	healthHandler := NewHealthHandler(store)

	// Apply global middleware
	router.Use(middleware.CORS(server.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Group(func(lr chi.Router) {
				lr.Use(middleware.LoginRateLimit(server.LoginRateLimit, logger))
				lr.Post("/login", h.Auth.Login)
			})
			sr.Post("/refresh", h.Auth.RefreshToken)

			sr.Group(func(pr chi.Router) {
				pr.Use(h.Auth.AuthMiddleware)
				pr.Post("/logout", h.Auth.Logout)
				pr.Get("/me", h.Auth.Me)
				pr.Get("/verify", h.Auth.VerifyToken)
			})
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Route("/employees", func(er chi.Router) {
				er.Post("/", h.Employee.CreateEmployee)
				er.Get("/", h.Employee.ListEmployees)
				er.Get("/{id}", h.Employee.GetEmployee)
				er.Put("/{id}", h.Employee.UpdateEmployee)
				er.Delete("/{id}", h.Employee.DeleteEmployee)
				er.Get("/{id}/direct-reports", h.Employee.DirectReports)
			})

			pr.Route("/work-logs", func(wr chi.Router) {
				wr.Post("/", h.WorkLog.CreateWorkLog)
				wr.Get("/", h.WorkLog.ListWorkLogs)
				wr.Get("/reports/summary", h.WorkLog.Summary)
				wr.Get("/{id}", h.WorkLog.GetWorkLog)
				wr.Put("/{id}", h.WorkLog.UpdateWorkLog)
				wr.Post("/{id}/feedback", h.WorkLog.AttachFeedback)
			})

			pr.Route("/leave-requests", func(lr chi.Router) {
				lr.Post("/", h.Leave.CreateLeaveRequest)
				lr.Get("/", h.Leave.ListLeaveRequests)
				lr.Get("/pending-approvals", h.Leave.PendingApprovals)
				lr.Get("/{id}", h.Leave.GetLeaveRequest)
				lr.Put("/{id}", h.Leave.UpdateLeaveRequest)
				lr.Post("/{id}/approve", h.Leave.Decide)
				lr.Delete("/{id}", h.Leave.Cancel)
			})

			pr.Route("/feedback", func(fr chi.Router) {
				fr.Post("/", h.Feedback.CreateFeedback)
				fr.Get("/my-feedback", h.Feedback.MyFeedback)
				fr.Get("/given-feedback", h.Feedback.GivenFeedback)
				fr.Get("/employee/{id}", h.Feedback.EmployeeFeedback)
				fr.Get("/work-log/{id}", h.Feedback.WorkLogFeedback)
			})

			pr.Route("/admin", func(ar chi.Router) {
				ar.Get("/dashboard", h.Admin.Dashboard)
				ar.Get("/audit-trails", h.Admin.AuditTrails)
				ar.Get("/settings", h.Admin.GetSettings)
				ar.Put("/settings", h.Admin.UpdateSettings)
				ar.Post("/bulk-create-employees", h.Admin.BulkCreateEmployees)
				ar.Get("/reports/productivity", h.Admin.ProductivityReport)
				ar.Get("/reports/productivity/export", h.Admin.ProductivityReportPDF)
			})
		})
	})
}
