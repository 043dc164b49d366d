package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"

	"github.com/workforcehq/workforce-management/internal"
	"github.com/workforcehq/workforce-management/internal/admin"
	"github.com/workforcehq/workforce-management/internal/audit"
	auditStore "github.com/workforcehq/workforce-management/internal/audit/jsonstore"
	"github.com/workforcehq/workforce-management/internal/auth"
	"github.com/workforcehq/workforce-management/internal/datastore"
	"github.com/workforcehq/workforce-management/internal/employee"
	employeeStore "github.com/workforcehq/workforce-management/internal/employee/jsonstore"
	"github.com/workforcehq/workforce-management/internal/feedback"
	feedbackStore "github.com/workforcehq/workforce-management/internal/feedback/jsonstore"
	"github.com/workforcehq/workforce-management/internal/leave"
	leaveStore "github.com/workforcehq/workforce-management/internal/leave/jsonstore"
	settingsStore "github.com/workforcehq/workforce-management/internal/settings/jsonstore"
	"github.com/workforcehq/workforce-management/internal/transport/rest"
	"github.com/workforcehq/workforce-management/internal/worklog"
	worklogStore "github.com/workforcehq/workforce-management/internal/worklog/jsonstore"
	"github.com/workforcehq/workforce-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	Store      *datastore.Store
	Router     *chi.Mux
	Dispatcher *audit.Dispatcher
	Logger     *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "data_dir", deps.Store.Dir())

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		// flush queued audit events before exit
		deps.Dispatcher.Close()
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Format, config.Logging.Level)
	lg := logger.LoggerWrapper()

	store, err := datastore.New(datastore.Config{
		Dir:         config.Storage.DataDir,
		LockTimeout: config.Storage.LockTimeout,
		LockRetries: config.Storage.LockRetries,
	}, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	if err := store.Init(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize record store: %w", err)
	}

	// repositories
	employeeRepo := employeeStore.NewEmployeeRepository(store)
	workLogRepo := worklogStore.NewWorkLogRepository(store)
	leaveRepo := leaveStore.NewLeaveRequestRepository(store)
	feedbackRepo := feedbackStore.NewFeedbackRepository(store)
	settingsRepo := settingsStore.NewSettingsRepository(store)
	auditRepo := auditStore.NewAuditRepository(store)

	dispatcher := audit.NewDispatcher(auditRepo, lg)

	// services
	tokens := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(employeeRepo, tokens, dispatcher, lg)
	employeeService := employee.NewService(employeeRepo, dispatcher, config.Security.BCryptCost, lg)
	workLogService := worklog.NewService(workLogRepo, employeeRepo, settingsRepo, dispatcher, lg)
	leaveService := leave.NewService(leaveRepo, dispatcher, lg)
	feedbackService := feedback.NewService(feedbackRepo, workLogRepo, employeeRepo, dispatcher, lg)
	adminService := admin.NewService(employeeRepo, workLogRepo, leaveRepo, settingsRepo, auditRepo, employeeService, dispatcher, lg)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, store, rest.Handlers{
		Auth:     auth.NewHandler(authService),
		Employee: employee.NewHandler(employeeService),
		WorkLog:  worklog.NewHandler(workLogService),
		Leave:    leave.NewHandler(leaveService),
		Feedback: feedback.NewHandler(feedbackService),
		Admin:    admin.NewHandler(adminService),
	}, config.Server, lg)

	return &Dependencies{
		Config:     config,
		Store:      store,
		Router:     router,
		Dispatcher: dispatcher,
		Logger:     lg,
	}, nil
}
