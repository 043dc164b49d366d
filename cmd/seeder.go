package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/workforcehq/workforce-management/internal"
	"github.com/workforcehq/workforce-management/internal/datastore"
	"github.com/workforcehq/workforce-management/internal/employee"
	employeeStore "github.com/workforcehq/workforce-management/internal/employee/jsonstore"
	settingsStore "github.com/workforcehq/workforce-management/internal/settings/jsonstore"
	"github.com/workforcehq/workforce-management/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the record store with initial data",
	Long:  `Create the default admin, manager, and employee accounts plus system settings. Safe to run repeatedly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		logger.Init(cfg.Logging.Format, cfg.Logging.Level)
		lg := logger.LoggerWrapper()

		store, err := datastore.New(datastore.Config{
			Dir:         cfg.Storage.DataDir,
			LockTimeout: cfg.Storage.LockTimeout,
			LockRetries: cfg.Storage.LockRetries,
		}, lg)
		if err != nil {
			log.Fatalf("failed to open record store: %v", err)
		}

		ctx := context.Background()
		if err := store.Init(ctx); err != nil {
			log.Fatalf("failed to initialize record store: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing data...")
			for _, col := range datastore.Collections() {
				if err := store.WithLock(ctx, col, func(data []byte) ([]byte, error) {
					return []byte("[]"), nil
				}); err != nil {
					log.Fatalf("failed to clear collection %s: %v", col, err)
				}
			}
		}

		employeeRepo := employeeStore.NewEmployeeRepository(store)

		_, err = ensureAccount(ctx, employeeRepo, cfg.Security.BCryptCost, "admin123", &employee.Employee{
			Email:      "admin@company.com",
			FirstName:  "System",
			LastName:   "Administrator",
			Role:       employee.RoleAdmin,
			Department: "Administration",
			Position:   "System Administrator",
		})
		if err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}

		manager, err := ensureAccount(ctx, employeeRepo, cfg.Security.BCryptCost, "manager123", &employee.Employee{
			Email:      "manager@company.com",
			FirstName:  "Dana",
			LastName:   "Reyes",
			Role:       employee.RoleManager,
			Department: "Engineering",
			Position:   "Engineering Manager",
		})
		if err != nil {
			log.Fatalf("failed to seed manager user: %v", err)
		}

		_, err = ensureAccount(ctx, employeeRepo, cfg.Security.BCryptCost, "employee123", &employee.Employee{
			Email:      "employee@company.com",
			FirstName:  "Sam",
			LastName:   "Porter",
			Role:       employee.RoleEmployee,
			Department: "Engineering",
			Position:   "Software Engineer",
			ManagerID:  &manager.ID,
		})
		if err != nil {
			log.Fatalf("failed to seed employee user: %v", err)
		}

		fmt.Println("Sample credentials: admin@company.com / admin123, manager@company.com / manager123, employee@company.com / employee123")
		fmt.Println("IMPORTANT: change the default passwords immediately")

		// materialize default settings
		settingsRepo := settingsStore.NewSettingsRepository(store)
		cfgRecord, err := settingsRepo.Get(ctx)
		if err != nil {
			log.Fatalf("failed to initialize settings: %v", err)
		}
		fmt.Printf("System settings ready (edit window: %dh)\n", cfgRecord.LogEditTimeLimitHours)
	},
}

// ensureAccount creates the account when absent and returns the stored
// record either way, so reruns stay idempotent.
func ensureAccount(ctx context.Context, repo employee.Repository, bcryptCost int, password string, emp *employee.Employee) (*employee.Employee, error) {
	existing, err := repo.GetByEmail(ctx, emp.Email)
	if err == nil {
		fmt.Println("account already exists:", emp.Email)
		return existing, nil
	}
	if !errors.Is(err, internal.ErrEmployeeNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	emp.ID = uuid.NewString()
	emp.PasswordHash = string(hash)
	emp.HireDate = now.Format("2006-01-02")
	emp.IsActive = true
	emp.CreatedAt = now
	emp.UpdatedAt = now

	if err := repo.Create(ctx, emp); err != nil {
		return nil, err
	}
	fmt.Println("Seeded account:", emp.Email)
	return emp, nil
}
