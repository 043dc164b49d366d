package jsonstore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/workforcehq/workforce-management/internal"
	"github.com/workforcehq/workforce-management/internal/datastore"
	"github.com/workforcehq/workforce-management/internal/employee"
)

func TestEmployeeJSONStore(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Employee JSONStore Suite")
}

func newEmployee(email, role string) *employee.Employee {
	now := time.Now().UTC()
	return &employee.Employee{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		HireDate:     "2024-01-15",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

var _ = ginkgo.Describe("EmployeeRepository", func() {
	var (
		dir  string
		repo employee.Repository
		ctx  context.Context
	)

	ginkgo.BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "employee-store-*")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		store, err := datastore.New(datastore.Config{Dir: dir, LockTimeout: 2 * time.Second}, logger)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		repo = NewEmployeeRepository(store)
		ctx = context.Background()
	})

	ginkgo.AfterEach(func() {
		os.RemoveAll(dir)
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("persists and reads back an employee", func() {
			emp := newEmployee("alice@company.com", employee.RoleEmployee)
			gomega.Expect(repo.Create(ctx, emp)).To(gomega.Succeed())

			got, err := repo.GetByID(ctx, emp.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got.Email).To(gomega.Equal("alice@company.com"))
			gomega.Expect(got.PasswordHash).To(gomega.Equal("hash"))
		})

		ginkgo.It("rejects a duplicate email case-insensitively", func() {
			gomega.Expect(repo.Create(ctx, newEmployee("alice@company.com", employee.RoleEmployee))).To(gomega.Succeed())

			err := repo.Create(ctx, newEmployee("Alice@Company.com", employee.RoleEmployee))
			gomega.Expect(err).To(gomega.MatchError(internal.ErrEmailTaken))
		})
	})

	ginkgo.Describe("GetByEmail", func() {
		ginkgo.It("matches regardless of case", func() {
			emp := newEmployee("bob@company.com", employee.RoleManager)
			gomega.Expect(repo.Create(ctx, emp)).To(gomega.Succeed())

			got, err := repo.GetByEmail(ctx, "BOB@company.com")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got.ID).To(gomega.Equal(emp.ID))
		})

		ginkgo.It("returns not found for an unknown email", func() {
			_, err := repo.GetByEmail(ctx, "nobody@company.com")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrEmployeeNotFound))
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("filters inactive employees unless asked", func() {
			active := newEmployee("a@company.com", employee.RoleEmployee)
			inactive := newEmployee("b@company.com", employee.RoleEmployee)
			inactive.IsActive = false
			gomega.Expect(repo.Create(ctx, active)).To(gomega.Succeed())
			gomega.Expect(repo.Create(ctx, inactive)).To(gomega.Succeed())

			got, err := repo.List(ctx, false)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got).To(gomega.HaveLen(1))
			gomega.Expect(got[0].ID).To(gomega.Equal(active.ID))

			all, err := repo.List(ctx, true)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(all).To(gomega.HaveLen(2))
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("applies the mutation and bumps updated_at", func() {
			emp := newEmployee("carol@company.com", employee.RoleEmployee)
			gomega.Expect(repo.Create(ctx, emp)).To(gomega.Succeed())

			updated, err := repo.Update(ctx, emp.ID, func(e *employee.Employee) error {
				e.Department = "Engineering"
				return nil
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(updated.Department).To(gomega.Equal("Engineering"))
			gomega.Expect(updated.UpdatedAt.After(emp.UpdatedAt) || updated.UpdatedAt.Equal(emp.UpdatedAt)).To(gomega.BeTrue())

			got, err := repo.GetByID(ctx, emp.ID)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got.Department).To(gomega.Equal("Engineering"))
		})

		ginkgo.It("rejects mutations of id and created_at", func() {
			emp := newEmployee("dave@company.com", employee.RoleEmployee)
			gomega.Expect(repo.Create(ctx, emp)).To(gomega.Succeed())

			_, err := repo.Update(ctx, emp.ID, func(e *employee.Employee) error {
				e.ID = uuid.NewString()
				return nil
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrImmutableField))

			_, err = repo.Update(ctx, emp.ID, func(e *employee.Employee) error {
				e.CreatedAt = e.CreatedAt.Add(time.Hour)
				return nil
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrImmutableField))
		})

		ginkgo.It("rejects changing the email to another employee's", func() {
			first := newEmployee("one@company.com", employee.RoleEmployee)
			second := newEmployee("two@company.com", employee.RoleEmployee)
			gomega.Expect(repo.Create(ctx, first)).To(gomega.Succeed())
			gomega.Expect(repo.Create(ctx, second)).To(gomega.Succeed())

			_, err := repo.Update(ctx, second.ID, func(e *employee.Employee) error {
				e.Email = "ONE@company.com"
				return nil
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrEmailTaken))
		})

		ginkgo.It("returns not found for an unknown id", func() {
			_, err := repo.Update(ctx, uuid.NewString(), func(e *employee.Employee) error {
				return nil
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrEmployeeNotFound))
		})
	})
})
