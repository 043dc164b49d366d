package admin

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/workforcehq/workforce-management/internal"
	"github.com/workforcehq/workforce-management/internal/audit"
	"github.com/workforcehq/workforce-management/internal/employee"
	"github.com/workforcehq/workforce-management/internal/leave"
	"github.com/workforcehq/workforce-management/internal/settings"
	"github.com/workforcehq/workforce-management/internal/worklog"
)

func TestAdmin(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Admin Module Suite")
}

type mockEmployeeRepository struct {
	employees []*employee.Employee
}

func (m *mockEmployeeRepository) Create(ctx context.Context, emp *employee.Employee) error {
	m.employees = append(m.employees, emp)
	return nil
}

func (m *mockEmployeeRepository) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	for _, e := range m.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, internal.ErrEmployeeNotFound
}

func (m *mockEmployeeRepository) GetByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	for _, e := range m.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, internal.ErrEmployeeNotFound
}

func (m *mockEmployeeRepository) List(ctx context.Context, includeInactive bool) ([]*employee.Employee, error) {
	out := make([]*employee.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		if !includeInactive && !e.IsActive {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *mockEmployeeRepository) Update(ctx context.Context, id string, apply func(*employee.Employee) error) (*employee.Employee, error) {
	for _, e := range m.employees {
		if e.ID == id {
			if err := apply(e); err != nil {
				return nil, err
			}
			return e, nil
		}
	}
	return nil, internal.ErrEmployeeNotFound
}

type mockWorkLogRepository struct {
	logs []*worklog.WorkLog
}

func (m *mockWorkLogRepository) Create(ctx context.Context, log *worklog.WorkLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockWorkLogRepository) GetByID(ctx context.Context, id string) (*worklog.WorkLog, error) {
	for _, l := range m.logs {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, internal.ErrWorkLogNotFound
}

func (m *mockWorkLogRepository) ListByEmployee(ctx context.Context, filter worklog.ListFilter) ([]*worklog.WorkLog, error) {
	out := make([]*worklog.WorkLog, 0)
	for _, l := range m.logs {
		if l.EmployeeID == filter.EmployeeID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockWorkLogRepository) ListAll(ctx context.Context, startDate, endDate string) ([]*worklog.WorkLog, error) {
	out := make([]*worklog.WorkLog, 0)
	for _, l := range m.logs {
		if startDate != "" && l.Date < startDate {
			continue
		}
		if endDate != "" && l.Date > endDate {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *mockWorkLogRepository) Update(ctx context.Context, id string, apply func(*worklog.WorkLog) error) (*worklog.WorkLog, error) {
	for _, l := range m.logs {
		if l.ID == id {
			if err := apply(l); err != nil {
				return nil, err
			}
			return l, nil
		}
	}
	return nil, internal.ErrWorkLogNotFound
}

type mockLeaveRepository struct {
	requests []*leave.LeaveRequest
}

func (m *mockLeaveRepository) Create(ctx context.Context, req *leave.LeaveRequest) error {
	m.requests = append(m.requests, req)
	return nil
}

func (m *mockLeaveRepository) GetByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	for _, r := range m.requests {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, internal.ErrLeaveRequestNotFound
}

func (m *mockLeaveRepository) ListByEmployee(ctx context.Context, employeeID, status string) ([]*leave.LeaveRequest, error) {
	return nil, nil
}

func (m *mockLeaveRepository) ListPending(ctx context.Context, managerID string) ([]*leave.LeaveRequest, error) {
	out := make([]*leave.LeaveRequest, 0)
	for _, r := range m.requests {
		if r.Status == leave.StatusPending {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockLeaveRepository) Update(ctx context.Context, id string, apply func(*leave.LeaveRequest) error) (*leave.LeaveRequest, error) {
	return nil, internal.ErrLeaveRequestNotFound
}

type mockSettingsRepository struct {
	current settings.Settings
}

func (m *mockSettingsRepository) Get(ctx context.Context) (*settings.Settings, error) {
	cp := m.current
	return &cp, nil
}

func (m *mockSettingsRepository) Update(ctx context.Context, apply func(*settings.Settings) error) (*settings.Settings, error) {
	if err := apply(&m.current); err != nil {
		return nil, err
	}
	m.current.UpdatedAt = time.Now().UTC()
	cp := m.current
	return &cp, nil
}

func (m *mockSettingsRepository) EditWindow(ctx context.Context) (time.Duration, error) {
	return time.Duration(m.current.LogEditTimeLimitHours) * time.Hour, nil
}

type mockAuditTrail struct {
	entries []*audit.Entry
}

func (m *mockAuditTrail) Append(ctx context.Context, entry *audit.Entry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditTrail) List(ctx context.Context, filter audit.ListFilter) ([]*audit.Entry, error) {
	out := make([]*audit.Entry, 0)
	for _, e := range m.entries {
		if filter.ActorID != "" && e.ActorID != filter.ActorID {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// mockCreator fails any row whose email is already present.
type mockCreator struct {
	repo *mockEmployeeRepository
}

func (m *mockCreator) CreateEmployee(ctx context.Context, actor *employee.Employee, dto employee.CreateEmployeeDTO) (*employee.Employee, error) {
	if _, err := m.repo.GetByEmail(ctx, dto.Email); err == nil {
		return nil, internal.ErrEmailTaken
	}
	emp := &employee.Employee{ID: uuid.NewString(), Email: dto.Email, Role: dto.Role, IsActive: true}
	m.repo.employees = append(m.repo.employees, emp)
	return emp, nil
}

type mockAuditRecorder struct {
	actions []string
}

func (m *mockAuditRecorder) Record(actorID, action, entityType, entityID string, details map[string]any) {
	m.actions = append(m.actions, action)
}

var _ = ginkgo.Describe("AdminService", func() {
	var (
		employees *mockEmployeeRepository
		workLogs  *mockWorkLogRepository
		leaves    *mockLeaveRepository
		sysconf   *mockSettingsRepository
		trail     *mockAuditTrail
		auditRec  *mockAuditRecorder
		service   *Service
		ctx       context.Context

		admin  *employee.Employee
		worker *employee.Employee
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()

		admin = &employee.Employee{ID: "admin-1", Role: employee.RoleAdmin, FirstName: "Ada", LastName: "Admin", IsActive: true}
		worker = &employee.Employee{ID: "emp-1", Role: employee.RoleEmployee, FirstName: "Walt", LastName: "Worker", Department: "Engineering", IsActive: true}

		employees = &mockEmployeeRepository{employees: []*employee.Employee{admin, worker}}
		workLogs = &mockWorkLogRepository{}
		leaves = &mockLeaveRepository{}
		sysconf = &mockSettingsRepository{current: settings.Settings{
			ID:                    "settings-1",
			LogEditTimeLimitHours: 24,
			DefaultLeaveTypes:     []string{"vacation", "sick"},
			DefaultTaskCategories: []string{"development"},
		}}
		trail = &mockAuditTrail{}
		auditRec = &mockAuditRecorder{}

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		service = NewService(employees, workLogs, leaves, sysconf, trail, &mockCreator{repo: employees}, auditRec, logger)
	})

	seedLog := func(employeeID, status string, age time.Duration, hours float64) {
		now := time.Now().UTC()
		workLogs.logs = append(workLogs.logs, &worklog.WorkLog{
			ID:         uuid.NewString(),
			EmployeeID: employeeID,
			Date:       now.Add(-age).Format("2006-01-02"),
			TimeSpent:  hours,
			Status:     status,
			CreatedAt:  now.Add(-age),
		})
	}

	ginkgo.Describe("Dashboard", func() {
		ginkgo.It("is admin only", func() {
			_, err := service.Dashboard(ctx, worker)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrForbidden))
		})

		ginkgo.It("aggregates headline numbers", func() {
			inactive := &employee.Employee{ID: "emp-2", Role: employee.RoleEmployee, IsActive: false}
			employees.employees = append(employees.employees, inactive)

			seedLog(worker.ID, worklog.StatusCompleted, time.Hour, 4)
			seedLog(worker.ID, worklog.StatusInProgress, 10*24*time.Hour, 2)

			leaves.requests = append(leaves.requests, &leave.LeaveRequest{ID: "lr-1", Status: leave.StatusPending})

			stats, err := service.Dashboard(ctx, admin)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(stats.TotalEmployees).To(gomega.Equal(3))
			gomega.Expect(stats.ActiveEmployees).To(gomega.Equal(2))
			gomega.Expect(stats.PendingLeaveRequests).To(gomega.Equal(1))
			gomega.Expect(stats.RecentWorkLogs).To(gomega.Equal(1))
			gomega.Expect(stats.CompletionRate).To(gomega.Equal(0.5))
		})
	})

	ginkgo.Describe("Settings", func() {
		ginkgo.It("updates only the provided fields and audits the change", func() {
			hours := 48
			updated, err := service.UpdateSettings(ctx, admin, UpdateSettingsDTO{LogEditTimeLimitHours: &hours})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(updated.LogEditTimeLimitHours).To(gomega.Equal(48))
			gomega.Expect(updated.DefaultLeaveTypes).To(gomega.Equal([]string{"vacation", "sick"}))
			gomega.Expect(auditRec.actions).To(gomega.ContainElement("update"))
		})

		ginkgo.It("rejects a zero edit window", func() {
			hours := 0
			_, err := service.UpdateSettings(ctx, admin, UpdateSettingsDTO{LogEditTimeLimitHours: &hours})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("is admin only", func() {
			_, err := service.GetSettings(ctx, worker)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrForbidden))
		})
	})

	ginkgo.Describe("BulkCreateEmployees", func() {
		ginkgo.It("continues past failing rows and reports them", func() {
			dtos := []employee.CreateEmployeeDTO{
				{Email: "new1@company.com", Role: employee.RoleEmployee},
				{Email: "new1@company.com", Role: employee.RoleEmployee},
				{Email: "new2@company.com", Role: employee.RoleEmployee},
			}

			result, err := service.BulkCreateEmployees(ctx, admin, dtos)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(result.Successful).To(gomega.Equal(2))
			gomega.Expect(result.Errors).To(gomega.Equal(1))
			gomega.Expect(result.CreatedEmployeeIDs).To(gomega.HaveLen(2))
			gomega.Expect(result.ErrorDetails).To(gomega.HaveLen(1))
			gomega.Expect(result.ErrorDetails[0].Row).To(gomega.Equal(2))
			gomega.Expect(result.ErrorDetails[0].Email).To(gomega.Equal("new1@company.com"))
		})
	})

	ginkgo.Describe("AuditTrails", func() {
		ginkgo.It("filters by actor", func() {
			trail.entries = append(trail.entries,
				&audit.Entry{ID: "1", ActorID: "emp-1", Action: "create"},
				&audit.Entry{ID: "2", ActorID: "emp-2", Action: "update"},
			)

			got, err := service.AuditTrails(ctx, admin, audit.ListFilter{ActorID: "emp-1"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(got).To(gomega.HaveLen(1))
			gomega.Expect(got[0].Action).To(gomega.Equal("create"))
		})
	})

	ginkgo.Describe("ProductivityReport", func() {
		ginkgo.BeforeEach(func() {
			seedLog(worker.ID, worklog.StatusCompleted, time.Hour, 4)
			seedLog(worker.ID, worklog.StatusBlocked, time.Hour, 2)
		})

		ginkgo.It("rolls up per-employee totals", func() {
			report, err := service.ProductivityReport(ctx, admin, ReportFilter{})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Summary.TotalEmployees).To(gomega.Equal(2))
			gomega.Expect(report.Summary.TotalHours).To(gomega.Equal(6.0))

			var row *EmployeeProductivity
			for i := range report.Employees {
				if report.Employees[i].EmployeeID == worker.ID {
					row = &report.Employees[i]
				}
			}
			gomega.Expect(row).NotTo(gomega.BeNil())
			gomega.Expect(row.TotalLogs).To(gomega.Equal(2))
			gomega.Expect(row.CompletedTasks).To(gomega.Equal(1))
			gomega.Expect(row.CompletionRate).To(gomega.Equal(0.5))
		})

		ginkgo.It("scopes by department", func() {
			report, err := service.ProductivityReport(ctx, admin, ReportFilter{Department: "Engineering"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Employees).To(gomega.HaveLen(1))
			gomega.Expect(report.Employees[0].EmployeeID).To(gomega.Equal(worker.ID))
		})

		ginkgo.It("renders a PDF document", func() {
			data, err := service.ProductivityReportPDF(ctx, admin, ReportFilter{})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(bytes.HasPrefix(data, []byte("%PDF"))).To(gomega.BeTrue())
		})
	})
})
