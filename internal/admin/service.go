package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/workforcehq/workforce-management/internal"
	"github.com/workforcehq/workforce-management/internal/audit"
	"github.com/workforcehq/workforce-management/internal/employee"
	"github.com/workforcehq/workforce-management/internal/leave"
	"github.com/workforcehq/workforce-management/internal/settings"
	"github.com/workforcehq/workforce-management/internal/worklog"
)

type AuditRecorder interface {
	Record(actorID, action, entityType, entityID string, details map[string]any)
}

// EmployeeCreator is the slice of the employee service bulk creation needs.
type EmployeeCreator interface {
	CreateEmployee(ctx context.Context, actor *employee.Employee, dto employee.CreateEmployeeDTO) (*employee.Employee, error)
}

// Service backs the admin-only surface: dashboard stats, audit trail
// queries, system settings and organization-wide reports.
type Service struct {
	employees employee.Repository
	workLogs  worklog.Repository
	leaves    leave.Repository
	settings  settings.Repository
	trail     audit.Repository
	creator   EmployeeCreator
	audit     AuditRecorder
	logger    *slog.Logger
}

func NewService(
	employees employee.Repository,
	workLogs worklog.Repository,
	leaves leave.Repository,
	settingsRepo settings.Repository,
	trail audit.Repository,
	creator EmployeeCreator,
	auditRec AuditRecorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		employees: employees,
		workLogs:  workLogs,
		leaves:    leaves,
		settings:  settingsRepo,
		trail:     trail,
		creator:   creator,
		audit:     auditRec,
		logger:    logger,
	}
}

// Dashboard aggregates headline numbers for the admin overview.
func (s *Service) Dashboard(ctx context.Context, actor *employee.Employee) (*DashboardStats, error) {
	if !actor.IsAdmin() {
		return nil, internal.ErrForbidden
	}

	all, err := s.employees.List(ctx, true)
	if err != nil {
		return nil, err
	}
	pending, err := s.leaves.ListPending(ctx, "")
	if err != nil {
		return nil, err
	}
	logs, err := s.workLogs.ListAll(ctx, "", "")
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalEmployees:       len(all),
		PendingLeaveRequests: len(pending),
	}
	for _, emp := range all {
		if emp.IsActive {
			stats.ActiveEmployees++
		}
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	completed := 0
	for _, log := range logs {
		if log.CreatedAt.After(weekAgo) {
			stats.RecentWorkLogs++
		}
		if log.Status == worklog.StatusCompleted {
			completed++
		}
	}
	if len(logs) > 0 {
		stats.CompletionRate = float64(completed) / float64(len(logs))
	}
	return stats, nil
}

// AuditTrails queries the audit log. Admin only.
func (s *Service) AuditTrails(ctx context.Context, actor *employee.Employee, filter audit.ListFilter) ([]*audit.Entry, error) {
	if !actor.IsAdmin() {
		return nil, internal.ErrForbidden
	}
	return s.trail.List(ctx, filter)
}

func (s *Service) GetSettings(ctx context.Context, actor *employee.Employee) (*settings.Settings, error) {
	if !actor.IsAdmin() {
		return nil, internal.ErrForbidden
	}
	return s.settings.Get(ctx)
}

func (s *Service) UpdateSettings(ctx context.Context, actor *employee.Employee, dto UpdateSettingsDTO) (*settings.Settings, error) {
	if !actor.IsAdmin() {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.settings.Update(ctx, func(cfg *settings.Settings) error {
		if dto.LogEditTimeLimitHours != nil {
			cfg.LogEditTimeLimitHours = *dto.LogEditTimeLimitHours
		}
		if dto.DefaultLeaveTypes != nil {
			cfg.DefaultLeaveTypes = *dto.DefaultLeaveTypes
		}
		if dto.DefaultTaskCategories != nil {
			cfg.DefaultTaskCategories = *dto.DefaultTaskCategories
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	details := make(map[string]any)
	if dto.LogEditTimeLimitHours != nil {
		details["log_edit_time_limit_hours"] = *dto.LogEditTimeLimitHours
	}
	if dto.DefaultLeaveTypes != nil {
		details["default_leave_types"] = *dto.DefaultLeaveTypes
	}
	if dto.DefaultTaskCategories != nil {
		details["default_task_categories"] = *dto.DefaultTaskCategories
	}
	s.audit.Record(actor.ID, "update", "system_settings", updated.ID, details)
	s.logger.Info("system settings updated", "actor_id", actor.ID)

	return updated, nil
}

// BulkCreateEmployees imports a batch, continuing past per-row failures and
// reporting them alongside the successes.
func (s *Service) BulkCreateEmployees(ctx context.Context, actor *employee.Employee, dtos []employee.CreateEmployeeDTO) (*BulkCreateResult, error) {
	if !actor.IsAdmin() {
		return nil, internal.ErrForbidden
	}

	result := &BulkCreateResult{
		Message:            "Bulk operation completed",
		CreatedEmployeeIDs: make([]string, 0, len(dtos)),
		ErrorDetails:       make([]BulkCreateError, 0),
	}

	for i, dto := range dtos {
		emp, err := s.creator.CreateEmployee(ctx, actor, dto)
		if err != nil {
			result.ErrorDetails = append(result.ErrorDetails, BulkCreateError{
				Row:   i + 1,
				Email: dto.Email,
				Error: err.Error(),
			})
			continue
		}
		result.CreatedEmployeeIDs = append(result.CreatedEmployeeIDs, emp.ID)
	}
	result.Successful = len(result.CreatedEmployeeIDs)
	result.Errors = len(result.ErrorDetails)

	s.audit.Record(actor.ID, "create", "bulk_employees", "bulk_operation", map[string]any{
		"total_processed": len(dtos),
		"successful":      result.Successful,
		"errors":          result.Errors,
	})

	return result, nil
}

// ProductivityReport aggregates per-employee hours and task status across
// the organization, optionally scoped by date range and department.
func (s *Service) ProductivityReport(ctx context.Context, actor *employee.Employee, filter ReportFilter) (*ProductivityReport, error) {
	if !actor.IsAdmin() {
		return nil, internal.ErrForbidden
	}

	all, err := s.employees.List(ctx, false)
	if err != nil {
		return nil, err
	}
	logs, err := s.workLogs.ListAll(ctx, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[string][]*worklog.WorkLog)
	for _, log := range logs {
		byEmployee[log.EmployeeID] = append(byEmployee[log.EmployeeID], log)
	}

	report := &ProductivityReport{
		ReportPeriod: ReportPeriod{StartDate: filter.StartDate, EndDate: filter.EndDate},
		Department:   filter.Department,
		Employees:    make([]EmployeeProductivity, 0, len(all)),
	}

	var rateSum float64
	for _, emp := range all {
		if filter.Department != "" && emp.Department != filter.Department {
			continue
		}

		row := EmployeeProductivity{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName(),
			Department:   emp.Department,
		}
		for _, log := range byEmployee[emp.ID] {
			row.TotalLogs++
			row.TotalHours += log.TimeSpent
			switch log.Status {
			case worklog.StatusCompleted:
				row.CompletedTasks++
			case worklog.StatusInProgress:
				row.InProgressTasks++
			case worklog.StatusBlocked:
				row.BlockedTasks++
			}
		}
		if row.TotalLogs > 0 {
			row.CompletionRate = float64(row.CompletedTasks) / float64(row.TotalLogs)
		}
		rateSum += row.CompletionRate
		report.Summary.TotalHours += row.TotalHours
		report.Employees = append(report.Employees, row)
	}

	report.Summary.TotalEmployees = len(report.Employees)
	if len(report.Employees) > 0 {
		report.Summary.AverageCompletionRate = rateSum / float64(len(report.Employees))
	}
	return report, nil
}

// ProductivityReportPDF renders the report as a downloadable PDF.
func (s *Service) ProductivityReportPDF(ctx context.Context, actor *employee.Employee, filter ReportFilter) ([]byte, error) {
	report, err := s.ProductivityReport(ctx, actor, filter)
	if err != nil {
		return nil, err
	}
	data, err := renderProductivityPDF(report)
	if err != nil {
		return nil, internal.NewInternalError(fmt.Sprintf("failed to render report: %v", err), err)
	}
	return data, nil
}
