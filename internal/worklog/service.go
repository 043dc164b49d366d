package worklog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/workforcehq/workforce-management/internal"
	"github.com/workforcehq/workforce-management/internal/employee"
)

type AuditRecorder interface {
	Record(actorID, action, entityType, entityID string, details map[string]any)
}

type Service struct {
	repo      Repository
	employees employee.Repository
	window    EditWindowProvider
	audit     AuditRecorder
	logger    *slog.Logger
}

func NewService(repo Repository, employees employee.Repository, window EditWindowProvider, audit AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		employees: employees,
		window:    window,
		audit:     audit,
		logger:    logger,
	}
}

// CreateWorkLog records a task entry for the calling employee. Logs are
// always created for self.
func (s *Service) CreateWorkLog(ctx context.Context, actor *employee.Employee, dto CreateWorkLogDTO) (*WorkLogResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	log := &WorkLog{
		ID:              uuid.NewString(),
		EmployeeID:      actor.ID,
		Date:            dto.Date,
		TaskDescription: dto.TaskDescription,
		TimeSpent:       dto.TimeSpent,
		Status:          dto.Status,
		Project:         dto.Project,
		Category:        dto.Category,
		Notes:           dto.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		s.logger.Error("failed to create work log", "error", err, "employee_id", actor.ID)
		return nil, err
	}

	s.audit.Record(actor.ID, "create", "work_log", log.ID, map[string]any{
		"date":             log.Date,
		"task_description": log.TaskDescription,
		"time_spent":       log.TimeSpent,
	})

	return &WorkLogResponse{WorkLog: log, CanEdit: true}, nil
}

// ListWorkLogs returns an employee's logs, newest first. Employees see their
// own, managers their reports', admins anyone's. An empty employeeID means
// the caller's own logs.
func (s *Service) ListWorkLogs(ctx context.Context, actor *employee.Employee, filter ListFilter) ([]WorkLogResponse, error) {
	if filter.EmployeeID == "" {
		filter.EmployeeID = actor.ID
	}
	if err := s.checkAccess(ctx, actor, filter.EmployeeID); err != nil {
		return nil, err
	}

	logs, err := s.repo.ListByEmployee(ctx, filter)
	if err != nil {
		return nil, err
	}

	window, err := s.window.EditWindow(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	out := make([]WorkLogResponse, 0, len(logs))
	for _, log := range logs {
		out = append(out, WorkLogResponse{WorkLog: log, CanEdit: s.canEdit(log, actor, now, window)})
	}
	return out, nil
}

func (s *Service) GetWorkLog(ctx context.Context, actor *employee.Employee, id string) (*WorkLogResponse, error) {
	log, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, actor, log.EmployeeID); err != nil {
		return nil, err
	}

	window, err := s.window.EditWindow(ctx)
	if err != nil {
		return nil, err
	}
	return &WorkLogResponse{WorkLog: log, CanEdit: s.canEdit(log, actor, time.Now().UTC(), window)}, nil
}

// UpdateWorkLog applies a partial edit. Only the owner may edit, and only
// while the log is inside the configured edit window; admins are exempt from
// both checks. The window check runs inside the store lock so a slow writer
// cannot slip past it.
func (s *Service) UpdateWorkLog(ctx context.Context, actor *employee.Employee, id string, dto UpdateWorkLogDTO) (*WorkLogResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	window, err := s.window.EditWindow(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, func(log *WorkLog) error {
		if !actor.IsAdmin() {
			if log.EmployeeID != actor.ID {
				return internal.ErrForbidden
			}
			if !log.Editable(time.Now().UTC(), window) {
				return internal.ErrEditWindowExpired
			}
		}
		if dto.Date != nil {
			log.Date = *dto.Date
		}
		if dto.TaskDescription != nil {
			log.TaskDescription = *dto.TaskDescription
		}
		if dto.TimeSpent != nil {
			log.TimeSpent = *dto.TimeSpent
		}
		if dto.Status != nil {
			log.Status = *dto.Status
		}
		if dto.Project != nil {
			log.Project = *dto.Project
		}
		if dto.Category != nil {
			log.Category = *dto.Category
		}
		if dto.Notes != nil {
			log.Notes = *dto.Notes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actor.ID, "update", "work_log", id, updateDetails(dto))

	return &WorkLogResponse{WorkLog: updated, CanEdit: s.canEdit(updated, actor, time.Now().UTC(), window)}, nil
}

// AttachFeedback sets the inline manager_feedback note on a log. Allowed for
// the owner's direct manager and admins.
func (s *Service) AttachFeedback(ctx context.Context, actor *employee.Employee, id string, feedback string) (*WorkLog, error) {
	log, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.employees.GetByID(ctx, log.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(owner) || actor.ID == owner.ID {
		return nil, internal.ErrForbidden
	}

	updated, err := s.repo.Update(ctx, id, func(log *WorkLog) error {
		log.ManagerFeedback = &feedback
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actor.ID, "update", "work_log", id, map[string]any{
		"action":   "add_feedback",
		"feedback": feedback,
	})
	return updated, nil
}

// Summary aggregates hours and status counts over an optional date range.
func (s *Service) Summary(ctx context.Context, actor *employee.Employee, filter ListFilter) (*SummaryResponse, error) {
	if filter.EmployeeID == "" {
		filter.EmployeeID = actor.ID
	}
	if err := s.checkAccess(ctx, actor, filter.EmployeeID); err != nil {
		return nil, err
	}

	logs, err := s.repo.ListByEmployee(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := &SummaryResponse{
		EmployeeID:  filter.EmployeeID,
		TotalLogs:   len(logs),
		PeriodStart: filter.StartDate,
		PeriodEnd:   filter.EndDate,
	}
	for _, log := range logs {
		summary.TotalHours += log.TimeSpent
		switch log.Status {
		case StatusCompleted:
			summary.CompletedTasks++
		case StatusInProgress:
			summary.InProgressTasks++
		case StatusBlocked:
			summary.BlockedTasks++
		}
	}
	return summary, nil
}

func (s *Service) checkAccess(ctx context.Context, actor *employee.Employee, employeeID string) error {
	if actor.ID == employeeID || actor.IsAdmin() {
		return nil
	}
	target, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if !actor.CanAccess(target) {
		return internal.ErrForbidden
	}
	return nil
}

func (s *Service) canEdit(log *WorkLog, actor *employee.Employee, now time.Time, window time.Duration) bool {
	if actor.IsAdmin() {
		return true
	}
	return log.EmployeeID == actor.ID && log.Editable(now, window)
}

func updateDetails(dto UpdateWorkLogDTO) map[string]any {
	details := make(map[string]any)
	if dto.Date != nil {
		details["date"] = *dto.Date
	}
	if dto.TaskDescription != nil {
		details["task_description"] = *dto.TaskDescription
	}
	if dto.TimeSpent != nil {
		details["time_spent"] = *dto.TimeSpent
	}
	if dto.Status != nil {
		details["status"] = *dto.Status
	}
	if dto.Project != nil {
		details["project"] = *dto.Project
	}
	if dto.Category != nil {
		details["category"] = *dto.Category
	}
	if dto.Notes != nil {
		details["notes"] = *dto.Notes
	}
	return details
}
