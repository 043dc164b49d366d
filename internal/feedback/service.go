package feedback

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/workforcehq/workforce-management/internal"
	"github.com/workforcehq/workforce-management/internal/employee"
	"github.com/workforcehq/workforce-management/internal/worklog"
)

type AuditRecorder interface {
	Record(actorID, action, entityType, entityID string, details map[string]any)
}

type Service struct {
	repo      Repository
	workLogs  worklog.Repository
	employees employee.Repository
	audit     AuditRecorder
	logger    *slog.Logger
}

func NewService(repo Repository, workLogs worklog.Repository, employees employee.Repository, audit AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		workLogs:  workLogs,
		employees: employees,
		audit:     audit,
		logger:    logger,
	}
}

// CreateFeedback records a review of a work log. Managers review their
// direct reports' logs, admins anyone's. The work log and its owner are
// resolved before the feedback collection lock is taken, so no two
// collection locks are ever held at once.
func (s *Service) CreateFeedback(ctx context.Context, actor *employee.Employee, dto CreateFeedbackDTO) (*Feedback, error) {
	if !actor.IsManagerOrAdmin() {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	log, err := s.workLogs.GetByID(ctx, dto.WorkLogID)
	if err != nil {
		return nil, err
	}
	owner, err := s.employees.GetByID(ctx, log.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && (owner.ManagerID == nil || *owner.ManagerID != actor.ID) {
		return nil, internal.ErrForbidden
	}

	fb := &Feedback{
		ID:         uuid.NewString(),
		WorkLogID:  log.ID,
		EmployeeID: log.EmployeeID,
		GivenBy:    actor.ID,
		Rating:     dto.Rating,
		Comments:   dto.Comments,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, fb); err != nil {
		s.logger.Error("failed to create feedback", "error", err, "work_log_id", log.ID)
		return nil, err
	}

	details := map[string]any{
		"work_log_id": fb.WorkLogID,
		"employee_id": fb.EmployeeID,
	}
	if fb.Rating != nil {
		details["rating"] = *fb.Rating
	}
	s.audit.Record(actor.ID, "create", "feedback", fb.ID, details)

	return fb, nil
}

// EmployeeFeedback lists all feedback received by one employee, newest
// first. Self, direct manager or admin.
func (s *Service) EmployeeFeedback(ctx context.Context, actor *employee.Employee, employeeID string) ([]*Feedback, error) {
	target, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(target) {
		return nil, internal.ErrForbidden
	}
	return s.repo.ListByEmployee(ctx, employeeID)
}

// WorkLogFeedback lists feedback attached to one work log.
func (s *Service) WorkLogFeedback(ctx context.Context, actor *employee.Employee, workLogID string) ([]*Feedback, error) {
	log, err := s.workLogs.GetByID(ctx, workLogID)
	if err != nil {
		return nil, err
	}
	owner, err := s.employees.GetByID(ctx, log.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(owner) {
		return nil, internal.ErrForbidden
	}
	return s.repo.ListByWorkLog(ctx, workLogID)
}

// MyFeedback lists the caller's received feedback.
func (s *Service) MyFeedback(ctx context.Context, actor *employee.Employee) ([]*Feedback, error) {
	return s.repo.ListByEmployee(ctx, actor.ID)
}

// GivenFeedback lists feedback the caller has written. Managers and admins
// only.
func (s *Service) GivenFeedback(ctx context.Context, actor *employee.Employee) ([]*Feedback, error) {
	if !actor.IsManagerOrAdmin() {
		return nil, internal.ErrForbidden
	}
	return s.repo.ListByGiver(ctx, actor.ID)
}
