package leave

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
	repo   Repository
	audit  AuditRecorder
	logger *slog.Logger
}

func NewService(repo Repository, audit AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		audit:  audit,
		logger: logger,
	}
}

// CreateLeaveRequest files a pending request for the caller. The approving
// manager is snapshotted from the employee record at creation time.
func (s *Service) CreateLeaveRequest(ctx context.Context, actor *employee.Employee, dto CreateLeaveRequestDTO) (*LeaveRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	req := &LeaveRequest{
		ID:         uuid.NewString(),
		EmployeeID: actor.ID,
		StartDate:  dto.StartDate,
		EndDate:    dto.EndDate,
		LeaveType:  dto.LeaveType,
		Reason:     dto.Reason,
		Status:     StatusPending,
		ManagerID:  actor.ManagerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, req); err != nil {
		s.logger.Error("failed to create leave request", "error", err, "employee_id", actor.ID)
		return nil, err
	}

	s.audit.Record(actor.ID, "create", "leave_request", req.ID, map[string]any{
		"start_date": req.StartDate,
		"end_date":   req.EndDate,
		"leave_type": req.LeaveType,
	})

	return req, nil
}

// ListLeaveRequests returns the caller's own requests, newest first.
func (s *Service) ListLeaveRequests(ctx context.Context, actor *employee.Employee, status string) ([]*LeaveRequest, error) {
	if status != "" && !ValidStatus(status) {
		return nil, internal.NewValidationFieldErrors([]internal.FieldError{
			{Field: "status", Message: "status must be one of pending, approved, rejected"},
		})
	}
	return s.repo.ListByEmployee(ctx, actor.ID, status)
}

// PendingApprovals lists requests awaiting a decision, oldest first.
// Managers see their direct reports' requests, admins all of them.
func (s *Service) PendingApprovals(ctx context.Context, actor *employee.Employee) ([]*LeaveRequest, error) {
	if !actor.IsManagerOrAdmin() {
		return nil, internal.ErrForbidden
	}
	if actor.IsAdmin() {
		return s.repo.ListPending(ctx, "")
	}
	return s.repo.ListPending(ctx, actor.ID)
}

// GetLeaveRequest fetches one request. Visible to the owner, the routed
// manager and admins.
func (s *Service) GetLeaveRequest(ctx context.Context, actor *employee.Employee, id string) (*LeaveRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(actor, req) {
		return nil, internal.ErrForbidden
	}
	return req, nil
}

// UpdateLeaveRequest edits a request. Owner only, pending only; both
// checks run under the store lock so a concurrent approval cannot race an
// edit.
func (s *Service) UpdateLeaveRequest(ctx context.Context, actor *employee.Employee, id string, dto UpdateLeaveRequestDTO) (*LeaveRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, func(req *LeaveRequest) error {
		if req.EmployeeID != actor.ID {
			return internal.ErrForbidden
		}
		if !req.Pending() {
			return internal.ErrLeaveProcessed
		}
		if dto.StartDate != nil {
			req.StartDate = *dto.StartDate
		}
		if dto.EndDate != nil {
			req.EndDate = *dto.EndDate
		}
		if dto.LeaveType != nil {
			req.LeaveType = *dto.LeaveType
		}
		if dto.Reason != nil {
			req.Reason = *dto.Reason
		}
		if req.StartDate > req.EndDate {
			return internal.NewValidationFieldErrors([]internal.FieldError{
				{Field: "start_date", Message: "start_date must be before or equal to end_date"},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actor.ID, "update", "leave_request", id, updateDetails(dto))
	return updated, nil
}

// Decide approves or rejects a pending request. Managers decide their own
// reports' requests, admins any. The pending check happens inside the lock,
// so a decided request can never be decided twice.
func (s *Service) Decide(ctx context.Context, actor *employee.Employee, id string, dto ApprovalDTO) (*LeaveRequest, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated, err := s.repo.Update(ctx, id, func(req *LeaveRequest) error {
		if !s.canApprove(actor, req) {
			return internal.ErrForbidden
		}
		if !req.Pending() {
			return internal.ErrLeaveProcessed
		}
		req.Status = dto.Status
		req.ManagerComments = dto.ManagerComments
		req.ApprovedBy = &actor.ID
		req.ApprovedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	action := "approve"
	if dto.Status == StatusRejected {
		action = "reject"
	}
	details := map[string]any{"status": dto.Status}
	if dto.ManagerComments != nil {
		details["comments"] = *dto.ManagerComments
	}
	s.audit.Record(actor.ID, action, "leave_request", id, details)
	s.logger.Info("leave request decided", "request_id", id, "status", dto.Status, "actor_id", actor.ID)

	return updated, nil
}

// Cancel withdraws a pending request. Recorded as a rejection so the
// request keeps a terminal status without a fourth state.
func (s *Service) Cancel(ctx context.Context, actor *employee.Employee, id string) error {
	comment := "Cancelled by employee"
	now := time.Now().UTC()

	_, err := s.repo.Update(ctx, id, func(req *LeaveRequest) error {
		if req.EmployeeID != actor.ID {
			return internal.ErrForbidden
		}
		if !req.Pending() {
			return internal.ErrLeaveProcessed
		}
		req.Status = StatusRejected
		req.ManagerComments = &comment
		req.ApprovedBy = &actor.ID
		req.ApprovedAt = &now
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(actor.ID, "delete", "leave_request", id, map[string]any{"action": "cancelled"})
	return nil
}

func (s *Service) canView(actor *employee.Employee, req *LeaveRequest) bool {
	if actor.IsAdmin() || req.EmployeeID == actor.ID {
		return true
	}
	return req.ManagerID != nil && *req.ManagerID == actor.ID
}

func (s *Service) canApprove(actor *employee.Employee, req *LeaveRequest) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.IsManagerOrAdmin() && req.ManagerID != nil && *req.ManagerID == actor.ID
}

func updateDetails(dto UpdateLeaveRequestDTO) map[string]any {
	details := make(map[string]any)
	if dto.StartDate != nil {
		details["start_date"] = *dto.StartDate
	}
	if dto.EndDate != nil {
		details["end_date"] = *dto.EndDate
	}
	if dto.LeaveType != nil {
		details["leave_type"] = *dto.LeaveType
	}
	if dto.Reason != nil {
		details["reason"] = *dto.Reason
	}
	return details
}
