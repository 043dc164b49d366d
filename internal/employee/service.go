package employee

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/workforcehq/workforce-management/internal"
)

// AuditRecorder is the slice of the audit hook this service needs. Audit is
// best-effort: Record never fails the primary mutation.
type AuditRecorder interface {
	Record(actorID, action, entityType, entityID string, details map[string]any)
}

type Service struct {
	repo       Repository
	audit      AuditRecorder
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, audit AuditRecorder, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		audit:      audit,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// CreateEmployee registers a new employee record. Admin only.
func (s *Service) CreateEmployee(ctx context.Context, actor *Employee, dto CreateEmployeeDTO) (*Employee, error) {
	if !actor.IsAdmin() {
		return nil, internal.ErrForbidden
	}
	if err := dto.Validate(); err != nil {
		s.logger.Error("employee validation failed", "error", err, "actor_id", actor.ID)
		return nil, err
	}
	if err := s.checkManagerRef(ctx, dto.ManagerID); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	now := time.Now().UTC()
	emp := &Employee{
		ID:           uuid.NewString(),
		Email:        dto.Email,
		PasswordHash: string(hash),
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Role:         dto.Role,
		ManagerID:    dto.ManagerID,
		Department:   dto.Department,
		Position:     dto.Position,
		HireDate:     dto.HireDate,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, emp); err != nil {
		s.logger.Error("failed to create employee", "error", err, "email", dto.Email)
		return nil, err
	}

	s.audit.Record(actor.ID, "create", "employee", emp.ID, map[string]any{
		"email": emp.Email,
		"role":  emp.Role,
	})

	s.logger.Info("employee created", "employee_id", emp.ID, "role", emp.Role)
	return emp, nil
}

// ListEmployees returns all employees; soft-deleted records are excluded
// unless includeInactive is set. Admin only.
func (s *Service) ListEmployees(ctx context.Context, actor *Employee, includeInactive bool) ([]*Employee, error) {
	if !actor.IsAdmin() {
		return nil, internal.ErrForbidden
	}
	return s.repo.List(ctx, includeInactive)
}

// GetEmployee returns one employee. Accessible to self, the direct manager
// and admins. Soft-deleted employees remain fetchable by id.
func (s *Service) GetEmployee(ctx context.Context, actor *Employee, id string) (*Employee, error) {
	emp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(emp) {
		return nil, internal.ErrForbidden
	}
	return emp, nil
}

// UpdateEmployee applies a partial update. Self, direct manager or admin;
// role changes are admin only.
func (s *Service) UpdateEmployee(ctx context.Context, actor *Employee, id string, dto UpdateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dto.Role != nil && !actor.IsAdmin() {
		return nil, internal.ErrForbidden
	}
	if !actor.CanAccess(target) {
		return nil, internal.ErrForbidden
	}
	if dto.ManagerID != nil {
		if err := s.checkManagerRef(ctx, dto.ManagerID); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.Update(ctx, id, func(emp *Employee) error {
		if dto.Email != nil {
			emp.Email = *dto.Email
		}
		if dto.FirstName != nil {
			emp.FirstName = *dto.FirstName
		}
		if dto.LastName != nil {
			emp.LastName = *dto.LastName
		}
		if dto.Role != nil {
			emp.Role = *dto.Role
		}
		if dto.ManagerID != nil {
			emp.ManagerID = dto.ManagerID
		}
		if dto.Department != nil {
			emp.Department = *dto.Department
		}
		if dto.Position != nil {
			emp.Position = *dto.Position
		}
		if dto.IsActive != nil {
			emp.IsActive = *dto.IsActive
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(actor.ID, "update", "employee", id, auditDetails(dto))
	return updated, nil
}

// SoftDeleteEmployee deactivates an employee without removing the record,
// so historical work logs and leave requests keep resolving. Admin only.
func (s *Service) SoftDeleteEmployee(ctx context.Context, actor *Employee, id string) error {
	if !actor.IsAdmin() {
		return internal.ErrForbidden
	}

	_, err := s.repo.Update(ctx, id, func(emp *Employee) error {
		emp.IsActive = false
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.Record(actor.ID, "delete", "employee", id, map[string]any{"action": "soft_delete"})
	s.logger.Info("employee deactivated", "employee_id", id, "actor_id", actor.ID)
	return nil
}

// DirectReports lists active employees managed by managerID. Managers see
// their own reports, admins anyone's.
func (s *Service) DirectReports(ctx context.Context, actor *Employee, managerID string) ([]*Employee, error) {
	if !actor.IsAdmin() && actor.ID != managerID {
		return nil, internal.ErrForbidden
	}

	all, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	reports := make([]*Employee, 0)
	for _, emp := range all {
		if emp.ManagerID != nil && *emp.ManagerID == managerID {
			reports = append(reports, emp)
		}
	}
	return reports, nil
}

// checkManagerRef fails fast, before any lock is taken, when manager_id does
// not resolve to an active manager or admin.
func (s *Service) checkManagerRef(ctx context.Context, managerID *string) error {
	if managerID == nil {
		return nil
	}
	mgr, err := s.repo.GetByID(ctx, *managerID)
	if err != nil {
		return internal.ErrManagerNotFound
	}
	if !mgr.CanManage() || !mgr.IsActive {
		return internal.ErrManagerNotFound
	}
	return nil
}

func auditDetails(dto UpdateEmployeeDTO) map[string]any {
	details := make(map[string]any)
	if dto.Email != nil {
		details["email"] = *dto.Email
	}
	if dto.FirstName != nil {
		details["first_name"] = *dto.FirstName
	}
	if dto.LastName != nil {
		details["last_name"] = *dto.LastName
	}
	if dto.Role != nil {
		details["role"] = *dto.Role
	}
	if dto.ManagerID != nil {
		details["manager_id"] = *dto.ManagerID
	}
	if dto.Department != nil {
		details["department"] = *dto.Department
	}
	if dto.Position != nil {
		details["position"] = *dto.Position
	}
	if dto.IsActive != nil {
		details["is_active"] = *dto.IsActive
	}
	return details
}
