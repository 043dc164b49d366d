package auth

import (
	"context"
	"log/slog"

	"github.com/workforcehq/workforce-management/internal"
	"github.com/workforcehq/workforce-management/internal/employee"
)

type AuditRecorder interface {
	Record(actorID, action, entityType, entityID string, details map[string]any)
}

type Service struct {
	employees employee.Repository
	tokens    TokenGeneratorAPI
	audit     AuditRecorder
	logger    *slog.Logger
}

func NewService(employees employee.Repository, tokens TokenGeneratorAPI, audit AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		employees: employees,
		tokens:    tokens,
		audit:     audit,
		logger:    logger,
	}
}

// Authenticate verifies credentials and issues a token pair. Lookup is
// case-insensitive on email; deactivated accounts are rejected after the
// password check so the two cases stay distinguishable in the audit trail.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, *employee.Employee, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, nil, err
	}

	emp, err := s.employees.GetByEmail(ctx, dto.Email)
	if err != nil {
		return AuthTokens{}, nil, internal.ErrInvalidCredentials
	}
	if err := VerifyPassword(emp.PasswordHash, dto.Password); err != nil {
		s.logger.Warn("login failed", "email", dto.Email)
		return AuthTokens{}, nil, internal.ErrInvalidCredentials
	}
	if !emp.IsActive {
		return AuthTokens{}, nil, internal.ErrUserInactive
	}

	tokens, err := s.issueTokens(emp)
	if err != nil {
		return AuthTokens{}, nil, err
	}

	s.audit.Record(emp.ID, "login", "user", emp.ID, map[string]any{"email": emp.Email})
	s.logger.Info("login succeeded", "employee_id", emp.ID)
	return tokens, emp, nil
}

func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	gen, ok := s.tokens.(*JWTTokenGenerator)
	if !ok {
		return AuthTokens{}, internal.ErrInvalidToken
	}
	claims, err := gen.validateRefresh(refreshToken)
	if err != nil {
		return AuthTokens{}, mapTokenError(err)
	}

	emp, err := s.employees.GetByID(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}
	if !emp.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}
	return s.issueTokens(emp)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, mapTokenError(err)
	}
	return claims, nil
}

// CurrentUser resolves the token subject to a live employee record.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*employee.Employee, error) {
	emp, err := s.employees.GetByID(ctx, userID)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	return emp, nil
}

// Logout only records the event; JWTs are stateless so invalidation happens
// client side.
func (s *Service) Logout(ctx context.Context, actor *employee.Employee) {
	s.audit.Record(actor.ID, "logout", "user", actor.ID, map[string]any{"email": actor.Email})
}

func (s *Service) issueTokens(emp *employee.Employee) (AuthTokens, error) {
	access, err := s.tokens.GenerateAccessToken(emp.ID, emp.Email, emp.Role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(emp.ID, emp.Email, emp.Role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}
	return AuthTokens{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func mapTokenError(err error) error {
	switch err {
	case ErrTokenExpired:
		return internal.ErrTokenExpired
	default:
		return internal.ErrInvalidToken
	}
}
