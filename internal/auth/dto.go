package auth

import (
	"strings"

	"github.com/workforcehq/workforce-management/internal"
	"github.com/workforcehq/workforce-management/internal/employee"
)

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto *LoginDTO) Validate() error {
	var fields []internal.FieldError

	dto.Email = strings.ToLower(strings.TrimSpace(dto.Email))
	if dto.Email == "" {
		fields = append(fields, internal.FieldError{Field: "email", Message: "email is required"})
	}
	if dto.Password == "" {
		fields = append(fields, internal.FieldError{Field: "password", Message: "password is required"})
	}

	if len(fields) > 0 {
		return internal.NewValidationFieldErrors(fields)
	}
	return nil
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token"`
}

type LoginResponse struct {
	AccessToken  string             `json:"access_token"`
	RefreshToken string             `json:"refresh_token"`
	TokenType    string             `json:"token_type"`
	User         *employee.Employee `json:"user"`
}

type VerifyResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
