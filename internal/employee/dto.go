package employee

import (
	"net/mail"
	"strings"
	"time"

	"github.com/workforcehq/workforce-management/internal"
)

const dateLayout = "2006-01-02"

type CreateEmployeeDTO struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Role       string  `json:"role"`
	ManagerID  *string `json:"manager_id,omitempty"`
	Department string  `json:"department,omitempty"`
	Position   string  `json:"position,omitempty"`
	HireDate   string  `json:"hire_date"`
}

func (dto *CreateEmployeeDTO) Validate() error {
	var fields []internal.FieldError

	dto.Email = strings.ToLower(strings.TrimSpace(dto.Email))
	if dto.Email == "" {
		fields = append(fields, internal.FieldError{Field: "email", Message: "email is required"})
	} else if _, err := mail.ParseAddress(dto.Email); err != nil {
		fields = append(fields, internal.FieldError{Field: "email", Message: "email is not valid"})
	}
	if len(dto.Password) < 8 {
		fields = append(fields, internal.FieldError{Field: "password", Message: "password must be at least 8 characters"})
	}
	if strings.TrimSpace(dto.FirstName) == "" {
		fields = append(fields, internal.FieldError{Field: "first_name", Message: "first name is required"})
	}
	if strings.TrimSpace(dto.LastName) == "" {
		fields = append(fields, internal.FieldError{Field: "last_name", Message: "last name is required"})
	}
	if dto.Role == "" {
		dto.Role = RoleEmployee
	}
	if !ValidRole(dto.Role) {
		fields = append(fields, internal.FieldError{Field: "role", Message: "role must be employee, manager or admin"})
	}
	if _, err := time.Parse(dateLayout, dto.HireDate); err != nil {
		fields = append(fields, internal.FieldError{Field: "hire_date", Message: "hire_date must be YYYY-MM-DD"})
	}

	if len(fields) > 0 {
		return internal.NewValidationFieldErrors(fields)
	}
	return nil
}

type UpdateEmployeeDTO struct {
	Email      *string `json:"email,omitempty"`
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Role       *string `json:"role,omitempty"`
	ManagerID  *string `json:"manager_id,omitempty"`
	Department *string `json:"department,omitempty"`
	Position   *string `json:"position,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func (dto *UpdateEmployeeDTO) Validate() error {
	var fields []internal.FieldError

	if dto.Email != nil {
		*dto.Email = strings.ToLower(strings.TrimSpace(*dto.Email))
		if _, err := mail.ParseAddress(*dto.Email); err != nil {
			fields = append(fields, internal.FieldError{Field: "email", Message: "email is not valid"})
		}
	}
	if dto.FirstName != nil && strings.TrimSpace(*dto.FirstName) == "" {
		fields = append(fields, internal.FieldError{Field: "first_name", Message: "first name cannot be empty"})
	}
	if dto.LastName != nil && strings.TrimSpace(*dto.LastName) == "" {
		fields = append(fields, internal.FieldError{Field: "last_name", Message: "last name cannot be empty"})
	}
	if dto.Role != nil && !ValidRole(*dto.Role) {
		fields = append(fields, internal.FieldError{Field: "role", Message: "role must be employee, manager or admin"})
	}

	if len(fields) > 0 {
		return internal.NewValidationFieldErrors(fields)
	}
	return nil
}
