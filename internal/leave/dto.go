package leave

import (
	"strings"
	"time"

	"github.com/workforcehq/workforce-management/internal"
)

const dateLayout = "2006-01-02"

type CreateLeaveRequestDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	LeaveType string `json:"leave_type"`
	Reason    string `json:"reason"`
}

func (dto *CreateLeaveRequestDTO) Validate() error {
	var fields []internal.FieldError

	fields = appendDateErrors(fields, "start_date", dto.StartDate)
	fields = appendDateErrors(fields, "end_date", dto.EndDate)

	dto.LeaveType = strings.TrimSpace(dto.LeaveType)
	if dto.LeaveType == "" {
		fields = append(fields, internal.FieldError{Field: "leave_type", Message: "leave_type is required"})
	}

	if len(fields) == 0 && dto.StartDate > dto.EndDate {
		fields = append(fields, internal.FieldError{Field: "start_date", Message: "start_date must be before or equal to end_date"})
	}

	if len(fields) > 0 {
		return internal.NewValidationFieldErrors(fields)
	}
	return nil
}

type UpdateLeaveRequestDTO struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	LeaveType *string `json:"leave_type"`
	Reason    *string `json:"reason"`
}

func (dto *UpdateLeaveRequestDTO) Validate() error {
	var fields []internal.FieldError

	if dto.StartDate != nil {
		fields = appendDateErrors(fields, "start_date", *dto.StartDate)
	}
	if dto.EndDate != nil {
		fields = appendDateErrors(fields, "end_date", *dto.EndDate)
	}
	if dto.LeaveType != nil && strings.TrimSpace(*dto.LeaveType) == "" {
		fields = append(fields, internal.FieldError{Field: "leave_type", Message: "leave_type must not be empty"})
	}

	if len(fields) > 0 {
		return internal.NewValidationFieldErrors(fields)
	}
	return nil
}

type ApprovalDTO struct {
	Status          string  `json:"status"`
	ManagerComments *string `json:"manager_comments"`
}

func (dto *ApprovalDTO) Validate() error {
	if dto.Status != StatusApproved && dto.Status != StatusRejected {
		return internal.NewValidationFieldErrors([]internal.FieldError{
			{Field: "status", Message: "status must be approved or rejected"},
		})
	}
	return nil
}

func appendDateErrors(fields []internal.FieldError, name, value string) []internal.FieldError {
	if strings.TrimSpace(value) == "" {
		return append(fields, internal.FieldError{Field: name, Message: name + " is required"})
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return append(fields, internal.FieldError{Field: name, Message: name + " must be formatted as YYYY-MM-DD"})
	}
	return fields
}
