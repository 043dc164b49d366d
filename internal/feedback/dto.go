package feedback

import (
	"strings"

	"github.com/workforcehq/workforce-management/internal"
)

type CreateFeedbackDTO struct {
	WorkLogID string `json:"work_log_id"`
	Rating    *int   `json:"rating"`
	Comments  string `json:"comments"`
}

func (dto *CreateFeedbackDTO) Validate() error {
	var fields []internal.FieldError

	dto.WorkLogID = strings.TrimSpace(dto.WorkLogID)
	if dto.WorkLogID == "" {
		fields = append(fields, internal.FieldError{Field: "work_log_id", Message: "work_log_id is required"})
	}

	dto.Comments = strings.TrimSpace(dto.Comments)
	if dto.Comments == "" {
		fields = append(fields, internal.FieldError{Field: "comments", Message: "comments is required"})
	}

	if dto.Rating != nil && (*dto.Rating < 1 || *dto.Rating > 5) {
		fields = append(fields, internal.FieldError{Field: "rating", Message: "rating must be between 1 and 5"})
	}

	if len(fields) > 0 {
		return internal.NewValidationFieldErrors(fields)
	}
	return nil
}
