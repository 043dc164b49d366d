package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeReference    ErrorType = "REFERENCE_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeUnavailable  ErrorType = "SERVICE_UNAVAILABLE"
	ErrorTypeStorage      ErrorType = "STORAGE_ERROR"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidDateRange ErrorCode = "INVALID_DATE_RANGE"
	ErrCodeInvalidRating    ErrorCode = "INVALID_RATING"
	ErrCodeImmutableField   ErrorCode = "IMMUTABLE_FIELD"

	ErrCodeManagerNotFound      ErrorCode = "MANAGER_NOT_FOUND"
	ErrCodeWorkLogRefNotFound   ErrorCode = "WORK_LOG_REF_NOT_FOUND"
	ErrCodeEmployeeRefNotFound  ErrorCode = "EMPLOYEE_REF_NOT_FOUND"
	ErrCodeEmployeeNotFound     ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeWorkLogNotFound      ErrorCode = "WORK_LOG_NOT_FOUND"
	ErrCodeLeaveRequestNotFound ErrorCode = "LEAVE_REQUEST_NOT_FOUND"
	ErrCodeFeedbackNotFound     ErrorCode = "FEEDBACK_NOT_FOUND"

	ErrCodeEmailTaken        ErrorCode = "EMAIL_ALREADY_REGISTERED"
	ErrCodeEditWindowExpired ErrorCode = "EDIT_WINDOW_EXPIRED"
	ErrCodeLeaveProcessed    ErrorCode = "LEAVE_ALREADY_PROCESSED"
	ErrCodeForbidden         ErrorCode = "INSUFFICIENT_PERMISSIONS"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"

	ErrCodeLockTimeout       ErrorCode = "LOCK_TIMEOUT"
	ErrCodeStorageCorruption ErrorCode = "STORAGE_CORRUPTION"
	ErrCodeWriteFailure      ErrorCode = "WRITE_FAILURE"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type FieldErrors struct {
	Errors []FieldError `json:"errors"`
}

func (f FieldErrors) Join() string {
	messages := make([]string, len(f.Errors))
	for i, fe := range f.Errors {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "; ")
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldErrors(fields []FieldError) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details:    FieldErrors{Errors: fields},
	}
}

// NewReferenceError reports a dangling weak reference, e.g. a manager_id
// pointing at a missing employee.
func NewReferenceError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeReference,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewUnavailableError maps retry-later conditions, e.g. lock acquisition
// timing out after bounded retries.
func NewUnavailableError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnavailable,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
	}
}

// NewStorageError maps data-integrity conditions that need operator
// intervention, distinct from transient failures.
func NewStorageError(message string, code ErrorCode, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeStorage,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrEmployeeNotFound     = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrWorkLogNotFound      = NewNotFoundError("Work log not found", ErrCodeWorkLogNotFound)
	ErrLeaveRequestNotFound = NewNotFoundError("Leave request not found", ErrCodeLeaveRequestNotFound)
	ErrFeedbackNotFound     = NewNotFoundError("Feedback not found", ErrCodeFeedbackNotFound)

	ErrEmailTaken        = NewConflictError("Employee with this email already exists", ErrCodeEmailTaken)
	ErrManagerNotFound   = NewReferenceError("manager_id does not reference an active manager", ErrCodeManagerNotFound)
	ErrImmutableField    = NewValidationError("id and created_at cannot be changed", ErrCodeImmutableField)
	ErrEditWindowExpired = NewForbiddenError("Work log can no longer be edited", ErrCodeEditWindowExpired)
	ErrLeaveProcessed    = NewValidationError("Leave request has already been processed", ErrCodeLeaveProcessed)
	ErrForbidden         = NewForbiddenError("Insufficient permissions", ErrCodeForbidden)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
