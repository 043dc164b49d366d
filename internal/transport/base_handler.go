package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/workforcehq/workforce-management/internal"
	"github.com/workforcehq/workforce-management/internal/datastore"
	"github.com/workforcehq/workforce-management/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
		if lg == nil {
			lg = slog.Default()
		}
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResp := map[string]interface{}{
		"code":    status,
		"message": message,
	}

	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		h.Logger.Error("failed to encode error response", "error", err)
	}
}

// HandleServiceError maps service errors to stable HTTP responses so API
// consumers can tell bad input, retry-later and data-integrity problems
// apart.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		status, body := appErr.ToHTTPResponse()
		if status >= http.StatusInternalServerError {
			h.Logger.Error("service error", "code", appErr.Code, "error", err)
		}
		h.WriteJSON(w, status, body)
		return
	}

	switch {
	case errors.Is(err, datastore.ErrLockTimeout):
		appErr := internal.NewUnavailableError("Storage is busy, retry shortly", internal.ErrCodeLockTimeout)
		status, body := appErr.ToHTTPResponse()
		h.WriteJSON(w, status, body)
	case datastore.IsCorruption(err):
		h.Logger.Error("storage corruption", "error", err)
		appErr := internal.NewStorageError("Data integrity problem, contact an operator", internal.ErrCodeStorageCorruption, err)
		status, body := appErr.ToHTTPResponse()
		h.WriteJSON(w, status, body)
	case datastore.IsWriteFailure(err):
		h.Logger.Error("storage write failure", "error", err)
		appErr := internal.NewStorageError("Failed to persist changes", internal.ErrCodeWriteFailure, err)
		status, body := appErr.ToHTTPResponse()
		h.WriteJSON(w, status, body)
	default:
		h.Logger.Error("unhandled service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
