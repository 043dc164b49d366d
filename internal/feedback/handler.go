package feedback

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/workforcehq/workforce-management/internal/employee"
	"github.com/workforcehq/workforce-management/internal/transport"
	"github.com/workforcehq/workforce-management/pkg/logger"
)

type ServiceAPI interface {
	CreateFeedback(ctx context.Context, actor *employee.Employee, dto CreateFeedbackDTO) (*Feedback, error)
	EmployeeFeedback(ctx context.Context, actor *employee.Employee, employeeID string) ([]*Feedback, error)
	WorkLogFeedback(ctx context.Context, actor *employee.Employee, workLogID string) ([]*Feedback, error)
	MyFeedback(ctx context.Context, actor *employee.Employee) ([]*Feedback, error)
	GivenFeedback(ctx context.Context, actor *employee.Employee) ([]*Feedback, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	actor, ok := employee.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto CreateFeedbackDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fb, err := h.Service.CreateFeedback(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, fb)
}

func (h *Handler) EmployeeFeedback(w http.ResponseWriter, r *http.Request) {
	actor, ok := employee.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	employeeID := chi.URLParam(r, "id")
	items, err := h.Service.EmployeeFeedback(r.Context(), actor, employeeID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) WorkLogFeedback(w http.ResponseWriter, r *http.Request) {
	actor, ok := employee.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	workLogID := chi.URLParam(r, "id")
	items, err := h.Service.WorkLogFeedback(r.Context(), actor, workLogID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) MyFeedback(w http.ResponseWriter, r *http.Request) {
	actor, ok := employee.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	items, err := h.Service.MyFeedback(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) GivenFeedback(w http.ResponseWriter, r *http.Request) {
	actor, ok := employee.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	items, err := h.Service.GivenFeedback(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, items)
}
