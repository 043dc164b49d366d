package admin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/workforcehq/workforce-management/internal/audit"
	"github.com/workforcehq/workforce-management/internal/employee"
	"github.com/workforcehq/workforce-management/internal/settings"
	"github.com/workforcehq/workforce-management/internal/transport"
	"github.com/workforcehq/workforce-management/pkg/logger"
)

type ServiceAPI interface {
	Dashboard(ctx context.Context, actor *employee.Employee) (*DashboardStats, error)
	AuditTrails(ctx context.Context, actor *employee.Employee, filter audit.ListFilter) ([]*audit.Entry, error)
	GetSettings(ctx context.Context, actor *employee.Employee) (*settings.Settings, error)
	UpdateSettings(ctx context.Context, actor *employee.Employee, dto UpdateSettingsDTO) (*settings.Settings, error)
	BulkCreateEmployees(ctx context.Context, actor *employee.Employee, dtos []employee.CreateEmployeeDTO) (*BulkCreateResult, error)
	ProductivityReport(ctx context.Context, actor *employee.Employee, filter ReportFilter) (*ProductivityReport, error)
	ProductivityReportPDF(ctx context.Context, actor *employee.Employee, filter ReportFilter) ([]byte, error)
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

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := employee.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	stats, err := h.Service.Dashboard(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) AuditTrails(w http.ResponseWriter, r *http.Request) {
	actor, ok := employee.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = 100
	}
	filter := audit.ListFilter{
		ActorID:    q.Get("user_id"),
		Action:     q.Get("action"),
		EntityType: q.Get("resource_type"),
		Limit:      limit,
	}

	entries, err := h.Service.AuditTrails(r.Context(), actor, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	actor, ok := employee.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	cfg, err := h.Service.GetSettings(r.Context(), actor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, cfg)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	actor, ok := employee.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dto UpdateSettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cfg, err := h.Service.UpdateSettings(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, cfg)
}

func (h *Handler) BulkCreateEmployees(w http.ResponseWriter, r *http.Request) {
	actor, ok := employee.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var dtos []employee.CreateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dtos); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.BulkCreateEmployees(r.Context(), actor, dtos)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) ProductivityReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := employee.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	report, err := h.Service.ProductivityReport(r.Context(), actor, reportFilterFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) ProductivityReportPDF(w http.ResponseWriter, r *http.Request) {
	actor, ok := employee.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	data, err := h.Service.ProductivityReportPDF(r.Context(), actor, reportFilterFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="productivity-report.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Error("failed to write PDF response", "error", err)
	}
}

func reportFilterFromQuery(r *http.Request) ReportFilter {
	q := r.URL.Query()
	return ReportFilter{
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
		Department: q.Get("department"),
	}
}
