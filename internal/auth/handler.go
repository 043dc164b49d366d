package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/workforcehq/workforce-management/internal/employee"
	"github.com/workforcehq/workforce-management/internal/transport"
	"github.com/workforcehq/workforce-management/pkg/logger"
)

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

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, emp, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    tokens.TokenType,
		User:         emp,
	})
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if dto.RefreshToken == "" {
		h.WriteError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	emp, ok := employee.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	h.Service.Logout(r.Context(), emp)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the employee behind the current token.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	emp, ok := employee.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	h.WriteJSON(w, http.StatusOK, emp)
}

func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	emp, ok := employee.FromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
		return
	}

	h.WriteJSON(w, http.StatusOK, VerifyResponse{
		Valid:  true,
		UserID: emp.ID,
		Email:  emp.Email,
		Role:   emp.Role,
	})
}

func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		emp, err := h.Service.CurrentUser(r.Context(), claims.UserID)
		if err != nil {
			h.Logger.Error("auth middleware: failed to load user", "user_id", claims.UserID, "error", err)
			h.WriteError(w, http.StatusUnauthorized, "user not found")
			return
		}
		if !emp.IsActive {
			h.WriteError(w, http.StatusUnauthorized, "user is inactive")
			return
		}

		ctx := employee.ContextWithEmployee(r.Context(), emp)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
