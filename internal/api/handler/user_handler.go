package handler

import (
	"encoding/json"
	"net/http"

	"arroyo_seco_api/internal/api/middleware"
	"arroyo_seco_api/internal/app/service"
	"arroyo_seco_api/internal/common"
	"arroyo_seco_api/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

// UserHandler exposes the administrative status/role mutations and forced
// session revocation.
type UserHandler struct {
	authService *service.AuthService
	auth        *middleware.Authenticator
}

func NewUserHandler(authService *service.AuthService, auth *middleware.Authenticator) *UserHandler {
	return &UserHandler{authService: authService, auth: auth}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Use(h.auth.Require(model.RoleAdmin))
	r.Patch("/{id}", h.updateAccess)
	r.Post("/{id}/revoke-sessions", h.revokeSessions)
}

type updateAccessRequest struct {
	Status *int    `json:"status"`
	Role   *string `json:"role"`
}

func (h *UserHandler) updateAccess(w http.ResponseWriter, r *http.Request) {
	var req updateAccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, common.NewValidationError(common.CodeMissingFields, "Invalid request payload"))
		return
	}

	var status *model.UserStatus
	if req.Status != nil {
		parsed, ok := model.ParseUserStatus(*req.Status)
		if !ok {
			common.RespondWithError(w, common.NewValidationError(common.CodeMissingFields, "Unknown user status"))
			return
		}
		status = &parsed
	}

	var role *model.Role
	if req.Role != nil {
		parsed, ok := model.ParseRole(*req.Role)
		if !ok {
			common.RespondWithError(w, common.NewValidationError(common.CodeMissingFields, "Unknown role"))
			return
		}
		role = &parsed
	}

	user, err := h.authService.UpdateUserAccess(r.Context(), chi.URLParam(r, "id"), status, role)
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "User updated", map[string]any{"user": user})
}

func (h *UserHandler) revokeSessions(w http.ResponseWriter, r *http.Request) {
	revoked, err := h.authService.RevokeUserSessions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Sessions revoked", map[string]any{"revoked": revoked})
}
