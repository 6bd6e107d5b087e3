package handler

import (
	"encoding/json"
	"net/http"

	"arroyo_seco_api/internal/api/middleware"
	"arroyo_seco_api/internal/app/service"
	"arroyo_seco_api/internal/common"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
	auth        *middleware.Authenticator
}

func NewAuthHandler(authService *service.AuthService, auth *middleware.Authenticator) *AuthHandler {
	return &AuthHandler{authService: authService, auth: auth}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)

	// Logout only needs a verified signature: its own session lookup decides
	// the outcome, including 404 for a session that is already gone.
	r.With(h.auth.RequireToken()).Post("/logout", h.logout)

	r.Group(func(protected chi.Router) {
		protected.Use(h.auth.Require())
		protected.Get("/me", h.me)
		protected.Get("/verify", h.verify)
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, common.NewValidationError(common.CodeMissingFields, "Invalid request payload"))
		return
	}

	resp, err := h.authService.Register(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, "User registered", resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, common.NewValidationError(common.CodeMissingFields, "Invalid request payload"))
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Login successful", resp)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, common.NewAuthError(common.CodeTokenRequired, "Authorization token required", false))
		return
	}

	if err := h.authService.Logout(r.Context(), principal.SessionID); err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Logged out", nil)
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, common.NewAuthError(common.CodeTokenRequired, "Authorization token required", false))
		return
	}

	user, err := h.authService.Me(r.Context(), principal.UserID)
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "OK", map[string]any{"user": user})
}

// verify reflects the request principal back without touching the store
// beyond what the resolver already did.
func (h *AuthHandler) verify(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, common.NewAuthError(common.CodeTokenRequired, "Authorization token required", false))
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Token is valid", map[string]any{"user": principal})
}
