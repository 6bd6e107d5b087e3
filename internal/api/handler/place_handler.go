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

type PlaceHandler struct {
	placeService *service.PlaceService
	auth         *middleware.Authenticator
}

func NewPlaceHandler(placeService *service.PlaceService, auth *middleware.Authenticator) *PlaceHandler {
	return &PlaceHandler{placeService: placeService, auth: auth}
}

func (h *PlaceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{slug}", h.get)

	r.Group(func(editors chi.Router) {
		editors.Use(h.auth.Require(model.RoleEditor, model.RoleAdmin))
		editors.Post("/", h.create)
		editors.Put("/{slug}", h.update)
	})

	r.Group(func(admins chi.Router) {
		admins.Use(h.auth.Require(model.RoleAdmin))
		admins.Delete("/{slug}", h.delete)
	})
}

func (h *PlaceHandler) list(w http.ResponseWriter, r *http.Request) {
	places, err := h.placeService.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "OK", map[string]any{"places": places})
}

func (h *PlaceHandler) get(w http.ResponseWriter, r *http.Request) {
	place, err := h.placeService.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "OK", map[string]any{"place": place})
}

func (h *PlaceHandler) create(w http.ResponseWriter, r *http.Request) {
	var input service.PlaceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.RespondWithError(w, common.NewValidationError(common.CodeMissingFields, "Invalid request payload"))
		return
	}

	place, err := h.placeService.Create(r.Context(), input)
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, "Place created", map[string]any{"place": place})
}

func (h *PlaceHandler) update(w http.ResponseWriter, r *http.Request) {
	var input service.PlaceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		common.RespondWithError(w, common.NewValidationError(common.CodeMissingFields, "Invalid request payload"))
		return
	}

	place, err := h.placeService.Update(r.Context(), chi.URLParam(r, "slug"), input)
	if err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Place updated", map[string]any{"place": place})
}

func (h *PlaceHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.placeService.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		common.RespondWithError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, "Place deleted", nil)
}
