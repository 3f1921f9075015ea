package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/ascend-backend/internal/dto"
	"github.com/GregMSThompson/ascend-backend/internal/response"
)

type settingsHandlers struct {
	ResponseHandler response.ResponseHandler
	MaintenanceSvc  MaintenanceService
}

func NewSettingsHandlers(deps *Deps) *settingsHandlers {
	return &settingsHandlers{ResponseHandler: deps.ResponseHandler, MaintenanceSvc: deps.MaintenanceSvc}
}

func (h *settingsHandlers) SettingsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/sync", h.Sync)
	r.Post("/clear", h.Clear)
	return r
}

func (h *settingsHandlers) Sync(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.ConfirmRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	n, err := h.MaintenanceSvc.DevSync(r.Context(), s.Actor(), req.Confirm)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]int{"updated": n})
}

func (h *settingsHandlers) Clear(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.ConfirmRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	counts, err := h.MaintenanceSvc.ClearAll(r.Context(), s.Actor(), req.Confirm)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, counts)
}
