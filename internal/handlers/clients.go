package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/ascend-backend/internal/dto"
	"github.com/GregMSThompson/ascend-backend/internal/forms"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/response"
	"github.com/GregMSThompson/ascend-backend/internal/services"
)

type clientHandlers struct {
	ResponseHandler response.ResponseHandler
	RecordSvc       RecordService
	Clock           func() time.Time
}

func NewClientHandlers(deps *Deps) *clientHandlers {
	return &clientHandlers{ResponseHandler: deps.ResponseHandler, RecordSvc: deps.RecordSvc, Clock: deps.now}
}

func (h *clientHandlers) ClientRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListClients)
	r.Post("/", h.CreateClient)
	r.Patch("/{id}", h.UpdateClient)
	r.Patch("/{id}/fields", h.UpdateClientField)
	r.Delete("/{id}", h.DeleteClient)
	return r
}

// ListClients includes each client's task completion. Without task access
// the ratio is computed over no tasks and reads 0.
func (h *clientHandlers) ListClients(w http.ResponseWriter, r *http.Request) {
	s, err := observing(r, models.KindClients)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var tasks []models.Task
	if s.Grant().Tasks {
		tasks = s.Tasks()
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, services.ClientViews(s.Clients(), tasks))
}

func (h *clientHandlers) CreateClient(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.ClientInput
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	id, err := h.RecordSvc.CreateClient(r.Context(), s.Actor(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	next := forms.AfterSubmit(models.KindClients, true, keepOpen(r), formContext(r), h.Clock())
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, created{ID: id, Next: next})
}

func (h *clientHandlers) UpdateClient(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.ClientPatch
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.RecordSvc.UpdateClient(r.Context(), s.Actor(), chi.URLParam(r, "id"), req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *clientHandlers) UpdateClientField(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.FieldUpdate
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.RecordSvc.UpdateClientField(r.Context(), s.Actor(), chi.URLParam(r, "id"), req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *clientHandlers) DeleteClient(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.RecordSvc.Delete(r.Context(), s.Actor(), models.KindClients, chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
