package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/ascend-backend/internal/dto"
	"github.com/GregMSThompson/ascend-backend/internal/forms"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/response"
)

type taskHandlers struct {
	ResponseHandler response.ResponseHandler
	RecordSvc       RecordService
	Clock           func() time.Time
}

func NewTaskHandlers(deps *Deps) *taskHandlers {
	return &taskHandlers{ResponseHandler: deps.ResponseHandler, RecordSvc: deps.RecordSvc, Clock: deps.now}
}

func (h *taskHandlers) TaskRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListTasks)
	r.Post("/", h.CreateTask)
	r.Patch("/{id}", h.UpdateTask)
	r.Delete("/{id}", h.DeleteTask)
	r.Get("/{id}/feed", h.GetFeed)
	r.Post("/{id}/updates", h.AddUpdate)
	r.Patch("/{id}/updates/{updateId}", h.EditUpdate)
	r.Delete("/{id}/updates/{updateId}", h.RemoveUpdate)
	return r
}

// ListTasks accepts ?clientId= to narrow the list to one client.
func (h *taskHandlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	s, err := observing(r, models.KindTasks)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	tasks := s.Tasks()
	if clientID := r.URL.Query().Get("clientId"); clientID != "" {
		filtered := tasks[:0]
		for _, t := range tasks {
			if t.ClientID == clientID {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tasks)
}

func (h *taskHandlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.TaskInput
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	id, err := h.RecordSvc.CreateTask(r.Context(), s.Actor(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	fc := formContext(r)
	if fc.ClientID == "" {
		fc = forms.Context{ClientID: req.ClientID, ClientName: req.ClientName}
	}
	next := forms.AfterSubmit(models.KindTasks, true, keepOpen(r), fc, h.Clock())
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, created{ID: id, Next: next})
}

func (h *taskHandlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.TaskPatch
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.RecordSvc.UpdateTask(r.Context(), s.Actor(), chi.URLParam(r, "id"), req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *taskHandlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.RecordSvc.Delete(r.Context(), s.Actor(), models.KindTasks, chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *taskHandlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	feed, err := h.RecordSvc.Feed(r.Context(), s.Actor(), chi.URLParam(r, "id"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, feed)
}

func (h *taskHandlers) AddUpdate(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.UpdateText
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	entry, err := h.RecordSvc.AppendUpdate(r.Context(), s.Actor(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, entry)
}

func (h *taskHandlers) EditUpdate(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.UpdateText
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.RecordSvc.EditUpdate(r.Context(), s.Actor(), chi.URLParam(r, "id"), chi.URLParam(r, "updateId"), req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *taskHandlers) RemoveUpdate(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.RecordSvc.RemoveUpdate(r.Context(), s.Actor(), chi.URLParam(r, "id"), chi.URLParam(r, "updateId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
