package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/ascend-backend/internal/forms"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/response"
)

type formHandlers struct {
	ResponseHandler response.ResponseHandler
	Clock           func() time.Time
}

func NewFormHandlers(deps *Deps) *formHandlers {
	return &formHandlers{ResponseHandler: deps.ResponseHandler, Clock: deps.now}
}

// GetDefaults returns the blank draft for a form. Task forms opened from a
// client pass ?clientId=&clientName= to keep the link.
func (h *formHandlers) GetDefaults(w http.ResponseWriter, r *http.Request) {
	draft, err := forms.DefaultsFor(models.Kind(chi.URLParam(r, "kind")), formContext(r), h.Clock())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, draft)
}
