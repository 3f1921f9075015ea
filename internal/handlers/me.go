package handlers

import (
	"net/http"

	"github.com/GregMSThompson/ascend-backend/internal/response"
)

type meHandlers struct {
	ResponseHandler response.ResponseHandler
}

func NewMeHandlers(deps *Deps) *meHandlers {
	return &meHandlers{ResponseHandler: deps.ResponseHandler}
}

func (h *meHandlers) GetMe(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, sessionView(s))
}
