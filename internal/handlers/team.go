package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/ascend-backend/internal/dto"
	"github.com/GregMSThompson/ascend-backend/internal/errs"
	"github.com/GregMSThompson/ascend-backend/internal/forms"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/response"
)

type teamHandlers struct {
	ResponseHandler response.ResponseHandler
	RecordSvc       RecordService
	AuthSvc         AuthService
	Clock           func() time.Time
}

func NewTeamHandlers(deps *Deps) *teamHandlers {
	return &teamHandlers{
		ResponseHandler: deps.ResponseHandler,
		RecordSvc:       deps.RecordSvc,
		AuthSvc:         deps.AuthSvc,
		Clock:           deps.now,
	}
}

func (h *teamHandlers) TeamRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListMembers)
	r.Post("/", h.CreateMember)
	r.Patch("/{id}", h.UpdateMember)
	r.Delete("/{id}", h.DeleteMember)
	r.Post("/{id}/password-reset", h.ResetPassword)
	return r
}

func (h *teamHandlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if !s.Grant().CanManageTeam() {
		h.ResponseHandler.HandleError(w, r, errs.NewPermissionError("only admins can see the team"))
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, s.Members())
}

func (h *teamHandlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.MemberInput
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	id, err := h.RecordSvc.CreateMember(r.Context(), s.Actor(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	next := forms.AfterSubmit(models.KindTeamMembers, true, keepOpen(r), forms.Context{}, h.Clock())
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, created{ID: id, Next: next})
}

func (h *teamHandlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	var req dto.MemberPatch
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.RecordSvc.UpdateMember(r.Context(), s.Actor(), chi.URLParam(r, "id"), req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *teamHandlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.RecordSvc.Delete(r.Context(), s.Actor(), models.KindTeamMembers, chi.URLParam(r, "id")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *teamHandlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
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
	if err := h.AuthSvc.ResetMemberPassword(r.Context(), s.Actor(), chi.URLParam(r, "id"), req.Confirm); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusAccepted, nil)
}
