package handlers

import (
	"net/http"

	"github.com/GregMSThompson/ascend-backend/internal/dto"
	"github.com/GregMSThompson/ascend-backend/internal/middleware"
	"github.com/GregMSThompson/ascend-backend/internal/response"
	"github.com/GregMSThompson/ascend-backend/pkg/logger"
)

type authHandlers struct {
	ResponseHandler response.ResponseHandler
	AuthSvc         AuthService
	Sessions        SessionManager
}

func NewAuthHandlers(deps *Deps) *authHandlers {
	return &authHandlers{
		ResponseHandler: deps.ResponseHandler,
		AuthSvc:         deps.AuthSvc,
		Sessions:        deps.Sessions,
	}
}

func (h *authHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.Credentials
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	res, err := h.AuthSvc.Login(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.withSession(r, res))
}

func (h *authHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.Credentials
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	res, err := h.AuthSvc.Register(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, h.withSession(r, res))
}

func (h *authHandlers) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var req dto.PasswordResetRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	if err := h.AuthSvc.RequestPasswordReset(r.Context(), req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusAccepted, nil)
}

// Logout revokes the member's tokens and tears the session down even when
// revocation fails, so this server stops streaming data either way.
func (h *authHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	err := h.AuthSvc.Logout(r.Context(), uid)
	h.Sessions.Close(uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

// withSession starts a fresh account resolution so the client learns its role
// in the sign-in response. A failure here leaves the sign-in intact.
func (h *authHandlers) withSession(r *http.Request, res dto.AuthResult) dto.AuthResult {
	if h.Sessions == nil {
		return res
	}
	s, err := h.Sessions.SignIn(r.Context(), res.UID, res.Email)
	if err != nil {
		logger.FromContext(r.Context()).Warn("session not opened at sign-in", "uid", res.UID, "error", err)
		return res
	}
	view := sessionView(s)
	res.Session = &view
	return res
}
