package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/GregMSThompson/ascend-backend/internal/dto"
	"github.com/GregMSThompson/ascend-backend/internal/errs"
	"github.com/GregMSThompson/ascend-backend/internal/forms"
	"github.com/GregMSThompson/ascend-backend/internal/middleware"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/session"
)

// created is the body of a successful create. Next is the blank draft for
// the following entry when the form stays open.
type created struct {
	ID   string      `json:"id"`
	Next forms.Draft `json:"next,omitempty"`
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.NewValidationError("invalid request body")
	}
	return nil
}

func currentSession(r *http.Request) (*session.Session, error) {
	s := middleware.SessionFrom(r.Context())
	if s == nil {
		return nil, errs.NewAuthError("unauthenticated", "not signed in")
	}
	return s, nil
}

// observing returns the session when its grant covers kind.
func observing(r *http.Request, kind models.Kind) (*session.Session, error) {
	s, err := currentSession(r)
	if err != nil {
		return nil, err
	}
	if !s.Grant().CanObserve(kind) {
		return nil, errs.NewPermissionError("you do not have access to " + string(kind))
	}
	return s, nil
}

func keepOpen(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("keepOpen"))
	return v
}

func formContext(r *http.Request) forms.Context {
	q := r.URL.Query()
	return forms.Context{ClientID: q.Get("clientId"), ClientName: q.Get("clientName")}
}

func sessionView(s *session.Session) dto.SessionView {
	return dto.NewSessionView(string(s.State()), s.Profile(), s.Grant())
}
