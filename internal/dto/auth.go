package dto

import (
	"github.com/GregMSThompson/ascend-backend/internal/access"
	"github.com/GregMSThompson/ascend-backend/internal/models"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PasswordResetRequest struct {
	Email   string `json:"email"`
	Confirm bool   `json:"confirm"`
}

type ConfirmRequest struct {
	Confirm bool `json:"confirm"`
}

type AuthResult struct {
	UID          string       `json:"uid"`
	Email        string       `json:"email"`
	IDToken      string       `json:"idToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
	Session      *SessionView `json:"session,omitempty"`
}

// SessionView describes the signed-in member and what the UI should offer.
type SessionView struct {
	State       string            `json:"state"`
	Profile     models.TeamMember `json:"profile"`
	Surfaces    []access.Surface  `json:"surfaces"`
	Collections []models.Kind     `json:"collections"`
	CanManage   bool              `json:"canManageTeam"`
}

func NewSessionView(state string, profile models.TeamMember, grant access.Grant) SessionView {
	return SessionView{
		State:       state,
		Profile:     profile,
		Surfaces:    grant.Surfaces(),
		Collections: grant.Collections(),
		CanManage:   grant.CanManageTeam(),
	}
}
