package dto

import (
	"strings"

	"github.com/GregMSThompson/ascend-backend/internal/errs"
	"github.com/GregMSThompson/ascend-backend/internal/models"
)

type MemberInput struct {
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Role        models.Role        `json:"role"`
	Permissions models.Permissions `json:"permissions"`
}

func (in MemberInput) Validate() error {
	if err := required("name", in.Name); err != nil {
		return err
	}
	email := models.NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return errs.NewValidationError("a valid email is required")
	}
	if !in.Role.Assignable() {
		return errs.NewValidationError("invalid role")
	}
	return nil
}

func (in MemberInput) Fields() map[string]any {
	return map[string]any{
		"name":        strings.TrimSpace(in.Name),
		"email":       models.NormalizeEmail(in.Email),
		"role":        string(in.Role),
		"permissions": in.Permissions.Map(),
	}
}

type MemberPatch struct {
	Name        *string             `json:"name,omitempty"`
	Role        *models.Role        `json:"role,omitempty"`
	Permissions *models.Permissions `json:"permissions,omitempty"`
}

func (p MemberPatch) Validate() error {
	if p.Name != nil {
		if err := required("name", *p.Name); err != nil {
			return err
		}
	}
	if p.Role != nil && !p.Role.Assignable() {
		return errs.NewValidationError("invalid role")
	}
	return nil
}

func (p MemberPatch) Fields() map[string]any {
	f := fieldSet{}
	f.str("name", p.Name)
	if p.Role != nil {
		f["role"] = string(*p.Role)
	}
	if p.Permissions != nil {
		f["permissions"] = p.Permissions.Map()
	}
	return f
}
