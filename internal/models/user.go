package models

import "strings"

type Role string

const (
	RoleVisitante Role = "visitante"
	RoleGestor    Role = "gestor"
	RoleAdmin     Role = "admin"
	RoleDev       Role = "dev"
	// RoleErro marks a profile that could not be resolved; it grants nothing.
	RoleErro Role = "erro"
)

func (r Role) Assignable() bool {
	switch r {
	case RoleVisitante, RoleGestor, RoleAdmin, RoleDev:
		return true
	}
	return false
}

// Permissions are only consulted for non-elevated roles. Missing keys read as false.
type Permissions struct {
	Dashboard  bool `firestore:"dashboard" json:"dashboard"`
	Financeiro bool `firestore:"financeiro" json:"financeiro"`
	Clientes   bool `firestore:"clientes" json:"clientes"`
	Tarefas    bool `firestore:"tarefas" json:"tarefas"`
}

func (p Permissions) Map() map[string]any {
	return map[string]any{
		"dashboard":  p.Dashboard,
		"financeiro": p.Financeiro,
		"clientes":   p.Clientes,
		"tarefas":    p.Tarefas,
	}
}

// TeamMember is keyed by uid once its owner has signed in, and by the
// normalized email while it is still a pending invite.
type TeamMember struct {
	ID          string      `firestore:"-" json:"id"`
	UID         string      `firestore:"uid,omitempty" json:"uid,omitempty"`
	Name        string      `firestore:"name" json:"name"`
	Email       string      `firestore:"email" json:"email"`
	Role        Role        `firestore:"role" json:"role"`
	Permissions Permissions `firestore:"permissions" json:"permissions"`
	Audit
}

// Pending reports an unclaimed invite: no uid yet and keyed by email. A
// uid-keyed record missing its uid field is still a member.
func (m TeamMember) Pending() bool {
	return m.UID == "" && strings.Contains(m.ID, "@")
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func VisitorProfile(email string) TeamMember {
	return TeamMember{Name: email, Email: email, Role: RoleVisitante}
}

func ErrorProfile(email string) TeamMember {
	return TeamMember{Name: email, Email: email, Role: RoleErro}
}
