// Package access turns a team member's role and permission flags into what
// that member may observe, navigate to and manage.
package access

import "github.com/GregMSThompson/ascend-backend/internal/models"

type Surface string

const (
	SurfaceDashboard    Surface = "dashboard"
	SurfaceTransactions Surface = "transactions"
	SurfaceClients      Surface = "clients"
	SurfaceTasks        Surface = "tasks"
	SurfaceTeam         Surface = "team"
	SurfaceSettings     Surface = "settings"
)

// Grant is comparable so callers can detect when a profile change actually
// alters access.
type Grant struct {
	Role         models.Role
	Transactions bool
	Clients      bool
	Tasks        bool
	Team         bool
}

func Resolve(role models.Role, perms models.Permissions) Grant {
	g := Grant{Role: role}
	switch role {
	case models.RoleErro:
		return g
	case models.RoleAdmin, models.RoleDev:
		g.Transactions, g.Clients, g.Tasks, g.Team = true, true, true, true
		return g
	}
	g.Transactions = perms.Financeiro
	g.Clients = perms.Clientes
	g.Tasks = perms.Tarefas
	return g
}

func ForMember(m models.TeamMember) Grant {
	return Resolve(m.Role, m.Permissions)
}

func (g Grant) Elevated() bool {
	return g.Role == models.RoleAdmin || g.Role == models.RoleDev
}

func (g Grant) IsDev() bool { return g.Role == models.RoleDev }

func (g Grant) CanManageTeam() bool { return g.Elevated() }

func (g Grant) CanObserve(kind models.Kind) bool {
	switch kind {
	case models.KindTransactions:
		return g.Transactions
	case models.KindClients:
		return g.Clients
	case models.KindTasks:
		return g.Tasks
	case models.KindTeamMembers:
		return g.Team
	}
	return false
}

// Collections lists observable kinds in a stable order.
func (g Grant) Collections() []models.Kind {
	var out []models.Kind
	for _, k := range models.Kinds {
		if g.CanObserve(k) {
			out = append(out, k)
		}
	}
	return out
}

// Surfaces is the navigation a member sees. The dashboard is always present,
// even for profiles that failed to resolve.
func (g Grant) Surfaces() []Surface {
	out := []Surface{SurfaceDashboard}
	if g.Transactions {
		out = append(out, SurfaceTransactions)
	}
	if g.Clients {
		out = append(out, SurfaceClients)
	}
	if g.Tasks {
		out = append(out, SurfaceTasks)
	}
	if g.Elevated() {
		out = append(out, SurfaceTeam, SurfaceSettings)
	}
	return out
}

// CanAssignRole reports whether actor may create or promote someone to target.
// Only a dev can hand out the dev role.
func CanAssignRole(actor, target models.Role) bool {
	if !target.Assignable() {
		return false
	}
	switch actor {
	case models.RoleDev:
		return true
	case models.RoleAdmin:
		return target != models.RoleDev
	}
	return false
}

// VisibleMembers hides dev accounts from everyone but devs.
func VisibleMembers(viewer models.Role, members []models.TeamMember) []models.TeamMember {
	out := make([]models.TeamMember, 0, len(members))
	for _, m := range members {
		if m.Role == models.RoleDev && viewer != models.RoleDev {
			continue
		}
		out = append(out, m)
	}
	return out
}
