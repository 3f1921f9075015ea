package models

// Kind names a record collection under a tenant.
type Kind string

const (
	KindTransactions Kind = "transactions"
	KindClients      Kind = "clients"
	KindTasks        Kind = "tasks"
	KindTeamMembers  Kind = "team_members"
)

var Kinds = []Kind{KindTransactions, KindClients, KindTasks, KindTeamMembers}

func (k Kind) Valid() bool {
	switch k {
	case KindTransactions, KindClients, KindTasks, KindTeamMembers:
		return true
	}
	return false
}

// Audit is stamped on every stored record. Values are ISO-8601 strings and
// the actor is an email, or "sistema" for automatic writes.
type Audit struct {
	CreatedAt string `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
	CreatedBy string `firestore:"createdBy,omitempty" json:"createdBy,omitempty"`
	UpdatedAt string `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
	UpdatedBy string `firestore:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}

const SystemActor = "sistema"
