package store

import (
	"github.com/GregMSThompson/ascend-backend/internal/models"
)

// Layout places every collection of a tenant under artifacts/{tenant}.
type Layout struct {
	Tenant string
}

func NewLayout(tenant string) Layout {
	return Layout{Tenant: tenant}
}

func (l Layout) Collection(kind models.Kind) string {
	return "artifacts/" + l.Tenant + "/" + string(kind)
}

func (l Layout) Doc(kind models.Kind, id string) string {
	return l.Collection(kind) + "/" + id
}
