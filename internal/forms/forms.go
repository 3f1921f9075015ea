// Package forms supplies the blank drafts the record forms start from and the
// draft that follows a submit when the form stays open for another entry.
package forms

import (
	"time"

	"github.com/GregMSThompson/ascend-backend/internal/errs"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/pkg/dates"
)

type Draft map[string]any

// Context carries the record a form was opened from, such as the client
// whose task list launched a new task.
type Context struct {
	ClientID   string
	ClientName string
}

func Defaults(kind models.Kind, now time.Time) (Draft, error) {
	today := dates.Day(now)
	switch kind {
	case models.KindTransactions:
		return Draft{
			"type":        string(models.Despesa),
			"amount":      0.0,
			"description": "",
			"category":    "outras",
			"date":        today,
			"status":      string(models.TransactionPendente),
		}, nil
	case models.KindClients:
		return Draft{
			"nome_projeto":   "",
			"tipo":           string(models.ClientTrafego),
			"status":         string(models.ClientAtivo),
			"prioridade":     string(models.PriorityMedia),
			"valor_contrato": 0.0,
		}, nil
	case models.KindTasks:
		return Draft{
			"titulo":         "",
			"status":         string(models.TaskPendente),
			"prioridade":     string(models.PriorityMedia),
			"data_entrega":   today,
			"valor_contrato": 0.0,
			"assinatura":     "",
		}, nil
	case models.KindTeamMembers:
		return Draft{
			"name":        "",
			"email":       "",
			"role":        string(models.RoleGestor),
			"permissions": models.Permissions{Dashboard: true, Clientes: true, Tarefas: true}.Map(),
		}, nil
	}
	return nil, errs.NewValidationError("unknown form " + string(kind))
}

// DefaultsFor is Defaults with the opening context applied.
func DefaultsFor(kind models.Kind, fc Context, now time.Time) (Draft, error) {
	d, err := Defaults(kind, now)
	if err != nil {
		return nil, err
	}
	if kind == models.KindTasks && fc.ClientID != "" {
		d["cliente_id"] = fc.ClientID
		d["cliente_nome"] = fc.ClientName
	}
	return d, nil
}

// AfterSubmit returns the next draft when a create should keep the form
// open, and nil when the form closes. Edits always close.
func AfterSubmit(kind models.Kind, creating, keepOpen bool, fc Context, now time.Time) Draft {
	if !creating || !keepOpen {
		return nil
	}
	d, err := DefaultsFor(kind, fc, now)
	if err != nil {
		return nil
	}
	return d
}
