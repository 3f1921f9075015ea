package dto

import (
	"github.com/GregMSThompson/ascend-backend/internal/errs"
	"github.com/GregMSThompson/ascend-backend/internal/models"
)

type TaskInput struct {
	Title         string            `json:"titulo"`
	Status        models.TaskStatus `json:"status"`
	Priority      models.Priority   `json:"prioridade"`
	DueDate       string            `json:"data_entrega"`
	ClientID      string            `json:"cliente_id,omitempty"`
	ClientName    string            `json:"cliente_nome,omitempty"`
	ContractValue Amount            `json:"valor_contrato"`
	Signature     string            `json:"assinatura"`
}

func (in TaskInput) Validate() error {
	if err := required("titulo", in.Title); err != nil {
		return err
	}
	if in.Status != "" && !in.Status.Valid() {
		return errs.NewValidationError("invalid task status")
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return errs.NewValidationError("invalid priority")
	}
	return nonNegative("valor_contrato", in.ContractValue)
}

func (in TaskInput) Fields() map[string]any {
	f := fieldSet{
		"status":         string(orDefault(in.Status, models.TaskPendente)),
		"prioridade":     string(orDefault(in.Priority, models.PriorityMedia)),
		"valor_contrato": in.ContractValue.Float(),
	}
	f.str("titulo", &in.Title)
	f.str("data_entrega", &in.DueDate)
	f.str("assinatura", &in.Signature)
	if in.ClientID != "" {
		f["cliente_id"] = in.ClientID
		f["cliente_nome"] = in.ClientName
	}
	return f
}

type TaskPatch struct {
	Title         *string            `json:"titulo,omitempty"`
	Status        *models.TaskStatus `json:"status,omitempty"`
	Priority      *models.Priority   `json:"prioridade,omitempty"`
	DueDate       *string            `json:"data_entrega,omitempty"`
	ClientID      *string            `json:"cliente_id,omitempty"`
	ClientName    *string            `json:"cliente_nome,omitempty"`
	ContractValue *Amount            `json:"valor_contrato,omitempty"`
	Signature     *string            `json:"assinatura,omitempty"`
}

func (p TaskPatch) Validate() error {
	if p.Title != nil {
		if err := required("titulo", *p.Title); err != nil {
			return err
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		return errs.NewValidationError("invalid task status")
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return errs.NewValidationError("invalid priority")
	}
	return nonNegativePtr("valor_contrato", p.ContractValue)
}

func (p TaskPatch) Fields() map[string]any {
	f := fieldSet{}
	if p.Status != nil {
		f["status"] = string(*p.Status)
	}
	if p.Priority != nil {
		f["prioridade"] = string(*p.Priority)
	}
	f.str("titulo", p.Title)
	f.str("data_entrega", p.DueDate)
	f.str("cliente_id", p.ClientID)
	f.str("cliente_nome", p.ClientName)
	f.amount("valor_contrato", p.ContractValue)
	f.str("assinatura", p.Signature)
	return f
}

type UpdateText struct {
	Text string `json:"text"`
}

func (u UpdateText) Validate() error {
	return required("text", u.Text)
}

// FeedView is what the task detail shows: the update feed, or the legacy
// report for tasks that predate it.
type FeedView struct {
	TaskID       string          `json:"taskId"`
	Updates      []models.Update `json:"updates"`
	LegacyReport string          `json:"relatorio,omitempty"`
	LastUpdate   string          `json:"lastUpdate,omitempty"`
}
