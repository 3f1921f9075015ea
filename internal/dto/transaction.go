package dto

import (
	"strings"

	"github.com/GregMSThompson/ascend-backend/internal/errs"
	"github.com/GregMSThompson/ascend-backend/internal/models"
)

type TransactionInput struct {
	Type        models.TransactionType   `json:"type"`
	Amount      Amount                   `json:"amount"`
	Description string                   `json:"description"`
	Category    string                   `json:"category"`
	Date        string                   `json:"date"`
	Status      models.TransactionStatus `json:"status"`
	ClientID    string                   `json:"clientId,omitempty"`
	ClientName  string                   `json:"clientName,omitempty"`
}

func (in TransactionInput) Validate() error {
	if !in.Type.Valid() {
		return errs.NewValidationError("type must be receita or despesa")
	}
	if in.Status != "" && !in.Status.Valid() {
		return errs.NewValidationError("invalid transaction status")
	}
	if err := required("description", in.Description); err != nil {
		return err
	}
	if err := required("date", in.Date); err != nil {
		return err
	}
	return nonNegative("amount", in.Amount)
}

func (in TransactionInput) Fields() map[string]any {
	status := in.Status
	if status == "" {
		status = models.TransactionPendente
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "outras"
	}
	f := map[string]any{
		"type":        string(in.Type),
		"amount":      in.Amount.Float(),
		"description": strings.TrimSpace(in.Description),
		"category":    category,
		"date":        strings.TrimSpace(in.Date),
		"status":      string(status),
	}
	if in.ClientID != "" {
		f["clientId"] = in.ClientID
		f["clientName"] = in.ClientName
	}
	return f
}

type TransactionPatch struct {
	Type        *models.TransactionType   `json:"type,omitempty"`
	Amount      *Amount                   `json:"amount,omitempty"`
	Description *string                   `json:"description,omitempty"`
	Category    *string                   `json:"category,omitempty"`
	Date        *string                   `json:"date,omitempty"`
	Status      *models.TransactionStatus `json:"status,omitempty"`
	ClientID    *string                   `json:"clientId,omitempty"`
	ClientName  *string                   `json:"clientName,omitempty"`
}

func (p TransactionPatch) Validate() error {
	if p.Type != nil && !p.Type.Valid() {
		return errs.NewValidationError("type must be receita or despesa")
	}
	if p.Status != nil && !p.Status.Valid() {
		return errs.NewValidationError("invalid transaction status")
	}
	if p.Description != nil {
		if err := required("description", *p.Description); err != nil {
			return err
		}
	}
	return nonNegativePtr("amount", p.Amount)
}

func (p TransactionPatch) Fields() map[string]any {
	f := fieldSet{}
	if p.Type != nil {
		f["type"] = string(*p.Type)
	}
	if p.Status != nil {
		f["status"] = string(*p.Status)
	}
	f.amount("amount", p.Amount)
	f.str("description", p.Description)
	f.str("category", p.Category)
	f.str("date", p.Date)
	f.str("clientId", p.ClientID)
	f.str("clientName", p.ClientName)
	return f
}
