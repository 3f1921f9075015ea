package services

import (
	"context"

	"github.com/GregMSThompson/ascend-backend/internal/errs"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/store"
	"github.com/GregMSThompson/ascend-backend/pkg/logger"
)

// NextStatus flips a transaction between open and settled. Settling picks
// recebido for income and pago for expenses.
func NextStatus(tx models.Transaction) models.TransactionStatus {
	switch tx.Status {
	case models.TransactionPago, models.TransactionRecebido:
		return models.TransactionPendente
	}
	if tx.Type == models.Receita {
		return models.TransactionRecebido
	}
	return models.TransactionPago
}

func (s *recordService) ToggleTransaction(ctx context.Context, actor Actor, id string) (models.TransactionStatus, error) {
	ctx, span := tracer.Start(ctx, "records.ToggleTransaction", withSpanKind(models.KindTransactions))
	defer span.End()

	if err := s.authorize(actor, models.KindTransactions); err != nil {
		return "", err
	}
	path := s.Layout.Doc(models.KindTransactions, id)
	doc, found, err := s.Docs.Get(ctx, path)
	if err != nil {
		return "", s.fail(ctx, span, "toggle transaction", err)
	}
	if !found {
		return "", errs.NewNotFoundError("transaction not found")
	}
	tx, err := store.DecodeTransaction(doc)
	if err != nil {
		return "", errs.NewDatabaseError("toggle transaction", "stored transaction is unreadable", err)
	}

	next := NextStatus(tx)
	fields := map[string]any{"status": string(next)}
	if err := s.Docs.Set(ctx, path, s.stamp(fields, actor, false), true); err != nil {
		return "", s.fail(ctx, span, "toggle transaction", err)
	}
	logger.FromContext(ctx).Info("transaction status toggled", "id", id, "from", tx.Status, "to", next)
	return next, nil
}
