package services

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/GregMSThompson/ascend-backend/internal/dto"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/store"
	"github.com/GregMSThompson/ascend-backend/pkg/dates"
	"github.com/GregMSThompson/ascend-backend/pkg/logger"
)

// starterTasks are created with every new client.
var starterTasks = []struct {
	Title    string
	Priority models.Priority
}{
	{"Estrutura de Campanhas", models.PriorityAlta},
	{"Relatório Semanal", models.PriorityMedia},
}

// CreateClient writes the client and its starter tasks in one batch, so a
// failure leaves neither behind.
func (s *recordService) CreateClient(ctx context.Context, actor Actor, in dto.ClientInput) (string, error) {
	ctx, span := tracer.Start(ctx, "records.CreateClient")
	defer span.End()

	if err := in.Validate(); err != nil {
		return "", err
	}
	if err := s.authorize(actor, models.KindClients); err != nil {
		return "", err
	}

	now := s.Clock()
	clientID := newID()
	name := strings.TrimSpace(in.ProjectName)
	span.SetAttributes(attribute.String("client.id", clientID))

	ops := []store.BatchOp{
		store.SetOp(s.Layout.Doc(models.KindClients, clientID), s.stamp(in.Fields(), actor, true), false),
	}
	for _, fields := range starterTaskFields(clientID, name, now) {
		ops = append(ops, store.SetOp(s.Layout.Doc(models.KindTasks, newID()), fields, false))
	}

	if err := s.Docs.RunBatch(ctx, ops); err != nil {
		return "", s.fail(ctx, span, "create clients", err)
	}
	logger.FromContext(ctx).Info("client created", "id", clientID, "starterTasks", len(starterTasks))
	return clientID, nil
}

func starterTaskFields(clientID, clientName string, now time.Time) []map[string]any {
	ts := dates.ISO(now)
	out := make([]map[string]any, 0, len(starterTasks))
	for _, st := range starterTasks {
		out = append(out, map[string]any{
			"titulo":         st.Title,
			"status":         string(models.TaskPendente),
			"prioridade":     string(st.Priority),
			"cliente_id":     clientID,
			"cliente_nome":   clientName,
			"data_entrega":   ts,
			"valor_contrato": 0.0,
			"createdAt":      ts,
			"createdBy":      models.SystemActor,
			"updatedAt":      ts,
			"updatedBy":      models.SystemActor,
		})
	}
	return out
}

// ClientViews pairs every client with the completion ratio of its tasks.
func ClientViews(clients []models.Client, tasks []models.Task) []dto.ClientView {
	out := make([]dto.ClientView, 0, len(clients))
	for _, c := range clients {
		total, done := taskCounts(c.ID, tasks)
		out = append(out, dto.ClientView{Client: c, TaskCount: total, Completion: ratio(done, total)})
	}
	return out
}

func withSpanKind(kind models.Kind) trace.SpanStartOption {
	return trace.WithAttributes(attribute.String("kind", string(kind)))
}
