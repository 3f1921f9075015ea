package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/ascend-backend/internal/errs"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/overdue"
	"github.com/GregMSThompson/ascend-backend/internal/store"
	"github.com/GregMSThompson/ascend-backend/pkg/currency"
	"github.com/GregMSThompson/ascend-backend/pkg/dates"
	"github.com/GregMSThompson/ascend-backend/pkg/logger"
)

type maintenanceStore interface {
	GetAll(ctx context.Context, collection string) ([]store.Document, error)
	RunBatch(ctx context.Context, ops []store.BatchOp) error
}

type maintenanceService struct {
	Docs   maintenanceStore
	Layout store.Layout
	Clock  func() time.Time
}

func NewMaintenanceService(docs maintenanceStore, layout store.Layout) *maintenanceService {
	return &maintenanceService{Docs: docs, Layout: layout, Clock: time.Now}
}

// clearable excludes the team so clearing data never locks anyone out.
var clearable = []models.Kind{models.KindTransactions, models.KindClients, models.KindTasks}

// DevSync escalates every overdue task and rewrites contract values stored
// as text, all in one batch. It returns how many documents were touched.
func (s *maintenanceService) DevSync(ctx context.Context, actor Actor, confirm bool) (int, error) {
	ctx, span := tracer.Start(ctx, "maintenance.DevSync")
	defer span.End()

	if !actor.Grant.IsDev() {
		return 0, errs.NewPermissionError("only a dev can run the sync")
	}
	if !confirm {
		return 0, errs.NewConfirmationError("sync rewrites stored records; confirm to continue")
	}

	now := s.Clock()
	taskDocs, err := s.Docs.GetAll(ctx, s.Layout.Collection(models.KindTasks))
	if err != nil {
		return 0, errs.NewDatabaseError("dev sync", "could not read tasks", err)
	}
	clientDocs, err := s.Docs.GetAll(ctx, s.Layout.Collection(models.KindClients))
	if err != nil {
		return 0, errs.NewDatabaseError("dev sync", "could not read clients", err)
	}

	stamp := map[string]any{"updatedAt": dates.ISO(now), "updatedBy": models.SystemActor}
	var ops []store.BatchOp
	for _, id := range overdue.PlanEscalations(overdue.TagTasks(store.DecodeTasks(ctx, taskDocs), now)) {
		ops = append(ops, store.SetOp(s.Layout.Doc(models.KindTasks, id), withFields(stamp, "prioridade", string(models.PriorityUrgente)), true))
	}
	for _, doc := range clientDocs {
		raw, ok := doc.Data["valor_contrato"].(string)
		if !ok {
			continue
		}
		v, err := currency.ParseInput(raw)
		if err != nil {
			v = 0
		}
		ops = append(ops, store.SetOp(doc.Path, withFields(stamp, "valor_contrato", v), true))
	}

	if len(ops) == 0 {
		return 0, nil
	}
	if err := s.Docs.RunBatch(ctx, ops); err != nil {
		return 0, errs.NewDatabaseError("dev sync", "batch failed", err)
	}
	logger.FromContext(ctx).Info("dev sync applied", "documents", len(ops))
	return len(ops), nil
}

// ClearAll deletes every transaction, client and task. Each collection goes
// in its own atomic batch.
func (s *maintenanceService) ClearAll(ctx context.Context, actor Actor, confirm bool) (map[models.Kind]int, error) {
	ctx, span := tracer.Start(ctx, "maintenance.ClearAll")
	defer span.End()

	if !actor.Grant.Elevated() {
		return nil, errs.NewPermissionError("only admins can clear data")
	}
	if !confirm {
		return nil, errs.NewConfirmationError("this deletes every record; confirm to continue")
	}

	var mu sync.Mutex
	counts := make(map[models.Kind]int, len(clearable))
	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range clearable {
		g.Go(func() error {
			docs, err := s.Docs.GetAll(gctx, s.Layout.Collection(kind))
			if err != nil {
				return errs.NewDatabaseError("clear "+string(kind), "could not list records", err)
			}
			ops := make([]store.BatchOp, 0, len(docs))
			for _, doc := range docs {
				ops = append(ops, store.DeleteOp(doc.Path))
			}
			if len(ops) > 0 {
				if err := s.Docs.RunBatch(gctx, ops); err != nil {
					return errs.NewDatabaseError("clear "+string(kind), "batch failed", err)
				}
			}
			mu.Lock()
			counts[kind] = len(ops)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.FromContext(ctx).Error("clear data failed", "error", err)
		return counts, err
	}
	logger.FromContext(ctx).Warn("all records cleared", "by", actor.Email, "counts", counts)
	return counts, nil
}

func withFields(base map[string]any, kv ...any) map[string]any {
	out := make(map[string]any, len(base)+len(kv)/2)
	for k, v := range base {
		out[k] = v
	}
	for i := 0; i+1 < len(kv); i += 2 {
		out[kv[i].(string)] = kv[i+1]
	}
	return out
}
