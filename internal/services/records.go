package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/GregMSThompson/ascend-backend/internal/access"
	"github.com/GregMSThompson/ascend-backend/internal/dto"
	"github.com/GregMSThompson/ascend-backend/internal/errs"
	"github.com/GregMSThompson/ascend-backend/internal/metrics"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/store"
	"github.com/GregMSThompson/ascend-backend/pkg/dates"
	"github.com/GregMSThompson/ascend-backend/pkg/logger"
)

type recordStore interface {
	Get(ctx context.Context, path string) (store.Document, bool, error)
	Set(ctx context.Context, path string, data map[string]any, merge bool) error
	Delete(ctx context.Context, path string) error
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	RunBatch(ctx context.Context, ops []store.BatchOp) error
}

// recordService is the only writer of records. Reads come from session
// snapshots; this service only reads back what it needs to validate a write.
type recordService struct {
	Docs    recordStore
	Layout  store.Layout
	Metrics *metrics.Metrics
	Clock   func() time.Time
}

func NewRecordService(docs recordStore, layout store.Layout, m *metrics.Metrics) *recordService {
	return &recordService{Docs: docs, Layout: layout, Metrics: m, Clock: time.Now}
}

func (s *recordService) CreateTransaction(ctx context.Context, actor Actor, in dto.TransactionInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	return s.create(ctx, actor, models.KindTransactions, in.Fields())
}

func (s *recordService) UpdateTransaction(ctx context.Context, actor Actor, id string, p dto.TransactionPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.update(ctx, actor, models.KindTransactions, id, p.Fields())
}

func (s *recordService) UpdateClient(ctx context.Context, actor Actor, id string, p dto.ClientPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.update(ctx, actor, models.KindClients, id, p.Fields())
}

// UpdateClientField is the single-field edit used by the client table.
func (s *recordService) UpdateClientField(ctx context.Context, actor Actor, id string, u dto.FieldUpdate) error {
	if err := u.Validate(); err != nil {
		return err
	}
	return s.update(ctx, actor, models.KindClients, id, u.Fields())
}

func (s *recordService) CreateTask(ctx context.Context, actor Actor, in dto.TaskInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	return s.create(ctx, actor, models.KindTasks, in.Fields())
}

func (s *recordService) UpdateTask(ctx context.Context, actor Actor, id string, p dto.TaskPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.update(ctx, actor, models.KindTasks, id, p.Fields())
}

// CreateMember stores an invite keyed by the normalized email. The record is
// moved under the member's uid on their first sign-in.
func (s *recordService) CreateMember(ctx context.Context, actor Actor, in dto.MemberInput) (string, error) {
	ctx, span := tracer.Start(ctx, "records.CreateMember")
	defer span.End()

	if err := in.Validate(); err != nil {
		return "", err
	}
	if err := s.authorize(actor, models.KindTeamMembers); err != nil {
		return "", err
	}
	if !access.CanAssignRole(actor.Grant.Role, in.Role) {
		return "", errs.NewPermissionError("you cannot assign the role " + string(in.Role))
	}

	key := models.NormalizeEmail(in.Email)
	path := s.Layout.Doc(models.KindTeamMembers, key)
	if _, found, err := s.Docs.Get(ctx, path); err != nil {
		return "", s.fail(ctx, span, "create team_members", err)
	} else if found {
		return "", errs.NewAlreadyExistsError("a member with this email already exists")
	}

	if err := s.Docs.Set(ctx, path, s.stamp(in.Fields(), actor, true), false); err != nil {
		return "", s.fail(ctx, span, "create team_members", err)
	}
	logger.FromContext(ctx).Info("team member invited", "member", key, "role", in.Role)
	return key, nil
}

// UpdateMember addresses the member by its document key, uid or email.
func (s *recordService) UpdateMember(ctx context.Context, actor Actor, id string, p dto.MemberPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.authorize(actor, models.KindTeamMembers); err != nil {
		return err
	}
	current, err := s.loadMember(ctx, id)
	if err != nil {
		return err
	}
	if current.Role == models.RoleDev && !actor.Grant.IsDev() {
		return errs.NewPermissionError("only a dev can change a dev account")
	}
	if p.Role != nil && !access.CanAssignRole(actor.Grant.Role, *p.Role) {
		return errs.NewPermissionError("you cannot assign the role " + string(*p.Role))
	}
	return s.update(ctx, actor, models.KindTeamMembers, id, p.Fields())
}

// Delete removes a record by id. Tasks of a deleted client are left in place.
func (s *recordService) Delete(ctx context.Context, actor Actor, kind models.Kind, id string) error {
	ctx, span := tracer.Start(ctx, "records.Delete", trace.WithAttributes(
		attribute.String("kind", string(kind)), attribute.String("id", id)))
	defer span.End()

	if !kind.Valid() {
		return errs.NewValidationError("unknown collection " + string(kind))
	}
	if err := s.authorize(actor, kind); err != nil {
		return err
	}
	if kind == models.KindTeamMembers {
		if actor.is(id) {
			return errs.NewValidationError("you cannot remove your own account")
		}
		member, err := s.loadMember(ctx, id)
		if err != nil {
			return err
		}
		if member.Role == models.RoleDev && !actor.Grant.IsDev() {
			return errs.NewPermissionError("only a dev can remove a dev account")
		}
	}

	if err := s.Docs.Delete(ctx, s.Layout.Doc(kind, id)); err != nil {
		return s.fail(ctx, span, "delete "+string(kind), err)
	}
	logger.FromContext(ctx).Info("record deleted", "kind", kind, "id", id)
	return nil
}

// EscalateTask raises an overdue task to urgent on behalf of the system.
func (s *recordService) EscalateTask(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "records.EscalateTask", trace.WithAttributes(attribute.String("id", id)))
	defer span.End()

	path := s.Layout.Doc(models.KindTasks, id)
	_, found, err := s.Docs.Get(ctx, path)
	if err != nil {
		return s.fail(ctx, span, "escalate task", err)
	}
	if !found {
		return errs.NewNotFoundError("task not found")
	}
	fields := map[string]any{"prioridade": string(models.PriorityUrgente)}
	if err := s.Docs.Set(ctx, path, s.stamp(fields, SystemActor(), false), true); err != nil {
		return s.fail(ctx, span, "escalate task", err)
	}
	return nil
}

func (s *recordService) create(ctx context.Context, actor Actor, kind models.Kind, fields map[string]any) (string, error) {
	ctx, span := tracer.Start(ctx, "records.create", trace.WithAttributes(attribute.String("kind", string(kind))))
	defer span.End()

	if err := s.authorize(actor, kind); err != nil {
		return "", err
	}
	id, err := s.Docs.Add(ctx, s.Layout.Collection(kind), s.stamp(fields, actor, true))
	if err != nil {
		return "", s.fail(ctx, span, "create "+string(kind), err)
	}
	logger.FromContext(ctx).Info("record created", "kind", kind, "id", id)
	return id, nil
}

func (s *recordService) update(ctx context.Context, actor Actor, kind models.Kind, id string, fields map[string]any) error {
	ctx, span := tracer.Start(ctx, "records.update", trace.WithAttributes(
		attribute.String("kind", string(kind)), attribute.String("id", id)))
	defer span.End()

	if err := s.authorize(actor, kind); err != nil {
		return err
	}
	if len(fields) == 0 {
		return errs.NewValidationError("nothing to update")
	}

	path := s.Layout.Doc(kind, id)
	if _, found, err := s.Docs.Get(ctx, path); err != nil {
		return s.fail(ctx, span, "update "+string(kind), err)
	} else if !found {
		return errs.NewNotFoundError(string(kind) + " record not found")
	}

	if err := s.Docs.Set(ctx, path, s.stamp(fields, actor, false), true); err != nil {
		return s.fail(ctx, span, "update "+string(kind), err)
	}
	logger.FromContext(ctx).Debug("record updated", "kind", kind, "id", id, "fields", len(fields))
	return nil
}

func (s *recordService) authorize(actor Actor, kind models.Kind) error {
	if kind == models.KindTeamMembers {
		if !actor.Grant.CanManageTeam() {
			return errs.NewPermissionError("only admins can manage the team")
		}
		return nil
	}
	if !actor.Grant.CanObserve(kind) {
		return errs.NewPermissionError("you do not have access to " + string(kind))
	}
	return nil
}

// stamp returns a copy of fields with the audit trail filled in.
func (s *recordService) stamp(fields map[string]any, actor Actor, create bool) map[string]any {
	out := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		out[k] = v
	}
	ts := dates.ISO(s.Clock())
	out["updatedAt"] = ts
	out["updatedBy"] = actor.Email
	if create {
		out["createdAt"] = ts
		out["createdBy"] = actor.Email
	}
	return out
}

func (s *recordService) fail(ctx context.Context, span trace.Span, operation string, err error) error {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, operation)

	var validation *errs.ValidationError
	if errors.As(err, &validation) {
		return err
	}
	s.Metrics.WriteFailure(operation)
	logger.FromContext(ctx).Error("record write failed", "operation", operation, "error", err)

	var dbErr *errs.DatabaseError
	if errors.As(err, &dbErr) {
		return errs.NewDatabaseError(operation, dbErr.Message, dbErr.Err)
	}
	return errs.NewDatabaseError(operation, "write failed", err)
}

func (s *recordService) loadMember(ctx context.Context, id string) (models.TeamMember, error) {
	doc, found, err := s.Docs.Get(ctx, s.Layout.Doc(models.KindTeamMembers, id))
	if err != nil {
		return models.TeamMember{}, errs.NewDatabaseError("load team member", "read failed", err)
	}
	if !found {
		return models.TeamMember{}, errs.NewNotFoundError("team member not found")
	}
	return store.DecodeMember(doc)
}

func (s *recordService) loadTask(ctx context.Context, id string) (models.Task, error) {
	doc, found, err := s.Docs.Get(ctx, s.Layout.Doc(models.KindTasks, id))
	if err != nil {
		return models.Task{}, errs.NewDatabaseError("load task", "read failed", err)
	}
	if !found {
		return models.Task{}, errs.NewNotFoundError("task not found")
	}
	return store.DecodeTask(doc)
}
