package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"

	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/store"
	"github.com/GregMSThompson/ascend-backend/pkg/dates"
	"github.com/GregMSThompson/ascend-backend/pkg/logger"
)

// Resolution says how a signed-in account was matched to a team profile.
type Resolution string

const (
	ResolvedByUID  Resolution = "uid"
	MigratedInvite Resolution = "invite"
	Visitor        Resolution = "visitor"
	BootstrapAdmin Resolution = "bootstrap_admin"
	Failed         Resolution = "failed"
)

type accountStore interface {
	Get(ctx context.Context, path string) (store.Document, bool, error)
	GetAll(ctx context.Context, collection string) ([]store.Document, error)
	Set(ctx context.Context, path string, data map[string]any, merge bool) error
	RunBatch(ctx context.Context, ops []store.BatchOp) error
}

type accountService struct {
	Docs           accountStore
	Layout         store.Layout
	BootstrapAdmin bool
	Clock          func() time.Time
}

func NewAccountService(docs accountStore, layout store.Layout, bootstrapAdmin bool) *accountService {
	return &accountService{Docs: docs, Layout: layout, BootstrapAdmin: bootstrapAdmin, Clock: time.Now}
}

// Resolve finds the profile for a signed-in account. It never fails: storage
// errors produce the erro profile, which grants nothing.
func (s *accountService) Resolve(ctx context.Context, uid, email string) (models.TeamMember, Resolution) {
	ctx, span := tracer.Start(ctx, "account.Resolve")
	defer span.End()

	log := logger.FromContext(ctx)
	profile, how, err := s.resolve(ctx, uid, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "resolve account")
		log.Error("account resolution failed", "uid", uid, "error", err)
		return models.ErrorProfile(email), Failed
	}
	span.SetAttributes(attribute.String("resolution", string(how)))
	log.Info("account resolved", "uid", uid, "resolution", how, "role", profile.Role)
	return profile, how
}

func (s *accountService) resolve(ctx context.Context, uid, email string) (models.TeamMember, Resolution, error) {
	doc, found, err := s.Docs.Get(ctx, s.Layout.Doc(models.KindTeamMembers, uid))
	if err != nil {
		return models.TeamMember{}, Failed, err
	}
	if found {
		m, err := store.DecodeMember(doc)
		return m, ResolvedByUID, err
	}

	if invite, ok, err := s.findInvite(ctx, email); err != nil {
		return models.TeamMember{}, Failed, err
	} else if ok {
		m, err := s.claim(ctx, uid, email, invite)
		return m, MigratedInvite, err
	}

	if s.BootstrapAdmin {
		existing, err := s.Docs.GetAll(ctx, s.Layout.Collection(models.KindTeamMembers))
		if err != nil {
			return models.TeamMember{}, Failed, err
		}
		if len(existing) == 0 {
			m, err := s.bootstrap(ctx, uid, email)
			return m, BootstrapAdmin, err
		}
	}
	return models.VisitorProfile(email), Visitor, nil
}

// findInvite looks the email up normalized first and then as typed, for
// invites stored before keys were normalized.
func (s *accountService) findInvite(ctx context.Context, email string) (store.Document, bool, error) {
	keys := []string{models.NormalizeEmail(email)}
	if email != keys[0] {
		keys = append(keys, email)
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		doc, found, err := s.Docs.Get(ctx, s.Layout.Doc(models.KindTeamMembers, key))
		if err != nil || found {
			return doc, found, err
		}
	}
	return store.Document{}, false, nil
}

// claim moves an invite under the uid in one batch so exactly one record
// remains.
func (s *accountService) claim(ctx context.Context, uid, email string, invite store.Document) (models.TeamMember, error) {
	merged := make(map[string]any, len(invite.Data)+2)
	for k, v := range invite.Data {
		merged[k] = v
	}
	merged["uid"] = uid
	merged["email"] = email

	ops := []store.BatchOp{
		store.SetOp(s.Layout.Doc(models.KindTeamMembers, uid), merged, true),
		store.DeleteOp(invite.Path),
	}
	if err := s.Docs.RunBatch(ctx, ops); err != nil {
		return models.TeamMember{}, err
	}
	logger.FromContext(ctx).Info("invite claimed", "uid", uid, "invite", invite.ID)
	return store.DecodeMember(store.Document{ID: uid, Path: s.Layout.Doc(models.KindTeamMembers, uid), Data: merged})
}

func (s *accountService) bootstrap(ctx context.Context, uid, email string) (models.TeamMember, error) {
	ts := dates.ISO(s.Clock())
	m := models.TeamMember{
		ID:    uid,
		UID:   uid,
		Name:  email,
		Email: email,
		Role:  models.RoleAdmin,
		Audit: models.Audit{CreatedAt: ts, CreatedBy: models.SystemActor, UpdatedAt: ts, UpdatedBy: models.SystemActor},
	}
	data := map[string]any{
		"uid":         uid,
		"name":        m.Name,
		"email":       email,
		"role":        string(m.Role),
		"permissions": m.Permissions.Map(),
		"createdAt":   ts,
		"createdBy":   models.SystemActor,
		"updatedAt":   ts,
		"updatedBy":   models.SystemActor,
	}
	if err := s.Docs.Set(ctx, s.Layout.Doc(models.KindTeamMembers, uid), data, false); err != nil {
		return models.TeamMember{}, err
	}
	logger.FromContext(ctx).Warn("first account promoted to admin", "uid", uid)
	return m, nil
}
