package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/ascend-backend/internal/dto"
	"github.com/GregMSThompson/ascend-backend/internal/middleware"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/services"
	"github.com/GregMSThompson/ascend-backend/internal/session"
	"github.com/GregMSThompson/ascend-backend/internal/store"
	"github.com/GregMSThompson/ascend-backend/pkg/helpers"
)

var (
	testLayout = store.NewLayout("ascend")
	fixedNow   = time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC)
)

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error

	writeErrorCalled bool
	writeErrorStatus int
	writeErrorCode   string
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, _ *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data
	w.WriteHeader(status)
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, code, _ string) {
	s.writeErrorCalled = true
	s.writeErrorStatus = status
	s.writeErrorCode = code
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

// withChiParam injects chi URL parameters into the request context.
func withChiParam(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// --- sessions ---

type staticSubscriber struct {
	initial map[string][]store.Document
}

func (s *staticSubscriber) Subscribe(_ context.Context, collection string, onSnapshot func([]store.Document), _ func(error)) (store.Unsubscribe, error) {
	onSnapshot(s.initial[collection])
	return func() {}, nil
}

type staticResolver struct {
	profile models.TeamMember
}

func (s staticResolver) Resolve(_ context.Context, _, _ string) (models.TeamMember, services.Resolution) {
	return s.profile, services.ResolvedByUID
}

func newTestSession(t *testing.T, profile models.TeamMember, docs map[models.Kind][]store.Document) *session.Session {
	t.Helper()
	initial := make(map[string][]store.Document)
	for kind, d := range docs {
		initial[testLayout.Collection(kind)] = d
	}
	m := session.NewManager(context.Background(), &staticSubscriber{initial: initial}, staticResolver{profile: profile}, testLayout, nil, nil)
	m.Clock = func() time.Time { return fixedNow }
	s, err := m.Open(helpers.TestCtx(), profile.ID, profile.Email)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return s
}

func withSession(r *http.Request, s *session.Session) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UIDKey, s.UID)
	return r.WithContext(middleware.WithSession(ctx, s))
}

func member(id string, role models.Role, perms models.Permissions) models.TeamMember {
	return models.TeamMember{ID: id, UID: id, Name: id, Email: id + "@ascend.test", Role: role, Permissions: perms}
}

func doc(kind models.Kind, id string, data map[string]any) store.Document {
	return store.Document{ID: id, Path: testLayout.Doc(kind, id), Data: data}
}

// --- record service ---

type stubRecordService struct {
	createdID  string
	err        error
	status     models.TransactionStatus
	feed       dto.FeedView
	update     models.Update
	lastActor  services.Actor
	lastID     string
	lastKind   models.Kind
	lastTx     dto.TransactionInput
	lastClient dto.ClientInput
	lastTask   dto.TaskInput
	lastField  dto.FieldUpdate
	lastText   dto.UpdateText
	lastMember dto.MemberInput
	lastUpdate string
}

func (s *stubRecordService) CreateTransaction(_ context.Context, a services.Actor, in dto.TransactionInput) (string, error) {
	s.lastActor, s.lastTx = a, in
	return s.createdID, s.err
}

func (s *stubRecordService) UpdateTransaction(_ context.Context, a services.Actor, id string, _ dto.TransactionPatch) error {
	s.lastActor, s.lastID = a, id
	return s.err
}

func (s *stubRecordService) ToggleTransaction(_ context.Context, a services.Actor, id string) (models.TransactionStatus, error) {
	s.lastActor, s.lastID = a, id
	return s.status, s.err
}

func (s *stubRecordService) CreateClient(_ context.Context, a services.Actor, in dto.ClientInput) (string, error) {
	s.lastActor, s.lastClient = a, in
	return s.createdID, s.err
}

func (s *stubRecordService) UpdateClient(_ context.Context, a services.Actor, id string, _ dto.ClientPatch) error {
	s.lastActor, s.lastID = a, id
	return s.err
}

func (s *stubRecordService) UpdateClientField(_ context.Context, a services.Actor, id string, u dto.FieldUpdate) error {
	s.lastActor, s.lastID, s.lastField = a, id, u
	return s.err
}

func (s *stubRecordService) CreateTask(_ context.Context, a services.Actor, in dto.TaskInput) (string, error) {
	s.lastActor, s.lastTask = a, in
	return s.createdID, s.err
}

func (s *stubRecordService) UpdateTask(_ context.Context, a services.Actor, id string, _ dto.TaskPatch) error {
	s.lastActor, s.lastID = a, id
	return s.err
}

func (s *stubRecordService) Feed(_ context.Context, a services.Actor, id string) (dto.FeedView, error) {
	s.lastActor, s.lastID = a, id
	return s.feed, s.err
}

func (s *stubRecordService) AppendUpdate(_ context.Context, a services.Actor, id string, in dto.UpdateText) (models.Update, error) {
	s.lastActor, s.lastID, s.lastText = a, id, in
	return s.update, s.err
}

func (s *stubRecordService) EditUpdate(_ context.Context, a services.Actor, id, updateID string, in dto.UpdateText) error {
	s.lastActor, s.lastID, s.lastUpdate, s.lastText = a, id, updateID, in
	return s.err
}

func (s *stubRecordService) RemoveUpdate(_ context.Context, a services.Actor, id, updateID string) error {
	s.lastActor, s.lastID, s.lastUpdate = a, id, updateID
	return s.err
}

func (s *stubRecordService) CreateMember(_ context.Context, a services.Actor, in dto.MemberInput) (string, error) {
	s.lastActor, s.lastMember = a, in
	return s.createdID, s.err
}

func (s *stubRecordService) UpdateMember(_ context.Context, a services.Actor, id string, _ dto.MemberPatch) error {
	s.lastActor, s.lastID = a, id
	return s.err
}

func (s *stubRecordService) Delete(_ context.Context, a services.Actor, kind models.Kind, id string) error {
	s.lastActor, s.lastKind, s.lastID = a, kind, id
	return s.err
}
