package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GregMSThompson/ascend-backend/internal/dto"
	"github.com/GregMSThompson/ascend-backend/internal/errs"
	"github.com/GregMSThompson/ascend-backend/internal/forms"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/store"
)

func testDeps(rh *stubResponseHandler, svc *stubRecordService) *Deps {
	return &Deps{ResponseHandler: rh, RecordSvc: svc, Clock: func() time.Time { return fixedNow }}
}

func TestCreateTransaction_KeepOpenReturnsNextDraft(t *testing.T) {
	rh := &stubResponseHandler{}
	svc := &stubRecordService{createdID: "tx-1"}
	h := NewTransactionHandlers(testDeps(rh, svc))
	s := newTestSession(t, member("admin", models.RoleAdmin, models.Permissions{}), nil)

	body := `{"type":"receita","amount":"R$ 1.500,00","description":"Mensalidade","date":"2024-07-01"}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/transactions?keepOpen=true", strings.NewReader(body)), s)
	w := httptest.NewRecorder()

	h.CreateTransaction(w, req)

	if rh.handleErrorCalled {
		t.Fatalf("unexpected error: %v", rh.handleError)
	}
	if rh.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rh.writeSuccessStatus)
	}
	got, ok := rh.writeSuccessData.(created)
	if !ok || got.ID != "tx-1" {
		t.Fatalf("unexpected body: %#v", rh.writeSuccessData)
	}
	if got.Next == nil || got.Next["type"] != string(models.Despesa) {
		t.Fatalf("expected a fresh transaction draft, got %#v", got.Next)
	}
	if svc.lastTx.Amount.Float() != 1500 {
		t.Errorf("amount not parsed: %v", svc.lastTx.Amount.Float())
	}
	if svc.lastActor.Email != "admin@ascend.test" {
		t.Errorf("actor not taken from session: %+v", svc.lastActor)
	}
}

func TestCreateTransaction_WithoutKeepOpen(t *testing.T) {
	rh := &stubResponseHandler{}
	h := NewTransactionHandlers(testDeps(rh, &stubRecordService{createdID: "tx-1"}))
	s := newTestSession(t, member("admin", models.RoleAdmin, models.Permissions{}), nil)

	body := `{"type":"despesa","amount":10,"description":"Aluguel","date":"2024-07-01"}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader(body)), s)
	h.CreateTransaction(httptest.NewRecorder(), req)

	got := rh.writeSuccessData.(created)
	if got.Next != nil {
		t.Fatalf("expected no next draft, got %#v", got.Next)
	}
}

func TestCreateTransaction_InvalidBody(t *testing.T) {
	rh := &stubResponseHandler{}
	svc := &stubRecordService{}
	h := NewTransactionHandlers(testDeps(rh, svc))
	s := newTestSession(t, member("admin", models.RoleAdmin, models.Permissions{}), nil)

	req := withSession(httptest.NewRequest(http.MethodPost, "/transactions", strings.NewReader("{")), s)
	h.CreateTransaction(httptest.NewRecorder(), req)

	var vErr *errs.ValidationError
	if !rh.handleErrorCalled || !errors.As(rh.handleError, &vErr) {
		t.Fatalf("expected validation error, got %v", rh.handleError)
	}
	if svc.lastActor.UID != "" {
		t.Error("service must not be called")
	}
}

func TestToggleTransaction(t *testing.T) {
	rh := &stubResponseHandler{}
	svc := &stubRecordService{status: models.TransactionRecebido}
	h := NewTransactionHandlers(testDeps(rh, svc))
	s := newTestSession(t, member("admin", models.RoleAdmin, models.Permissions{}), nil)

	req := withChiParam(withSession(httptest.NewRequest(http.MethodPost, "/transactions/tx-9/toggle", nil), s), "id", "tx-9")
	h.ToggleTransaction(httptest.NewRecorder(), req)

	if svc.lastID != "tx-9" {
		t.Fatalf("expected id tx-9, got %q", svc.lastID)
	}
	got := rh.writeSuccessData.(map[string]models.TransactionStatus)
	if got["status"] != models.TransactionRecebido {
		t.Fatalf("unexpected status: %v", got)
	}
}

func TestListTransactions_RequiresFinanceiro(t *testing.T) {
	rh := &stubResponseHandler{}
	h := NewTransactionHandlers(testDeps(rh, &stubRecordService{}))
	s := newTestSession(t, member("g", models.RoleGestor, models.Permissions{Tarefas: true}), nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/transactions", nil), s)
	h.ListTransactions(httptest.NewRecorder(), req)

	var pErr *errs.PermissionError
	if !errors.As(rh.handleError, &pErr) {
		t.Fatalf("expected permission error, got %v", rh.handleError)
	}
}

func TestListTransactions_OverdueFirst(t *testing.T) {
	rh := &stubResponseHandler{}
	h := NewTransactionHandlers(testDeps(rh, &stubRecordService{}))
	s := newTestSession(t, member("admin", models.RoleAdmin, models.Permissions{}), map[models.Kind][]store.Document{
		models.KindTransactions: {
			doc(models.KindTransactions, "paid", map[string]any{"type": "despesa", "amount": 5.0, "date": "2024-06-30", "status": "pago"}),
			doc(models.KindTransactions, "late", map[string]any{"type": "despesa", "amount": 5.0, "date": "2024-06-01", "status": "pendente"}),
		},
	})

	req := withSession(httptest.NewRequest(http.MethodGet, "/transactions", nil), s)
	h.ListTransactions(httptest.NewRecorder(), req)

	got := rh.writeSuccessData.([]models.Transaction)
	if len(got) != 2 || got[0].ID != "late" || !got[0].IsOverdue {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestListTasks_FiltersByClient(t *testing.T) {
	rh := &stubResponseHandler{}
	h := NewTaskHandlers(testDeps(rh, &stubRecordService{}))
	s := newTestSession(t, member("g", models.RoleGestor, models.Permissions{Tarefas: true}), map[models.Kind][]store.Document{
		models.KindTasks: {
			doc(models.KindTasks, "t1", map[string]any{"titulo": "A", "status": "pendente", "cliente_id": "c1", "data_entrega": "2024-07-10"}),
			doc(models.KindTasks, "t2", map[string]any{"titulo": "B", "status": "pendente", "cliente_id": "c2", "data_entrega": "2024-07-10"}),
		},
	})

	req := withSession(httptest.NewRequest(http.MethodGet, "/tasks?clientId=c2", nil), s)
	h.ListTasks(httptest.NewRecorder(), req)

	got := rh.writeSuccessData.([]models.Task)
	if len(got) != 1 || got[0].ID != "t2" {
		t.Fatalf("unexpected tasks: %+v", got)
	}
}

func TestCreateTask_KeepOpenKeepsClientLink(t *testing.T) {
	rh := &stubResponseHandler{}
	h := NewTaskHandlers(testDeps(rh, &stubRecordService{createdID: "t-1"}))
	s := newTestSession(t, member("admin", models.RoleAdmin, models.Permissions{}), nil)

	body := `{"titulo":"Criativos","cliente_id":"c1","cliente_nome":"Loja"}`
	req := withSession(httptest.NewRequest(http.MethodPost, "/tasks?keepOpen=1", strings.NewReader(body)), s)
	h.CreateTask(httptest.NewRecorder(), req)

	got := rh.writeSuccessData.(created)
	want := forms.Draft{"cliente_id": "c1", "cliente_nome": "Loja"}
	for k, v := range want {
		if got.Next[k] != v {
			t.Errorf("next[%s] = %v, want %v", k, got.Next[k], v)
		}
	}
	if got.Next["titulo"] != "" {
		t.Errorf("title must be blank, got %v", got.Next["titulo"])
	}
}

func TestEditUpdate_PassesIDs(t *testing.T) {
	rh := &stubResponseHandler{}
	svc := &stubRecordService{}
	h := NewTaskHandlers(testDeps(rh, svc))
	s := newTestSession(t, member("g", models.RoleGestor, models.Permissions{Tarefas: true}), nil)

	req := httptest.NewRequest(http.MethodPatch, "/tasks/t1/updates/u1", strings.NewReader(`{"text":"novo"}`))
	req = withChiParam(withSession(req, s), "id", "t1", "updateId", "u1")
	h.EditUpdate(httptest.NewRecorder(), req)

	if svc.lastID != "t1" || svc.lastUpdate != "u1" || svc.lastText.Text != "novo" {
		t.Fatalf("unexpected call: id=%q update=%q text=%+v", svc.lastID, svc.lastUpdate, svc.lastText)
	}
	if rh.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected 200, got %d", rh.writeSuccessStatus)
	}
}

func TestRemoveUpdate_ServiceError(t *testing.T) {
	rh := &stubResponseHandler{}
	svc := &stubRecordService{err: errs.NewPermissionError("not yours")}
	h := NewTaskHandlers(testDeps(rh, svc))
	s := newTestSession(t, member("g", models.RoleGestor, models.Permissions{Tarefas: true}), nil)

	req := withChiParam(withSession(httptest.NewRequest(http.MethodDelete, "/tasks/t1/updates/u1", nil), s), "id", "t1", "updateId", "u1")
	h.RemoveUpdate(httptest.NewRecorder(), req)

	if !rh.handleErrorCalled || rh.writeSuccessCalled {
		t.Fatal("expected the service error to be handled")
	}
}

func TestListClients_IncludesCompletion(t *testing.T) {
	rh := &stubResponseHandler{}
	h := NewClientHandlers(testDeps(rh, &stubRecordService{}))
	s := newTestSession(t, member("admin", models.RoleAdmin, models.Permissions{}), map[models.Kind][]store.Document{
		models.KindClients: {
			doc(models.KindClients, "c1", map[string]any{"nome_projeto": "Loja", "tipo": "trafego", "status": "ativo"}),
		},
		models.KindTasks: {
			doc(models.KindTasks, "t1", map[string]any{"titulo": "A", "status": "concluida", "cliente_id": "c1"}),
			doc(models.KindTasks, "t2", map[string]any{"titulo": "B", "status": "pendente", "cliente_id": "c1"}),
		},
	})

	req := withSession(httptest.NewRequest(http.MethodGet, "/clients", nil), s)
	h.ListClients(httptest.NewRecorder(), req)

	got := rh.writeSuccessData.([]dto.ClientView)
	if len(got) != 1 || got[0].Completion != 0.5 {
		t.Fatalf("unexpected views: %+v", got)
	}
}

func TestListMembers_AdminOnly(t *testing.T) {
	rh := &stubResponseHandler{}
	h := NewTeamHandlers(testDeps(rh, &stubRecordService{}))
	s := newTestSession(t, member("g", models.RoleGestor, models.Permissions{Clientes: true}), nil)

	req := withSession(httptest.NewRequest(http.MethodGet, "/team", nil), s)
	h.ListMembers(httptest.NewRecorder(), req)

	var pErr *errs.PermissionError
	if !errors.As(rh.handleError, &pErr) {
		t.Fatalf("expected permission error, got %v", rh.handleError)
	}
}

func TestDeleteMember_UsesTeamKind(t *testing.T) {
	rh := &stubResponseHandler{}
	svc := &stubRecordService{}
	h := NewTeamHandlers(testDeps(rh, svc))
	s := newTestSession(t, member("admin", models.RoleAdmin, models.Permissions{}), nil)

	req := withChiParam(withSession(httptest.NewRequest(http.MethodDelete, "/team/m1", nil), s), "id", "m1")
	h.DeleteMember(httptest.NewRecorder(), req)

	if svc.lastKind != models.KindTeamMembers || svc.lastID != "m1" {
		t.Fatalf("unexpected delete: %s/%s", svc.lastKind, svc.lastID)
	}
}

func TestHandlers_RequireSession(t *testing.T) {
	rh := &stubResponseHandler{}
	h := NewClientHandlers(testDeps(rh, &stubRecordService{}))

	h.CreateClient(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader("{}")))

	var aErr *errs.AuthError
	if !errors.As(rh.handleError, &aErr) {
		t.Fatalf("expected auth error, got %v", rh.handleError)
	}
}
