package forms

import (
	"testing"
	"time"

	"github.com/GregMSThompson/ascend-backend/internal/models"
)

var now = time.Date(2024, time.July, 1, 9, 30, 0, 0, time.UTC)

func TestDefaults(t *testing.T) {
	tx, err := Defaults(models.KindTransactions, now)
	if err != nil {
		t.Fatalf("Defaults error: %v", err)
	}
	if tx["type"] != "despesa" || tx["category"] != "outras" || tx["date"] != "2024-07-01" || tx["status"] != "pendente" {
		t.Errorf("transaction draft: %v", tx)
	}

	member, _ := Defaults(models.KindTeamMembers, now)
	perms, _ := member["permissions"].(map[string]any)
	if member["role"] != "gestor" || perms["clientes"] != true || perms["financeiro"] != false {
		t.Errorf("member draft: %v", member)
	}

	if _, err := Defaults(models.Kind("widgets"), now); err == nil {
		t.Fatal("expected an error for an unknown form")
	}
}

func TestAfterSubmit_KeepsClientContextForTasks(t *testing.T) {
	fc := Context{ClientID: "c1", ClientName: "Padaria Sol"}

	next := AfterSubmit(models.KindTasks, true, true, fc, now)
	if next == nil {
		t.Fatal("expected a next draft")
	}
	if next["cliente_id"] != "c1" || next["cliente_nome"] != "Padaria Sol" {
		t.Errorf("client context lost: %v", next)
	}
	if next["titulo"] != "" || next["prioridade"] != "media" {
		t.Errorf("other fields must reset: %v", next)
	}
}

func TestAfterSubmit_Closes(t *testing.T) {
	if AfterSubmit(models.KindClients, true, false, Context{}, now) != nil {
		t.Error("form without keep-open must close")
	}
	if AfterSubmit(models.KindClients, false, true, Context{}, now) != nil {
		t.Error("edits must close")
	}
	next := AfterSubmit(models.KindTransactions, true, true, Context{ClientID: "c1"}, now)
	if _, ok := next["cliente_id"]; ok {
		t.Error("client context only applies to tasks")
	}
}
