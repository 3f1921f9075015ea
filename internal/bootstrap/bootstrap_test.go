package bootstrap

import (
	"path/filepath"
	"testing"

	"github.com/GregMSThompson/ascend-backend/internal/config"
	"github.com/GregMSThompson/ascend-backend/pkg/helpers"
)

func TestInitTracing_NoEndpoint(t *testing.T) {
	shutdown, err := InitTracing(helpers.TestCtx(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(helpers.TestCtx()); err != nil {
		t.Fatalf("noop shutdown failed: %v", err)
	}
}

func TestInitDocuments_SQLite(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "ascend.db")}

	docs, err := InitDocuments(helpers.TestCtx(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer docs.Close()

	if err := docs.Set(helpers.TestCtx(), "artifacts/ascend/clients/c1", map[string]any{"nome_projeto": "Loja"}, false); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := docs.Get(helpers.TestCtx(), "artifacts/ascend/clients/c1")
	if err != nil || !ok || got.Data["nome_projeto"] != "Loja" {
		t.Fatalf("get: %+v %v %v", got, ok, err)
	}
}

func TestInitDocuments_UnknownDriver(t *testing.T) {
	if _, err := InitDocuments(helpers.TestCtx(), &config.Config{StoreDriver: "mongo"}); err == nil {
		t.Fatal("expected an error")
	}
}
