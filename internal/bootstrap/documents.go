package bootstrap

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/ascend-backend/internal/config"
	"github.com/GregMSThompson/ascend-backend/internal/store"
)

// InitDocuments opens the configured document backend. SQLite serves local
// development and tests run without a Firestore project.
func InitDocuments(ctx context.Context, cfg *config.Config) (store.Documents, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		docs, err := store.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return docs, nil
	case config.DriverFirestore:
		client, err := firestore.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			return nil, err
		}
		return store.NewFirestoreDocuments(client), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
