package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	"firebase.google.com/go/v4/auth"

	identityclient "github.com/GregMSThompson/ascend-backend/internal/client/identity"
	"github.com/GregMSThompson/ascend-backend/internal/config"
	"github.com/GregMSThompson/ascend-backend/internal/metrics"
	"github.com/GregMSThompson/ascend-backend/internal/store"
	"github.com/GregMSThompson/ascend-backend/pkg/logger"
)

type Bootstrap struct {
	Log      *slog.Logger
	Docs     store.Documents
	Firebase *auth.Client
	Identity *identityclient.Adapter
	Metrics  *metrics.Metrics

	shutdownTracing func(context.Context) error
}

func Run(ctx context.Context, cfg *config.Config) (*Bootstrap, error) {
	var err error
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	bs.Metrics = metrics.New()

	bs.shutdownTracing, err = InitTracing(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return bs, err
	}
	bs.Docs, err = InitDocuments(ctx, cfg)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(ctx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Identity, err = identityclient.NewAdapter(ctx, cfg.FirebaseAPIKey)
	if err != nil {
		return bs, err
	}

	return bs, nil
}

func (bs *Bootstrap) Close(ctx context.Context) error {
	var err error
	if bs.Docs != nil {
		err = errors.Join(err, bs.Docs.Close())
	}
	if bs.shutdownTracing != nil {
		err = errors.Join(err, bs.shutdownTracing(ctx))
	}
	return err
}
