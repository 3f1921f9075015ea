package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GregMSThompson/ascend-backend/internal/bootstrap"
	"github.com/GregMSThompson/ascend-backend/internal/config"
	"github.com/GregMSThompson/ascend-backend/internal/handlers"
	"github.com/GregMSThompson/ascend-backend/internal/middleware"
	"github.com/GregMSThompson/ascend-backend/internal/response"
	"github.com/GregMSThompson/ascend-backend/internal/router"
	"github.com/GregMSThompson/ascend-backend/internal/services"
	"github.com/GregMSThompson/ascend-backend/internal/session"
	"github.com/GregMSThompson/ascend-backend/internal/store"
	"github.com/GregMSThompson/ascend-backend/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// bootstrap
	cfg, err := config.New()
	exitOnError("config failed", err, slog.Default())
	bs, err := bootstrap.Run(ctx, cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	ctx = logger.ToContext(ctx, bs.Log)

	layout := store.NewLayout(cfg.Tenant)

	// services
	recordSvc := services.NewRecordService(bs.Docs, layout, bs.Metrics)
	recordSvc.Clock = cfg.Now
	accountSvc := services.NewAccountService(bs.Docs, layout, cfg.BootstrapAdmin)
	accountSvc.Clock = cfg.Now
	maintenanceSvc := services.NewMaintenanceService(bs.Docs, layout)
	maintenanceSvc.Clock = cfg.Now
	authSvc := services.NewAuthService(bs.Identity, bs.Firebase, bs.Docs, layout)

	// sessions
	escalator := session.NewEscalator(recordSvc, cfg.EscalationTimeout, cfg.EscalationQueue, bs.Metrics, bs.Log)
	sessions := session.NewManager(ctx, bs.Docs, accountSvc, layout, escalator, bs.Metrics)
	sessions.Clock = cfg.Now
	err = sessions.Watch(ctx)
	exitOnError("team watch failed", err, bs.Log)

	// response handler
	rh := response.New(bs.Log)

	// dependencies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.RecordSvc = recordSvc
	deps.AuthSvc = authSvc
	deps.MaintenanceSvc = maintenanceSvc
	deps.Sessions = sessions
	deps.Clock = cfg.Now

	mw := middleware.NewMiddleware(bs.Firebase, rh, sessions)
	lm := middleware.NewLoggerMiddleware(bs.Log, bs.Metrics)

	// router
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.NewRouter(deps, mw, lm, bs.Metrics),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		bs.Log.Info("server listening", "addr", srv.Addr, "store", cfg.StoreDriver, "tenant", cfg.Tenant)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			exitOnError("server start failed", err, bs.Log)
		}
	}()

	<-ctx.Done()
	bs.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		bs.Log.Error("server shutdown failed", "error", err)
	}
	sessions.Shutdown()
	escalator.Stop()
	if err := bs.Close(shutdownCtx); err != nil {
		bs.Log.Error("close failed", "error", err)
	}
}
