package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/GregMSThompson/ascend-backend/internal/bootstrap"
	"github.com/GregMSThompson/ascend-backend/internal/config"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/services"
	"github.com/GregMSThompson/ascend-backend/internal/store"
	"github.com/GregMSThompson/ascend-backend/pkg/logger"
)

type command string

const (
	cmdSync  command = "sync"
	cmdClear command = "clear"
)

type options struct {
	Command command
	Confirm bool
}

func parseOptions(fs *flag.FlagSet, args []string) (options, error) {
	var opts options
	fs.BoolVar(&opts.Confirm, "confirm", false, "apply the change; without it nothing is written")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 1 {
		return options{}, fmt.Errorf("usage: maintenance [-confirm] sync|clear")
	}
	opts.Command = command(fs.Arg(0))
	switch opts.Command {
	case cmdSync, cmdClear:
	default:
		return options{}, fmt.Errorf("unknown command %q", opts.Command)
	}
	return opts, nil
}

type maintenance interface {
	DevSync(ctx context.Context, actor services.Actor, confirm bool) (int, error)
	ClearAll(ctx context.Context, actor services.Actor, confirm bool) (map[models.Kind]int, error)
}

func run(ctx context.Context, svc maintenance, opts options, out io.Writer) error {
	actor := services.SystemActor()
	switch opts.Command {
	case cmdSync:
		n, err := svc.DevSync(ctx, actor, opts.Confirm)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "updated %d documents\n", n)
	case cmdClear:
		counts, err := svc.ClearAll(ctx, actor, opts.Confirm)
		if err != nil {
			return err
		}
		for _, kind := range models.Kinds {
			if n, ok := counts[kind]; ok {
				fmt.Fprintf(out, "%s: deleted %d\n", kind, n)
			}
		}
	}
	return nil
}

func main() {
	opts, err := parseOptions(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New()
	if err != nil {
		slog.Default().Error("config failed", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	ctx = logger.ToContext(ctx, log)

	docs, err := bootstrap.InitDocuments(ctx, cfg)
	if err != nil {
		log.Error("store failed", "error", err)
		os.Exit(1)
	}
	defer docs.Close()

	svc := services.NewMaintenanceService(docs, store.NewLayout(cfg.Tenant))
	svc.Clock = cfg.Now
	if err := run(ctx, svc, opts, os.Stdout); err != nil {
		log.Error("maintenance failed", "command", opts.Command, "error", err)
		os.Exit(1)
	}
}
