package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/services"
	"github.com/GregMSThompson/ascend-backend/pkg/helpers"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("maintenance", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr bool
	}{
		{name: "sync dry", args: []string{"sync"}, want: options{Command: cmdSync}},
		{name: "clear confirmed", args: []string{"-confirm", "clear"}, want: options{Command: cmdClear, Confirm: true}},
		{name: "missing command", args: nil, wantErr: true},
		{name: "unknown command", args: []string{"drop"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseOptions(newFlagSet(), tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

type stubMaintenance struct {
	actor   services.Actor
	confirm bool
	counts  map[models.Kind]int
	err     error
}

func (s *stubMaintenance) DevSync(_ context.Context, actor services.Actor, confirm bool) (int, error) {
	s.actor, s.confirm = actor, confirm
	return 2, s.err
}

func (s *stubMaintenance) ClearAll(_ context.Context, actor services.Actor, confirm bool) (map[models.Kind]int, error) {
	s.actor, s.confirm = actor, confirm
	return s.counts, s.err
}

func TestRun_SyncAsSystem(t *testing.T) {
	svc := &stubMaintenance{}
	var out bytes.Buffer

	if err := run(helpers.TestCtx(), svc, options{Command: cmdSync, Confirm: true}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.actor.Email != models.SystemActor || !svc.confirm {
		t.Fatalf("unexpected call: %+v confirm=%v", svc.actor, svc.confirm)
	}
	if out.String() != "updated 2 documents\n" {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestRun_ClearPrintsCounts(t *testing.T) {
	svc := &stubMaintenance{counts: map[models.Kind]int{models.KindTasks: 4, models.KindClients: 1}}
	var out bytes.Buffer

	if err := run(helpers.TestCtx(), svc, options{Command: cmdClear, Confirm: true}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "clients: deleted 1\ntasks: deleted 4\n" {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestRun_PropagatesError(t *testing.T) {
	svc := &stubMaintenance{err: errors.New("unconfirmed")}
	if err := run(helpers.TestCtx(), svc, options{Command: cmdClear}, io.Discard); err == nil {
		t.Fatal("expected an error")
	}
}
