// Package session holds what each signed-in member can currently see. A
// session subscribes to the collections its grant allows and keeps the
// latest tagged snapshot of each.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/GregMSThompson/ascend-backend/internal/access"
	"github.com/GregMSThompson/ascend-backend/internal/metrics"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/overdue"
	"github.com/GregMSThompson/ascend-backend/internal/services"
	"github.com/GregMSThompson/ascend-backend/internal/store"
	"github.com/GregMSThompson/ascend-backend/pkg/logger"
)

type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateResolving       State = "resolving"
	StateReady           State = "ready"
)

type subscriber interface {
	Subscribe(ctx context.Context, collection string, onSnapshot func([]store.Document), onError func(error)) (store.Unsubscribe, error)
}

type enqueuer interface {
	Enqueue(ids ...string)
}

type Session struct {
	UID   string
	Email string

	docs    subscriber
	layout  store.Layout
	esc     enqueuer
	metrics *metrics.Metrics
	clock   func() time.Time
	ctx     context.Context
	log     *slog.Logger

	mu      sync.RWMutex
	state   State
	profile models.TeamMember
	how     services.Resolution
	grant   access.Grant
	live    map[models.Kind]uint64
	txs     []models.Transaction
	clients []models.Client
	tasks   []models.Task
	members []models.TeamMember

	// subMu serializes reconciliation. mu may be taken while subMu is held,
	// never the reverse, and Subscribe is never called with mu held because
	// a store may deliver the first snapshot before returning.
	subMu   sync.Mutex
	subs    map[models.Kind]store.Unsubscribe
	nextGen uint64
}

func newSession(ctx context.Context, uid, email string, docs subscriber, layout store.Layout, esc enqueuer, m *metrics.Metrics, clock func() time.Time) *Session {
	log, ctx := logger.With(ctx, "uid", uid)
	return &Session{
		UID:     uid,
		Email:   email,
		docs:    docs,
		layout:  layout,
		esc:     esc,
		metrics: m,
		clock:   clock,
		ctx:     ctx,
		log:     log,
		state:   StateResolving,
		live:    make(map[models.Kind]uint64),
		subs:    make(map[models.Kind]store.Unsubscribe),
	}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Profile() models.TeamMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *Session) Resolution() services.Resolution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.how
}

func (s *Session) Grant() access.Grant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grant
}

// Actor identifies the member for writes made through this session.
func (s *Session) Actor() services.Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a := services.MemberActor(s.UID, s.profile)
	if s.Email != "" {
		a.Email = s.Email
	}
	return a
}

// Subscribed lists the collections with an open listener.
func (s *Session) Subscribed() []models.Kind {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	var out []models.Kind
	for _, k := range models.Kinds {
		if _, ok := s.subs[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Transactions are re-tagged on every read so the overdue flag follows the
// clock rather than the last snapshot.
func (s *Session) Transactions() []models.Transaction {
	s.mu.RLock()
	txs := s.txs
	s.mu.RUnlock()
	return overdue.TagTransactions(txs, s.clock())
}

func (s *Session) Clients() []models.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Client(nil), s.clients...)
}

func (s *Session) Tasks() []models.Task {
	s.mu.RLock()
	tasks := s.tasks
	s.mu.RUnlock()
	return overdue.TagTasks(tasks, s.clock())
}

// Members is the team directory as this member may see it.
func (s *Session) Members() []models.TeamMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return access.VisibleMembers(s.grant.Role, s.members)
}

// ApplyProfile installs a profile and reconciles subscriptions: collections
// the new grant adds are subscribed, revoked ones are stopped and cleared,
// and the rest are left running.
func (s *Session) ApplyProfile(profile models.TeamMember, how services.Resolution) {
	grant := access.ForMember(profile)

	s.mu.Lock()
	s.profile = profile
	if how != "" {
		s.how = how
	}
	changed := s.state != StateReady || s.grant != grant
	s.grant = grant
	s.state = StateReady
	s.mu.Unlock()

	if changed {
		s.reconcile()
	}
}

// reconcile reads the grant after taking subMu so overlapping profile
// changes settle on the latest one.
func (s *Session) reconcile() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.mu.RLock()
	grant, state := s.grant, s.state
	s.mu.RUnlock()
	if state != StateReady {
		return
	}

	want := make(map[models.Kind]bool)
	for _, k := range grant.Collections() {
		want[k] = true
	}

	for kind, stop := range s.subs {
		if want[kind] {
			continue
		}
		s.mu.Lock()
		delete(s.live, kind)
		s.clear(kind)
		s.mu.Unlock()
		stop()
		delete(s.subs, kind)
		s.metrics.SubscriptionStopped(string(kind))
		s.log.Info("subscription stopped", "collection", kind)
	}

	for _, kind := range models.Kinds {
		if !want[kind] {
			continue
		}
		if _, running := s.subs[kind]; running {
			continue
		}
		s.nextGen++
		gen := s.nextGen
		s.mu.Lock()
		s.live[kind] = gen
		s.mu.Unlock()

		stop, err := s.docs.Subscribe(s.ctx, s.layout.Collection(kind),
			func(docs []store.Document) { s.onSnapshot(kind, gen, docs) },
			func(err error) { s.log.Error("subscription error", "collection", kind, "error", err) })
		if err != nil {
			s.mu.Lock()
			delete(s.live, kind)
			s.mu.Unlock()
			s.log.Error("subscribe failed", "collection", kind, "error", err)
			continue
		}
		s.subs[kind] = stop
		s.metrics.SubscriptionStarted(string(kind))
		s.log.Info("subscription started", "collection", kind)
	}
}

func (s *Session) onSnapshot(kind models.Kind, gen uint64, docs []store.Document) {
	now := s.clock()
	var escalate []string

	switch kind {
	case models.KindTransactions:
		txs := store.DecodeTransactions(s.ctx, docs)
		if !s.install(kind, gen, func() { s.txs = txs }) {
			return
		}
	case models.KindClients:
		clients := store.DecodeClients(s.ctx, docs)
		if !s.install(kind, gen, func() { s.clients = clients }) {
			return
		}
	case models.KindTasks:
		tasks := overdue.TagTasks(store.DecodeTasks(s.ctx, docs), now)
		escalate = overdue.PlanEscalations(tasks)
		overdue.ApplyEscalations(tasks, escalate)
		if !s.install(kind, gen, func() { s.tasks = tasks }) {
			return
		}
	case models.KindTeamMembers:
		members := store.DecodeMembers(s.ctx, docs)
		if !s.install(kind, gen, func() { s.members = members }) {
			return
		}
	}

	s.metrics.SnapshotApplied(string(kind))
	if len(escalate) > 0 && s.esc != nil {
		s.log.Info("escalating overdue tasks", "count", len(escalate))
		s.esc.Enqueue(escalate...)
	}
}

// install runs set under the state lock unless the subscription that produced
// the snapshot has since been replaced or stopped.
func (s *Session) install(kind models.Kind, gen uint64, set func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live[kind] != gen {
		return false
	}
	set()
	return true
}

// clear expects mu to be held.
func (s *Session) clear(kind models.Kind) {
	switch kind {
	case models.KindTransactions:
		s.txs = nil
	case models.KindClients:
		s.clients = nil
	case models.KindTasks:
		s.tasks = nil
	case models.KindTeamMembers:
		s.members = nil
	}
}

// Close stops every listener and drops all state.
func (s *Session) Close() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.mu.Lock()
	s.live = make(map[models.Kind]uint64)
	s.txs, s.clients, s.tasks, s.members = nil, nil, nil, nil
	s.state = StateUnauthenticated
	s.mu.Unlock()

	for kind, stop := range s.subs {
		stop()
		s.metrics.SubscriptionStopped(string(kind))
	}
	s.subs = make(map[models.Kind]store.Unsubscribe)
	s.log.Info("session closed")
}
