package session

import (
	"context"
	"sync"
	"time"

	"github.com/GregMSThompson/ascend-backend/internal/metrics"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/services"
	"github.com/GregMSThompson/ascend-backend/internal/store"
	"github.com/GregMSThompson/ascend-backend/pkg/logger"
)

type resolver interface {
	Resolve(ctx context.Context, uid, email string) (models.TeamMember, services.Resolution)
}

type entry struct {
	session *Session
	ready   chan struct{}
}

// Manager owns one session per signed-in uid.
type Manager struct {
	Docs     subscriber
	Accounts resolver
	Layout   store.Layout
	Escalate enqueuer
	Metrics  *metrics.Metrics
	Clock    func() time.Time

	// base outlives requests; listeners are bound to it.
	base context.Context

	mu       sync.Mutex
	sessions map[string]*entry
	watch    store.Unsubscribe
}

func NewManager(ctx context.Context, docs subscriber, accounts resolver, layout store.Layout, esc enqueuer, m *metrics.Metrics) *Manager {
	return &Manager{
		Docs:     docs,
		Accounts: accounts,
		Layout:   layout,
		Escalate: esc,
		Metrics:  m,
		Clock:    time.Now,
		base:     context.WithoutCancel(ctx),
		sessions: make(map[string]*entry),
	}
}

// Open returns the session for uid, resolving the account the first time.
// Concurrent first requests share one resolution. A session whose lookup
// failed is resolved again rather than served.
func (m *Manager) Open(ctx context.Context, uid, email string) (*Session, error) {
	m.mu.Lock()
	if e, ok := m.sessions[uid]; ok {
		m.mu.Unlock()
		select {
		case <-e.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if e.session.Resolution() != services.Failed {
			return e.session, nil
		}
		m.discard(uid, e)
		return m.Open(ctx, uid, email)
	}
	s := newSession(m.base, uid, email, m.Docs, m.Layout, m.Escalate, m.Metrics, m.Clock)
	e := &entry{session: s, ready: make(chan struct{})}
	m.sessions[uid] = e
	m.mu.Unlock()

	// the lookup runs on base so an aborted request cannot fail it
	profile, how := m.Accounts.Resolve(m.base, uid, email)
	s.ApplyProfile(profile, how)
	close(e.ready)

	m.Metrics.SessionOpened()
	logger.FromContext(ctx).Info("session opened", "uid", uid, "role", profile.Role, "resolution", how)
	return s, nil
}

// SignIn starts a fresh resolution for uid, replacing any session this
// server already holds for it.
func (m *Manager) SignIn(ctx context.Context, uid, email string) (*Session, error) {
	m.Close(uid)
	return m.Open(ctx, uid, email)
}

func (m *Manager) discard(uid string, e *entry) {
	m.mu.Lock()
	if m.sessions[uid] != e {
		m.mu.Unlock()
		return
	}
	delete(m.sessions, uid)
	m.mu.Unlock()
	e.session.Close()
	m.Metrics.SessionClosed()
}

// Get returns a session that has finished resolving.
func (m *Manager) Get(uid string) (*Session, bool) {
	m.mu.Lock()
	e, ok := m.sessions[uid]
	m.mu.Unlock()
	if !ok {
		return nil, false
	}
	select {
	case <-e.ready:
		return e.session, true
	default:
		return nil, false
	}
}

// Close signs uid out of this server, stopping every listener of its session.
func (m *Manager) Close(uid string) {
	m.mu.Lock()
	e, ok := m.sessions[uid]
	delete(m.sessions, uid)
	m.mu.Unlock()
	if !ok {
		return
	}
	<-e.ready
	e.session.Close()
	m.Metrics.SessionClosed()
}

// Watch follows the team collection so role and permission changes reach
// open sessions without a new sign-in.
func (m *Manager) Watch(ctx context.Context) error {
	log := logger.FromContext(ctx).With("component", "team-watch")
	stop, err := m.Docs.Subscribe(m.base, m.Layout.Collection(models.KindTeamMembers),
		func(docs []store.Document) { m.onTeam(store.DecodeMembers(m.base, docs)) },
		func(err error) { log.Error("team watch error", "error", err) })
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.watch = stop
	m.mu.Unlock()
	return nil
}

func (m *Manager) onTeam(members []models.TeamMember) {
	byUID := make(map[string]models.TeamMember, len(members))
	invites := make(map[string]bool)
	for _, mem := range members {
		if mem.Pending() {
			invites[models.NormalizeEmail(mem.ID)] = true
			continue
		}
		if mem.UID != "" {
			byUID[mem.UID] = mem
		}
		byUID[mem.ID] = mem
	}

	for _, s := range m.ready() {
		mem, found := byUID[s.UID]
		switch {
		case found && s.Resolution() == services.Failed:
			s.ApplyProfile(mem, services.ResolvedByUID)
		case found:
			s.ApplyProfile(mem, "")
		case s.Resolution() == services.Failed:
			go m.refresh(s)
		case s.Resolution() == services.Visitor && invites[models.NormalizeEmail(s.Email)]:
			go m.refresh(s)
		case s.Resolution() == services.ResolvedByUID || s.Resolution() == services.MigratedInvite || s.Resolution() == services.BootstrapAdmin:
			// the member record was removed
			s.ApplyProfile(models.VisitorProfile(s.Email), services.Visitor)
		}
	}
}

// refresh resolves a visitor again once an invite for its email appears,
// and retries a failed lookup.
func (m *Manager) refresh(s *Session) {
	profile, how := m.Accounts.Resolve(m.base, s.UID, s.Email)
	if how == services.Failed {
		return
	}
	s.ApplyProfile(profile, how)
}

func (m *Manager) ready() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, e := range m.sessions {
		select {
		case <-e.ready:
			out = append(out, e.session)
		default:
		}
	}
	return out
}

// Shutdown closes every session and stops the team watch.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	entries := m.sessions
	m.sessions = make(map[string]*entry)
	watch := m.watch
	m.watch = nil
	m.mu.Unlock()

	if watch != nil {
		watch()
	}
	for _, e := range entries {
		<-e.ready
		e.session.Close()
		m.Metrics.SessionClosed()
	}
}
