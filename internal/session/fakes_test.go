package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/services"
	"github.com/GregMSThompson/ascend-backend/internal/store"
)

var (
	testLayout = store.NewLayout("ascend")
	fixedNow   = time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC)
)

type fakeListener struct {
	onSnapshot func([]store.Document)
	stopped    bool
}

// fakeSubscriber keeps every listener, stopped or not, so tests can deliver
// snapshots that arrive after an unsubscribe.
type fakeSubscriber struct {
	mu        sync.Mutex
	listeners map[string][]*fakeListener
	initial   map[string][]store.Document
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{listeners: make(map[string][]*fakeListener), initial: make(map[string][]store.Document)}
}

func (f *fakeSubscriber) Subscribe(_ context.Context, collection string, onSnapshot func([]store.Document), _ func(error)) (store.Unsubscribe, error) {
	l := &fakeListener{onSnapshot: onSnapshot}
	f.mu.Lock()
	f.listeners[collection] = append(f.listeners[collection], l)
	initial, ok := f.initial[collection]
	f.mu.Unlock()
	if ok {
		onSnapshot(initial)
	}
	return func() {
		f.mu.Lock()
		l.stopped = true
		f.mu.Unlock()
	}, nil
}

// emit delivers docs to the running listeners of collection.
func (f *fakeSubscriber) emit(collection string, docs []store.Document) {
	for _, l := range f.all(collection) {
		if !l.stopped {
			l.onSnapshot(docs)
		}
	}
}

func (f *fakeSubscriber) all(collection string) []*fakeListener {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*fakeListener(nil), f.listeners[collection]...)
}

func (f *fakeSubscriber) count(collection string) (total, running int) {
	for _, l := range f.all(collection) {
		total++
		if !l.stopped {
			running++
		}
	}
	return total, running
}

type fakeResolver struct {
	mu       sync.Mutex
	profiles map[string]models.TeamMember
	how      services.Resolution
	calls    int
	// failures makes the next lookups fail as a storage error would
	failures int
}

func (f *fakeResolver) Resolve(ctx context.Context, uid, email string) (models.TeamMember, services.Resolution) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if ctx.Err() != nil || f.failures > 0 {
		if f.failures > 0 {
			f.failures--
		}
		return models.ErrorProfile(email), services.Failed
	}
	if p, ok := f.profiles[uid]; ok {
		how := f.how
		if how == "" {
			how = services.ResolvedByUID
		}
		return p, how
	}
	return models.VisitorProfile(email), services.Visitor
}

type recordingEnqueuer struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingEnqueuer) Enqueue(ids ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, ids...)
}

func (r *recordingEnqueuer) taken() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func doc(kind models.Kind, id string, data map[string]any) store.Document {
	return store.Document{ID: id, Path: testLayout.Doc(kind, id), Data: data}
}

func collection(kind models.Kind) string {
	return testLayout.Collection(kind)
}

func gestor(uid string, perms models.Permissions) models.TeamMember {
	return models.TeamMember{ID: uid, UID: uid, Name: uid, Email: strings.ToLower(uid) + "@ascend.test", Role: models.RoleGestor, Permissions: perms}
}

func newTestManager(sub *fakeSubscriber, res *fakeResolver, esc enqueuer) *Manager {
	m := NewManager(context.Background(), sub, res, testLayout, esc, nil)
	m.Clock = func() time.Time { return fixedNow }
	return m
}
