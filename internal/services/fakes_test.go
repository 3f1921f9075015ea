package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GregMSThompson/ascend-backend/internal/access"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/store"
)

const testTenant = "ascend"

var testLayout = store.NewLayout(testTenant)

// fakeDocs is an in-memory document store. Batches apply all or nothing.
type fakeDocs struct {
	mu       sync.Mutex
	docs     map[string]map[string]any
	nextID   int
	getErr   error
	setErr   error
	batchErr error
	batches  int
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{docs: make(map[string]map[string]any)}
}

func (f *fakeDocs) put(path string, data map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[path] = data
}

func (f *fakeDocs) data(path string) (map[string]any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[path]
	return d, ok
}

// under returns the documents directly inside collection, sorted by path.
func (f *fakeDocs) under(collection string) []store.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.Document
	for path, data := range f.docs {
		if !strings.HasPrefix(path, collection+"/") || strings.Contains(path[len(collection)+1:], "/") {
			continue
		}
		out = append(out, store.Document{ID: path[len(collection)+1:], Path: path, Data: data})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func (f *fakeDocs) Get(_ context.Context, path string) (store.Document, bool, error) {
	if f.getErr != nil {
		return store.Document{}, false, f.getErr
	}
	d, ok := f.data(path)
	if !ok {
		return store.Document{}, false, nil
	}
	return store.Document{ID: path[strings.LastIndex(path, "/")+1:], Path: path, Data: d}, true, nil
}

func (f *fakeDocs) GetAll(_ context.Context, collection string) ([]store.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.under(collection), nil
}

func (f *fakeDocs) Set(_ context.Context, path string, data map[string]any, merge bool) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apply(store.SetOp(path, data, merge))
	return nil
}

func (f *fakeDocs) Delete(_ context.Context, path string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, path)
	return nil
}

func (f *fakeDocs) Add(_ context.Context, collection string, data map[string]any) (string, error) {
	if f.setErr != nil {
		return "", f.setErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("doc%d", f.nextID)
	f.apply(store.SetOp(collection+"/"+id, data, false))
	return id, nil
}

func (f *fakeDocs) RunBatch(_ context.Context, ops []store.BatchOp) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches++
	if f.batchErr != nil {
		return f.batchErr
	}
	for _, op := range ops {
		f.apply(op)
	}
	return nil
}

// apply expects f.mu to be held.
func (f *fakeDocs) apply(op store.BatchOp) {
	if op.Kind == store.OpDelete {
		delete(f.docs, op.Path)
		return
	}
	next := make(map[string]any, len(op.Data))
	if existing, ok := f.docs[op.Path]; ok && op.Merge {
		for k, v := range existing {
			next[k] = v
		}
	}
	for k, v := range op.Data {
		next[k] = v
	}
	f.docs[op.Path] = next
}

var fixedNow = time.Date(2024, time.July, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testActor(role models.Role, perms models.Permissions) Actor {
	return Actor{UID: "uid-" + string(role), Email: string(role) + "@ascend.test", Grant: access.Resolve(role, perms)}
}

func newTestRecords(docs *fakeDocs) *recordService {
	svc := NewRecordService(docs, testLayout, nil)
	svc.Clock = fixedClock
	return svc
}
