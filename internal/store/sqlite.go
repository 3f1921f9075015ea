package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/GregMSThompson/ascend-backend/internal/errs"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL,
	PRIMARY KEY (collection, id)
)`

// sqliteDocuments keeps every document as a JSON blob and pushes a fresh
// snapshot to listeners of a collection after each committed write.
type sqliteDocuments struct {
	DB *sql.DB

	mu     sync.Mutex
	subs   map[string]map[int]*sqliteListener
	nextID int
}

type sqliteListener struct {
	notify chan struct{}
	done   chan struct{}
	once   sync.Once
}

// OpenSQLite opens (or creates) the database at path. ":memory:" gives a
// private in-process database.
func OpenSQLite(ctx context.Context, path string) (*sqliteDocuments, error) {
	dsn := path
	if path != ":memory:" && !strings.Contains(path, "?") {
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errs.NewDatabaseError("open sqlite", "open failed", err)
	}
	// one connection keeps :memory: databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, errs.NewDatabaseError("open sqlite", "schema migration failed", err)
	}
	return &sqliteDocuments{DB: db, subs: make(map[string]map[int]*sqliteListener)}, nil
}

func (s *sqliteDocuments) Subscribe(ctx context.Context, collection string, onSnapshot func([]Document), onError func(error)) (Unsubscribe, error) {
	l := &sqliteListener{notify: make(chan struct{}, 1), done: make(chan struct{})}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	if s.subs[collection] == nil {
		s.subs[collection] = make(map[int]*sqliteListener)
	}
	s.subs[collection][id] = l
	s.mu.Unlock()

	stop := func() {
		l.once.Do(func() {
			close(l.done)
			s.mu.Lock()
			delete(s.subs[collection], id)
			s.mu.Unlock()
		})
	}

	l.notify <- struct{}{}
	go func() {
		for {
			select {
			case <-l.done:
				return
			case <-ctx.Done():
				stop()
				return
			case <-l.notify:
				docs, err := s.GetAll(context.Background(), collection)
				select {
				case <-l.done:
					return
				default:
				}
				if err != nil {
					onError(err)
					continue
				}
				onSnapshot(docs)
			}
		}
	}()

	return stop, nil
}

func (s *sqliteDocuments) signal(collections map[string]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range collections {
		for _, l := range s.subs[c] {
			select {
			case l.notify <- struct{}{}:
			default:
			}
		}
	}
}

func (s *sqliteDocuments) Get(ctx context.Context, path string) (Document, bool, error) {
	collection, id, err := splitDocPath(path)
	if err != nil {
		return Document{}, false, err
	}
	data, found, err := readDoc(ctx, s.DB, collection, id)
	if err != nil {
		return Document{}, false, errs.NewDatabaseError("get document", "read failed", err)
	}
	if !found {
		return Document{}, false, nil
	}
	return Document{ID: id, Path: path, Data: data}, true, nil
}

func (s *sqliteDocuments) GetAll(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, data FROM documents WHERE collection = ? ORDER BY id`, collection)
	if err != nil {
		return nil, errs.NewDatabaseError("list "+collection, "query failed", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, errs.NewDatabaseError("list "+collection, "scan failed", err)
		}
		var data map[string]any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, errs.NewDatabaseError("list "+collection, "corrupt document "+id, err)
		}
		out = append(out, Document{ID: id, Path: collection + "/" + id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDatabaseError("list "+collection, "iteration failed", err)
	}
	return out, nil
}

func (s *sqliteDocuments) Set(ctx context.Context, path string, data map[string]any, merge bool) error {
	return s.RunBatch(ctx, []BatchOp{SetOp(path, data, merge)})
}

func (s *sqliteDocuments) Delete(ctx context.Context, path string) error {
	return s.RunBatch(ctx, []BatchOp{DeleteOp(path)})
}

func (s *sqliteDocuments) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := s.RunBatch(ctx, []BatchOp{SetOp(collection+"/"+id, data, false)}); err != nil {
		return "", err
	}
	return id, nil
}

func (s *sqliteDocuments) RunBatch(ctx context.Context, ops []BatchOp) error {
	touched := make(map[string]struct{})

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return errs.NewDatabaseError("batch write", "begin failed", err)
	}
	defer tx.Rollback()

	for _, op := range ops {
		collection, id, err := splitDocPath(op.Path)
		if err != nil {
			return err
		}
		touched[collection] = struct{}{}

		if op.Kind == OpDelete {
			if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id); err != nil {
				return errs.NewDatabaseError("batch write", "delete failed", err)
			}
			continue
		}

		data := op.Data
		if op.Merge {
			existing, found, err := readDoc(ctx, tx, collection, id)
			if err != nil {
				return errs.NewDatabaseError("batch write", "read for merge failed", err)
			}
			if found {
				data = mergeMaps(existing, op.Data)
			}
		}
		raw, err := json.Marshal(data)
		if err != nil {
			return errs.NewDatabaseError("batch write", "encode failed", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
			 ON CONFLICT(collection, id) DO UPDATE SET data = excluded.data`,
			collection, id, string(raw)); err != nil {
			return errs.NewDatabaseError("batch write", "upsert failed", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errs.NewDatabaseError("batch write", "commit failed", err)
	}
	s.signal(touched)
	return nil
}

func (s *sqliteDocuments) Close() error {
	s.mu.Lock()
	var listeners []*sqliteListener
	for _, byID := range s.subs {
		for _, l := range byID {
			listeners = append(listeners, l)
		}
	}
	s.subs = make(map[string]map[int]*sqliteListener)
	s.mu.Unlock()

	for _, l := range listeners {
		l.once.Do(func() { close(l.done) })
	}
	return s.DB.Close()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func readDoc(ctx context.Context, q queryer, collection, id string) (map[string]any, bool, error) {
	var raw string
	err := q.QueryRowContext(ctx, `SELECT data FROM documents WHERE collection = ? AND id = ?`, collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// mergeMaps mirrors Firestore's MergeAll: nested maps merge key by key,
// everything else is replaced.
func mergeMaps(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		dstMap, dstIsMap := out[k].(map[string]any)
		if srcIsMap && dstIsMap {
			out[k] = mergeMaps(dstMap, srcMap)
			continue
		}
		out[k] = v
	}
	return out
}
