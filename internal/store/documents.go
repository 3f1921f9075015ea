package store

import (
	"context"
	"strings"

	"github.com/GregMSThompson/ascend-backend/internal/errs"
)

// Document is a stored record: its key, full path and raw field map.
type Document struct {
	ID   string
	Path string
	Data map[string]any
}

// Unsubscribe stops a snapshot listener. Calling it more than once is safe.
type Unsubscribe func()

type OpKind int

const (
	OpSet OpKind = iota
	OpDelete
)

type BatchOp struct {
	Kind  OpKind
	Path  string
	Data  map[string]any
	Merge bool
}

func SetOp(path string, data map[string]any, merge bool) BatchOp {
	return BatchOp{Kind: OpSet, Path: path, Data: data, Merge: merge}
}

func DeleteOp(path string) BatchOp {
	return BatchOp{Kind: OpDelete, Path: path}
}

// Documents is the storage collaborator every backend implements. Snapshot
// callbacks always receive the full collection and run on a store goroutine.
type Documents interface {
	Subscribe(ctx context.Context, collection string, onSnapshot func([]Document), onError func(error)) (Unsubscribe, error)
	Get(ctx context.Context, path string) (Document, bool, error)
	GetAll(ctx context.Context, collection string) ([]Document, error)
	Set(ctx context.Context, path string, data map[string]any, merge bool) error
	Delete(ctx context.Context, path string) error
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	RunBatch(ctx context.Context, ops []BatchOp) error
	Close() error
}

func splitDocPath(path string) (collection, id string, err error) {
	i := strings.LastIndex(path, "/")
	if i <= 0 || i == len(path)-1 {
		return "", "", errs.NewValidationError("invalid document path: " + path)
	}
	return path[:i], path[i+1:], nil
}
