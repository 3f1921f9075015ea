package store

import (
	"context"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/ascend-backend/internal/errs"
)

type firestoreDocuments struct {
	Client *firestore.Client
}

func NewFirestoreDocuments(client *firestore.Client) *firestoreDocuments {
	return &firestoreDocuments{Client: client}
}

func (s *firestoreDocuments) Subscribe(ctx context.Context, collection string, onSnapshot func([]Document), onError func(error)) (Unsubscribe, error) {
	coll := s.Client.Collection(collection)
	if coll == nil {
		return nil, errs.NewValidationError("invalid collection path: " + collection)
	}

	subCtx, cancel := context.WithCancel(ctx)
	it := coll.Snapshots(subCtx)

	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if subCtx.Err() != nil || status.Code(err) == codes.Canceled {
					return
				}
				onError(errs.NewDatabaseError("subscribe "+collection, "snapshot listener failed", err))
				return
			}
			docs, err := snap.Documents.GetAll()
			if err != nil {
				onError(errs.NewDatabaseError("subscribe "+collection, "failed to read snapshot", err))
				continue
			}
			onSnapshot(toDocuments(collection, docs))
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}

func (s *firestoreDocuments) Get(ctx context.Context, path string) (Document, bool, error) {
	ref := s.Client.Doc(path)
	if ref == nil {
		return Document{}, false, errs.NewValidationError("invalid document path: " + path)
	}
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, errs.NewDatabaseError("get document", "read failed", err)
	}
	return Document{ID: ref.ID, Path: path, Data: snap.Data()}, true, nil
}

func (s *firestoreDocuments) GetAll(ctx context.Context, collection string) ([]Document, error) {
	coll := s.Client.Collection(collection)
	if coll == nil {
		return nil, errs.NewValidationError("invalid collection path: " + collection)
	}
	snaps, err := coll.Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("list "+collection, "query failed", err)
	}
	return toDocuments(collection, snaps), nil
}

func (s *firestoreDocuments) Set(ctx context.Context, path string, data map[string]any, merge bool) error {
	ref := s.Client.Doc(path)
	if ref == nil {
		return errs.NewValidationError("invalid document path: " + path)
	}
	var err error
	if merge {
		_, err = ref.Set(ctx, data, firestore.MergeAll)
	} else {
		_, err = ref.Set(ctx, data)
	}
	if err != nil {
		return errs.NewDatabaseError("set document", "write failed", err)
	}
	return nil
}

func (s *firestoreDocuments) Delete(ctx context.Context, path string) error {
	ref := s.Client.Doc(path)
	if ref == nil {
		return errs.NewValidationError("invalid document path: " + path)
	}
	if _, err := ref.Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete document", "delete failed", err)
	}
	return nil
}

func (s *firestoreDocuments) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	coll := s.Client.Collection(collection)
	if coll == nil {
		return "", errs.NewValidationError("invalid collection path: " + collection)
	}
	ref, _, err := coll.Add(ctx, data)
	if err != nil {
		return "", errs.NewDatabaseError("add document", "write failed", err)
	}
	return ref.ID, nil
}

// RunBatch applies every op inside one transaction so either all of them
// land or none do.
func (s *firestoreDocuments) RunBatch(ctx context.Context, ops []BatchOp) error {
	refs := make([]*firestore.DocumentRef, len(ops))
	for i, op := range ops {
		refs[i] = s.Client.Doc(op.Path)
		if refs[i] == nil {
			return errs.NewValidationError("invalid document path: " + op.Path)
		}
	}

	err := s.Client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		for i, op := range ops {
			var err error
			switch {
			case op.Kind == OpDelete:
				err = tx.Delete(refs[i])
			case op.Merge:
				err = tx.Set(refs[i], op.Data, firestore.MergeAll)
			default:
				err = tx.Set(refs[i], op.Data)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.NewDatabaseError("batch write", "transaction failed", err)
	}
	return nil
}

func (s *firestoreDocuments) Close() error {
	return s.Client.Close()
}

func toDocuments(collection string, snaps []*firestore.DocumentSnapshot) []Document {
	out := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		out = append(out, Document{
			ID:   snap.Ref.ID,
			Path: collection + "/" + snap.Ref.ID,
			Data: snap.Data(),
		})
	}
	return out
}
