package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore maps record paths directly onto Firestore: paths with an even
// number of segments are documents, odd ones are collections. Record versions
// are the document update times in nanoseconds.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func isDocumentPath(path string) bool {
	return (strings.Count(path, "/")+1)%2 == 0
}

func (s *FirestoreStore) doc(path string) (*firestore.DocumentRef, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}
	if !isDocumentPath(path) {
		return nil, fmt.Errorf("%w: %q is a collection", ErrInvalidPath, path)
	}
	return s.client.Doc(path), nil
}

func (s *FirestoreStore) collection(path string) (*firestore.CollectionRef, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}
	if isDocumentPath(path) {
		return nil, fmt.Errorf("%w: %q is a document", ErrInvalidPath, path)
	}
	return s.client.Collection(path), nil
}

func (s *FirestoreStore) Get(ctx context.Context, path string) (*Record, error) {
	ref, err := s.doc(path)
	if err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "FirestoreStore.Get")
	defer span.End()

	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("while reading %s: %w", path, err)
	}
	return recordFromDocument(path, snap)
}

func (s *FirestoreStore) List(ctx context.Context, path string) (Snapshot, error) {
	col, err := s.collection(path)
	if err != nil {
		return Snapshot{}, err
	}
	ctx, span := startSpan(ctx, "FirestoreStore.List")
	defer span.End()

	iter := col.Documents(ctx)
	defer iter.Stop()

	snap := Snapshot{Path: path, Records: []Record{}}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return Snapshot{}, fmt.Errorf("while iterating %s: %w", path, err)
		}
		rec, err := recordFromDocument(Join(path, doc.Ref.ID), doc)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Records = append(snap.Records, *rec)
	}
	return snap, nil
}

func (s *FirestoreStore) Subscribe(ctx context.Context, path string) (*Subscription, error) {
	col, err := s.collection(path)
	if err != nil {
		return nil, err
	}

	return newSubscription(ctx, func(ctx context.Context, out chan<- Snapshot) error {
		iter := col.Snapshots(ctx)
		defer iter.Stop()

		for {
			qs, err := iter.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled {
					return ctx.Err()
				}
				return fmt.Errorf("while listening on %s: %w", path, err)
			}

			docs, err := qs.Documents.GetAll()
			if err != nil {
				return fmt.Errorf("while reading snapshot of %s: %w", path, err)
			}

			snap := Snapshot{Path: path, Records: make([]Record, 0, len(docs))}
			for _, doc := range docs {
				rec, err := recordFromDocument(Join(path, doc.Ref.ID), doc)
				if err != nil {
					return err
				}
				snap.Records = append(snap.Records, *rec)
			}

			select {
			case out <- snap:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}), nil
}

func (s *FirestoreStore) Set(ctx context.Context, path string, value any) (*Record, error) {
	ref, err := s.doc(path)
	if err != nil {
		return nil, err
	}
	fields, err := Fields(value)
	if err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "FirestoreStore.Set")
	defer span.End()

	wr, err := ref.Set(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("while writing %s: %w", path, err)
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return &Record{
		Path:      path,
		Key:       Key(path),
		Data:      data,
		Version:   wr.UpdateTime.UnixNano(),
		UpdatedAt: wr.UpdateTime,
	}, nil
}

func (s *FirestoreStore) Update(ctx context.Context, path string, fields map[string]any, expectedVersion int64) (*Record, error) {
	ref, err := s.doc(path)
	if err != nil {
		return nil, err
	}
	fields, err = Fields(fields)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	ctx, span := startSpan(ctx, "FirestoreStore.Update")
	defer span.End()

	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}

	var preconds []firestore.Precondition
	if expectedVersion != 0 {
		preconds = append(preconds, firestore.LastUpdateTime(time.Unix(0, expectedVersion)))
	}

	if _, err := ref.Update(ctx, updates, preconds...); err != nil {
		switch status.Code(err) {
		case codes.NotFound:
			return nil, ErrNotFound
		case codes.FailedPrecondition:
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("while updating %s: %w", path, err)
	}

	return s.Get(ctx, path)
}

func (s *FirestoreStore) Push(ctx context.Context, collection string, value any) (*Record, error) {
	if _, err := s.collection(collection); err != nil {
		return nil, err
	}
	return s.Set(ctx, Join(collection, NewKey()), value)
}

// Delete removes a document with all of its subcollections, or every document
// of a collection.
func (s *FirestoreStore) Delete(ctx context.Context, path string) error {
	if err := Validate(path); err != nil {
		return err
	}
	ctx, span := startSpan(ctx, "FirestoreStore.Delete")
	defer span.End()

	if isDocumentPath(path) {
		return s.deleteDocument(ctx, s.client.Doc(path))
	}
	return s.deleteCollection(ctx, s.client.Collection(path))
}

func (s *FirestoreStore) deleteDocument(ctx context.Context, ref *firestore.DocumentRef) error {
	cols := ref.Collections(ctx)
	for {
		col, err := cols.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("while listing subcollections of %s: %w", ref.ID, err)
		}
		if err := s.deleteCollection(ctx, col); err != nil {
			return err
		}
	}

	if _, err := ref.Delete(ctx); err != nil {
		return fmt.Errorf("while deleting %s: %w", ref.ID, err)
	}
	return nil
}

func (s *FirestoreStore) deleteCollection(ctx context.Context, col *firestore.CollectionRef) error {
	refs, err := col.DocumentRefs(ctx).GetAll()
	if err != nil {
		return fmt.Errorf("while listing %s: %w", col.ID, err)
	}
	for _, ref := range refs {
		if err := s.deleteDocument(ctx, ref); err != nil {
			return err
		}
	}
	return nil
}

func recordFromDocument(path string, doc *firestore.DocumentSnapshot) (*Record, error) {
	data, err := json.Marshal(doc.Data())
	if err != nil {
		return nil, fmt.Errorf("while encoding %s: %w", path, err)
	}
	return &Record{
		Path:      path,
		Key:       doc.Ref.ID,
		Data:      data,
		Version:   doc.UpdateTime.UnixNano(),
		UpdatedAt: doc.UpdateTime,
	}, nil
}
