package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dimitrije/officehub/internal/database"
	"github.com/dimitrije/officehub/internal/hub"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type mongoRecord struct {
	Path      string    `bson:"_id"`
	Parent    string    `bson:"parent"`
	Key       string    `bson:"key"`
	Data      bson.M    `bson:"data"`
	Version   int64     `bson:"version"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps every record as one document of a single collection, keyed
// by its path.
type MongoStore struct {
	records *mongo.Collection
	hub     *hub.Hub
}

func NewMongoStore(ctx context.Context, db *database.MongoDB, h *hub.Hub) (*MongoStore, error) {
	records := db.Collection("records")

	if _, err := records.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "parent", Value: 1}, {Key: "key", Value: 1}},
	}); err != nil {
		return nil, fmt.Errorf("create records indexes: %w", err)
	}

	return &MongoStore{records: records, hub: h}, nil
}

func (s *MongoStore) Get(ctx context.Context, path string) (*Record, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "MongoStore.Get")
	defer span.End()

	var doc mongoRecord
	err := s.records.FindOne(ctx, bson.M{"_id": path}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find record %s: %w", path, err)
	}
	return doc.record()
}

func (s *MongoStore) List(ctx context.Context, path string) (Snapshot, error) {
	if err := Validate(path); err != nil {
		return Snapshot{}, err
	}
	ctx, span := startSpan(ctx, "MongoStore.List")
	defer span.End()

	cursor, err := s.records.Find(ctx, bson.M{"parent": path},
		options.Find().SetSort(bson.D{{Key: "key", Value: 1}}))
	if err != nil {
		return Snapshot{}, fmt.Errorf("find records under %s: %w", path, err)
	}

	var docs []mongoRecord
	if err := cursor.All(ctx, &docs); err != nil {
		return Snapshot{}, fmt.Errorf("decode records under %s: %w", path, err)
	}

	snap := Snapshot{Path: path, Records: make([]Record, 0, len(docs))}
	for _, doc := range docs {
		rec, err := doc.record()
		if err != nil {
			return Snapshot{}, err
		}
		snap.Records = append(snap.Records, *rec)
	}
	return snap, nil
}

func (s *MongoStore) Subscribe(ctx context.Context, path string) (*Subscription, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}
	if s.hub == nil {
		return nil, errNoHub
	}
	return watch(ctx, s.hub, path, s.List), nil
}

func (s *MongoStore) Set(ctx context.Context, path string, value any) (*Record, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}
	data, err := toBSON(value)
	if err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "MongoStore.Set")
	defer span.End()

	var doc mongoRecord
	err = s.records.FindOneAndUpdate(ctx,
		bson.M{"_id": path},
		bson.M{
			"$set": bson.M{
				"parent":     Parent(path),
				"key":        Key(path),
				"data":       data,
				"updated_at": time.Now().UTC(),
			},
			"$inc": bson.M{"version": 1},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("upsert record %s: %w", path, err)
	}

	publish(s.hub, path)
	return doc.record()
}

func (s *MongoStore) Update(ctx context.Context, path string, fields map[string]any, expectedVersion int64) (*Record, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}
	fields, err := Fields(fields)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	ctx, span := startSpan(ctx, "MongoStore.Update")
	defer span.End()

	patch, err := toBSON(fields)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range patch {
		set["data."+k] = v
	}

	filter := bson.M{"_id": path}
	if expectedVersion != 0 {
		filter["version"] = expectedVersion
	}

	var doc mongoRecord
	err = s.records.FindOneAndUpdate(ctx, filter,
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		n, cerr := s.records.CountDocuments(ctx, bson.M{"_id": path})
		if cerr != nil {
			return nil, fmt.Errorf("count record %s: %w", path, cerr)
		}
		if n == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, fmt.Errorf("update record %s: %w", path, err)
	}

	publish(s.hub, path)
	return doc.record()
}

func (s *MongoStore) Push(ctx context.Context, collection string, value any) (*Record, error) {
	if err := Validate(collection); err != nil {
		return nil, err
	}
	return s.Set(ctx, Join(collection, NewKey()), value)
}

func (s *MongoStore) Delete(ctx context.Context, path string) error {
	if err := Validate(path); err != nil {
		return err
	}
	ctx, span := startSpan(ctx, "MongoStore.Delete")
	defer span.End()

	_, err := s.records.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"_id": path},
		bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(path+"/")}},
	}})
	if err != nil {
		return fmt.Errorf("delete records %s: %w", path, err)
	}

	publish(s.hub, path)
	return nil
}

func (d mongoRecord) record() (*Record, error) {
	data, err := bson.MarshalExtJSON(d.Data, false, false)
	if err != nil {
		return nil, fmt.Errorf("encode record %s: %w", d.Path, err)
	}
	return &Record{
		Path:      d.Path,
		Key:       d.Key,
		Data:      data,
		Version:   d.Version,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func toBSON(value any) (bson.M, error) {
	raw, err := marshalFields(value)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.UnmarshalExtJSON(raw, false, &m); err != nil {
		return nil, fmt.Errorf("convert record: %w", err)
	}
	return m, nil
}
