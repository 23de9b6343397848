package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/officehub/internal/database"
	"github.com/dimitrije/officehub/internal/hub"
	"github.com/jackc/pgx/v5"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type PostgresStore struct {
	db  *database.DB
	hub *hub.Hub
}

func NewPostgresStore(db *database.DB, h *hub.Hub) *PostgresStore {
	return &PostgresStore{db: db, hub: h}
}

func (s *PostgresStore) Get(ctx context.Context, path string) (*Record, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "PostgresStore.Get")
	defer span.End()

	var rec Record
	err := s.db.Pool.QueryRow(ctx, `
		SELECT path, key, data, version, updated_at
		FROM records WHERE path = $1
	`, path).Scan(&rec.Path, &rec.Key, &rec.Data, &rec.Version, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return &rec, nil
}

func (s *PostgresStore) List(ctx context.Context, path string) (Snapshot, error) {
	if err := Validate(path); err != nil {
		return Snapshot{}, err
	}
	ctx, span := startSpan(ctx, "PostgresStore.List")
	defer span.End()

	rows, err := s.db.Pool.Query(ctx, `
		SELECT path, key, data, version, updated_at
		FROM records WHERE parent = $1
		ORDER BY key
	`, path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list %s: %w", path, err)
	}
	defer rows.Close()

	snap := Snapshot{Path: path, Records: []Record{}}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Path, &rec.Key, &rec.Data, &rec.Version, &rec.UpdatedAt); err != nil {
			return Snapshot{}, fmt.Errorf("scan %s: %w", path, err)
		}
		snap.Records = append(snap.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("list %s: %w", path, err)
	}
	return snap, nil
}

func (s *PostgresStore) Subscribe(ctx context.Context, path string) (*Subscription, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}
	if s.hub == nil {
		return nil, errNoHub
	}
	return watch(ctx, s.hub, path, s.List), nil
}

func (s *PostgresStore) Set(ctx context.Context, path string, value any) (*Record, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}
	data, err := marshalFields(value)
	if err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "PostgresStore.Set")
	defer span.End()

	var rec Record
	err = s.db.Pool.QueryRow(ctx, `
		INSERT INTO records (path, parent, key, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (path) DO UPDATE
		SET data = EXCLUDED.data, version = records.version + 1, updated_at = NOW()
		RETURNING path, key, data, version, updated_at
	`, path, Parent(path), Key(path), data).Scan(&rec.Path, &rec.Key, &rec.Data, &rec.Version, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("set %s: %w", path, err)
	}

	publish(s.hub, path)
	return &rec, nil
}

func (s *PostgresStore) Update(ctx context.Context, path string, fields map[string]any, expectedVersion int64) (*Record, error) {
	if err := Validate(path); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	patch, err := marshalFields(fields)
	if err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "PostgresStore.Update")
	defer span.End()

	var rec Record
	err = s.db.Pool.QueryRow(ctx, `
		UPDATE records
		SET data = data || $2::jsonb, version = version + 1, updated_at = NOW()
		WHERE path = $1 AND ($3::bigint = 0 OR version = $3)
		RETURNING path, key, data, version, updated_at
	`, path, patch, expectedVersion).Scan(&rec.Path, &rec.Key, &rec.Data, &rec.Version, &rec.UpdatedAt)
	if err != nil {
		return nil, s.checkVersionConflict(ctx, path, expectedVersion, err)
	}

	publish(s.hub, path)
	return &rec, nil
}

func (s *PostgresStore) checkVersionConflict(ctx context.Context, path string, expectedVersion int64, originalErr error) error {
	if !errors.Is(originalErr, pgx.ErrNoRows) {
		return fmt.Errorf("update %s: %w", path, originalErr)
	}
	var currentVersion int64
	err := s.db.Pool.QueryRow(ctx, `SELECT version FROM records WHERE path = $1`, path).Scan(&currentVersion)
	if err != nil {
		return ErrNotFound
	}
	if currentVersion != expectedVersion {
		return ErrVersionConflict
	}
	return fmt.Errorf("update %s: %w", path, originalErr)
}

func (s *PostgresStore) Push(ctx context.Context, collection string, value any) (*Record, error) {
	if err := Validate(collection); err != nil {
		return nil, err
	}
	return s.Set(ctx, Join(collection, NewKey()), value)
}

func (s *PostgresStore) Delete(ctx context.Context, path string) error {
	if err := Validate(path); err != nil {
		return err
	}
	ctx, span := startSpan(ctx, "PostgresStore.Delete")
	defer span.End()

	_, err := s.db.Pool.Exec(ctx, `
		DELETE FROM records WHERE path = $1 OR path LIKE $2
	`, path, likeEscaper.Replace(path)+"/%")
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}

	publish(s.hub, path)
	return nil
}

func marshalFields(value any) (json.RawMessage, error) {
	fields, err := Fields(value)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return data, nil
}
