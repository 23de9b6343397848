package database

import (
	"context"
	"fmt"
)

// Records are addressed by slash separated paths. parent is the path with the
// last segment removed, so a collection read is a single index scan.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS records (
		path TEXT PRIMARY KEY,
		parent TEXT NOT NULL,
		key TEXT NOT NULL,
		data JSONB NOT NULL DEFAULT '{}'::jsonb,
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_records_parent ON records(parent, key)`,

	`CREATE INDEX IF NOT EXISTS idx_records_path_prefix ON records(path text_pattern_ops)`,

	`CREATE INDEX IF NOT EXISTS idx_records_user ON records((data->>'userId')) WHERE data ? 'userId'`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
