package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

// SentinelTable marks an already-migrated schema.
const SentinelTable = "generations"

var steps = []migrationStep{
	{
		Name: "create_table_generations",
		SQL: `CREATE TABLE IF NOT EXISTS generations (
  id               TEXT        PRIMARY KEY,
  status           TEXT        NOT NULL CHECK (status IN ('succeeded', 'failed')),
  provider         TEXT        NOT NULL,
  model            TEXT        NOT NULL,
  screenshot_count INTEGER     NOT NULL CHECK (screenshot_count >= 0),
  page_hints       JSONB       NOT NULL DEFAULT '[]'::jsonb,
  file_count       INTEGER     NOT NULL DEFAULT 0,
  error_code       TEXT        NOT NULL DEFAULT '',
  error_message    TEXT        NOT NULL DEFAULT '',
  archive_key      TEXT        NOT NULL DEFAULT '',
  duration_ms      BIGINT      NOT NULL DEFAULT 0,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_generations_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_generations_created_at ON generations (created_at);`,
	},
	{
		Name: "create_index_generations_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_generations_status ON generations (status);`,
	},
}

// EnsureMigrated checks if the sentinel table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	query := "SELECT to_regclass('public." + SentinelTable + "') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "schema already exists"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
