package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"screenshop/internal/model"
	"screenshop/internal/repository"
)

// GenerationPostgres is a PostgreSQL implementation of repository.GenerationRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type GenerationPostgres struct {
	db *sql.DB
}

// NewGenerationPostgres creates a new GenerationPostgres repository.
func NewGenerationPostgres(db *sql.DB) *GenerationPostgres {
	return &GenerationPostgres{db: db}
}

var _ repository.GenerationRepository = (*GenerationPostgres)(nil)

const generationColumns = `id, status, provider, model, screenshot_count, page_hints, file_count,
		error_code, error_message, archive_key, duration_ms, created_at`

// Create inserts a new generation row.
func (r *GenerationPostgres) Create(ctx context.Context, g *model.Generation) error {
	hints, err := json.Marshal(g.PageHints)
	if err != nil {
		return fmt.Errorf("encode page hints: %w", err)
	}
	const q = `
		INSERT INTO generations (` + generationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.db.ExecContext(ctx, q,
		g.ID,
		string(g.Status),
		g.Provider,
		g.Model,
		g.ScreenshotCount,
		hints,
		g.FileCount,
		g.ErrorCode,
		g.ErrorMessage,
		g.ArchiveKey,
		g.DurationMs,
		g.CreatedAt,
	)
	return err
}

// FindByID fetches a single generation by its ID.
func (r *GenerationPostgres) FindByID(ctx context.Context, id string) (*model.Generation, error) {
	const q = `SELECT ` + generationColumns + ` FROM generations WHERE id = $1`
	g, err := scanGeneration(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

// ListRecent returns the newest generations first.
func (r *GenerationPostgres) ListRecent(ctx context.Context, limit int) ([]model.Generation, error) {
	const q = `SELECT ` + generationColumns + ` FROM generations ORDER BY created_at DESC, id DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Generation, 0)
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGeneration(s scanner) (*model.Generation, error) {
	var (
		g      model.Generation
		status string
		hints  []byte
	)
	if err := s.Scan(
		&g.ID,
		&status,
		&g.Provider,
		&g.Model,
		&g.ScreenshotCount,
		&hints,
		&g.FileCount,
		&g.ErrorCode,
		&g.ErrorMessage,
		&g.ArchiveKey,
		&g.DurationMs,
		&g.CreatedAt,
	); err != nil {
		return nil, err
	}
	g.Status = model.GenerationStatus(status)
	if len(hints) > 0 {
		if err := json.Unmarshal(hints, &g.PageHints); err != nil {
			return nil, fmt.Errorf("decode page hints: %w", err)
		}
	}
	return &g, nil
}
