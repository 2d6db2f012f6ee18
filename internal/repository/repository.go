// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
package repository

import (
	"context"
	"errors"

	"screenshop/internal/model"
)

// ErrNotFound is returned when no record matches the lookup.
var ErrNotFound = errors.New("record not found")

// GenerationRepository persists generation audit records using SQL queries only.
// No business logic here, strictly persistence operations.
type GenerationRepository interface {
	// Create inserts a new audit record. The caller assigns ID and CreatedAt.
	Create(ctx context.Context, g *model.Generation) error

	// FindByID returns a record by its ID, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Generation, error)

	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.Generation, error)
}
