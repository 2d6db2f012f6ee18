package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenshop/internal/model"
)

func TestMemory_CreateFind(t *testing.T) {
	repo := NewMemory(0)
	ctx := context.Background()

	hints := []model.PageHint{model.PageHintHomepage}
	g := &model.Generation{ID: "gen-1", Status: model.GenerationSucceeded, PageHints: hints}
	require.NoError(t, repo.Create(ctx, g))

	hints[0] = model.PageHintCart

	got, err := repo.FindByID(ctx, "gen-1")
	require.NoError(t, err)
	assert.Equal(t, model.GenerationSucceeded, got.Status)
	assert.Equal(t, []model.PageHint{model.PageHintHomepage}, got.PageHints)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_EvictsOldest(t *testing.T) {
	repo := NewMemory(2)
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.Generation{ID: fmt.Sprintf("gen-%d", i)}))
	}

	_, err := repo.FindByID(ctx, "gen-1")
	assert.ErrorIs(t, err, ErrNotFound)

	recent, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "gen-3", recent[0].ID)
	assert.Equal(t, "gen-2", recent[1].ID)
}
