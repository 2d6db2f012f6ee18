package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"screenshop/internal/model"
)

type MockGenerationRepository struct {
	mock.Mock
}

func (m *MockGenerationRepository) Create(ctx context.Context, g *model.Generation) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockGenerationRepository) FindByID(ctx context.Context, id string) (*model.Generation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Generation), args.Error(1)
}

func (m *MockGenerationRepository) ListRecent(ctx context.Context, limit int) ([]model.Generation, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Generation), args.Error(1)
}
