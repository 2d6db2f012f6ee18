package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"screenshop/internal/model"
	"screenshop/internal/service"
	"screenshop/internal/storage"
)

type MockGenerationService struct {
	mock.Mock
}

func (m *MockGenerationService) Generate(ctx context.Context, in service.GenerateInput) (*service.GenerateResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerateResult), args.Error(1)
}

func (m *MockGenerationService) Get(ctx context.Context, id string) (*model.Generation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Generation), args.Error(1)
}

func (m *MockGenerationService) ArchiveURL(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockGenerationService) List(ctx context.Context, limit int) ([]model.Generation, error) {
	args := m.Called(ctx, limit)
	recs, _ := args.Get(0).([]model.Generation)
	return recs, args.Error(1)
}

func (m *MockGenerationService) OpenArchive(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, id)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Get(1).(storage.ObjectInfo), args.Error(2)
}
