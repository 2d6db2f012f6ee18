package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"screenshop/internal/service"
	"screenshop/internal/workspace"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Create(ctx context.Context) workspace.View {
	args := m.Called(ctx)
	return args.Get(0).(workspace.View)
}

func (m *MockSessionService) Get(ctx context.Context, id string) (workspace.View, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(workspace.View), args.Error(1)
}

func (m *MockSessionService) Upload(ctx context.Context, id string, files []service.UploadFile) (*service.UploadResult, error) {
	args := m.Called(ctx, id, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockSessionService) SetHint(ctx context.Context, id string, index int, hint string) (workspace.View, error) {
	args := m.Called(ctx, id, index, hint)
	return args.Get(0).(workspace.View), args.Error(1)
}

func (m *MockSessionService) Remove(ctx context.Context, id string, index int) (workspace.View, error) {
	args := m.Called(ctx, id, index)
	return args.Get(0).(workspace.View), args.Error(1)
}

func (m *MockSessionService) Preview(ctx context.Context, id string, index int) ([]byte, string, error) {
	args := m.Called(ctx, id, index)
	b, _ := args.Get(0).([]byte)
	return b, args.String(1), args.Error(2)
}

func (m *MockSessionService) Generate(ctx context.Context, id string) (*service.GenerateResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GenerateResult), args.Error(1)
}

func (m *MockSessionService) Archive(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockSessionService) Reset(ctx context.Context, id string) (workspace.View, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(workspace.View), args.Error(1)
}

func (m *MockSessionService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
