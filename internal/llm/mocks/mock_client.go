package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"screenshop/internal/prompt"
)

// MockClient is an llm.Client. CredentialErr, when set, is returned by
// CheckCredential without recording a call.
type MockClient struct {
	mock.Mock
	CredentialErr error
}

func (m *MockClient) CheckCredential() error { return m.CredentialErr }

func (m *MockClient) Complete(ctx context.Context, p prompt.Prompt) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *MockClient) Provider() string { return "Mock" }

func (m *MockClient) Model() string { return "mock-model" }
