// Package llm defines the contract for the multimodal completion service.
package llm

import (
	"context"
	"errors"
	"fmt"

	"screenshop/internal/prompt"
)

var (
	// ErrMissingCredential is returned before any network call when no API key is configured.
	ErrMissingCredential = errors.New("model credential is not configured")
	// ErrEmptyCompletion is returned when the response carries no text block.
	ErrEmptyCompletion = errors.New("model response has no text content")
)

// Client sends one prompt and waits for the full, non-streamed completion.
type Client interface {
	// CheckCredential returns a *CredentialError when no API key is set.
	CheckCredential() error
	Complete(ctx context.Context, p prompt.Prompt) (string, error)
	Provider() string
	Model() string
}

// UpstreamError is a non-success response from the model endpoint.
// Body is the upstream error text, unmodified.
type UpstreamError struct {
	Provider string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Body)
}

// CredentialError names the variable that should hold the missing key.
type CredentialError struct {
	EnvVar string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("%s is not configured. Add it to .env.local.", e.EnvVar)
}

func (e *CredentialError) Unwrap() error { return ErrMissingCredential }
