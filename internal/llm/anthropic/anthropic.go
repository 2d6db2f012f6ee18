// Package anthropic implements llm.Client over the Anthropic Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"screenshop/internal/llm"
	"screenshop/internal/prompt"
)

const (
	DefaultBaseURL    = "https://api.anthropic.com"
	DefaultAPIVersion = "2023-06-01"
	DefaultModel      = "claude-sonnet-4-5"
	DefaultMaxTokens  = 8192

	providerName = "Anthropic"
	keyEnv       = "ANTHROPIC_API_KEY"
	maxErrorBody = 64 << 10
)

// Options configures the client. Zero values fall back to the defaults.
type Options struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	Model      string
	MaxTokens  int
	// Timeout bounds the whole request; 0 leaves it to the transport.
	Timeout time.Duration
	// Transport overrides the base round tripper, mainly for tests.
	Transport http.RoundTripper
}

func (o *Options) defaults() {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.APIVersion == "" {
		o.APIVersion = DefaultAPIVersion
	}
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
}

// Client talks to POST {BaseURL}/v1/messages.
type Client struct {
	hc        *http.Client
	url       string
	apiKey    string
	version   string
	model     string
	maxTokens int
}

var _ llm.Client = (*Client)(nil)

// New constructs a client. An empty API key is accepted here and reported by Complete.
func New(opts Options) *Client {
	opts.defaults()
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &Client{
		hc: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(base),
		},
		url:       strings.TrimRight(opts.BaseURL, "/") + "/v1/messages",
		apiKey:    opts.APIKey,
		version:   opts.APIVersion,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
	}
}

func (c *Client) Provider() string { return providerName }
func (c *Client) Model() string    { return c.model }

func (c *Client) CheckCredential() error {
	if c.apiKey == "" {
		return &llm.CredentialError{EnvVar: keyEnv}
	}
	return nil
}

type messagesRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	System    string           `json:"system"`
	Messages  []prompt.Message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends the prompt and returns the first text block of the response.
func (c *Client) Complete(ctx context.Context, p prompt.Prompt) (string, error) {
	if err := c.CheckCredential(); err != nil {
		return "", err
	}

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    p.System,
		Messages:  p.Messages,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", c.version)
	req.Header.Set("content-type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return "", fmt.Errorf("anthropic request: %w", ctxErr)
		}
		return "", fmt.Errorf("anthropic request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &llm.UpstreamError{Provider: providerName, Status: resp.StatusCode, Body: string(slurp)}
	}

	var mr messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	for _, block := range mr.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", llm.ErrEmptyCompletion
}
