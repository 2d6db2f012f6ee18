// Package gemini implements llm.Client with the Google GenAI SDK.
package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"screenshop/internal/llm"
	"screenshop/internal/prompt"
)

const (
	DefaultModel     = "gemini-2.5-pro"
	DefaultMaxTokens = 8192

	providerName = "Gemini"
	keyEnv       = "GEMINI_API_KEY"
)

// Options configures the client.
type Options struct {
	APIKey    string
	Model     string
	MaxTokens int
	// BaseURL overrides the GenAI endpoint; empty uses the SDK default.
	BaseURL string
}

// Client sends prompts through genai Models.GenerateContent.
// The SDK client is created lazily so a missing key never blocks startup.
type Client struct {
	opts Options

	once    sync.Once
	sdk     *genai.Client
	initErr error
}

var _ llm.Client = (*Client)(nil)

// New constructs a client without touching the network.
func New(opts Options) *Client {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return &Client{opts: opts}
}

func (c *Client) Provider() string { return providerName }
func (c *Client) Model() string    { return c.opts.Model }

func (c *Client) CheckCredential() error {
	if c.opts.APIKey == "" {
		return &llm.CredentialError{EnvVar: keyEnv}
	}
	return nil
}

func (c *Client) client(ctx context.Context) (*genai.Client, error) {
	c.once.Do(func() {
		c.sdk, c.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      c.opts.APIKey,
			Backend:     genai.BackendGeminiAPI,
			HTTPOptions: genai.HTTPOptions{BaseURL: c.opts.BaseURL},
		})
	})
	return c.sdk, c.initErr
}

// Complete converts the prompt into genai contents and returns the response text.
func (c *Client) Complete(ctx context.Context, p prompt.Prompt) (string, error) {
	if err := c.CheckCredential(); err != nil {
		return "", err
	}

	contents, err := Contents(p)
	if err != nil {
		return "", err
	}

	sdk, err := c.client(ctx)
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens:  int32(c.opts.MaxTokens),
		ResponseMIMEType: "application/json",
	}
	if p.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(p.System, genai.RoleUser)
	}

	resp, err := sdk.Models.GenerateContent(ctx, c.opts.Model, contents, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("gemini request: %w", ctx.Err())
		}
		return "", upstreamError(err)
	}
	text := resp.Text()
	if text == "" {
		return "", llm.ErrEmptyCompletion
	}
	return text, nil
}

// upstreamError maps a genai API error to *llm.UpstreamError. Transport
// and SDK failures are wrapped unchanged.
func upstreamError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &llm.UpstreamError{Provider: providerName, Status: apiErr.Code, Body: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &llm.UpstreamError{Provider: providerName, Status: apiErrPtr.Code, Body: apiErrPtr.Message}
	}
	return fmt.Errorf("gemini request: %w", err)
}

// Contents maps prompt messages to genai contents, decoding inline images.
func Contents(p prompt.Prompt) ([]*genai.Content, error) {
	out := make([]*genai.Content, 0, len(p.Messages))
	for _, m := range p.Messages {
		parts := make([]*genai.Part, 0, len(m.Content))
		for _, b := range m.Content {
			switch b.Type {
			case "image":
				if b.Source == nil {
					return nil, fmt.Errorf("image block without source")
				}
				data, err := base64.StdEncoding.DecodeString(b.Source.Data)
				if err != nil {
					return nil, fmt.Errorf("decode image block: %w", err)
				}
				parts = append(parts, genai.NewPartFromBytes(data, b.Source.MediaType))
			case "text":
				parts = append(parts, genai.NewPartFromText(b.Text))
			}
		}
		role := genai.Role(genai.RoleUser)
		if m.Role == "assistant" {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromParts(parts, role))
	}
	return out, nil
}
