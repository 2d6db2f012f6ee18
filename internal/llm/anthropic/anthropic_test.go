package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenshop/internal/llm"
	"screenshop/internal/prompt"
)

func testPrompt() prompt.Prompt {
	return prompt.Prompt{
		System: "system",
		Messages: []prompt.Message{{
			Role:    "user",
			Content: []prompt.Block{prompt.ImageBlock("image/jpeg", "AAAA"), prompt.TextBlock("go")},
		}},
	}
}

func TestComplete_Success(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Equal(t, "application/json", r.Header.Get("content-type"))

		b, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(b, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"thinking","thinking":"..."},{"type":"text","text":"{\"files\":[]}"},{"type":"text","text":"second"}]}`))
	}))
	defer srv.Close()

	c := New(Options{APIKey: "sk-test", BaseURL: srv.URL + "/"})
	out, err := c.Complete(context.Background(), testPrompt())

	require.NoError(t, err)
	assert.Equal(t, `{"files":[]}`, out)
	assert.Equal(t, "claude-sonnet-4-5", gotBody["model"])
	assert.Equal(t, float64(8192), gotBody["max_tokens"])
	assert.Equal(t, "system", gotBody["system"])

	msgs, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	content := msgs[0].(map[string]any)["content"].([]any)
	require.Len(t, content, 2)
	img := content[0].(map[string]any)
	assert.Equal(t, "image", img["type"])
	assert.Equal(t, "image/jpeg", img["source"].(map[string]any)["media_type"])
	assert.NotContains(t, img, "text")
}

func TestComplete_MissingCredential(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), testPrompt())

	assert.ErrorIs(t, err, llm.ErrMissingCredential)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.ErrorIs(t, c.CheckCredential(), llm.ErrMissingCredential)
	assert.NoError(t, New(Options{APIKey: "sk-test"}).CheckCredential())
}

func TestComplete_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	c := New(Options{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), testPrompt())

	var ue *llm.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusTooManyRequests, ue.Status)
	assert.Equal(t, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`, ue.Body)
	assert.Equal(t, `Anthropic API error: {"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`, err.Error())
}

func TestComplete_NoTextBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	c := New(Options{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), testPrompt())
	assert.ErrorIs(t, err, llm.ErrEmptyCompletion)
}

func TestComplete_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(Options{APIKey: "k", BaseURL: url})
	_, err := c.Complete(context.Background(), testPrompt())

	require.Error(t, err)
	var ue *llm.UpstreamError
	assert.False(t, errors.As(err, &ue))
}

func TestComplete_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(Options{APIKey: "k", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Complete(context.Background(), testPrompt())
	assert.Error(t, err)
}

func TestClientIdentity(t *testing.T) {
	c := New(Options{Model: "claude-test"})
	assert.Equal(t, "Anthropic", c.Provider())
	assert.Equal(t, "claude-test", c.Model())
}
