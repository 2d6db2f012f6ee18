package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenshop/internal/model"
)

func TestBuild_TwoScreenshots(t *testing.T) {
	shots := []model.Screenshot{
		{Base64: "AAAA", MimeType: "image/jpeg"},
		{Base64: "BBBB", MimeType: "image/webp"},
	}
	hints := []model.PageHint{model.PageHintHomepage, model.PageHintCart}

	p, err := Build(shots, hints)
	require.NoError(t, err)

	require.Len(t, p.Messages, 1)
	msg := p.Messages[0]
	assert.Equal(t, "user", msg.Role)
	require.Len(t, msg.Content, 3)

	for i, want := range shots {
		b := msg.Content[i]
		assert.Equal(t, "image", b.Type)
		require.NotNil(t, b.Source)
		assert.Equal(t, "base64", b.Source.Type)
		assert.Equal(t, want.MimeType, b.Source.MediaType)
		assert.Equal(t, want.Base64, b.Source.Data)
	}

	text := msg.Content[2]
	assert.Equal(t, "text", text.Type)
	assert.Nil(t, text.Source)
	assert.Contains(t, text.Text, "Screenshot 1: Homepage\nScreenshot 2: Cart")
	assert.Contains(t, text.Text, "Analyze the 2 screenshot(s)")
	assert.Contains(t, text.Text, "output all 11 required files")
	assert.Equal(t, SystemInstruction(), p.System)
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(nil, nil)
	assert.ErrorIs(t, err, ErrNoScreenshots)

	_, err = Build([]model.Screenshot{{Base64: "A"}}, []model.PageHint{model.PageHintCart, model.PageHintOther})
	assert.ErrorIs(t, err, ErrHintMismatch)
}

func TestBuild_Deterministic(t *testing.T) {
	shots := []model.Screenshot{{Base64: "A", MimeType: "image/png"}}
	hints := []model.PageHint{model.PageHintProduct}

	a, err := Build(shots, hints)
	require.NoError(t, err)
	b, err := Build(shots, hints)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Contains(t, a.Messages[0].Content[1].Text, "Screenshot 1: Product Page")
}

func TestSystemInstruction(t *testing.T) {
	s := SystemInstruction()

	assert.Contains(t, s, `{ "files": [{ "path": string, "content": string }] }`)
	assert.Contains(t, s, "generate all 11, no more, no less")
	for i, f := range RequiredFiles {
		assert.Contains(t, s, f.Path, "required file %d", i+1)
	}
	for _, r := range ImportRules {
		assert.Contains(t, s, r)
	}
	assert.Contains(t, s, "No auth of any kind")
	assert.Contains(t, s, "No database calls")
	assert.Contains(t, s, "No Stripe, no payment logic")
	assert.Contains(t, s, "Never copy real pricing")
	assert.True(t, strings.HasPrefix(s, "You are an expert frontend engineer"))
}

func TestRequiredPaths(t *testing.T) {
	paths := RequiredPaths()
	assert.Len(t, paths, 11)
	assert.Equal(t, "src/app/page.tsx", paths[0])
	assert.Equal(t, "src/app/globals.css", paths[10])
}
