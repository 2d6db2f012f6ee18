package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePageHint(t *testing.T) {
	tests := []struct {
		in      string
		want    PageHint
		wantErr bool
	}{
		{in: "", want: PageHintHomepage},
		{in: "Homepage", want: PageHintHomepage},
		{in: "Product Page", want: PageHintProduct},
		{in: "ProductPage", want: PageHintProduct},
		{in: "Collection Page", want: PageHintCollection},
		{in: "CollectionPage", want: PageHintCollection},
		{in: "Cart", want: PageHintCart},
		{in: " Other ", want: PageHintOther},
		{in: "Checkout", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePageHint(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPageHint)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScreenshot_UnmarshalJSON(t *testing.T) {
	var s Screenshot
	err := json.Unmarshal([]byte(`{"base64":"AAA","mimeType":"image/webp","previewUrl":"blob:x","pageHint":"Cart"}`), &s)
	require.NoError(t, err)
	assert.Equal(t, PageHintCart, s.PageHint)
	assert.Equal(t, "image/webp", s.MimeType)

	err = json.Unmarshal([]byte(`{"base64":"AAA","pageHint":"Login"}`), &s)
	assert.ErrorIs(t, err, ErrInvalidPageHint)
}

func TestFileSet_Lookup(t *testing.T) {
	fs := FileSet{{Path: "a", Content: "1"}, {Path: "b", Content: "2"}, {Path: "a", Content: "3"}}

	f, ok := fs.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "3", f.Content)

	_, ok = fs.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b", "a"}, fs.Paths())
}

func TestValidPath(t *testing.T) {
	valid := []string{"package.json", ".env.local", "src/app/products/[handle]/page.tsx", ".gitignore"}
	for _, p := range valid {
		assert.True(t, ValidPath(p), p)
	}
	invalid := []string{"", "/etc/passwd", "../x", "src/../../x", "src//a", "src/./a", `src\a`, "C:/x", "a/"}
	for _, p := range invalid {
		assert.False(t, ValidPath(p), p)
	}
}
