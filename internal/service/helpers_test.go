package service

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"screenshop/internal/imaging"
	llmMocks "screenshop/internal/llm/mocks"
	"screenshop/internal/model"
	"screenshop/internal/prompt"
	"screenshop/internal/repository"
	"screenshop/internal/template"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func screenshot(t *testing.T, hint model.PageHint) model.Screenshot {
	return model.Screenshot{
		Base64:   base64.StdEncoding.EncodeToString(pngBytes(t, 8, 6)),
		MimeType: "image/png",
		PageHint: hint,
	}
}

// modelOutput renders a fenced model response with every required file plus extra.
func modelOutput(t *testing.T, extra ...model.GeneratedFile) string {
	t.Helper()
	var files []model.GeneratedFile
	for _, p := range prompt.RequiredPaths() {
		files = append(files, model.GeneratedFile{Path: p, Content: "// " + p})
	}
	files = append(files, extra...)
	b, err := json.Marshal(map[string]any{"files": files})
	require.NoError(t, err)
	return fmt.Sprintf("```json\n%s\n```", b)
}

type fixture struct {
	client  *llmMocks.MockClient
	repo    *repository.Memory
	metrics *GenerationMetrics
	deps    GenerationDeps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	metrics, err := NewGenerationMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	f := &fixture{
		client:  new(llmMocks.MockClient),
		repo:    repository.NewMemory(0),
		metrics: metrics,
	}
	f.deps = GenerationDeps{
		Client:         f.client,
		Templates:      template.NewSource(nil),
		TemplateValues: template.ShopifyValues("demo.myshopify.com", "tok"),
		Normalizer:     imaging.Normalizer{},
		MaxScreenshots: 5,
		StrictContract: true,
		Repo:           f.repo,
		Metrics:        metrics,
	}
	return f
}

func (f *fixture) service() GenerationService {
	return NewGenerationService(f.deps)
}
