// Package template loads the static project files and merges them over
// model output.
package template

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"screenshop/internal/model"
	"screenshop/templates"
)

// ManifestFile is the manifest name at the root of a template source.
const ManifestFile = "manifest.yaml"

// Placeholder tokens filled from server configuration.
const (
	TokenShopifyDomain = "{{SHOPIFY_DOMAIN}}"
	TokenShopifyToken  = "{{SHOPIFY_TOKEN}}"
)

var (
	ErrEmptyManifest = errors.New("template manifest has no files")
	ErrInvalidEntry  = errors.New("invalid template manifest entry")
)

// Entry maps a project path to a template body.
type Entry struct {
	Path       string `yaml:"path"`
	Source     string `yaml:"source"`
	Substitute bool   `yaml:"substitute"`
}

// Manifest is the parsed manifest.yaml.
type Manifest struct {
	Version int     `yaml:"version"`
	Files   []Entry `yaml:"files"`
}

// Source reads templates from a filesystem on every Load.
type Source struct {
	fsys fs.FS
}

// NewSource wraps fsys. A nil fsys selects the embedded templates.
func NewSource(fsys fs.FS) *Source {
	if fsys == nil {
		fsys = templates.FS
	}
	return &Source{fsys: fsys}
}

// NewSourceFromDir uses dir on disk when set, otherwise the embedded templates.
func NewSourceFromDir(dir string) *Source {
	if strings.TrimSpace(dir) == "" {
		return NewSource(nil)
	}
	return NewSource(os.DirFS(dir))
}

// Manifest reads and validates the manifest.
func (s *Source) Manifest() (Manifest, error) {
	raw, err := fs.ReadFile(s.fsys, ManifestFile)
	if err != nil {
		return Manifest{}, fmt.Errorf("read template manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse template manifest: %w", err)
	}
	if len(m.Files) == 0 {
		return Manifest{}, ErrEmptyManifest
	}
	seen := make(map[string]struct{}, len(m.Files))
	for i, e := range m.Files {
		if !model.ValidPath(e.Path) || e.Source == "" {
			return Manifest{}, fmt.Errorf("%w: #%d %q", ErrInvalidEntry, i, e.Path)
		}
		if _, dup := seen[e.Path]; dup {
			return Manifest{}, fmt.Errorf("%w: duplicate path %q", ErrInvalidEntry, e.Path)
		}
		seen[e.Path] = struct{}{}
	}
	return m, nil
}

// Paths returns the template-claimed project paths in manifest order.
func (s *Source) Paths() ([]string, error) {
	m, err := s.Manifest()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(m.Files))
	for i, e := range m.Files {
		out[i] = e.Path
	}
	return out, nil
}

// Load reads every template body. Entries flagged substitute have each
// "{{KEY}}" token replaced by values[KEY]; tokens without a value are left
// untouched.
func (s *Source) Load(values map[string]string) (model.FileSet, error) {
	m, err := s.Manifest()
	if err != nil {
		return nil, err
	}
	pairs := make([]string, 0, 2*len(values))
	for k, v := range values {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	r := strings.NewReplacer(pairs...)

	out := make(model.FileSet, 0, len(m.Files))
	for _, e := range m.Files {
		body, err := fs.ReadFile(s.fsys, e.Source)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", e.Source, err)
		}
		content := string(body)
		if e.Substitute && len(pairs) > 0 {
			content = r.Replace(content)
		}
		out = append(out, model.GeneratedFile{Path: e.Path, Content: content})
	}
	return out, nil
}

// ShopifyValues builds the substitution map for the storefront credentials.
func ShopifyValues(domain, token string) map[string]string {
	return map[string]string{
		"SHOPIFY_DOMAIN": domain,
		"SHOPIFY_TOKEN":  token,
	}
}
