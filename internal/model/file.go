package model

import (
	"strings"
	"time"
)

// GeneratedFile is one file of the produced storefront project.
// Path is relative and forward-slash separated.
type GeneratedFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// FileSet is an ordered collection of generated files.
type FileSet []GeneratedFile

// Paths returns the entry paths in order.
func (fs FileSet) Paths() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Path
	}
	return out
}

// Lookup returns the last entry stored under path.
func (fs FileSet) Lookup(path string) (GeneratedFile, bool) {
	for i := len(fs) - 1; i >= 0; i-- {
		if fs[i].Path == path {
			return fs[i], true
		}
	}
	return GeneratedFile{}, false
}

// GenerationStatus is the terminal outcome of a generation.
type GenerationStatus string

const (
	GenerationSucceeded GenerationStatus = "succeeded"
	GenerationFailed    GenerationStatus = "failed"
)

// Generation is the audit record of one generation request.
// It never carries image bytes or file contents.
type Generation struct {
	ID              string           `json:"id"`
	Status          GenerationStatus `json:"status"`
	Provider        string           `json:"provider"`
	Model           string           `json:"model"`
	ScreenshotCount int              `json:"screenshot_count"`
	PageHints       []PageHint       `json:"page_hints"`
	FileCount       int              `json:"file_count"`
	ErrorCode       string           `json:"error_code,omitempty"`
	ErrorMessage    string           `json:"error_message,omitempty"`
	ArchiveKey      string           `json:"archive_key,omitempty"`
	DurationMs      int64            `json:"duration_ms"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ValidPath reports whether p is a clean relative forward-slash path that
// stays inside the project root when extracted.
func ValidPath(p string) bool {
	if p == "" || strings.HasPrefix(p, "/") || strings.ContainsAny(p, "\\\x00") {
		return false
	}
	if len(p) >= 2 && p[1] == ':' {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}
