// Package parser turns raw model output into a FileSet.
package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"screenshop/internal/model"
)

// ErrMalformedResponse matches every *ParseError.
var ErrMalformedResponse = errors.New("malformed model response")

// Kind identifies why model output was rejected.
type Kind string

const (
	KindInvalidJSON       Kind = "invalid_json"
	KindMissingFiles      Kind = "missing_files"
	KindFilesNotArray     Kind = "files_not_array"
	KindContractViolation Kind = "contract_violation"
)

// ParseError is the failure variant of Parse and Contract.Check.
type ParseError struct {
	Kind Kind
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrMalformedResponse, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", ErrMalformedResponse, e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrMalformedResponse }

var (
	leadingFence  = regexp.MustCompile("^\\s*```(?:json)?[ \\t]*(?:\\r?\\n)?")
	trailingFence = regexp.MustCompile("(?:\\r?\\n)?[ \\t]*```\\s*$")
)

// StripFences removes a leading ``` or ```json marker and a trailing ```
// marker, then trims surrounding whitespace.
func StripFences(text string) string {
	out := leadingFence.ReplaceAllString(text, "")
	out = trailingFence.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// Parse decodes model output of the form {"files":[{"path","content"}]}.
// Entries whose path or content is missing or not a string are dropped.
// Other fields are ignored.
func Parse(text string) (model.FileSet, error) {
	cleaned := StripFences(text)

	var root any
	if err := json.Unmarshal([]byte(cleaned), &root); err != nil {
		return nil, &ParseError{Kind: KindInvalidJSON, Err: err}
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, &ParseError{Kind: KindMissingFiles, Err: errors.New("top-level value is not an object")}
	}
	rawFiles, ok := obj["files"]
	if !ok {
		return nil, &ParseError{Kind: KindMissingFiles}
	}
	entries, ok := rawFiles.([]any)
	if !ok {
		return nil, &ParseError{Kind: KindFilesNotArray, Err: fmt.Errorf("files is %T", rawFiles)}
	}

	out := make(model.FileSet, 0, len(entries))
	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		path, ok := m["path"].(string)
		if !ok {
			continue
		}
		content, ok := m["content"].(string)
		if !ok {
			continue
		}
		out = append(out, model.GeneratedFile{Path: path, Content: content})
	}
	return out, nil
}
