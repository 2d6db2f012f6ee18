package parser

import (
	"fmt"
	"sort"
	"strings"

	"screenshop/internal/model"
)

// Contract is the structural shape model output must have: exactly the
// Required paths, plus any Reserved paths that templates will override.
type Contract struct {
	Required []string
	Reserved []string
}

// Report lists contract deviations. The zero value means compliant.
type Report struct {
	Missing    []string `json:"missing,omitempty"`
	Unexpected []string `json:"unexpected,omitempty"`
	Unsafe     []string `json:"unsafe,omitempty"`
	Duplicates []string `json:"duplicates,omitempty"`
}

// OK reports whether the output satisfies the contract. Duplicate paths are
// tolerated since the merge keeps only the last occurrence.
func (r Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Unexpected) == 0 && len(r.Unsafe) == 0
}

// Warnings renders the report as human-readable lines.
func (r Report) Warnings() []string {
	var out []string
	if len(r.Missing) > 0 {
		out = append(out, "missing required files: "+strings.Join(r.Missing, ", "))
	}
	if len(r.Unexpected) > 0 {
		out = append(out, "unexpected files: "+strings.Join(r.Unexpected, ", "))
	}
	if len(r.Unsafe) > 0 {
		out = append(out, "unsafe paths: "+strings.Join(r.Unsafe, ", "))
	}
	if len(r.Duplicates) > 0 {
		out = append(out, "duplicate paths: "+strings.Join(r.Duplicates, ", "))
	}
	return out
}

// Err returns a contract violation ParseError, or nil when compliant.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	return &ParseError{Kind: KindContractViolation, Err: fmt.Errorf("%s", strings.Join(r.Warnings(), "; "))}
}

// Check compares the FileSet against the contract.
func (c Contract) Check(fs model.FileSet) Report {
	required := toSet(c.Required)
	reserved := toSet(c.Reserved)

	var r Report
	seen := make(map[string]int, len(fs))
	for _, f := range fs {
		seen[f.Path]++
		if seen[f.Path] == 2 {
			r.Duplicates = append(r.Duplicates, f.Path)
		}
		if seen[f.Path] > 1 {
			continue
		}
		if !model.ValidPath(f.Path) {
			r.Unsafe = append(r.Unsafe, f.Path)
			continue
		}
		if _, ok := required[f.Path]; ok {
			continue
		}
		if _, ok := reserved[f.Path]; ok {
			continue
		}
		r.Unexpected = append(r.Unexpected, f.Path)
	}
	for p := range required {
		if seen[p] == 0 {
			r.Missing = append(r.Missing, p)
		}
	}
	sort.Strings(r.Missing)
	return r
}

func toSet(items []string) map[string]struct{} {
	s := make(map[string]struct{}, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}
