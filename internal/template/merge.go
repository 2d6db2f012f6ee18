package template

import "screenshop/internal/model"

// Merge returns the model entries whose path no template claims, followed by
// every template entry. Model duplicates collapse to the last occurrence at
// the position of the first. Applying Merge again with the same templates
// yields the same set.
func Merge(generated, templates model.FileSet) model.FileSet {
	claimed := make(map[string]struct{}, len(templates))
	for _, t := range templates {
		claimed[t.Path] = struct{}{}
	}

	index := make(map[string]int, len(generated))
	out := make(model.FileSet, 0, len(generated)+len(templates))
	for _, f := range generated {
		if _, ok := claimed[f.Path]; ok {
			continue
		}
		if i, ok := index[f.Path]; ok {
			out[i] = f
			continue
		}
		index[f.Path] = len(out)
		out = append(out, f)
	}

	seen := make(map[string]struct{}, len(templates))
	for _, t := range templates {
		if _, ok := seen[t.Path]; ok {
			continue
		}
		seen[t.Path] = struct{}{}
		out = append(out, t)
	}
	return out
}
