// Package templates embeds the static files merged into every generated project.
package templates

import "embed"

// FS holds manifest.yaml and the template bodies it references.
//
//go:embed manifest.yaml *.template
var FS embed.FS
