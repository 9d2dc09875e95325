// Package templates embeds the HTML pages served to bots and to the
// headless renderer.
package templates

import (
	"embed"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Load parses every embedded page into a single template set keyed by
// file name.
func Load() (*template.Template, error) {
	return template.ParseFS(files, "*.html")
}
