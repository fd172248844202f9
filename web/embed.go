// Package web provides the embedded public site assets: the landing page
// template and static files.
package web

import "embed"

// TemplateFS embeds the HTML templates for the public site.
//
//go:embed templates
var TemplateFS embed.FS

// StaticFS embeds the web/static/ directory tree, served at /static/.
//
//go:embed all:static
var StaticFS embed.FS
