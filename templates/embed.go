// Package templates embeds the bundled report templates so rendering
// works regardless of installation method (container, package, or a
// bare binary copied onto a jump host).
package templates

import "embed"

// FS contains the bundled report templates.
//
//go:embed report.html.tmpl
var FS embed.FS
