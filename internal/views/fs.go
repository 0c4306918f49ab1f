// Package views embeds the storefront templates.
package views

import "embed"

//go:embed *.html
var FS embed.FS
