package static

import "embed"

// FS exposes the game stylesheet for HTTP serving.
//
//go:embed *.css
var FS embed.FS
