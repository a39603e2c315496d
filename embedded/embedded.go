// Package embedded carries the view templates and locale files compiled into
// the binary. User view and locale directories are overlaid on top of them.
package embedded

import "embed"

// Views holds the built-in pagination themes under views/pagination and the
// preview layout under views/layouts.
//
//go:embed views
var Views embed.FS

// Locales holds the built-in translation files.
//
//go:embed locales
var Locales embed.FS
