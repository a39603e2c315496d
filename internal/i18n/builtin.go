package i18n

import (
	"fmt"

	"github.com/aellingwood/pagelinks/embedded"
)

// Builtin returns a Translator preloaded with the embedded locale files, then
// overlaid with every file found in extraDirs.
func Builtin(defaultLocale string, extraDirs ...string) (*Translator, error) {
	t := New(defaultLocale)
	if err := t.LoadFS(embedded.Locales, "locales"); err != nil {
		return nil, fmt.Errorf("loading built-in locales: %w", err)
	}
	for _, dir := range extraDirs {
		if err := t.LoadDir(dir); err != nil {
			return nil, fmt.Errorf("loading locales from %s: %w", dir, err)
		}
	}
	return t, nil
}
