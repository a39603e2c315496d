package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_Labels(t *testing.T) {
	tr, err := Builtin("en")
	require.NoError(t, err)

	en := tr.For("en")
	assert.Equal(t, "&laquo; First", en.T("views.pagination.first", nil))
	assert.Equal(t, "Next &rsaquo;", en.T("views.pagination.next", nil))

	de := tr.For("de")
	assert.Equal(t, "Weiter &rsaquo;", de.T("views.pagination.next", nil))

	assert.Equal(t, []string{"de", "en"}, tr.Locales())
}

func TestLocalizer_FallsBack(t *testing.T) {
	tr, err := Builtin("en")
	require.NoError(t, err)

	assert.Equal(t, "&hellip;", tr.For("en-GB").T("views.pagination.truncate", nil))
	assert.Equal(t, "&hellip;", tr.For("fr").T("views.pagination.truncate", nil))
	assert.Equal(t, "no.such.key", tr.For("en").T("no.such.key", nil))
}

func TestLocalizer_Plural(t *testing.T) {
	tr, err := Builtin("en")
	require.NoError(t, err)
	en := tr.For("en")

	const key = "helpers.page_entries_info.one_page.display_entries"
	vars := map[string]any{"entry_name": "entries"}

	assert.Equal(t, "No entries found", en.N(key, 0, vars))
	assert.Equal(t, "Displaying <b>1</b> entries", en.N(key, 1, vars))
	assert.Equal(t, "Displaying <b>all 7</b> entries", en.N(key, 7, vars))

	assert.Equal(t, "entry", en.N("helpers.page_entries_info.entry", 1, nil))
	assert.Equal(t, "entries", en.N("helpers.page_entries_info.entry", 2, nil))
}

func TestLoad_TOMLAndYAMLOverride(t *testing.T) {
	tr := New("en")
	require.NoError(t, tr.Load([]byte("en:\n  views:\n    pagination:\n      next: \"Forward\"\n"), "yaml"))
	require.NoError(t, tr.Load([]byte("[en.views.pagination]\nprevious = \"Back\"\n"), "toml"))

	en := tr.For("en")
	assert.Equal(t, "Forward", en.T("views.pagination.next", nil))
	assert.Equal(t, "Back", en.T("views.pagination.previous", nil))

	assert.Error(t, tr.Load([]byte("x"), "ini"))
	assert.Error(t, tr.Load([]byte("en: plain"), "yaml"))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	body := "en:\n  views:\n    pagination:\n      first: \"Start\"\n"
	if err := os.WriteFile(filepath.Join(dir, "custom.yml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	tr, err := Builtin("en", dir, filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Equal(t, "Start", tr.For("en").T("views.pagination.first", nil))
}

func TestMatch(t *testing.T) {
	tr, err := Builtin("en")
	require.NoError(t, err)

	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"de-DE,de;q=0.9,en;q=0.8", "de"},
		{"fr-FR", "en"},
		{"en-US", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Match(tt.header))
		})
	}
}
