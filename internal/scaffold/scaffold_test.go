package scaffold

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

// fixedTime is used by tests to make output deterministic.
var fixedTime = time.Date(2025, 6, 15, 10, 30, 0, 0, time.FixedZone("UTC-5", -5*3600))

func init() {
	nowFunc = func() time.Time { return fixedTime }
}

func testViews() fstest.MapFS {
	return fstest.MapFS{
		"views/pagination/paginator.html":           {Data: []byte("default paginator")},
		"views/pagination/page.html":                {Data: []byte("default page")},
		"views/pagination/bootstrap/paginator.html": {Data: []byte("bootstrap paginator")},
		"views/pagination/bootstrap/page.html":      {Data: []byte("bootstrap page")},
		"views/pagination/bootstrap/notes.txt":      {Data: []byte("not a partial")},
		"views/pagination/empty/README":             {Data: []byte("nothing here")},
	}
}

// ---------------------------------------------------------------------------
// TestSlugify
// ---------------------------------------------------------------------------

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Bootstrap", "bootstrap"},
		{"My Theme", "my-theme"},
		{"Already-Slugified", "already-slugified"},
		{"  leading and trailing spaces  ", "leading-and-trailing-spaces"},
		{"Special!@#$%^&*()Characters", "specialcharacters"},
		{"Multiple---Hyphens", "multiple-hyphens"},
		{"under_scores_too", "under-scores-too"},
		{"", ""},
		{"café", "café"},
		{"über compact", "über-compact"},
	}

	for _, tc := range tests {
		got := Slugify(tc.input)
		if got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestInit
// ---------------------------------------------------------------------------

func TestInit(t *testing.T) {
	dir := t.TempDir()
	locales := fstest.MapFS{
		"locales/en.yaml": {Data: []byte("en:\n  views: {}\n")},
	}

	if err := Init(dir, locales); err != nil {
		t.Fatalf("Init(%q): %v", dir, err)
	}

	for _, d := range []string{"views/pagination", "locales"} {
		info, err := os.Stat(filepath.Join(dir, d))
		if err != nil {
			t.Errorf("expected directory %q to exist: %v", d, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("expected %q to be a directory", d)
		}
	}

	configData, err := os.ReadFile(filepath.Join(dir, "pagelinks.yaml"))
	if err != nil {
		t.Fatalf("reading pagelinks.yaml: %v", err)
	}
	configStr := string(configData)
	if !strings.Contains(configStr, "generated 2025-06-15") {
		t.Errorf("pagelinks.yaml should carry the generation date, got:\n%s", configStr)
	}
	if !strings.Contains(configStr, `paramName: "page"`) {
		t.Errorf("pagelinks.yaml should contain paramName, got:\n%s", configStr)
	}

	if _, err := os.Stat(filepath.Join(dir, "locales", "en.yaml")); err != nil {
		t.Errorf("expected locales/en.yaml to be extracted: %v", err)
	}
}

func TestInit_AlreadyExists(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "pagelinks.yaml"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	err := Init(dir, nil)
	if err == nil {
		t.Fatal("expected error when pagelinks.yaml already exists, got nil")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error should mention 'already exists', got: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestExportTheme
// ---------------------------------------------------------------------------

func TestExportTheme(t *testing.T) {
	tests := []struct {
		theme   string
		wantDir string
		want    string
	}{
		{"default", "pagination", "default page"},
		{"", "pagination", "default page"},
		{"bootstrap", "pagination/bootstrap", "bootstrap page"},
	}

	for _, tc := range tests {
		t.Run(tc.theme, func(t *testing.T) {
			dir := t.TempDir()
			written, err := ExportTheme(testViews(), tc.theme, dir, false)
			if err != nil {
				t.Fatalf("ExportTheme(%q): %v", tc.theme, err)
			}
			if len(written) != 2 {
				t.Errorf("wrote %d files, want 2: %v", len(written), written)
			}

			data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(tc.wantDir), "page.html"))
			if err != nil {
				t.Fatalf("reading exported page.html: %v", err)
			}
			if string(data) != tc.want {
				t.Errorf("page.html = %q, want %q", data, tc.want)
			}
		})
	}
}

func TestExportTheme_SkipsNonPartials(t *testing.T) {
	dir := t.TempDir()
	if _, err := ExportTheme(testViews(), "bootstrap", dir, false); err != nil {
		t.Fatalf("ExportTheme: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "pagination", "bootstrap", "notes.txt")); !os.IsNotExist(err) {
		t.Errorf("notes.txt should not be exported, stat err = %v", err)
	}
}

func TestExportTheme_Overwrite(t *testing.T) {
	dir := t.TempDir()
	if _, err := ExportTheme(testViews(), "default", dir, false); err != nil {
		t.Fatalf("first export: %v", err)
	}

	if _, err := ExportTheme(testViews(), "default", dir, false); err == nil {
		t.Error("expected error re-exporting without overwrite, got nil")
	}
	if _, err := ExportTheme(testViews(), "default", dir, true); err != nil {
		t.Errorf("re-export with overwrite: %v", err)
	}
}

func TestExportTheme_Unknown(t *testing.T) {
	_, err := ExportTheme(testViews(), "material", t.TempDir(), false)
	if err == nil || !strings.Contains(err.Error(), "unknown theme") {
		t.Errorf("expected unknown theme error, got %v", err)
	}

	_, err = ExportTheme(testViews(), "empty", t.TempDir(), false)
	if err == nil || !strings.Contains(err.Error(), "no partials") {
		t.Errorf("expected no partials error, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestNewTheme
// ---------------------------------------------------------------------------

func TestNewTheme(t *testing.T) {
	dir := t.TempDir()

	slug, err := NewTheme(testViews(), "My Compact", dir)
	if err != nil {
		t.Fatalf("NewTheme: %v", err)
	}
	if slug != "my-compact" {
		t.Errorf("slug = %q, want %q", slug, "my-compact")
	}

	data, err := os.ReadFile(filepath.Join(dir, "pagination", "my-compact", "paginator.html"))
	if err != nil {
		t.Fatalf("reading new theme: %v", err)
	}
	if string(data) != "default paginator" {
		t.Errorf("paginator.html = %q, want a copy of the default theme", data)
	}

	if _, err := NewTheme(testViews(), "my_compact", dir); err == nil {
		t.Error("expected error creating an existing theme, got nil")
	}
}

func TestNewTheme_InvalidName(t *testing.T) {
	for _, name := range []string{"", "!!!", "Default"} {
		if _, err := NewTheme(testViews(), name, t.TempDir()); err == nil {
			t.Errorf("NewTheme(%q): expected error, got nil", name)
		}
	}
}
