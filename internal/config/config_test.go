package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig writes content to name inside a fresh temp directory and
// returns the file path.
func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// ---------------------------------------------------------------------------
// TestDefault
// ---------------------------------------------------------------------------

func TestDefault(t *testing.T) {
	cfg := Default()

	// Pagination defaults
	if cfg.Pagination.DefaultPerPage != 25 {
		t.Errorf("Pagination.DefaultPerPage: got %d, want %d", cfg.Pagination.DefaultPerPage, 25)
	}
	if cfg.Pagination.Window != 4 {
		t.Errorf("Pagination.Window: got %d, want %d", cfg.Pagination.Window, 4)
	}
	if cfg.Pagination.OuterWindow != 0 {
		t.Errorf("Pagination.OuterWindow: got %d, want %d", cfg.Pagination.OuterWindow, 0)
	}
	if cfg.Pagination.ParamName != "page" {
		t.Errorf("Pagination.ParamName: got %q, want %q", cfg.Pagination.ParamName, "page")
	}
	if cfg.Pagination.PerPageParam != "per_page" {
		t.Errorf("Pagination.PerPageParam: got %q, want %q", cfg.Pagination.PerPageParam, "per_page")
	}
	if cfg.Pagination.ParamsOnFirstPage {
		t.Error("Pagination.ParamsOnFirstPage: got true, want false")
	}

	// I18n
	if cfg.I18n.DefaultLocale != "en" {
		t.Errorf("I18n.DefaultLocale: got %q, want %q", cfg.I18n.DefaultLocale, "en")
	}

	// Server defaults
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port: got %d, want %d", cfg.Server.Port, 3000)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("Server.Host: got %q, want %q", cfg.Server.Host, "localhost")
	}
	if !cfg.Server.LiveReload {
		t.Error("Server.LiveReload: got false, want true")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestLoad
// ---------------------------------------------------------------------------

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "pagelinks.yaml", `
baseURL: https://example.com
pagination:
  defaultPerPage: 10
  window: 2
  outerWindow: 1
  paramName: "user[page]"
  theme: bootstrap
  paramsOnFirstPage: true
i18n:
  defaultLocale: de
server:
  port: 8080
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BaseURL != "https://example.com" {
		t.Errorf("BaseURL: got %q, want %q", cfg.BaseURL, "https://example.com")
	}
	if cfg.Pagination.DefaultPerPage != 10 {
		t.Errorf("Pagination.DefaultPerPage: got %d, want %d", cfg.Pagination.DefaultPerPage, 10)
	}
	if cfg.Pagination.ParamName != "user[page]" {
		t.Errorf("Pagination.ParamName: got %q, want %q", cfg.Pagination.ParamName, "user[page]")
	}
	if cfg.Pagination.Theme != "bootstrap" {
		t.Errorf("Pagination.Theme: got %q, want %q", cfg.Pagination.Theme, "bootstrap")
	}
	if !cfg.Pagination.ParamsOnFirstPage {
		t.Error("Pagination.ParamsOnFirstPage: got false, want true")
	}
	if cfg.I18n.DefaultLocale != "de" {
		t.Errorf("I18n.DefaultLocale: got %q, want %q", cfg.I18n.DefaultLocale, "de")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port: got %d, want %d", cfg.Server.Port, 8080)
	}

	// Defaults should still be filled in
	if cfg.Pagination.PerPageParam != "per_page" {
		t.Errorf("Pagination.PerPageParam: got %q, want %q", cfg.Pagination.PerPageParam, "per_page")
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("Server.Host: got %q, want %q", cfg.Server.Host, "localhost")
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "pagelinks.toml", `
[pagination]
window = 3
maxPages = 50
viewsPrefix = "admin"

[views]
path = "templates"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Pagination.Window != 3 {
		t.Errorf("Pagination.Window: got %d, want %d", cfg.Pagination.Window, 3)
	}
	if cfg.Pagination.MaxPages != 50 {
		t.Errorf("Pagination.MaxPages: got %d, want %d", cfg.Pagination.MaxPages, 50)
	}
	if cfg.Pagination.ViewsPrefix != "admin" {
		t.Errorf("Pagination.ViewsPrefix: got %q, want %q", cfg.Pagination.ViewsPrefix, "admin")
	}
	if cfg.Views.Path != "templates" {
		t.Errorf("Views.Path: got %q, want %q", cfg.Views.Path, "templates")
	}
}

func TestLoadInvalid(t *testing.T) {
	path := writeConfig(t, "pagelinks.yaml", `
baseURL: https://example.com/
pagination:
  defaultPerPage: 0
  window: -1
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	for _, want := range []string{"baseURL", "defaultPerPage", "pagination.window"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err, want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port: got %d, want %d", cfg.Server.Port, 3000)
	}

	path := writeConfig(t, "pagelinks.yaml", "server:\n  port: 4000\n")
	cfg, err = LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port: got %d, want %d", cfg.Server.Port, 4000)
	}
}

// ---------------------------------------------------------------------------
// TestValidate
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"valid baseURL", func(c *Config) { c.BaseURL = "https://example.com" }, ""},
		{"trailing slash on baseURL", func(c *Config) { c.BaseURL = "https://example.com/" }, "trailing slash"},
		{"zero per page", func(c *Config) { c.Pagination.DefaultPerPage = 0 }, "defaultPerPage"},
		{"negative max per page", func(c *Config) { c.Pagination.MaxPerPage = -5 }, "maxPerPage"},
		{"negative outer window", func(c *Config) { c.Pagination.OuterWindow = -1 }, "outerWindow"},
		{"empty param name", func(c *Config) { c.Pagination.ParamName = " " }, "paramName is required"},
		{"same param names", func(c *Config) { c.Pagination.PerPageParam = "page" }, "must differ"},
		{"bad locale", func(c *Config) { c.I18n.DefaultLocale = "not a locale" }, "defaultLocale"},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWithOverrides
// ---------------------------------------------------------------------------

func TestWithOverrides(t *testing.T) {
	cfg := Default()

	result := cfg.WithOverrides(map[string]any{
		"baseURL":           "https://override.com",
		"theme":             "bootstrap",
		"paramName":         "p",
		"window":            2,
		"paramsOnFirstPage": true,
		"port":              8080,
		"host":              "0.0.0.0",
		"livereload":        false,
		"window-ignored":    99,
	})

	// WithOverrides returns the same pointer
	if result != cfg {
		t.Error("WithOverrides should return the same config pointer")
	}

	if cfg.BaseURL != "https://override.com" {
		t.Errorf("BaseURL: got %q, want %q", cfg.BaseURL, "https://override.com")
	}
	if cfg.Pagination.Theme != "bootstrap" {
		t.Errorf("Pagination.Theme: got %q, want %q", cfg.Pagination.Theme, "bootstrap")
	}
	if cfg.Pagination.ParamName != "p" {
		t.Errorf("Pagination.ParamName: got %q, want %q", cfg.Pagination.ParamName, "p")
	}
	if cfg.Pagination.Window != 2 {
		t.Errorf("Pagination.Window: got %d, want %d", cfg.Pagination.Window, 2)
	}
	if !cfg.Pagination.ParamsOnFirstPage {
		t.Error("Pagination.ParamsOnFirstPage: got false, want true")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port: got %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host: got %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.LiveReload {
		t.Error("Server.LiveReload: got true, want false")
	}

	// Locale should remain the default since it was not overridden.
	if cfg.I18n.DefaultLocale != "en" {
		t.Errorf("I18n.DefaultLocale: got %q, want %q (should not have changed)", cfg.I18n.DefaultLocale, "en")
	}
}

func TestPaginationDefaults(t *testing.T) {
	cfg := Default()
	cfg.Pagination.OuterWindow = 2
	cfg.Pagination.Theme = "bootstrap"
	cfg.Pagination.MaxPages = 9

	d := cfg.PaginationDefaults()
	if d.ParamName != "page" || d.Window != 4 || d.OuterWindow != 2 || d.Theme != "bootstrap" || d.MaxPages != 9 {
		t.Errorf("PaginationDefaults() = %+v", d)
	}
}
