// Package config handles loading, validating, and managing pagelinks
// configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aellingwood/pagelinks/internal/pagination"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config is the top-level pagelinks configuration.
type Config struct {
	BaseURL    string           `yaml:"baseURL"    mapstructure:"baseURL"`
	Pagination PaginationConfig `yaml:"pagination" mapstructure:"pagination"`
	Views      ViewsConfig      `yaml:"views"      mapstructure:"views"`
	I18n       I18nConfig       `yaml:"i18n"       mapstructure:"i18n"`
	Server     ServerConfig     `yaml:"server"     mapstructure:"server"`
}

// PaginationConfig holds the defaults applied to every pagination tag.
type PaginationConfig struct {
	DefaultPerPage    int    `yaml:"defaultPerPage"    mapstructure:"defaultPerPage"`
	MaxPerPage        int    `yaml:"maxPerPage"        mapstructure:"maxPerPage"`
	Window            int    `yaml:"window"            mapstructure:"window"`
	OuterWindow       int    `yaml:"outerWindow"       mapstructure:"outerWindow"`
	Left              int    `yaml:"left"              mapstructure:"left"`
	Right             int    `yaml:"right"             mapstructure:"right"`
	ParamName         string `yaml:"paramName"         mapstructure:"paramName"`
	PerPageParam      string `yaml:"perPageParam"      mapstructure:"perPageParam"`
	MaxPages          int    `yaml:"maxPages"          mapstructure:"maxPages"`
	ParamsOnFirstPage bool   `yaml:"paramsOnFirstPage" mapstructure:"paramsOnFirstPage"`
	Theme             string `yaml:"theme"             mapstructure:"theme"`
	ViewsPrefix       string `yaml:"viewsPrefix"       mapstructure:"viewsPrefix"`
}

// ViewsConfig points at a directory of view templates overriding the built-in
// ones.
type ViewsConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// I18nConfig controls label translation.
type I18nConfig struct {
	DefaultLocale string   `yaml:"defaultLocale" mapstructure:"defaultLocale"`
	Paths         []string `yaml:"paths"         mapstructure:"paths"`
}

// ServerConfig controls the theme preview server.
type ServerConfig struct {
	Port       int    `yaml:"port"       mapstructure:"port"`
	Host       string `yaml:"host"       mapstructure:"host"`
	LiveReload bool   `yaml:"livereload" mapstructure:"livereload"`
	// Items is the size of the demo collection the preview pages through.
	Items int `yaml:"items" mapstructure:"items"`
}

// Default returns a Config populated with the stock values.
func Default() *Config {
	return &Config{
		Pagination: PaginationConfig{
			DefaultPerPage: 25,
			Window:         4,
			ParamName:      "page",
			PerPageParam:   "per_page",
		},
		Views: ViewsConfig{
			Path: "views",
		},
		I18n: I18nConfig{
			DefaultLocale: "en",
			Paths:         []string{"locales"},
		},
		Server: ServerConfig{
			Port:       3000,
			Host:       "localhost",
			LiveReload: true,
			Items:      500,
		},
	}
}

// Load reads a configuration file from configPath (YAML or TOML) and returns
// a Config with defaults applied first and file values overlaid on top.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	v := viper.New()

	ext := strings.TrimPrefix(filepath.Ext(configPath), ".")
	switch ext {
	case "toml":
		v.SetConfigType("toml")
	default:
		v.SetConfigType("yaml")
	}

	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return Load(configPath)
}

// Validate checks the Config and reports every problem found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.BaseURL != "" && strings.HasSuffix(c.BaseURL, "/") {
		result = multierror.Append(result,
			fmt.Errorf("baseURL must not have a trailing slash (got %q)", c.BaseURL))
	}

	p := c.Pagination
	if p.DefaultPerPage <= 0 {
		result = multierror.Append(result,
			fmt.Errorf("pagination.defaultPerPage must be positive (got %d)", p.DefaultPerPage))
	}
	if p.MaxPerPage < 0 {
		result = multierror.Append(result,
			fmt.Errorf("pagination.maxPerPage must not be negative (got %d)", p.MaxPerPage))
	}
	for _, f := range []struct {
		name string
		n    int
	}{
		{"window", p.Window},
		{"outerWindow", p.OuterWindow},
		{"left", p.Left},
		{"right", p.Right},
		{"maxPages", p.MaxPages},
	} {
		if f.n < 0 {
			result = multierror.Append(result, fmt.Errorf("pagination.%s must not be negative (got %d)", f.name, f.n))
		}
	}
	if strings.TrimSpace(p.ParamName) == "" {
		result = multierror.Append(result, errors.New("pagination.paramName is required"))
	}
	if p.PerPageParam != "" && p.PerPageParam == p.ParamName {
		result = multierror.Append(result,
			fmt.Errorf("pagination.perPageParam must differ from paramName (both %q)", p.ParamName))
	}

	if _, err := language.Parse(c.I18n.DefaultLocale); err != nil {
		result = multierror.Append(result,
			fmt.Errorf("i18n.defaultLocale %q is not a valid language tag: %w", c.I18n.DefaultLocale, err))
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("server.port out of range (got %d)", c.Server.Port))
	}

	return result.ErrorOrNil()
}

// WithOverrides applies CLI flag overrides to the config. Known keys are
// mapped to their corresponding struct fields. The modified config is returned
// for convenient chaining.
func (c *Config) WithOverrides(overrides map[string]any) *Config {
	for key, val := range overrides {
		switch key {
		case "baseURL":
			if s, ok := val.(string); ok {
				c.BaseURL = s
			}
		case "theme":
			if s, ok := val.(string); ok {
				c.Pagination.Theme = s
			}
		case "paramName":
			if s, ok := val.(string); ok {
				c.Pagination.ParamName = s
			}
		case "window":
			if n, ok := val.(int); ok {
				c.Pagination.Window = n
			}
		case "outerWindow":
			if n, ok := val.(int); ok {
				c.Pagination.OuterWindow = n
			}
		case "paramsOnFirstPage":
			if b, ok := val.(bool); ok {
				c.Pagination.ParamsOnFirstPage = b
			}
		case "views":
			if s, ok := val.(string); ok {
				c.Views.Path = s
			}
		case "locale":
			if s, ok := val.(string); ok {
				c.I18n.DefaultLocale = s
			}
		case "port":
			if n, ok := val.(int); ok {
				c.Server.Port = n
			}
		case "host":
			if s, ok := val.(string); ok {
				c.Server.Host = s
			}
		case "livereload":
			if b, ok := val.(bool); ok {
				c.Server.LiveReload = b
			}
		}
	}
	return c
}

// PaginationDefaults converts the pagination section into tag defaults.
func (c *Config) PaginationDefaults() pagination.Defaults {
	p := c.Pagination
	return pagination.Defaults{
		ParamName:         p.ParamName,
		ParamsOnFirstPage: p.ParamsOnFirstPage,
		Window:            p.Window,
		OuterWindow:       p.OuterWindow,
		Left:              p.Left,
		Right:             p.Right,
		MaxPages:          p.MaxPages,
		Theme:             p.Theme,
		ViewsPrefix:       p.ViewsPrefix,
	}
}
