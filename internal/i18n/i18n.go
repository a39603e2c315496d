// Package i18n holds the translated labels used by pagination templates and
// the page-entries summary. Messages are loaded from YAML or TOML locale files
// nested by locale ("en: views: pagination: first: ..."), may carry CLDR
// plural forms, and interpolate "%{name}" placeholders.
package i18n

import (
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// pluralKeys are the CLDR plural categories a message may define.
var pluralKeys = []string{"zero", "one", "two", "few", "many", "other"}

var placeholderRe = regexp.MustCompile(`%\{(\w+)\}`)

// message is either a plain string (stored under "other") or a set of
// plural forms.
type message map[string]string

// Translator stores messages for any number of locales and falls back to the
// default locale when a key is missing.
type Translator struct {
	mu            sync.RWMutex
	defaultLocale string
	messages      map[string]map[string]message
}

// New creates an empty Translator whose fallback locale is defaultLocale.
func New(defaultLocale string) *Translator {
	if defaultLocale == "" {
		defaultLocale = "en"
	}
	return &Translator{
		defaultLocale: defaultLocale,
		messages:      make(map[string]map[string]message),
	}
}

// DefaultLocale returns the fallback locale.
func (t *Translator) DefaultLocale() string {
	return t.defaultLocale
}

// Locales returns the loaded locales in sorted order.
func (t *Translator) Locales() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Sorted(maps.Keys(t.messages))
}

// LoadFS loads every .yaml, .yml and .toml file found under dir in fsys.
func (t *Translator) LoadFS(fsys fs.FS, dir string) error {
	return fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		format := formatOf(p)
		if format == "" {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("reading locale file %s: %w", p, err)
		}
		if err := t.Load(data, format); err != nil {
			return fmt.Errorf("loading locale file %s: %w", p, err)
		}
		return nil
	})
}

// LoadDir loads locale files from a directory on disk. A missing directory
// is not an error.
func (t *Translator) LoadDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	return t.LoadFS(os.DirFS(dir), ".")
}

// LoadFile loads a single locale file from disk.
func (t *Translator) LoadFile(filePath string) error {
	format := formatOf(filePath)
	if format == "" {
		return fmt.Errorf("unsupported locale file format: %s", filepath.Ext(filePath))
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading locale file %s: %w", filePath, err)
	}
	return t.Load(data, format)
}

func formatOf(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	}
	return ""
}

// Load merges a locale document in the given format ("yaml" or "toml").
// Later loads override earlier keys.
func (t *Translator) Load(data []byte, format string) error {
	var doc map[string]any
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing yaml: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing toml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported locale format %q", format)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for locale, tree := range doc {
		node, ok := tree.(map[string]any)
		if !ok {
			return fmt.Errorf("locale %q: expected a mapping", locale)
		}
		msgs, ok := t.messages[locale]
		if !ok {
			msgs = make(map[string]message)
			t.messages[locale] = msgs
		}
		flatten(msgs, "", node)
	}
	return nil
}

func flatten(dst map[string]message, prefix string, node map[string]any) {
	if isPluralNode(node) {
		m := make(message, len(node))
		for k, v := range node {
			m[k] = fmt.Sprint(v)
		}
		dst[prefix] = m
		return
	}
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(dst, key, val)
		default:
			dst[key] = message{"other": fmt.Sprint(val)}
		}
	}
}

func isPluralNode(node map[string]any) bool {
	if len(node) == 0 {
		return false
	}
	for k, v := range node {
		if !slices.Contains(pluralKeys, k) {
			return false
		}
		if _, nested := v.(map[string]any); nested {
			return false
		}
	}
	return true
}

// Match picks the best loaded locale for an Accept-Language header value.
// The default locale is returned when nothing matches.
func (t *Translator) Match(acceptLanguage string) string {
	locales := t.Locales()
	supported := []string{t.defaultLocale}
	for _, l := range locales {
		if l != t.defaultLocale {
			supported = append(supported, l)
		}
	}
	tags := make([]language.Tag, len(supported))
	for i, l := range supported {
		tags[i] = language.Make(l)
	}
	matcher := language.NewMatcher(tags)
	_, idx := language.MatchStrings(matcher, acceptLanguage)
	return supported[idx]
}

// For returns a Localizer bound to locale.
func (t *Translator) For(locale string) *Localizer {
	if locale == "" {
		locale = t.defaultLocale
	}
	return &Localizer{translator: t, locale: locale, tag: language.Make(locale)}
}

func (t *Translator) lookup(locale, key string) (message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if m, ok := t.messages[locale][key]; ok {
		return m, true
	}
	if base, _, found := strings.Cut(locale, "-"); found {
		if m, ok := t.messages[base][key]; ok {
			return m, true
		}
	}
	m, ok := t.messages[t.defaultLocale][key]
	return m, ok
}

// Localizer translates keys for a single locale.
type Localizer struct {
	translator *Translator
	locale     string
	tag        language.Tag
}

// Locale returns the bound locale.
func (l *Localizer) Locale() string {
	return l.locale
}

// T translates key and interpolates vars. A missing key translates to the
// key itself.
func (l *Localizer) T(key string, vars map[string]any) string {
	m, ok := l.translator.lookup(l.locale, key)
	if !ok {
		return key
	}
	return interpolate(m["other"], vars)
}

// N translates key choosing the plural form for count. The count is also
// available to the message as %{count}. An explicit "zero" form wins for a
// count of 0, whatever the locale's plural rules say.
func (l *Localizer) N(key string, count int, vars map[string]any) string {
	m, ok := l.translator.lookup(l.locale, key)
	if !ok {
		return key
	}
	all := map[string]any{"count": count}
	maps.Copy(all, vars)
	return interpolate(m.form(l.tag, count), all)
}

func (m message) form(tag language.Tag, count int) string {
	if count == 0 {
		if s, ok := m["zero"]; ok {
			return s
		}
	}
	var key string
	switch plural.Cardinal.MatchPlural(tag, count, 0, 0, 0, 0) {
	case plural.Zero:
		key = "zero"
	case plural.One:
		key = "one"
	case plural.Two:
		key = "two"
	case plural.Few:
		key = "few"
	case plural.Many:
		key = "many"
	default:
		key = "other"
	}
	if s, ok := m[key]; ok {
		return s
	}
	return m["other"]
}

func interpolate(s string, vars map[string]any) string {
	if len(vars) == 0 {
		return s
	}
	return placeholderRe.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if v, ok := vars[name]; ok {
			return fmt.Sprint(v)
		}
		return match
	})
}
