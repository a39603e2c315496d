// Package scaffold writes starter configuration, pagination themes and locale
// files to disk so a project can customize them.
package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// nowFunc is the function used to get the current time.
// It is a package-level variable so tests can override it.
var nowFunc = time.Now

var multiHyphen = regexp.MustCompile(`-{2,}`)

// DefaultTheme is the name of the theme whose partials sit directly in
// pagination/.
const DefaultTheme = "default"

// Slugify turns a display name into a theme directory name: NFC-normalized,
// lowercased, spaces and underscores as hyphens, anything but letters,
// digits and hyphens removed, hyphen runs collapsed and trimmed.
func Slugify(name string) string {
	s := strings.ToLower(norm.NFC.String(name))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)

	var buf strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			buf.WriteRune(r)
		}
	}

	return strings.Trim(multiHyphen.ReplaceAllString(buf.String(), "-"), "-")
}

// Init writes a starter pagelinks.yaml into dir along with empty views/ and
// locales/ directories. The embedded locale files in localesFS (rooted at
// "locales") are copied so they can be edited. It returns an error if
// pagelinks.yaml already exists.
func Init(dir string, localesFS fs.FS) error {
	configPath := filepath.Join(dir, "pagelinks.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	for _, d := range []string{
		filepath.Join(dir, "views", "pagination"),
		filepath.Join(dir, "locales"),
	} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("creating directory %q: %w", d, err)
		}
	}

	configContent := fmt.Sprintf(`# pagelinks configuration, generated %s.
baseURL: "http://localhost:3000"

pagination:
  defaultPerPage: 25
  window: 4
  outerWindow: 0
  paramName: "page"
  perPageParam: "per_page"
  paramsOnFirstPage: false
  theme: ""

views:
  path: "views"

i18n:
  defaultLocale: "en"
  paths:
    - "locales"

server:
  host: "localhost"
  port: 3000
  livereload: true
`, nowFunc().Format("2006-01-02"))

	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		return fmt.Errorf("writing pagelinks.yaml: %w", err)
	}

	if localesFS != nil {
		if err := extractFS(localesFS, "locales", filepath.Join(dir, "locales")); err != nil {
			return fmt.Errorf("extracting locales: %w", err)
		}
	}

	return nil
}

// themeDir returns the directory of theme inside a views tree.
func themeDir(root, theme string) string {
	if theme == "" || theme == DefaultTheme {
		return path.Join(root, "pagination")
	}
	return path.Join(root, "pagination", theme)
}

// ExportTheme copies the partials of theme from viewsFS (rooted at "views")
// into viewsDir, keeping their relative paths so they override the built-in
// ones. Existing files are reported as an error unless overwrite is set. It
// returns the paths written.
func ExportTheme(viewsFS fs.FS, theme, viewsDir string, overwrite bool) ([]string, error) {
	dst := filepath.FromSlash(themeDir(filepath.ToSlash(viewsDir), theme))
	return copyPartials(viewsFS, theme, dst, overwrite)
}

// NewTheme starts a theme called name in viewsDir from a copy of the default
// theme's partials. The directory name is the slug of name; it is returned.
func NewTheme(viewsFS fs.FS, name, viewsDir string) (string, error) {
	slug := Slugify(name)
	if slug == "" || slug == DefaultTheme {
		return "", fmt.Errorf("invalid theme name %q", name)
	}

	dst := filepath.Join(viewsDir, "pagination", slug)
	if _, err := os.Stat(dst); err == nil {
		return "", fmt.Errorf("theme directory %q already exists", dst)
	}
	if _, err := copyPartials(viewsFS, DefaultTheme, dst, false); err != nil {
		return "", err
	}
	return slug, nil
}

// copyPartials writes the top-level .html files of theme into dst.
func copyPartials(viewsFS fs.FS, theme, dst string, overwrite bool) ([]string, error) {
	src := themeDir("views", theme)
	entries, err := fs.ReadDir(viewsFS, src)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unknown theme %q", theme)
	}
	if err != nil {
		return nil, fmt.Errorf("reading theme %q: %w", theme, err)
	}

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %q: %w", dst, err)
	}

	var written []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".html" {
			continue
		}
		target := filepath.Join(dst, e.Name())
		if !overwrite {
			if _, err := os.Stat(target); err == nil {
				return written, fmt.Errorf("%s already exists", target)
			}
		}
		data, err := fs.ReadFile(viewsFS, path.Join(src, e.Name()))
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", target, err)
		}
		written = append(written, target)
	}

	if len(written) == 0 {
		return nil, fmt.Errorf("theme %q has no partials", theme)
	}
	return written, nil
}

// extractFS copies all files from srcDir within src into dstDir on disk.
func extractFS(src fs.FS, srcDir, dstDir string) error {
	return fs.WalkDir(src, srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		dst := filepath.Join(dstDir, rel)
		if d.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		data, err := fs.ReadFile(src, p)
		if err != nil {
			return err
		}
		return os.WriteFile(dst, data, 0o644)
	})
}
