package template

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"os"
	"path"
	"slices"
	"strings"
)

// Engine wraps Go's html/template with partial lookup, custom functions, and
// overlaying of user view files on top of the built-in ones.
type Engine struct {
	templates *template.Template
	funcMap   template.FuncMap
	names     []string
}

// source locates a template file inside one of the layered file systems.
type source struct {
	fsys fs.FS
	path string
}

// NewEngine creates an Engine from the .html files under root in base and,
// optionally, from a user view directory on disk. User views with the same
// relative path override built-in ones.
func NewEngine(base fs.FS, root, userViewPath string) (*Engine, error) {
	e := &Engine{funcMap: FuncMap()}

	files, err := collectTemplateFiles(base, root)
	if err != nil {
		return nil, fmt.Errorf("loading built-in views: %w", err)
	}

	if userViewPath != "" {
		userFiles, err := collectTemplateFiles(os.DirFS(userViewPath), ".")
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading user views from %s: %w", userViewPath, err)
		}
		// User files override built-in files with the same name.
		maps.Copy(files, userFiles)
	}

	// partial resolves against e.templates at execution time, so it can be
	// registered before parsing.
	e.funcMap["partial"] = func(name string, ctx any) (template.HTML, error) {
		return e.Render(name, ctx)
	}

	tmpl := template.New("").Funcs(e.funcMap)
	for name, src := range files {
		content, err := fs.ReadFile(src.fsys, src.path)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", src.path, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
	}
	e.templates = tmpl
	e.names = slices.Sorted(maps.Keys(files))

	return e, nil
}

// collectTemplateFiles walks dir in fsys and returns a map of template name
// (path relative to dir) to source for all .html files.
func collectTemplateFiles(fsys fs.FS, dir string) (map[string]source, error) {
	files := make(map[string]source)

	info, err := fs.Stat(fsys, dir)
	if err != nil {
		return files, err
	}
	if !info.IsDir() {
		return files, fmt.Errorf("%s is not a directory", dir)
	}

	err = fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" {
			return nil
		}
		name := strings.TrimPrefix(strings.TrimPrefix(p, dir), "/")
		if dir == "." {
			name = p
		}
		files[name] = source{fsys: fsys, path: p}
		return nil
	})

	return files, err
}

// lookup finds a template by name, with or without the .html extension.
func (e *Engine) lookup(name string) *template.Template {
	name = strings.TrimPrefix(name, "/")
	if t := e.templates.Lookup(name); t != nil {
		return t
	}
	if !strings.HasSuffix(name, ".html") {
		return e.templates.Lookup(name + ".html")
	}
	return nil
}

// Render executes the partial called name and returns the rendered HTML.
func (e *Engine) Render(name string, data any) (template.HTML, error) {
	t := e.lookup(name)
	if t == nil {
		return "", fmt.Errorf("partial template %q not found", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing partial %q: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Execute renders the named page template and returns the output bytes.
func (e *Engine) Execute(name string, data any) ([]byte, error) {
	t := e.lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %q: %w", name, err)
	}
	return buf.Bytes(), nil
}

// HasTemplate reports whether a template with the given name exists.
func (e *Engine) HasTemplate(name string) bool {
	return e.lookup(name) != nil
}

// Names returns the names of all loaded templates in sorted order.
func (e *Engine) Names() []string {
	return slices.Clone(e.names)
}

// Themes returns the pagination themes available under viewsPrefix. The
// default theme, whose partials sit directly in pagination/, is reported as
// "default".
func (e *Engine) Themes(viewsPrefix string) []string {
	dir := strings.Trim(path.Join(viewsPrefix, "pagination"), "/") + "/"
	seen := make(map[string]bool)
	for _, name := range e.names {
		rest, ok := strings.CutPrefix(name, dir)
		if !ok {
			continue
		}
		theme, file, nested := strings.Cut(rest, "/")
		if !nested {
			theme = "default"
			file = rest
		}
		if file == "paginator.html" {
			seen[theme] = true
		}
	}
	return slices.Sorted(maps.Keys(seen))
}
