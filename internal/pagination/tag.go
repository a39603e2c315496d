package pagination

import (
	"errors"
	"fmt"
	"html/template"
	"maps"
	"path"
	"strings"

	"github.com/aellingwood/pagelinks/internal/params"
	"github.com/aellingwood/pagelinks/internal/routing"
	"github.com/samber/lo"
)

// Role identifies what a tag stands for. It is also the partial name the tag
// renders with.
type Role string

const (
	RoleFirstPage Role = "first_page"
	RolePrevPage  Role = "prev_page"
	RolePage      Role = "page"
	RoleGap       Role = "gap"
	RoleNextPage  Role = "next_page"
	RoleLastPage  Role = "last_page"
	RolePaginator Role = "paginator"
)

// Options configure a single tag or a whole paginator. Zero values fall back
// to the View's Defaults.
type Options struct {
	// Page is the explicit page number of a numbered page tag.
	Page        int
	CurrentPage int
	TotalPages  int
	PerPage     int

	// ParamName is the page parameter, flat ("page") or nested ("user[page]").
	ParamName   string
	Theme       string
	ViewsPrefix string
	// Route overrides the route links are generated for.
	Route string
	// Params are merged over the request parameters before each URL is built.
	Params map[string]any
	Remote bool
	// Locals are passed through to the partial untouched.
	Locals map[string]any

	// Window settings; nil uses the configured value.
	Window      *int
	OuterWindow *int
	Left        *int
	Right       *int
}

// Int returns a pointer to n, for the window fields of Options.
func Int(n int) *int {
	return &n
}

// Tag is a renderable pagination element.
type Tag interface {
	Role() Role
	Render(locals map[string]any) (template.HTML, error)
}

// Link is a Tag that navigates to a page.
type Link interface {
	Tag
	Page() int
	URL() (string, error)
}

// TagData is the data a tag partial is executed with.
type TagData struct {
	Role        Role
	URL         string
	Page        *PageProxy
	CurrentPage *PageProxy
	TotalPages  int
	PerPage     int
	Remote      bool
	Paginator   *Paginator
	Locals      map[string]any

	view *View
}

// T returns the translated label for key. Labels come from the locale
// catalog and may contain entities, so they are not escaped.
func (d *TagData) T(key string) template.HTML {
	return template.HTML(d.view.translate(key))
}

// tag is the state shared by every role: the sanitized parameter set, the
// page parameter name and the partial location.
type tag struct {
	view        *View
	role        Role
	opts        Options
	params      params.Params
	paramName   string
	theme       string
	viewsPrefix string
	current     *PageProxy
	paginator   *Paginator
}

func newTag(v *View, role Role, opts Options) tag {
	t := tag{
		view:        v,
		role:        role,
		opts:        opts,
		paramName:   lo.CoalesceOrEmpty(opts.ParamName, v.Defaults.ParamName, "page"),
		theme:       lo.CoalesceOrEmpty(opts.Theme, v.Defaults.Theme),
		viewsPrefix: lo.CoalesceOrEmpty(opts.ViewsPrefix, v.Defaults.ViewsPrefix),
	}
	t.params = v.Params.StripInfrastructure().DeepMerge(opts.Params)
	return t
}

func (t *tag) Role() Role {
	return t.role
}

// paramsFor returns the parameter set that addresses page. Unless the
// configuration keeps the parameter on the first page, page 1 nulls it so
// the first page has a canonical URL without it.
func (t *tag) paramsFor(page int) params.Params {
	omit := !t.view.Defaults.ParamsOnFirstPage && page <= 1
	var value any = page
	if omit {
		value = nil
	}

	if !params.IsNested(t.paramName) {
		p := t.params.Clone()
		p[t.paramName] = value
		return p
	}

	keyPath := params.SplitKey(t.paramName)
	nested := params.Params{}
	nested.Set(keyPath, page)
	p := t.params.DeepMerge(nested)
	if omit {
		p.Set(keyPath, nil)
	}
	return p
}

// PageURLFor returns the path-only URL of page. When the route cannot be
// resolved in the view's routing scope it is retried against the
// application router.
func (t *tag) PageURLFor(page int) (string, error) {
	if t.view.Router == nil {
		return "", fmt.Errorf("generating url for page %d: view has no router", page)
	}
	route := lo.CoalesceOrEmpty(t.opts.Route, t.view.Route)
	p := t.paramsFor(page)

	u, err := t.view.Router.URLFor(route, p)
	if err == nil {
		return u, nil
	}
	if errors.Is(err, routing.ErrRouteNotFound) && t.view.AppRouter != nil {
		u, err = t.view.AppRouter.URLFor(route, p)
		if err == nil {
			return u, nil
		}
	}
	return "", fmt.Errorf("generating url for page %d: %w", page, err)
}

// partialPath returns "<views prefix>/pagination/<theme>/<role>", skipping
// empty segments.
func (t *tag) partialPath() string {
	parts := lo.Compact([]string{t.viewsPrefix, "pagination", t.theme, string(t.role)})
	return strings.TrimPrefix(path.Join(parts...), "/")
}

func (t *tag) data(locals map[string]any) *TagData {
	merged := make(map[string]any, len(t.opts.Locals)+len(locals))
	maps.Copy(merged, t.opts.Locals)
	maps.Copy(merged, locals)
	current := t.current
	if current == nil {
		current = standaloneProxy(t.view, t.opts)
	}
	return &TagData{
		Role:        t.role,
		CurrentPage: current,
		TotalPages:  current.win.total,
		PerPage:     t.opts.PerPage,
		Remote:      t.opts.Remote,
		Paginator:   t.paginator,
		Locals:      merged,
		view:        t.view,
	}
}

func (t *tag) render(d *TagData) (template.HTML, error) {
	if t.view.Renderer == nil {
		return "", fmt.Errorf("rendering %s: view has no renderer", t.role)
	}
	out, err := t.view.Renderer.Render(t.partialPath(), d)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", t.role, err)
	}
	return out, nil
}

// link is the base of every tag that points at a page.
type link struct {
	tag
	page func() int
}

func (l *link) Page() int {
	return l.page()
}

func (l *link) URL() (string, error) {
	return l.PageURLFor(l.page())
}

func (l *link) Render(locals map[string]any) (template.HTML, error) {
	u, err := l.URL()
	if err != nil {
		return "", err
	}
	d := l.data(locals)
	d.URL = u
	return l.render(d)
}

// FirstPage links to page 1.
type FirstPage struct{ link }

// NewFirstPage creates a first-page tag.
func NewFirstPage(v *View, opts Options) *FirstPage {
	t := &FirstPage{link{tag: newTag(v, RoleFirstPage, opts)}}
	t.page = func() int { return 1 }
	return t
}

// LastPage links to the last page.
type LastPage struct{ link }

// NewLastPage creates a last-page tag. opts.TotalPages is the target.
func NewLastPage(v *View, opts Options) *LastPage {
	t := &LastPage{link{tag: newTag(v, RoleLastPage, opts)}}
	t.page = func() int { return t.opts.TotalPages }
	return t
}

// PrevPage links to the page before the current one.
type PrevPage struct{ link }

// NewPrevPage creates a previous-page tag for opts.CurrentPage.
func NewPrevPage(v *View, opts Options) *PrevPage {
	t := &PrevPage{link{tag: newTag(v, RolePrevPage, opts)}}
	t.page = func() int { return t.opts.CurrentPage - 1 }
	return t
}

// NextPage links to the page after the current one.
type NextPage struct{ link }

// NewNextPage creates a next-page tag for opts.CurrentPage.
func NewNextPage(v *View, opts Options) *NextPage {
	t := &NextPage{link{tag: newTag(v, RoleNextPage, opts)}}
	t.page = func() int { return t.opts.CurrentPage + 1 }
	return t
}

// PageLink links to the numbered page opts.Page.
type PageLink struct {
	link
	proxy *PageProxy
}

// NewPageLink creates a numbered page tag.
func NewPageLink(v *View, opts Options) *PageLink {
	t := &PageLink{link: link{tag: newTag(v, RolePage, opts)}}
	t.page = func() int { return t.opts.Page }
	return t
}

// Render renders the page partial with the page number available as .Page.
func (t *PageLink) Render(locals map[string]any) (template.HTML, error) {
	u, err := t.URL()
	if err != nil {
		return "", err
	}
	d := t.data(locals)
	d.URL = u
	d.Page = t.proxy
	if d.Page == nil {
		d.Page = &PageProxy{number: t.opts.Page, win: d.CurrentPage.win}
	}
	return t.render(d)
}

// Gap marks page numbers left out of a truncated page list. It has no page
// and no URL.
type Gap struct{ tag }

// NewGap creates a gap tag.
func NewGap(v *View, opts Options) *Gap {
	return &Gap{newTag(v, RoleGap, opts)}
}

// Render renders the gap partial.
func (g *Gap) Render(locals map[string]any) (template.HTML, error) {
	return g.render(g.data(locals))
}
