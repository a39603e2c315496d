// Package pagination renders pagination controls: first, previous, numbered,
// gap, next and last tags. Each tag works out which page it stands for and
// the URL that navigates there, carrying the current request's parameters
// across while replacing only the page parameter.
package pagination

import (
	"html/template"
	"net/http"

	"github.com/aellingwood/pagelinks/internal/i18n"
	"github.com/aellingwood/pagelinks/internal/params"
	"github.com/aellingwood/pagelinks/internal/routing"
)

// Renderer renders a named partial template.
type Renderer interface {
	Render(name string, data any) (template.HTML, error)
}

// URLGenerator builds a path-only URL for a named route from a parameter set.
// *routing.Router implements it.
type URLGenerator interface {
	URLFor(route string, p params.Params) (string, error)
}

// Defaults are the configured values used when Options leave a field unset.
type Defaults struct {
	ParamName         string
	ParamsOnFirstPage bool
	Window            int
	OuterWindow       int
	Left              int
	Right             int
	MaxPages          int
	Theme             string
	ViewsPrefix       string
}

// DefaultDefaults returns the stock settings: "page" parameter, a window of
// four pages around the current one and no outer window.
func DefaultDefaults() Defaults {
	return Defaults{
		ParamName: "page",
		Window:    4,
	}
}

// View is everything a tag needs from the request being rendered.
type View struct {
	// Params are the current request parameters, path variables included.
	Params params.Params
	// Route is the name of the route that served the request.
	Route string
	// Router generates URLs in the routing scope that served the request.
	Router URLGenerator
	// AppRouter is the application's top-level router. When set, URL
	// generation that fails in Router with routing.ErrRouteNotFound is
	// retried here.
	AppRouter URLGenerator
	// Renderer renders tag partials.
	Renderer Renderer
	// Localizer translates labels; nil leaves translation keys untranslated.
	Localizer *i18n.Localizer
	// BaseURL is the scheme and host used for absolute URLs.
	BaseURL  string
	Defaults Defaults
}

// NewView builds a View for req, which must have been routed by router (or
// by one of its mounted sub-routers).
func NewView(req *http.Request, router *routing.Router, renderer Renderer, tr *i18n.Translator, defaults Defaults) *View {
	v := &View{
		Params:   routing.RequestParams(req),
		Route:    routing.CurrentRoute(req),
		Router:   router,
		Renderer: renderer,
		BaseURL:  baseURL(req),
		Defaults: defaults,
	}
	if root := router.Root(); root != router {
		v.AppRouter = root
	}
	if tr != nil {
		v.Localizer = tr.For(tr.Match(req.Header.Get("Accept-Language")))
	}
	return v
}

func baseURL(req *http.Request) string {
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	if fwd := req.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + req.Host
}

func (v *View) translate(key string) string {
	if v.Localizer == nil {
		return key
	}
	return v.Localizer.T(key, nil)
}
