// Package routing provides reverse URL generation over gorilla/mux named
// routes. A Router is a routing scope: the application router, or a
// sub-router mounted under a path prefix for a self-contained engine. Each
// scope resolves only the route names registered through it.
package routing

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aellingwood/pagelinks/internal/params"
	"github.com/gorilla/mux"
)

// ErrRouteNotFound is returned when a URL cannot be generated in a routing
// scope, either because the route name is unknown there or because the
// parameters do not satisfy the route's path variables.
var ErrRouteNotFound = errors.New("route not found")

// Router is a named-route scope backed by a mux.Router.
type Router struct {
	mux    *mux.Router
	parent *Router
	prefix string
	names  map[string]struct{}
}

// New creates an application-level Router.
func New() *Router {
	return &Router{
		mux:   mux.NewRouter(),
		names: make(map[string]struct{}),
	}
}

// Mount creates a sub-router under prefix. Routes registered on the returned
// Router generate prefixed URLs but are invisible to r, and r's routes are
// invisible to it.
func (r *Router) Mount(prefix string) *Router {
	return &Router{
		mux:    r.mux.PathPrefix(prefix).Subrouter(),
		parent: r,
		prefix: prefix,
		names:  make(map[string]struct{}),
	}
}

// Root returns the top-level application Router.
func (r *Router) Root() *Router {
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Prefix returns the mount prefix, or "" for the application router.
func (r *Router) Prefix() string {
	return r.prefix
}

// Handle registers a named route.
func (r *Router) Handle(name, path string, h http.Handler) *mux.Route {
	r.names[name] = struct{}{}
	return r.mux.Handle(path, h).Name(name)
}

// HandleFunc registers a named route backed by a handler function.
func (r *Router) HandleFunc(name, path string, f http.HandlerFunc) *mux.Route {
	return r.Handle(name, path, f)
}

// Mux exposes the underlying mux.Router for middleware and unnamed routes.
func (r *Router) Mux() *mux.Router {
	return r.mux
}

// ServeHTTP dispatches to the underlying mux.Router.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// URLFor generates a path-only URL for the named route. Parameters matching
// the route's path variables fill the path; the rest become the query string.
func (r *Router) URLFor(name string, p params.Params) (string, error) {
	if _, ok := r.names[name]; !ok {
		return "", fmt.Errorf("%w: no route named %q under %q", ErrRouteNotFound, name, r.scope())
	}
	route := r.mux.Get(name)
	if route == nil {
		return "", fmt.Errorf("%w: no route named %q under %q", ErrRouteNotFound, name, r.scope())
	}

	vars, err := route.GetVarNames()
	if err != nil {
		return "", fmt.Errorf("reading variables of route %q: %w", name, err)
	}

	rest := p.Clone()
	pairs := make([]string, 0, 2*len(vars))
	for _, v := range vars {
		s, ok := params.Scalar(rest[v])
		if !ok {
			return "", fmt.Errorf("%w: route %q requires %q", ErrRouteNotFound, name, v)
		}
		pairs = append(pairs, v, s)
		delete(rest, v)
	}

	u, err := route.URLPath(pairs...)
	if err != nil {
		return "", fmt.Errorf("%w: building %q: %w", ErrRouteNotFound, name, err)
	}
	u.RawQuery = rest.Encode()
	return u.String(), nil
}

func (r *Router) scope() string {
	if r.prefix == "" {
		return "/"
	}
	return r.prefix
}

// RequestParams returns the parameters of the current request: the parsed
// query string with the matched route's path variables laid over it.
func RequestParams(req *http.Request) params.Params {
	p := params.FromValues(req.URL.Query())
	for k, v := range mux.Vars(req) {
		p[k] = v
	}
	return p
}

// CurrentRoute returns the name of the route that matched req, or "".
func CurrentRoute(req *http.Request) string {
	if route := mux.CurrentRoute(req); route != nil {
		return route.GetName()
	}
	return ""
}
