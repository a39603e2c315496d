package routing

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aellingwood/pagelinks/internal/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(w http.ResponseWriter, r *http.Request) {}

func TestURLFor(t *testing.T) {
	app := New()
	app.HandleFunc("users", "/users", noop)
	app.HandleFunc("user_posts", "/users/{id:[0-9]+}/posts", noop)

	tests := []struct {
		name    string
		route   string
		p       params.Params
		want    string
		wantErr bool
	}{
		{
			name:  "query only",
			route: "users",
			p:     params.Params{"page": 2, "q": "go"},
			want:  "/users?page=2&q=go",
		},
		{
			name:  "no params",
			route: "users",
			p:     params.Params{"page": nil},
			want:  "/users",
		},
		{
			name:  "path variable consumed",
			route: "user_posts",
			p:     params.Params{"id": "7", "page": 3},
			want:  "/users/7/posts?page=3",
		},
		{
			name:    "missing path variable",
			route:   "user_posts",
			p:       params.Params{"page": 3},
			wantErr: true,
		},
		{
			name:    "unknown route",
			route:   "nope",
			p:       params.Params{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := app.URLFor(tt.route, tt.p)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrRouteNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMount_ScopesAreIsolated(t *testing.T) {
	app := New()
	app.HandleFunc("home", "/", noop)
	engine := app.Mount("/admin")
	engine.HandleFunc("admin_items", "/items", noop)

	u, err := engine.URLFor("admin_items", params.Params{"page": 2})
	require.NoError(t, err)
	assert.Equal(t, "/admin/items?page=2", u)

	_, err = engine.URLFor("home", params.Params{})
	assert.ErrorIs(t, err, ErrRouteNotFound)

	_, err = app.URLFor("admin_items", params.Params{})
	assert.ErrorIs(t, err, ErrRouteNotFound)

	assert.Same(t, app, engine.Root())
	assert.Equal(t, "/admin", engine.Prefix())
}

func TestRequestParams(t *testing.T) {
	app := New()
	var got params.Params
	var route string
	app.HandleFunc("user_posts", "/users/{id}/posts", func(w http.ResponseWriter, r *http.Request) {
		got = RequestParams(r)
		route = CurrentRoute(r)
	})

	req := httptest.NewRequest(http.MethodGet, "/users/9/posts?id=ignored&user[page]=2&q=go", nil)
	app.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "user_posts", route)
	assert.Equal(t, "9", got.Get("id"))
	assert.Equal(t, "2", got.Get("user[page]"))
	assert.Equal(t, "go", got.Get("q"))
}
