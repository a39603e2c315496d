package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/aellingwood/pagelinks/embedded"
	"github.com/aellingwood/pagelinks/internal/collection"
	"github.com/aellingwood/pagelinks/internal/config"
	"github.com/aellingwood/pagelinks/internal/i18n"
	"github.com/aellingwood/pagelinks/internal/pagination"
	"github.com/aellingwood/pagelinks/internal/routing"
	"github.com/aellingwood/pagelinks/internal/security"
	views "github.com/aellingwood/pagelinks/internal/template"
	"go.uber.org/zap"
)

// ServeOptions contains the configurable settings for the preview server.
type ServeOptions struct {
	// ProjectRoot resolves relative view and locale paths from the config.
	ProjectRoot  string
	NoLiveReload bool
	// ConfigPath is watched along with the view and locale directories.
	ConfigPath string
}

// Server renders demo collections through the pagination package so themes
// and translations can be previewed in a browser. It mounts an admin engine
// under /admin whose pages link back into the application's routes.
type Server struct {
	config  *config.Config
	options ServeOptions
	logger  *zap.Logger
	hub     *Hub
	watcher *Watcher
	server  *http.Server
	app     *routing.Router
	admin   *routing.Router
	items   []string

	mu     sync.RWMutex
	engine *views.Engine
	tr     *i18n.Translator
}

// previewData is what layouts/preview renders.
type previewData struct {
	Locale      string
	Title       string
	RelLinks    template.HTML
	EntriesInfo template.HTML
	Items       []string
	Pagination  template.HTML
	PrevLink    template.HTML
	NextLink    template.HTML
}

// NewServer creates a Server, loading views and locales once up front.
func NewServer(cfg *config.Config, opts ServeOptions, logger *zap.Logger) (*Server, error) {
	s := &Server{
		config:  cfg,
		options: opts,
		logger:  logger,
		hub:     NewHub(logger),
		items:   make([]string, cfg.Server.Items),
	}
	for i := range s.items {
		s.items[i] = fmt.Sprintf("Item %d", i+1)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	s.routes()
	return s, nil
}

func (s *Server) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.options.ProjectRoot, p)
}

func (s *Server) localePaths() []string {
	paths := make([]string, 0, len(s.config.I18n.Paths))
	for _, p := range s.config.I18n.Paths {
		paths = append(paths, s.resolve(p))
	}
	return paths
}

// Reload rebuilds the template engine and translator from the embedded
// defaults and the project's view and locale directories. On error the
// previous engine and translator stay in use.
func (s *Server) Reload() error {
	engine, err := views.NewEngine(embedded.Views, "views", s.resolve(s.config.Views.Path))
	if err != nil {
		return fmt.Errorf("loading views: %w", err)
	}
	tr, err := i18n.Builtin(s.config.I18n.DefaultLocale, s.localePaths()...)
	if err != nil {
		return fmt.Errorf("loading locales: %w", err)
	}

	s.mu.Lock()
	s.engine, s.tr = engine, tr
	s.mu.Unlock()
	return nil
}

func (s *Server) current() (*views.Engine, *i18n.Translator) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine, s.tr
}

func (s *Server) routes() {
	s.app = routing.New()
	s.app.Mux().Use(s.logRequests)
	s.app.Mux().HandleFunc(wsPath, s.hub.HandleWS)
	s.app.Mux().HandleFunc("/__pagelinks/themes", s.handleThemes)

	s.app.HandleFunc("home", "/", s.handleHome)
	s.app.HandleFunc("items", "/items", s.previewHandler(s.app, "Items", ""))
	s.app.HandleFunc("user_items", "/users/{user}/items", s.previewHandler(s.app, "User items", ""))

	// Prev/next links on admin pages target the application's "items"
	// route, which the admin scope does not define.
	s.admin = s.app.Mount("/admin")
	s.admin.HandleFunc("admin_items", "/items", s.previewHandler(s.admin, "Admin items", "items"))
}

// Handler returns the server's root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.app
}

// Start starts the hub, the watcher (when live reload is enabled) and the
// HTTP server. It blocks until ctx is cancelled or the server fails.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run()

	if s.liveReload() {
		s.watcher = NewWatcher(s.watchPaths(), 100*time.Millisecond, s.logger, s.onChange)
		go func() {
			if err := s.watcher.Start(); err != nil {
				s.logger.Error("watcher stopped", zap.Error(err))
			}
		}()
	}

	addr := net.JoinHostPort(s.config.Server.Host, fmt.Sprint(s.config.Server.Port))
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		if err := s.Stop(); err != nil {
			s.logger.Warn("shutdown", zap.Error(err))
		}
	}()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.logger.Info("serving previews", zap.String("url", "http://"+addr+"/items"))

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server, watcher, and hub.
func (s *Server) Stop() error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	s.hub.Stop()
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// NotifyReload tells every connected browser to reload.
func (s *Server) NotifyReload() {
	s.hub.Broadcast([]byte("reload"))
}

func (s *Server) liveReload() bool {
	return s.config.Server.LiveReload && !s.options.NoLiveReload
}

func (s *Server) watchPaths() []string {
	paths := append([]string{s.resolve(s.config.Views.Path)}, s.localePaths()...)
	if s.options.ConfigPath != "" {
		paths = append(paths, s.resolve(s.options.ConfigPath))
	}
	return paths
}

func (s *Server) onChange(changed []string) {
	if s.options.ConfigPath != "" && slices.Contains(changed, s.resolve(s.options.ConfigPath)) {
		s.logger.Warn("config file changed; restart to apply it", zap.String("path", s.options.ConfigPath))
	}
	if err := s.Reload(); err != nil {
		s.logger.Error("reload failed", zap.Strings("changed", changed), zap.Error(err))
		return
	}
	s.logger.Info("views reloaded", zap.Strings("changed", changed))
	s.NotifyReload()
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	u, err := s.app.URLFor("items", nil)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, u, http.StatusFound)
}

func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	engine, tr := s.current()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"themes":  engine.Themes(s.config.Pagination.ViewsPrefix),
		"locales": tr.Locales(),
	})
}

// previewHandler renders a page of the demo collection. The "theme" query
// parameter picks the pagination theme and is carried across page links
// like any other parameter. linkRoute, when set, is the route the simple
// prev/next links point at.
func (s *Server) previewHandler(scope *routing.Router, title, linkRoute string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		engine, tr := s.current()
		cfg := s.config

		theme := r.URL.Query().Get("theme")
		if theme != "" && !slices.Contains(engine.Themes(cfg.Pagination.ViewsPrefix), theme) {
			http.Error(w, fmt.Sprintf("unknown theme %q", theme), http.StatusNotFound)
			return
		}
		if theme == "default" {
			theme = ""
		}

		page, perPage := collection.FromRequest(r, collection.RequestOptions{
			ParamName:      cfg.Pagination.ParamName,
			PerPageParam:   cfg.Pagination.PerPageParam,
			DefaultPerPage: cfg.Pagination.DefaultPerPage,
			MaxPerPage:     cfg.Pagination.MaxPerPage,
		})
		pager := collection.Page(s.items, page, perPage).WithMaxPages(cfg.Pagination.MaxPages)

		v := pagination.NewView(r, scope, engine, tr, cfg.PaginationDefaults())
		if cfg.BaseURL != "" {
			v.BaseURL = cfg.BaseURL
		}

		body, err := s.renderPreview(engine, v, pager, title, pagination.Options{Theme: theme}, linkRoute)
		if err != nil {
			s.fail(w, r, err)
			return
		}

		nonce, err := security.GenerateNonce()
		if err != nil {
			s.fail(w, r, err)
			return
		}
		body = InjectScriptNonces(body, nonce)
		if s.liveReload() {
			body = InjectLiveReload(body, nonce)
		}

		security.SetHeaders(w.Header(), security.PreviewPolicy(nonce, cfg.Server.Host, cfg.Server.Port))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

func (s *Server) renderPreview(engine *views.Engine, v *pagination.View, pager *collection.Pager[string],
	title string, opts pagination.Options, linkRoute string) ([]byte, error) {
	nav, err := v.Paginate(pager, opts)
	if err != nil {
		return nil, err
	}

	linkOpts := pagination.LinkOptions{Options: opts}
	linkOpts.Route = linkRoute
	prev, err := v.LinkToPrevPage(pager, "Previous page", linkOpts)
	if err != nil {
		return nil, err
	}
	next, err := v.LinkToNextPage(pager, "Next page", linkOpts)
	if err != nil {
		return nil, err
	}
	rel, err := v.RelNextPrevLinkTags(pager, opts)
	if err != nil {
		return nil, err
	}

	return engine.Execute("layouts/preview", previewData{
		Locale:      v.Localizer.Locale(),
		Title:       title,
		RelLinks:    rel,
		EntriesInfo: v.PageEntriesInfo(pager),
		Items:       pager.Items(),
		Pagination:  nav,
		PrevLink:    prev,
		NextLink:    next,
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.String("route", routing.CurrentRoute(r)),
		zap.Error(err))
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The WebSocket upgrade needs the original writer.
		if r.URL.Path == wsPath {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
