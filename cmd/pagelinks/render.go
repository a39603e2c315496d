package main

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/aellingwood/pagelinks/embedded"
	"github.com/aellingwood/pagelinks/internal/collection"
	"github.com/aellingwood/pagelinks/internal/config"
	"github.com/aellingwood/pagelinks/internal/i18n"
	"github.com/aellingwood/pagelinks/internal/pagination"
	"github.com/aellingwood/pagelinks/internal/routing"
	views "github.com/aellingwood/pagelinks/internal/template"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render pagination links for a URL",
	Long: `Render the pagination control for a request URL and print the HTML.
The URL's path becomes a route named by --route; its query parameters are
carried into every page link. The current page is read from the URL unless
--current-page is given.`,
	Example: `  pagelinks render --url "/items?q=go&page=3" --total-pages 12
  pagelinks render --url "/items?user[page]=2" --param-name "user[page]" --total-pages 5 --theme bootstrap`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		overrides := map[string]any{}
		for flag, key := range map[string]string{
			"theme":      "theme",
			"param-name": "paramName",
		} {
			if cmd.Flags().Changed(flag) {
				s, _ := cmd.Flags().GetString(flag)
				overrides[key] = s
			}
		}
		for flag, key := range map[string]string{
			"window":       "window",
			"outer-window": "outerWindow",
		} {
			if cmd.Flags().Changed(flag) {
				n, _ := cmd.Flags().GetInt(flag)
				overrides[key] = n
			}
		}
		if err := cfg.WithOverrides(overrides).Validate(); err != nil {
			return fmt.Errorf("invalid flags: %w", err)
		}

		var opts renderOptions
		opts.URL, _ = cmd.Flags().GetString("url")
		opts.Route, _ = cmd.Flags().GetString("route")
		opts.TotalPages, _ = cmd.Flags().GetInt("total-pages")
		opts.CurrentPage, _ = cmd.Flags().GetInt("current-page")
		opts.Locale, _ = cmd.Flags().GetString("locale")
		opts.Rel, _ = cmd.Flags().GetBool("rel")

		out, err := renderLinks(cfg, opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(out))
		return nil
	},
}

type renderOptions struct {
	URL         string
	Route       string
	TotalPages  int
	CurrentPage int
	Locale      string
	Rel         bool
}

// pageCount is a Collection known only by its page numbers.
type pageCount struct {
	current int
	total   int
}

func (c pageCount) CurrentPage() int { return c.current }
func (c pageCount) TotalPages() int  { return c.total }
func (c pageCount) LimitValue() int  { return 0 }

// renderLinks routes a synthetic request for o.URL and renders its
// pagination control, exactly as a handler serving that URL would.
func renderLinks(cfg *config.Config, o renderOptions) (string, error) {
	if o.TotalPages < 0 {
		return "", fmt.Errorf("--total-pages must not be negative (got %d)", o.TotalPages)
	}
	u, err := url.Parse(o.URL)
	if err != nil {
		return "", fmt.Errorf("parsing --url: %w", err)
	}
	if u.Path == "" {
		u.Path = "/"
	}

	engine, err := views.NewEngine(embedded.Views, "views", cfg.Views.Path)
	if err != nil {
		return "", fmt.Errorf("loading views: %w", err)
	}
	tr, err := i18n.Builtin(cfg.I18n.DefaultLocale, cfg.I18n.Paths...)
	if err != nil {
		return "", fmt.Errorf("loading locales: %w", err)
	}

	var (
		out       template.HTML
		renderErr error
	)
	router := routing.New()
	router.HandleFunc(o.Route, u.Path, func(w http.ResponseWriter, r *http.Request) {
		current := o.CurrentPage
		if current <= 0 {
			current, _ = collection.FromRequest(r, collection.RequestOptions{
				ParamName:      cfg.Pagination.ParamName,
				DefaultPerPage: cfg.Pagination.DefaultPerPage,
			})
		}
		c := pageCount{current: current, total: o.TotalPages}

		v := pagination.NewView(r, router, engine, tr, cfg.PaginationDefaults())
		if cfg.BaseURL != "" {
			v.BaseURL = cfg.BaseURL
		}
		nav, err := v.Paginate(c)
		if err != nil {
			renderErr = err
			return
		}
		if o.Rel {
			rel, err := v.RelNextPrevLinkTags(c)
			if err != nil {
				renderErr = err
				return
			}
			nav = rel + "\n" + nav
		}
		out = nav
	})

	req := httptest.NewRequest(http.MethodGet, u.RequestURI(), nil)
	if o.Locale != "" {
		req.Header.Set("Accept-Language", o.Locale)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code == http.StatusNotFound {
		return "", errors.New("--url path did not match its route")
	}
	if renderErr != nil {
		return "", fmt.Errorf("rendering pagination: %w", renderErr)
	}
	return string(out), nil
}

func init() {
	renderCmd.Flags().String("url", "/items", "request URL the links are generated for")
	renderCmd.Flags().String("route", "items", "name given to the URL's route")
	renderCmd.Flags().Int("total-pages", 10, "total number of pages")
	renderCmd.Flags().Int("current-page", 0, "current page (default: read from the URL)")
	renderCmd.Flags().String("theme", "", "pagination theme")
	renderCmd.Flags().String("param-name", "page", "page parameter, e.g. page or user[page]")
	renderCmd.Flags().Int("window", 4, "pages shown on each side of the current page")
	renderCmd.Flags().Int("outer-window", 0, "pages shown at each end")
	renderCmd.Flags().String("locale", "", "Accept-Language used to pick the locale")
	renderCmd.Flags().Bool("rel", false, "also print <link rel> head tags")

	rootCmd.AddCommand(renderCmd)
}
