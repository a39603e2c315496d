// Package collection provides an in-memory paginated collection. Real
// applications page their data in the store; this pager backs previews,
// the CLI and tests.
package collection

import (
	"net/http"
	"strconv"

	"github.com/aellingwood/pagelinks/internal/params"
)

// Pager represents a single page of a slice of items.
type Pager[T any] struct {
	items      []T
	page       int
	perPage    int
	totalCount int
	maxPages   int
}

// Page returns page number page (1-based) of items with perPage items per
// page. Edge cases:
//   - perPage <= 0 is treated as 25.
//   - page < 1 is treated as 1.
//   - A page past the end has no items but keeps its number.
func Page[T any](items []T, page, perPage int) *Pager[T] {
	if perPage <= 0 {
		perPage = 25
	}
	if page < 1 {
		page = 1
	}

	start := min((page-1)*perPage, len(items))
	end := min(start+perPage, len(items))

	return &Pager[T]{
		items:      items[start:end],
		page:       page,
		perPage:    perPage,
		totalCount: len(items),
	}
}

// Split splits items into consecutive pages of perPage.
// Edge cases:
//   - Empty items returns an empty slice.
//   - Fewer items than perPage produces a single Pager.
func Split[T any](items []T, perPage int) []*Pager[T] {
	if len(items) == 0 {
		return nil
	}
	first := Page(items, 1, perPage)
	total := first.TotalPages()

	pagers := make([]*Pager[T], 0, total)
	pagers = append(pagers, first)
	for i := 2; i <= total; i++ {
		pagers = append(pagers, Page(items, i, perPage))
	}
	return pagers
}

// WithMaxPages caps TotalPages at n. Zero removes the cap.
func (p *Pager[T]) WithMaxPages(n int) *Pager[T] {
	p.maxPages = n
	return p
}

// Items returns the items on this page.
func (p *Pager[T]) Items() []T { return p.items }

// CurrentPage returns the 1-based page number.
func (p *Pager[T]) CurrentPage() int { return p.page }

// TotalPages returns the number of pages, honouring the max-pages cap. An
// empty collection has zero pages.
func (p *Pager[T]) TotalPages() int {
	total := (p.totalCount + p.perPage - 1) / p.perPage
	if p.maxPages > 0 && total > p.maxPages {
		return p.maxPages
	}
	return total
}

// TotalCount returns the number of items across all pages.
func (p *Pager[T]) TotalCount() int { return p.totalCount }

// LimitValue returns the page size.
func (p *Pager[T]) LimitValue() int { return p.perPage }

// OffsetValue returns the index of the first item on this page.
func (p *Pager[T]) OffsetValue() int { return (p.page - 1) * p.perPage }

// Size returns the number of items on this page.
func (p *Pager[T]) Size() int { return len(p.items) }

// IsFirst reports whether this is the first page.
func (p *Pager[T]) IsFirst() bool { return p.page == 1 }

// IsLast reports whether this is the last page.
func (p *Pager[T]) IsLast() bool { return p.page == p.TotalPages() }

// IsOutOfRange reports whether the page lies past the last page.
func (p *Pager[T]) IsOutOfRange() bool { return p.page > p.TotalPages() }

// NextPage returns the following page number, or 0 if there is none.
func (p *Pager[T]) NextPage() int {
	if p.IsLast() || p.IsOutOfRange() {
		return 0
	}
	return p.page + 1
}

// PrevPage returns the preceding page number, or 0 if there is none.
func (p *Pager[T]) PrevPage() int {
	if p.IsFirst() || p.IsOutOfRange() {
		return 0
	}
	return p.page - 1
}

// RequestOptions control how FromRequest reads paging parameters.
type RequestOptions struct {
	ParamName      string
	PerPageParam   string
	DefaultPerPage int
	MaxPerPage     int
}

// FromRequest extracts the page number and page size from req's query. Both
// parameter names may be nested ("user[page]"). Invalid or missing values
// fall back to page 1 and the default page size; sizes above MaxPerPage are
// clamped.
func FromRequest(req *http.Request, opts RequestOptions) (page, perPage int) {
	q := params.FromValues(req.URL.Query())

	page = 1
	if n, err := strconv.Atoi(q.Get(orDefault(opts.ParamName, "page"))); err == nil && n > 0 {
		page = n
	}

	perPage = opts.DefaultPerPage
	if perPage <= 0 {
		perPage = 25
	}
	if n, err := strconv.Atoi(q.Get(orDefault(opts.PerPageParam, "per_page"))); err == nil && n > 0 {
		perPage = n
	}
	if opts.MaxPerPage > 0 && perPage > opts.MaxPerPage {
		perPage = opts.MaxPerPage
	}
	return page, perPage
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
