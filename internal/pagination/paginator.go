package pagination

import (
	"html/template"
	"slices"
	"strconv"

	"github.com/samber/lo"
)

// window holds the numbers a page list is computed from. left and right are
// already resolved against the outer window.
type window struct {
	current int
	total   int
	inner   int
	left    int
	right   int
}

func resolveWindow(v *View, opts Options) window {
	d := v.Defaults
	outer := d.OuterWindow
	if opts.OuterWindow != nil {
		outer = *opts.OuterWindow
	}
	w := window{
		current: opts.CurrentPage,
		total:   opts.TotalPages,
		inner:   d.Window,
		left:    d.Left,
		right:   d.Right,
	}
	if opts.Window != nil {
		w.inner = *opts.Window
	}
	if opts.Left != nil {
		w.left = *opts.Left
	}
	if opts.Right != nil {
		w.right = *opts.Right
	}
	if w.left == 0 {
		w.left = outer
	}
	if w.right == 0 {
		w.right = outer
	}
	if d.MaxPages > 0 && w.total > d.MaxPages {
		w.total = d.MaxPages
	}
	return w
}

// relevantPages returns the sorted page numbers worth considering: the left
// outer window plus one, the inner window plus one on each side, and the
// right outer window plus one, clipped to 1..total.
func (w window) relevantPages() []int {
	var pages []int
	pages = append(pages, lo.RangeFrom(1, w.left+1)...)
	pages = append(pages, lo.RangeFrom(w.current-w.inner-1, 2*w.inner+3)...)
	pages = append(pages, lo.RangeFrom(w.total-w.right, w.right+1)...)
	pages = lo.Filter(lo.Uniq(pages), func(p int, _ int) bool {
		return p >= 1 && p <= w.total
	})
	slices.Sort(pages)
	return pages
}

// PageProxy describes one page number relative to the current page and the
// window settings. Templates use its predicates to decide what to draw.
type PageProxy struct {
	number    int
	win       window
	paginator *Paginator
}

func standaloneProxy(v *View, opts Options) *PageProxy {
	w := resolveWindow(v, opts)
	return &PageProxy{number: w.current, win: w}
}

// Number returns the page number.
func (p *PageProxy) Number() int { return p.number }

// String returns the page number as text.
func (p *PageProxy) String() string { return strconv.Itoa(p.number) }

// IsCurrent reports whether this is the page being viewed.
func (p *PageProxy) IsCurrent() bool { return p.number == p.win.current }

// IsFirst reports whether this is page 1.
func (p *PageProxy) IsFirst() bool { return p.number == 1 }

// IsLast reports whether this is the last page.
func (p *PageProxy) IsLast() bool { return p.number == p.win.total }

// IsPrev reports whether this page directly precedes the current one.
func (p *PageProxy) IsPrev() bool { return p.number == p.win.current-1 }

// IsNext reports whether this page directly follows the current one.
func (p *PageProxy) IsNext() bool { return p.number == p.win.current+1 }

// Rel returns the link relation, "next" or "prev", or "".
func (p *PageProxy) Rel() string {
	switch {
	case p.IsNext():
		return "next"
	case p.IsPrev():
		return "prev"
	}
	return ""
}

// IsLeftOuter reports whether the page is inside the left outer window.
func (p *PageProxy) IsLeftOuter() bool { return p.number <= p.win.left }

// IsRightOuter reports whether the page is inside the right outer window.
func (p *PageProxy) IsRightOuter() bool { return p.win.total-p.number < p.win.right }

// IsInsideWindow reports whether the page is within the inner window around
// the current page.
func (p *PageProxy) IsInsideWindow() bool {
	d := p.win.current - p.number
	if d < 0 {
		d = -d
	}
	return d <= p.win.inner
}

// IsSingleGap reports whether the page is the only one between the inner
// window and an outer window. Such a page is shown instead of a gap.
func (p *PageProxy) IsSingleGap() bool {
	w := p.win
	return (p.number == w.current-w.inner-1 && p.number == w.left+1) ||
		(p.number == w.current+w.inner+1 && p.number == w.total-w.right)
}

// IsOutOfRange reports whether the page lies past the last page.
func (p *PageProxy) IsOutOfRange() bool { return p.number > p.win.total }

// WasTruncated reports whether the most recently rendered tag was a gap.
func (p *PageProxy) WasTruncated() bool {
	if p.paginator == nil || p.paginator.last == nil {
		return false
	}
	return p.paginator.last.Role() == RoleGap
}

// IsDisplayTag reports whether the page gets a numbered tag rather than
// being folded into a gap.
func (p *PageProxy) IsDisplayTag() bool {
	return p.IsLeftOuter() || p.IsRightOuter() || p.IsInsideWindow() || p.IsSingleGap()
}

// Paginator renders the full control: first/prev, a windowed list of page
// numbers with gaps, next/last. Its methods are called back from the
// paginator partial.
type Paginator struct {
	tag
	win  window
	last Tag
}

// NewPaginator creates a Paginator. opts.CurrentPage and opts.TotalPages
// must be set.
func NewPaginator(v *View, opts Options) *Paginator {
	p := &Paginator{tag: newTag(v, RolePaginator, opts)}
	p.win = resolveWindow(v, opts)
	p.opts.TotalPages = p.win.total
	p.current = &PageProxy{number: p.win.current, win: p.win, paginator: p}
	p.paginator = p
	return p
}

// Render renders the paginator partial. Nothing is rendered when there is at
// most one page, so callers can supply their own fallback.
func (p *Paginator) Render(locals map[string]any) (template.HTML, error) {
	if p.win.total <= 1 {
		return "", nil
	}
	p.last = nil
	return p.render(p.data(locals))
}

// CurrentPage returns the proxy of the page being viewed.
func (p *Paginator) CurrentPage() *PageProxy { return p.current }

// TotalPages returns the number of pages after the max-pages cap.
func (p *Paginator) TotalPages() int { return p.win.total }

// EachPage returns the relevant pages in order.
func (p *Paginator) EachPage() []*PageProxy {
	return lo.Map(p.win.relevantPages(), func(n int, _ int) *PageProxy {
		return &PageProxy{number: n, win: p.win, paginator: p}
	})
}

func (p *Paginator) childOptions() Options {
	opts := p.opts
	opts.ParamName = p.paramName
	opts.Theme = p.theme
	opts.ViewsPrefix = p.viewsPrefix
	return opts
}

func (p *Paginator) adopt(t *tag) {
	t.current = p.current
	t.paginator = p
}

// PageTag renders the numbered tag for page.
func (p *Paginator) PageTag(page *PageProxy) (template.HTML, error) {
	opts := p.childOptions()
	opts.Page = page.number
	t := NewPageLink(p.view, opts)
	t.proxy = page
	p.adopt(&t.tag)
	p.last = t
	return t.Render(nil)
}

// FirstPageTag renders the first-page tag.
func (p *Paginator) FirstPageTag() (template.HTML, error) {
	t := NewFirstPage(p.view, p.childOptions())
	p.adopt(&t.tag)
	p.last = t
	return t.Render(nil)
}

// PrevPageTag renders the previous-page tag.
func (p *Paginator) PrevPageTag() (template.HTML, error) {
	t := NewPrevPage(p.view, p.childOptions())
	p.adopt(&t.tag)
	p.last = t
	return t.Render(nil)
}

// NextPageTag renders the next-page tag.
func (p *Paginator) NextPageTag() (template.HTML, error) {
	t := NewNextPage(p.view, p.childOptions())
	p.adopt(&t.tag)
	p.last = t
	return t.Render(nil)
}

// LastPageTag renders the last-page tag.
func (p *Paginator) LastPageTag() (template.HTML, error) {
	t := NewLastPage(p.view, p.childOptions())
	p.adopt(&t.tag)
	p.last = t
	return t.Render(nil)
}

// GapTag renders a gap.
func (p *Paginator) GapTag() (template.HTML, error) {
	t := NewGap(p.view, p.childOptions())
	p.adopt(&t.tag)
	p.last = t
	return t.Render(nil)
}
