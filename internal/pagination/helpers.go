package pagination

import (
	"fmt"
	"html/template"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Collection is a page of a paginated result set.
type Collection interface {
	CurrentPage() int
	TotalPages() int
	LimitValue() int
}

// EntriesCollection is a Collection that also knows its item counts, which
// PageEntriesInfo needs.
type EntriesCollection interface {
	Collection
	TotalCount() int
	OffsetValue() int
	Size() int
}

func firstOptions(opts []Options) Options {
	if len(opts) > 0 {
		return opts[0]
	}
	return Options{}
}

func (v *View) collectionOptions(c Collection, opts Options) Options {
	if opts.TotalPages == 0 {
		opts.TotalPages = c.TotalPages()
	}
	if opts.CurrentPage == 0 {
		opts.CurrentPage = c.CurrentPage()
	}
	if opts.PerPage == 0 {
		opts.PerPage = c.LimitValue()
	}
	return opts
}

// Paginate renders the pagination control for c. It renders nothing when c
// has a single page.
func (v *View) Paginate(c Collection, opts ...Options) (template.HTML, error) {
	o := v.collectionOptions(c, firstOptions(opts))
	return NewPaginator(v, o).Render(nil)
}

func hasPrev(c Collection) bool {
	cur := c.CurrentPage()
	return cur > 1 && cur <= c.TotalPages()
}

func hasNext(c Collection) bool {
	return c.CurrentPage() < c.TotalPages()
}

// PathToPrevPage returns the path of the page before c's, or "" when c is
// the first page or out of range.
func (v *View) PathToPrevPage(c Collection, opts ...Options) (string, error) {
	if !hasPrev(c) {
		return "", nil
	}
	o := firstOptions(opts)
	if o.CurrentPage == 0 {
		o.CurrentPage = c.CurrentPage()
	}
	return NewPrevPage(v, o).URL()
}

// PathToNextPage returns the path of the page after c's, or "" when c is
// the last page or out of range.
func (v *View) PathToNextPage(c Collection, opts ...Options) (string, error) {
	if !hasNext(c) {
		return "", nil
	}
	o := firstOptions(opts)
	if o.CurrentPage == 0 {
		o.CurrentPage = c.CurrentPage()
	}
	return NewNextPage(v, o).URL()
}

// PrevPageURL is PathToPrevPage prefixed with the view's base URL.
func (v *View) PrevPageURL(c Collection, opts ...Options) (string, error) {
	p, err := v.PathToPrevPage(c, opts...)
	if err != nil || p == "" {
		return "", err
	}
	return v.BaseURL + p, nil
}

// NextPageURL is PathToNextPage prefixed with the view's base URL.
func (v *View) NextPageURL(c Collection, opts ...Options) (string, error) {
	p, err := v.PathToNextPage(c, opts...)
	if err != nil || p == "" {
		return "", err
	}
	return v.BaseURL + p, nil
}

// LinkOptions configure LinkToPrevPage and LinkToNextPage.
type LinkOptions struct {
	Options
	// Attrs are extra HTML attributes. "rel" defaults to "prev" or "next".
	Attrs map[string]string
	// Fallback is rendered when there is no page to link to.
	Fallback template.HTML
}

// LinkToPrevPage renders an anchor labelled name pointing at the previous
// page, or the fallback when there is none.
func (v *View) LinkToPrevPage(c Collection, name string, opts ...LinkOptions) (template.HTML, error) {
	o := firstLinkOptions(opts)
	u, err := v.PathToPrevPage(c, o.Options)
	if err != nil {
		return "", err
	}
	return anchor(u, name, "prev", o), nil
}

// LinkToNextPage renders an anchor labelled name pointing at the next page,
// or the fallback when there is none.
func (v *View) LinkToNextPage(c Collection, name string, opts ...LinkOptions) (template.HTML, error) {
	o := firstLinkOptions(opts)
	u, err := v.PathToNextPage(c, o.Options)
	if err != nil {
		return "", err
	}
	return anchor(u, name, "next", o), nil
}

func firstLinkOptions(opts []LinkOptions) LinkOptions {
	if len(opts) > 0 {
		return opts[0]
	}
	return LinkOptions{}
}

func anchor(href, name, rel string, o LinkOptions) template.HTML {
	if href == "" {
		return o.Fallback
	}
	attrs := map[string]string{"rel": rel}
	for k, val := range o.Attrs {
		attrs[k] = val
	}
	if o.Remote {
		attrs["data-remote"] = "true"
	}
	delete(attrs, "href")

	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(template.HTMLEscapeString(href))
	b.WriteString(`"`)
	keys := lo.Keys(attrs)
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, ` %s="%s"`, template.HTMLEscapeString(k), template.HTMLEscapeString(attrs[k]))
	}
	b.WriteString(">")
	b.WriteString(template.HTMLEscapeString(name))
	b.WriteString("</a>")
	return template.HTML(b.String())
}

// RelNextPrevLinkTags renders <link rel="next"> and <link rel="prev"> head
// tags for whichever neighbouring pages exist.
func (v *View) RelNextPrevLinkTags(c Collection, opts ...Options) (template.HTML, error) {
	next, err := v.PathToNextPage(c, opts...)
	if err != nil {
		return "", err
	}
	prev, err := v.PathToPrevPage(c, opts...)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if next != "" {
		fmt.Fprintf(&b, `<link rel="next" href="%s">`, template.HTMLEscapeString(next))
	}
	if prev != "" {
		fmt.Fprintf(&b, `<link rel="prev" href="%s">`, template.HTMLEscapeString(prev))
	}
	return template.HTML(b.String()), nil
}

// EntriesOptions configure PageEntriesInfo.
type EntriesOptions struct {
	// EntryName replaces the translated "entry" noun. EntryNamePlural
	// defaults to EntryName + "s".
	EntryName       string
	EntryNamePlural string
}

// PageEntriesInfo renders a summary such as "Displaying entries 1 - 25 of
// 120 in total".
func (v *View) PageEntriesInfo(c EntriesCollection, opts ...EntriesOptions) template.HTML {
	var o EntriesOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	var entryName string
	switch {
	case o.EntryName != "" && c.Size() == 1:
		entryName = template.HTMLEscapeString(o.EntryName)
	case o.EntryName != "":
		entryName = template.HTMLEscapeString(lo.CoalesceOrEmpty(o.EntryNamePlural, o.EntryName+"s"))
	case v.Localizer != nil:
		entryName = strings.ToLower(v.Localizer.N("helpers.page_entries_info.entry", c.Size(), nil))
	default:
		entryName = "entries"
	}

	if v.Localizer == nil {
		return template.HTML(fmt.Sprintf("%d %s", c.TotalCount(), entryName))
	}
	if c.TotalPages() < 2 {
		return template.HTML(v.Localizer.N("helpers.page_entries_info.one_page.display_entries",
			c.TotalCount(), map[string]any{"entry_name": entryName}))
	}
	first := c.OffsetValue() + 1
	last := min(c.OffsetValue()+c.Size(), c.TotalCount())
	return template.HTML(v.Localizer.T("helpers.page_entries_info.more_pages.display_entries", map[string]any{
		"entry_name": entryName,
		"first":      first,
		"last":       last,
		"total":      c.TotalCount(),
	}))
}
