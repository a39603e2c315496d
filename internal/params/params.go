// Package params models a request's parameter set: the nested map that a
// query string such as "user[name]=yuki&page=2" decodes to. Pagination links
// carry this set from one page to the next, so it has to survive a decode,
// merge and re-encode round trip.
package params

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Params is a nested parameter set. Values are string, []string, Params (or a
// plain map[string]any supplied by a caller), an int page number, or nil. A
// nil value marks a nulled parameter and is left out when encoding.
type Params map[string]any

// InfrastructureKeys lists the request parameters that belong to the
// framework rather than to the page being viewed: CSRF tokens, form submit
// buttons, method overrides and mount-point bookkeeping. They must never be
// copied into a navigation link.
var InfrastructureKeys = []string{
	"authenticity_token",
	"commit",
	"utf8",
	"_method",
	"script_name",
	"original_script_name",
	"gorilla.csrf.Token",
}

// FromValues decodes flat query values into a nested Params using bracket
// notation: "a[b][c]=1" nests and a trailing "[]" collects a list.
func FromValues(values url.Values) Params {
	p := Params{}
	keys := lo.Keys(values)
	slices.Sort(keys)
	for _, name := range keys {
		for _, v := range values[name] {
			p.add(name, v)
		}
	}
	return p
}

// ParseQuery parses a raw query string into a nested Params.
func ParseQuery(raw string) (Params, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing query %q: %w", raw, err)
	}
	return FromValues(values), nil
}

func (p Params) add(name, value string) {
	if base, ok := strings.CutSuffix(name, "[]"); ok {
		path := SplitKey(base)
		existing, _ := p.Lookup(path)
		list, _ := existing.([]string)
		p.Set(path, append(list, value))
		return
	}
	p.Set(SplitKey(name), value)
}

// SplitKey splits a parameter name into its key path. "user[page]" becomes
// ["user", "page"]. A name without brackets is a single flat key, dots
// included: "user.page" stays ["user.page"].
func SplitKey(name string) []string {
	head, rest, ok := strings.Cut(name, "[")
	if !ok {
		return []string{name}
	}
	parts := []string{head}
	for rest != "" {
		seg, after, found := strings.Cut(rest, "]")
		if !found {
			break
		}
		parts = append(parts, seg)
		rest = strings.TrimPrefix(after, "[")
	}
	return lo.Compact(parts)
}

// IsNested reports whether name addresses a nested key.
func IsNested(name string) bool {
	return strings.Contains(name, "[")
}

// Set stores v under path, creating intermediate maps as needed. Intermediate
// values that are not maps are replaced.
func (p Params) Set(path []string, v any) {
	if len(path) == 0 {
		return
	}
	m := p
	for _, k := range path[:len(path)-1] {
		child, ok := asParams(m[k])
		if !ok {
			child = Params{}
		}
		m[k] = child
		m = child
	}
	m[path[len(path)-1]] = v
}

// Lookup returns the value stored under path.
func (p Params) Lookup(path []string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	m := p
	for _, k := range path[:len(path)-1] {
		child, ok := asParams(m[k])
		if !ok {
			return nil, false
		}
		m = child
	}
	v, ok := m[path[len(path)-1]]
	return v, ok
}

// Get returns the string value addressed by a parameter name such as "page"
// or "user[page]". It returns "" when the key is absent or not a scalar.
func (p Params) Get(name string) string {
	v, ok := p.Lookup(SplitKey(name))
	if !ok {
		return ""
	}
	s, _ := Scalar(v)
	return s
}

// Clone returns a deep copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	if m, ok := asParams(v); ok {
		return m.Clone()
	}
	if list, ok := v.([]string); ok {
		return slices.Clone(list)
	}
	return v
}

// Except returns a shallow copy of p without the given top-level keys.
func (p Params) Except(keys ...string) Params {
	return Params(lo.OmitByKeys(map[string]any(p), keys))
}

// StripInfrastructure returns a copy of p without InfrastructureKeys.
func (p Params) StripInfrastructure() Params {
	return p.Except(InfrastructureKeys...)
}

// DeepMerge returns a copy of p with other merged in. Nested maps are merged
// recursively; any other value in other replaces the one in p.
func (p Params) DeepMerge(other map[string]any) Params {
	out := p.Clone()
	for k, v := range other {
		src, ok := asParams(v)
		if !ok {
			out[k] = cloneValue(v)
			continue
		}
		if dst, ok := asParams(out[k]); ok {
			out[k] = dst.DeepMerge(src)
		} else {
			out[k] = src.Clone()
		}
	}
	return out
}

// Encode serializes p as a query string in bracket notation with keys sorted
// at every level. Nil values, and maps left empty by them, are omitted.
func (p Params) Encode() string {
	return strings.Join(appendPairs(nil, "", p), "&")
}

func appendPairs(pairs []string, prefix string, v any) []string {
	if m, ok := asParams(v); ok {
		keys := lo.Keys(m)
		slices.Sort(keys)
		for _, k := range keys {
			name := k
			if prefix != "" {
				name = prefix + "[" + k + "]"
			}
			pairs = appendPairs(pairs, name, m[k])
		}
		return pairs
	}
	if list, ok := v.([]string); ok {
		for _, s := range list {
			pairs = append(pairs, url.QueryEscape(prefix+"[]")+"="+url.QueryEscape(s))
		}
		return pairs
	}
	s, ok := Scalar(v)
	if !ok {
		return pairs
	}
	return append(pairs, url.QueryEscape(prefix)+"="+url.QueryEscape(s))
}

// Scalar formats a single parameter value. It reports false for nil, lists
// and maps.
func Scalar(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case bool:
		return strconv.FormatBool(val), true
	case fmt.Stringer:
		return val.String(), true
	case []string, Params, map[string]any:
		return "", false
	default:
		return fmt.Sprint(val), true
	}
}

func asParams(v any) (Params, bool) {
	switch m := v.(type) {
	case Params:
		return m, true
	case map[string]any:
		return Params(m), true
	}
	return nil, false
}
