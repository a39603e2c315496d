// Package template renders view partials with html/template. Built-in views
// are embedded in the binary; a user view directory may override any of them
// by relative path.
package template

import (
	"fmt"
	"html/template"
)

// FuncMap returns the custom template functions available to all views.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"safeHTML": safeHTML,
		"dict":     dict,
		"slice":    sliceHelper,

		// Partial helper; the Engine replaces it with one bound to its
		// template set.
		"partial": func(name string, ctx any) (template.HTML, error) {
			return "", fmt.Errorf("partial %q: no engine bound", name)
		},
	}
}

// safeHTML marks a string as safe HTML so Go templates will not escape it.
func safeHTML(s string) template.HTML {
	return template.HTML(s)
}

// dict creates a map[string]any from alternating key-value pairs.
// Example usage in templates: {{ dict "key1" "val1" "key2" "val2" }}
func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key at position %d is not a string", i)
		}
		m[key] = values[i+1]
	}
	return m, nil
}

// sliceHelper creates a slice from its arguments.
// Registered as "slice" in the template func map.
func sliceHelper(values ...any) []any {
	return values
}
