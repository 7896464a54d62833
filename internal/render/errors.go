package render

import "fmt"

// RenderError reports a template that failed to parse or execute. Detail
// carries the underlying template engine message, which names the missing
// variable for strict-mode misses.
type RenderError struct {
	Module   string
	Template string
	Detail   string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("module %q: template %q: %s", e.Module, e.Template, e.Detail)
}

// GrantError reports a cross-module grant whose source value does not exist
// in the derived document.
type GrantError struct {
	Module string
	Key    string
	Block  string
	Attr   string
}

func (e *GrantError) Error() string {
	return fmt.Sprintf("module %q: grant %q: no attribute %q on block %q", e.Module, e.Key, e.Attr, e.Block)
}
