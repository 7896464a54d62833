package registry

import "fmt"

// DuplicateIdentifierError reports two sibling items sharing a value that
// must be pairwise distinct, or two declarations claiming the same
// identifier. First and Second locate both offending items.
type DuplicateIdentifierError struct {
	Field  string
	Value  string
	First  string
	Second string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate %s %q: declared by both %s and %s", e.Field, e.Value, e.First, e.Second)
}

// ReferenceError reports a reference field whose target identifier is not
// declared anywhere in the merged document.
type ReferenceError struct {
	Path   string
	Field  string
	Kind   string
	Target string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: field %q references %s %q, which is not declared anywhere in the project", e.Path, e.Field, e.Kind, e.Target)
}
