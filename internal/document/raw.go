package document

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// RawAttr is a single attribute as written in a configuration file, before
// any schema has seen it. The value is the literal result of evaluating the
// attribute expression; the range points back at the source for diagnostics.
type RawAttr struct {
	Value cty.Value
	Range hcl.Range
}

// RawElement is one element of the merged, untyped project tree. Kind is the
// block type, Name the optional block label. Children appear in document
// order, with included files already spliced in.
type RawElement struct {
	Kind     string
	Name     string
	Attrs    map[string]RawAttr
	Children []*RawElement
	DefRange hcl.Range

	attrOrder []string
}

// NewRawElement creates an empty raw element of the given kind.
func NewRawElement(kind, name string, defRange hcl.Range) *RawElement {
	return &RawElement{
		Kind:     kind,
		Name:     name,
		Attrs:    map[string]RawAttr{},
		DefRange: defRange,
	}
}

// SetAttr records an attribute, remembering first-write order so later
// iteration is deterministic.
func (e *RawElement) SetAttr(name string, attr RawAttr) {
	if _, ok := e.Attrs[name]; !ok {
		e.attrOrder = append(e.attrOrder, name)
	}
	e.Attrs[name] = attr
}

// AttrNames returns the attribute names in the order they were recorded.
func (e *RawElement) AttrNames() []string {
	return e.attrOrder
}

// Raw is the fully merged project document as produced by a single resolver
// run: every include directive has been replaced by the content of the file
// it named.
type Raw struct {
	// Elements are the top-level elements in document order.
	Elements []*RawElement

	// RootFile is the canonical path of the file resolution started from.
	RootFile string
}
