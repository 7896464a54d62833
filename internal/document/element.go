package document

import (
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Element is one node of the validated, typed project tree. Attributes hold
// coerced cty values; schema validation writes the declared fields and module
// fixups add derived ones. Child elements are grouped into ordered lists by
// kind, mirroring how same-kind blocks form a config list in the input.
type Element struct {
	Kind     string
	Name     string
	DefRange hcl.Range

	attrs     map[string]cty.Value
	attrOrder []string

	lists     map[string][]*Element
	listKinds []string
}

// NewElement creates an empty typed element of the given kind.
func NewElement(kind, name string, defRange hcl.Range) *Element {
	return &Element{
		Kind:     kind,
		Name:     name,
		DefRange: defRange,
		attrs:    map[string]cty.Value{},
		lists:    map[string][]*Element{},
	}
}

// SetAttr writes an attribute value. Fixups use this for derived values;
// first-write order is preserved for deterministic projection.
func (e *Element) SetAttr(name string, v cty.Value) {
	if _, ok := e.attrs[name]; !ok {
		e.attrOrder = append(e.attrOrder, name)
	}
	e.attrs[name] = v
}

// Attr returns the value of an attribute and whether it is set.
func (e *Element) Attr(name string) (cty.Value, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

// AttrNames returns attribute names in first-write order.
func (e *Element) AttrNames() []string {
	return e.attrOrder
}

// AttrString returns a string attribute, or the empty string if unset.
func (e *Element) AttrString(name string) string {
	v, ok := e.attrs[name]
	if !ok || v.Type() != cty.String {
		return ""
	}
	return v.AsString()
}

// AttrInt returns an integer attribute and whether it is set as a whole
// number.
func (e *Element) AttrInt(name string) (int64, bool) {
	v, ok := e.attrs[name]
	if !ok || v.Type() != cty.Number {
		return 0, false
	}
	i, acc := v.AsBigFloat().Int64()
	if acc != big.Exact {
		return 0, false
	}
	return i, true
}

// AttrBool returns a boolean attribute, or false if unset.
func (e *Element) AttrBool(name string) bool {
	v, ok := e.attrs[name]
	if !ok || v.Type() != cty.Bool {
		return false
	}
	return v.True()
}

// AppendChild adds an item to the config list for its kind, preserving
// document order.
func (e *Element) AppendChild(child *Element) {
	if _, ok := e.lists[child.Kind]; !ok {
		e.listKinds = append(e.listKinds, child.Kind)
	}
	e.lists[child.Kind] = append(e.lists[child.Kind], child)
}

// EnsureList registers a config list kind even when no items exist, so an
// empty list projects as length zero instead of being absent.
func (e *Element) EnsureList(kind string) {
	if _, ok := e.lists[kind]; !ok {
		e.listKinds = append(e.listKinds, kind)
		e.lists[kind] = nil
	}
}

// List returns the ordered config list of child elements of the given kind.
func (e *Element) List(kind string) []*Element {
	return e.lists[kind]
}

// ListKinds returns the child list kinds in first-appearance order.
func (e *Element) ListKinds() []string {
	return e.listKinds
}

// Length returns the live item count of the config list of the given kind.
// It is always derived from the list itself and never stored.
func (e *Element) Length(kind string) int {
	return len(e.lists[kind])
}

// Document is the derived project model: one typed element per registered
// module subtree, plus the identifier index built across all of them.
type Document struct {
	Elements []*Element
	Index    *Index
}

// ByKind returns the top-level element of the given kind, or nil.
func (d *Document) ByKind(kind string) *Element {
	for _, el := range d.Elements {
		if el.Kind == kind {
			return el
		}
	}
	return nil
}
