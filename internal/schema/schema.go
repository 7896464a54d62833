package schema

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Field declares one attribute or child list of an element.
type Field struct {
	Name string
	Type *Type

	// Required rejects elements where the field is absent.
	Required bool

	// Default is applied when the field is absent and not required.
	Default *cty.Value

	// Unique enforces pairwise distinct values among sibling items of one
	// config list. Only meaningful on fields of an element schema.
	Unique bool

	// Declares names the identifier kind this field introduces into the
	// document index, making the value a target for reference fields.
	Declares string

	// AutoIdx asks for automatic zero-based idx derivation on the items of
	// a KindElements field. Items may still set idx explicitly to override
	// their own position.
	AutoIdx bool
}

// Schema declares the full attribute and child-list surface of one element
// kind. Anything not declared here is rejected during validation.
type Schema struct {
	// Block is the element kind this schema validates.
	Block string

	fields       []*Field
	fieldsByName map[string]*Field
}

// New assembles a schema for the given block kind. Duplicate field names and
// reserved derived names are programmer errors and panic at construction.
func New(block string, fields ...*Field) *Schema {
	s := &Schema{
		Block:        block,
		fields:       fields,
		fieldsByName: make(map[string]*Field, len(fields)),
	}
	for _, f := range fields {
		if f.Name == lengthAttr || f.Name == idxAttr {
			panic(fmt.Sprintf("schema %q declares reserved derived field %q", block, f.Name))
		}
		if _, dup := s.fieldsByName[f.Name]; dup {
			panic(fmt.Sprintf("schema %q declares field %q twice", block, f.Name))
		}
		s.fieldsByName[f.Name] = f
	}
	return s
}

// Fields returns the declared fields in declaration order.
func (s *Schema) Fields() []*Field {
	return s.fields
}

// Field returns the declared field of the given name, or nil.
func (s *Schema) Field(name string) *Field {
	return s.fieldsByName[name]
}

// ElementFields returns the declared KindElements fields in declaration
// order. These are the config lists the default fixup pipeline operates on.
func (s *Schema) ElementFields() []*Field {
	var out []*Field
	for _, f := range s.fields {
		if f.Type.Kind == KindElements {
			out = append(out, f)
		}
	}
	return out
}
