package schema

import (
	"regexp"

	"github.com/zclconf/go-cty/cty"
)

// FieldKind enumerates the value shapes a schema field can declare.
type FieldKind int

const (
	KindInt FieldKind = iota
	KindBool
	KindString
	KindIdentifier
	KindCIdentifier
	KindEnum
	KindReference
	KindList
	KindElements
)

// String returns the user-facing name of the kind, used in diagnostics.
func (k FieldKind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	case KindIdentifier:
		return "identifier"
	case KindCIdentifier:
		return "C identifier"
	case KindEnum:
		return "enumeration"
	case KindReference:
		return "reference"
	case KindList:
		return "list"
	case KindElements:
		return "element list"
	}
	return "unknown"
}

// Type describes the value a field accepts. Exactly one of the auxiliary
// members is meaningful, depending on Kind.
type Type struct {
	Kind FieldKind

	// EnumValues is the allowed value set for KindEnum.
	EnumValues []string

	// RefKind is the identifier kind a KindReference field must resolve
	// against.
	RefKind string

	// Elem is the element type for KindList.
	Elem *Type

	// ElementSchema validates the child blocks of a KindElements field.
	ElementSchema *Schema
}

// Int declares an integer field type.
func Int() *Type { return &Type{Kind: KindInt} }

// Bool declares a boolean field type.
func Bool() *Type { return &Type{Kind: KindBool} }

// String declares a free-form string field type.
func String() *Type { return &Type{Kind: KindString} }

// Identifier declares a lowercase internal-name field type.
func Identifier() *Type { return &Type{Kind: KindIdentifier} }

// CIdentifier declares a field whose value becomes a symbol in generated
// code.
func CIdentifier() *Type { return &Type{Kind: KindCIdentifier} }

// Enum declares a string field restricted to the given values.
func Enum(values ...string) *Type { return &Type{Kind: KindEnum, EnumValues: values} }

// Reference declares an identifier field that must resolve to a declared
// identifier of the given kind somewhere in the merged document.
func Reference(kind string) *Type { return &Type{Kind: KindReference, RefKind: kind} }

// List declares an ordered list of values of the given element type.
func List(elem *Type) *Type { return &Type{Kind: KindList, Elem: elem} }

// Elements declares an ordered config list of child blocks validated by the
// given schema.
func Elements(child *Schema) *Type { return &Type{Kind: KindElements, ElementSchema: child} }

var identifierPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// ValidIdentifier reports whether s is a legal internal identifier:
// non-empty, lowercase ASCII letters, digits and underscore only.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

var cIdentifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// cReservedWords are the C language keywords; a CIdentifier value must not
// collide with any of them.
var cReservedWords = map[string]struct{}{
	"auto": {}, "break": {}, "case": {}, "char": {}, "const": {},
	"continue": {}, "default": {}, "do": {}, "double": {}, "else": {},
	"enum": {}, "extern": {}, "float": {}, "for": {}, "goto": {},
	"if": {}, "inline": {}, "int": {}, "long": {}, "register": {},
	"restrict": {}, "return": {}, "short": {}, "signed": {}, "sizeof": {},
	"static": {}, "struct": {}, "switch": {}, "typedef": {}, "union": {},
	"unsigned": {}, "void": {}, "volatile": {}, "while": {},
}

// ValidCIdentifier reports whether s is a legal identifier in the generated
// code's target language: letter or underscore first, alphanumerics and
// underscore after, and not a reserved word.
func ValidCIdentifier(s string) bool {
	if !cIdentifierPattern.MatchString(s) {
		return false
	}
	_, reserved := cReservedWords[s]
	return !reserved
}

// DefaultVal wraps a cty value for use as a field default.
func DefaultVal(v cty.Value) *cty.Value { return &v }
