package schema

import (
	"fmt"
	"math/big"

	"github.com/prjkit/prjgen/internal/document"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

const (
	lengthAttr = "length"
	idxAttr    = "idx"
)

// Validate checks a raw element against the schema and returns its typed
// form. path locates the element for diagnostics; pass the block kind for a
// top-level element.
func (s *Schema) Validate(raw *document.RawElement, path string) (*document.Element, error) {
	return s.validate(raw, path, false)
}

func (s *Schema) validate(raw *document.RawElement, path string, allowIdx bool) (*document.Element, error) {
	el := document.NewElement(raw.Kind, raw.Name, raw.DefRange)

	// A block label is shorthand for the name field.
	if raw.Name != "" {
		field := s.fieldsByName["name"]
		if field == nil || field.Type.Kind == KindElements {
			return nil, &UnexpectedFieldError{
				Path:   path,
				Field:  "name",
				Reason: fmt.Sprintf("element kind %q takes no label", raw.Kind),
			}
		}
		if _, authored := raw.Attrs["name"]; authored {
			return nil, &UnexpectedFieldError{
				Path:   path,
				Field:  "name",
				Reason: "element has both a label and a name attribute",
			}
		}
		v, err := coerceValue(cty.StringVal(raw.Name), field.Type)
		if err != nil {
			return nil, &ViolationError{Path: path, Field: "name", Wanted: describeType(field.Type), Detail: err.Error()}
		}
		el.SetAttr("name", v)
	}

	for _, name := range raw.AttrNames() {
		attr := raw.Attrs[name]

		if name == lengthAttr {
			return nil, &UnexpectedFieldError{
				Path:   path,
				Field:  name,
				Reason: "length is always derived from the item count and cannot be set",
			}
		}
		if name == idxAttr {
			if !allowIdx {
				return nil, &UnexpectedFieldError{
					Path:   path,
					Field:  name,
					Reason: "idx is only settable inside a list that derives item indices",
				}
			}
			v, err := coerceInt(attr.Value)
			if err != nil {
				return nil, &ViolationError{Path: path, Field: name, Wanted: KindInt.String(), Detail: err.Error()}
			}
			// idx becomes an array position in generated code.
			if i, _ := v.AsBigFloat().Int64(); i < 0 {
				return nil, &ViolationError{Path: path, Field: name, Wanted: KindInt.String(), Detail: fmt.Sprintf("%d is negative", i)}
			}
			el.SetAttr(idxAttr, v)
			continue
		}

		field := s.fieldsByName[name]
		if field == nil || field.Type.Kind == KindElements {
			return nil, &UnexpectedFieldError{Path: path, Field: name}
		}

		v, err := coerceValue(attr.Value, field.Type)
		if err != nil {
			return nil, &ViolationError{Path: path, Field: name, Wanted: describeType(field.Type), Detail: err.Error()}
		}
		el.SetAttr(name, v)
	}

	// Absent fields: apply defaults, then enforce required.
	for _, field := range s.fields {
		if field.Type.Kind == KindElements {
			continue
		}
		if _, set := el.Attr(field.Name); set {
			continue
		}
		if field.Default != nil {
			el.SetAttr(field.Name, *field.Default)
			continue
		}
		if field.Required {
			return nil, &MissingFieldError{Path: path, Field: field.Name}
		}
	}

	// Child blocks must each belong to a declared element list.
	counts := map[string]int{}
	for _, child := range raw.Children {
		field := s.fieldsByName[child.Kind]
		if field == nil || field.Type.Kind != KindElements {
			return nil, &UnexpectedFieldError{Path: path, Field: child.Kind}
		}
		childPath := fmt.Sprintf("%s.%s[%d]", path, child.Kind, counts[child.Kind])
		counts[child.Kind]++
		typed, err := field.Type.ElementSchema.validate(child, childPath, field.AutoIdx)
		if err != nil {
			return nil, err
		}
		el.AppendChild(typed)
	}

	for _, field := range s.ElementFields() {
		if field.Required && el.Length(field.Name) == 0 {
			return nil, &MissingFieldError{Path: path, Field: field.Name}
		}
		// An empty optional list still projects with length zero.
		el.EnsureList(field.Name)
	}

	return el, nil
}

// coerceValue converts a raw literal into the canonical cty form for the
// field type.
func coerceValue(v cty.Value, t *Type) (cty.Value, error) {
	switch t.Kind {
	case KindInt:
		return coerceInt(v)

	case KindBool:
		out, err := convert.Convert(v, cty.Bool)
		if err != nil {
			return cty.NilVal, fmt.Errorf("got %s", v.Type().FriendlyName())
		}
		return out, nil

	case KindString:
		out, err := convert.Convert(v, cty.String)
		if err != nil {
			return cty.NilVal, fmt.Errorf("got %s", v.Type().FriendlyName())
		}
		return out, nil

	case KindIdentifier, KindReference:
		str, err := stringValue(v)
		if err != nil {
			return cty.NilVal, err
		}
		if !ValidIdentifier(str) {
			return cty.NilVal, fmt.Errorf("%q is not a lowercase identifier", str)
		}
		return cty.StringVal(str), nil

	case KindCIdentifier:
		str, err := stringValue(v)
		if err != nil {
			return cty.NilVal, err
		}
		if !ValidCIdentifier(str) {
			return cty.NilVal, fmt.Errorf("%q is not a valid C identifier", str)
		}
		return cty.StringVal(str), nil

	case KindEnum:
		str, err := stringValue(v)
		if err != nil {
			return cty.NilVal, err
		}
		for _, allowed := range t.EnumValues {
			if str == allowed {
				return cty.StringVal(str), nil
			}
		}
		return cty.NilVal, fmt.Errorf("%q is not one of %v", str, t.EnumValues)

	case KindList:
		if !v.Type().IsTupleType() && !v.Type().IsListType() {
			return cty.NilVal, fmt.Errorf("got %s", v.Type().FriendlyName())
		}
		var items []cty.Value
		for it := v.ElementIterator(); it.Next(); {
			_, item := it.Element()
			coerced, err := coerceValue(item, t.Elem)
			if err != nil {
				return cty.NilVal, err
			}
			items = append(items, coerced)
		}
		if len(items) == 0 {
			return cty.EmptyTupleVal, nil
		}
		return cty.TupleVal(items), nil
	}

	return cty.NilVal, fmt.Errorf("unsupported field kind %s", t.Kind)
}

func coerceInt(v cty.Value) (cty.Value, error) {
	out, err := convert.Convert(v, cty.Number)
	if err != nil {
		return cty.NilVal, fmt.Errorf("got %s", v.Type().FriendlyName())
	}
	if _, acc := out.AsBigFloat().Int64(); acc != big.Exact {
		return cty.NilVal, fmt.Errorf("%s is not a whole number", out.AsBigFloat().Text('g', -1))
	}
	return out, nil
}

func stringValue(v cty.Value) (string, error) {
	if v.Type() != cty.String {
		return "", fmt.Errorf("got %s", v.Type().FriendlyName())
	}
	return v.AsString(), nil
}

func describeType(t *Type) string {
	switch t.Kind {
	case KindEnum:
		return fmt.Sprintf("one of %v", t.EnumValues)
	case KindReference:
		return fmt.Sprintf("reference to a %s identifier", t.RefKind)
	case KindList:
		return fmt.Sprintf("list of %s", describeType(t.Elem))
	}
	return t.Kind.String()
}
