package registry

import (
	"fmt"

	"github.com/prjkit/prjgen/internal/document"
	"github.com/prjkit/prjgen/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// applyDefaultFixups runs the shared derivation stage on one validated
// element: automatic idx assignment and sibling uniqueness for every config
// list, recursively. Every module passes through this stage before its own
// fixup, so no module reimplements list bookkeeping. List lengths need no
// write here: they are always computed live from the lists themselves.
func applyDefaultFixups(el *document.Element, s *schema.Schema, path string) error {
	for _, field := range s.ElementFields() {
		items := el.List(field.Name)

		if field.AutoIdx {
			if err := assignIndices(items, field.Name, path); err != nil {
				return err
			}
		}

		for _, itemField := range field.Type.ElementSchema.Fields() {
			if !itemField.Unique {
				continue
			}
			if err := checkUnique(items, field.Name, itemField.Name, path); err != nil {
				return err
			}
		}

		for i, item := range items {
			itemPath := fmt.Sprintf("%s.%s[%d]", path, field.Name, i)
			if err := applyDefaultFixups(item, field.Type.ElementSchema, itemPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// assignIndices derives the idx attribute for list items. An explicitly
// authored idx claims that position; the remaining items take the lowest
// unclaimed indices in document order.
func assignIndices(items []*document.Element, listName, path string) error {
	claimed := map[int64]int{}
	for i, item := range items {
		idx, ok := item.AttrInt("idx")
		if !ok {
			continue
		}
		if prev, dup := claimed[idx]; dup {
			return &DuplicateIdentifierError{
				Field:  "idx",
				Value:  fmt.Sprintf("%d", idx),
				First:  fmt.Sprintf("%s.%s[%d]", path, listName, prev),
				Second: fmt.Sprintf("%s.%s[%d]", path, listName, i),
			}
		}
		claimed[idx] = i
	}

	next := int64(0)
	for _, item := range items {
		if _, ok := item.AttrInt("idx"); ok {
			continue
		}
		for {
			if _, taken := claimed[next]; !taken {
				break
			}
			next++
		}
		item.SetAttr("idx", cty.NumberIntVal(next))
		next++
	}
	return nil
}

// checkUnique enforces pairwise distinct values of one field across sibling
// items.
func checkUnique(items []*document.Element, listName, fieldName, path string) error {
	seen := map[string]int{}
	for i, item := range items {
		v, ok := item.Attr(fieldName)
		if !ok {
			continue
		}
		key := valueKey(v)
		if prev, dup := seen[key]; dup {
			return &DuplicateIdentifierError{
				Field:  fieldName,
				Value:  key,
				First:  fmt.Sprintf("%s.%s[%d]", path, listName, prev),
				Second: fmt.Sprintf("%s.%s[%d]", path, listName, i),
			}
		}
		seen[key] = i
	}
	return nil
}

// valueKey flattens a coerced attribute value into a comparable string.
func valueKey(v cty.Value) string {
	switch v.Type() {
	case cty.String:
		return v.AsString()
	case cty.Number:
		return v.AsBigFloat().Text('g', -1)
	case cty.Bool:
		return fmt.Sprintf("%t", v.True())
	}
	return v.GoString()
}
