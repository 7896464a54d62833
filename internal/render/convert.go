package render

import (
	"fmt"
	"math/big"

	"github.com/prjkit/prjgen/internal/document"
	"github.com/zclconf/go-cty/cty"
)

// ctyToNative recursively converts a cty.Value to its most natural Go
// counterpart for use as template data. Whole numbers become int64 so they
// print as plain integers in generated code.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return i, nil
		}
		f, _ := bf.Float64()
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType():
		slice := make([]any, 0)
		for it := v.ElementIterator(); it.Next(); {
			_, item := it.Element()
			native, err := ctyToNative(item)
			if err != nil {
				return nil, err
			}
			slice = append(slice, native)
		}
		return slice, nil
	}

	return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
}

// ElementData projects a typed element into the map consumed by templates.
// Attributes appear under their own names; each config list appears under
// its item kind as {items: [...], length: N}, so templates read derived
// collection attributes the same way as authored ones.
func ElementData(el *document.Element) (map[string]any, error) {
	data := make(map[string]any, len(el.AttrNames())+len(el.ListKinds()))

	for _, name := range el.AttrNames() {
		v, _ := el.Attr(name)
		native, err := ctyToNative(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		data[name] = native
	}

	for _, kind := range el.ListKinds() {
		list := el.List(kind)
		items := make([]any, 0, len(list))
		for _, item := range list {
			itemData, err := ElementData(item)
			if err != nil {
				return nil, fmt.Errorf("%s item: %w", kind, err)
			}
			items = append(items, itemData)
		}
		data[kind] = map[string]any{
			"items":  items,
			"length": len(items),
		}
	}

	return data, nil
}
