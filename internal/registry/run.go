package registry

import (
	"context"
	"fmt"

	"github.com/prjkit/prjgen/internal/ctxlog"
	"github.com/prjkit/prjgen/internal/document"
	"github.com/prjkit/prjgen/internal/schema"
)

// Run drives the validation and derivation pipeline over a merged raw
// document: per matched subtree it validates against the module schema, runs
// the shared default fixups, then builds the document-wide identifier index,
// resolves every reference field against it and finally runs each module's
// custom fixup. The result is the fully derived document model.
func (r *Registry) Run(ctx context.Context, raw *document.Raw) (*document.Document, error) {
	logger := ctxlog.FromContext(ctx)

	doc := &document.Document{Index: document.NewIndex()}
	matched := map[string]*Module{}

	for _, rawEl := range raw.Elements {
		mod := r.byKind[rawEl.Kind]
		if mod == nil {
			return nil, &schema.UnexpectedFieldError{
				Path:   "project",
				Field:  rawEl.Kind,
				Reason: "no module is registered for this element kind",
			}
		}
		if _, dup := matched[rawEl.Kind]; dup {
			return nil, &schema.UnexpectedFieldError{
				Path:   "project",
				Field:  rawEl.Kind,
				Reason: "element kind appears more than once in the merged document",
			}
		}

		el, err := mod.Schema.Validate(rawEl, rawEl.Kind)
		if err != nil {
			return nil, err
		}
		if err := applyDefaultFixups(el, mod.Schema, el.Kind); err != nil {
			return nil, err
		}

		matched[rawEl.Kind] = mod
		doc.Elements = append(doc.Elements, el)
		logger.Debug("Subtree validated.", "module", mod.Name, "kind", rawEl.Kind)
	}

	// Index declared identifiers across the whole merged document before
	// resolving any reference, so declarations from included files are
	// visible everywhere.
	for _, el := range doc.Elements {
		if err := declareIdentifiers(el, matched[el.Kind].Schema, el.Kind, doc.Index); err != nil {
			return nil, err
		}
	}
	for _, el := range doc.Elements {
		if err := resolveReferences(el, matched[el.Kind].Schema, el.Kind, doc.Index); err != nil {
			return nil, err
		}
	}

	for _, mod := range r.modules {
		el := doc.ByKind(mod.BlockKind)
		if el == nil || mod.Fixup == nil {
			continue
		}
		if err := mod.Fixup(ctx, el, doc.Index); err != nil {
			return nil, fmt.Errorf("module %q fixup: %w", mod.Name, err)
		}
		logger.Debug("Custom fixup applied.", "module", mod.Name)
	}

	logger.Debug("Derived document model complete.", "subtrees", len(doc.Elements))
	return doc, nil
}

// declareIdentifiers walks one validated subtree and records every field
// flagged as declaring an identifier kind into the index.
func declareIdentifiers(el *document.Element, s *schema.Schema, path string, ix *document.Index) error {
	for _, field := range s.Fields() {
		if field.Declares == "" || field.Type.Kind == schema.KindElements {
			continue
		}
		v, ok := el.Attr(field.Name)
		if !ok {
			continue
		}
		name := v.AsString()
		if prev, ok := ix.Declare(field.Declares, name, el); !ok {
			return &DuplicateIdentifierError{
				Field:  field.Declares,
				Value:  name,
				First:  prev.Kind + " at " + prev.DefRange.String(),
				Second: el.Kind + " at " + el.DefRange.String(),
			}
		}
	}
	for _, field := range s.ElementFields() {
		for i, item := range el.List(field.Name) {
			itemPath := fmt.Sprintf("%s.%s[%d]", path, field.Name, i)
			if err := declareIdentifiers(item, field.Type.ElementSchema, itemPath, ix); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveReferences checks every reference field in one subtree against the
// identifier index.
func resolveReferences(el *document.Element, s *schema.Schema, path string, ix *document.Index) error {
	for _, field := range s.Fields() {
		if field.Type.Kind != schema.KindReference {
			continue
		}
		v, ok := el.Attr(field.Name)
		if !ok {
			continue
		}
		target := v.AsString()
		if _, found := ix.Resolve(field.Type.RefKind, target); !found {
			return &ReferenceError{
				Path:   path,
				Field:  field.Name,
				Kind:   field.Type.RefKind,
				Target: target,
			}
		}
	}
	for _, field := range s.ElementFields() {
		for i, item := range el.List(field.Name) {
			itemPath := fmt.Sprintf("%s.%s[%d]", path, field.Name, i)
			if err := resolveReferences(item, field.Type.ElementSchema, itemPath, ix); err != nil {
				return err
			}
		}
	}
	return nil
}
