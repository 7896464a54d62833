package document

// Index records every declared identifier in the merged document, grouped by
// the kind of thing it names (task, queue, ...). Reference fields resolve
// against it, so an identifier declared in an included file is visible to
// every module.
type Index struct {
	byKind map[string]map[string]*Element
}

// NewIndex creates an empty identifier index.
func NewIndex() *Index {
	return &Index{byKind: map[string]map[string]*Element{}}
}

// Declare records that name identifies el among identifiers of the given
// kind. It reports whether the name was new; a false return means another
// element already claimed it, and the caller decides how to fail.
func (ix *Index) Declare(kind, name string, el *Element) (prev *Element, ok bool) {
	names, exists := ix.byKind[kind]
	if !exists {
		names = map[string]*Element{}
		ix.byKind[kind] = names
	}
	if existing, dup := names[name]; dup {
		return existing, false
	}
	names[name] = el
	return nil, true
}

// Resolve looks up the element declared under name for the given kind.
func (ix *Index) Resolve(kind, name string) (*Element, bool) {
	el, ok := ix.byKind[kind][name]
	return el, ok
}
