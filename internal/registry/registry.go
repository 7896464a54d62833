package registry

import (
	"context"
	"fmt"

	"github.com/prjkit/prjgen/internal/document"
	"github.com/prjkit/prjgen/internal/render"
	"github.com/prjkit/prjgen/internal/schema"
)

// FixupFunc is a module's custom derivation step. It receives the validated
// and defaulted subtree plus the document-wide identifier index, and either
// augments the subtree in place or fails with a module-specific error.
type FixupFunc func(ctx context.Context, el *document.Element, ix *document.Index) error

// Module bundles everything the pipeline knows about one element kind: its
// schema, its custom fixup, its output templates and the cross-module values
// its templates are granted. Modules are created at registry initialization
// and never mutated during a run.
type Module struct {
	Name      string
	BlockKind string
	Schema    *schema.Schema
	Fixup     FixupFunc
	Templates render.TemplateSet
	Grants    []render.Grant
}

// Registrar is implemented by each module package to add itself to the
// registry.
type Registrar interface {
	Register(r *Registry)
}

// Registry is the set of registered modules for one application instance.
type Registry struct {
	modules []*Module
	byKind  map[string]*Module
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byKind: map[string]*Module{}}
}

// Register adds a module. Registering two modules for the same element kind
// is a programmer error and panics at startup.
func (r *Registry) Register(m *Module) {
	if m.BlockKind == "" {
		m.BlockKind = m.Name
	}
	if _, dup := r.byKind[m.BlockKind]; dup {
		panic(fmt.Sprintf("registry: element kind %q registered twice", m.BlockKind))
	}
	r.byKind[m.BlockKind] = m
	r.modules = append(r.modules, m)
}

// Modules returns all registered modules in registration order.
func (r *Registry) Modules() []*Module {
	return r.modules
}

// ByKind returns the module registered for an element kind, or nil.
func (r *Registry) ByKind(kind string) *Module {
	return r.byKind[kind]
}
