// Package interrupts owns the interrupts block: the mapping from interrupt
// vectors to handler functions, optionally waking a task. Vector numbers
// must be pairwise distinct; item order in the generated table follows the
// document, so this module does not ask for derived indices.
package interrupts

import (
	_ "embed"

	"github.com/prjkit/prjgen/internal/registry"
	"github.com/prjkit/prjgen/internal/render"
	"github.com/prjkit/prjgen/internal/schema"
)

//go:embed templates/interrupts.h.tmpl
var headerTemplate string

//go:embed templates/interrupts.c.tmpl
var sourceTemplate string

// Module implements registry.Registrar for this package.
type Module struct{}

// Register adds the interrupts module to the registry.
func (m *Module) Register(r *registry.Registry) {
	interruptSchema := schema.New("interrupt",
		&schema.Field{Name: "name", Type: schema.Identifier(), Required: true, Unique: true, Declares: "interrupt"},
		&schema.Field{Name: "vector", Type: schema.Int(), Required: true, Unique: true},
		&schema.Field{Name: "handler", Type: schema.CIdentifier(), Required: true},
		&schema.Field{Name: "task", Type: schema.Reference("task")},
	)

	r.Register(&registry.Module{
		Name: "interrupts",
		Schema: schema.New("interrupts",
			&schema.Field{Name: "interrupt", Type: schema.Elements(interruptSchema)},
		),
		Templates: render.TemplateSet{Header: headerTemplate, Source: sourceTemplate},
		Grants: []render.Grant{
			{Key: "prefix", Block: "kernel", Attr: "prefix"},
		},
	})
}
