// Package tasks owns the tasks block: the ordered list of task definitions
// with their entry functions, stack sizes and priorities. Task identifiers
// are the reference targets for every other component that points at a task.
package tasks

import (
	"context"
	_ "embed"

	"github.com/prjkit/prjgen/internal/document"
	"github.com/prjkit/prjgen/internal/registry"
	"github.com/prjkit/prjgen/internal/render"
	"github.com/prjkit/prjgen/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

//go:embed templates/tasks.h.tmpl
var headerTemplate string

//go:embed templates/tasks.c.tmpl
var sourceTemplate string

// Module implements registry.Registrar for this package.
type Module struct{}

// Register adds the tasks module to the registry.
func (m *Module) Register(r *registry.Registry) {
	taskSchema := schema.New("task",
		&schema.Field{Name: "name", Type: schema.Identifier(), Required: true, Unique: true, Declares: "task"},
		&schema.Field{Name: "function", Type: schema.CIdentifier(), Required: true},
		&schema.Field{Name: "stack_size", Type: schema.Int(), Required: true},
		&schema.Field{Name: "priority", Type: schema.Int(), Default: schema.DefaultVal(cty.NumberIntVal(0))},
		&schema.Field{Name: "queue", Type: schema.Reference("queue")},
	)

	r.Register(&registry.Module{
		Name: "tasks",
		Schema: schema.New("tasks",
			&schema.Field{Name: "task", Type: schema.Elements(taskSchema), Required: true, AutoIdx: true},
		),
		Fixup:     fixup,
		Templates: render.TemplateSet{Header: headerTemplate, Source: sourceTemplate},
		Grants: []render.Grant{
			{Key: "prefix", Block: "kernel", Attr: "prefix"},
		},
	})
}

// fixup derives the aggregate stack and priority figures the templates size
// their tables with.
func fixup(ctx context.Context, el *document.Element, ix *document.Index) error {
	var totalStack, maxPriority int64
	for _, task := range el.List("task") {
		if size, ok := task.AttrInt("stack_size"); ok {
			totalStack += size
		}
		if prio, ok := task.AttrInt("priority"); ok && prio > maxPriority {
			maxPriority = prio
		}
	}
	el.SetAttr("total_stack_size", cty.NumberIntVal(totalStack))
	el.SetAttr("max_priority", cty.NumberIntVal(maxPriority))
	return nil
}
