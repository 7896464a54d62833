// Package queues owns the queues block: fixed-size message queues with an
// item size and depth each. Queue identifiers are the targets task
// definitions point at through their queue reference.
package queues

import (
	"context"
	_ "embed"

	"github.com/prjkit/prjgen/internal/document"
	"github.com/prjkit/prjgen/internal/registry"
	"github.com/prjkit/prjgen/internal/render"
	"github.com/prjkit/prjgen/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

//go:embed templates/queues.h.tmpl
var headerTemplate string

//go:embed templates/queues.c.tmpl
var sourceTemplate string

// Module implements registry.Registrar for this package.
type Module struct{}

// Register adds the queues module to the registry.
func (m *Module) Register(r *registry.Registry) {
	queueSchema := schema.New("queue",
		&schema.Field{Name: "name", Type: schema.Identifier(), Required: true, Unique: true, Declares: "queue"},
		&schema.Field{Name: "item_size", Type: schema.Int(), Required: true},
		&schema.Field{Name: "depth", Type: schema.Int(), Required: true},
	)

	r.Register(&registry.Module{
		Name: "queues",
		Schema: schema.New("queues",
			&schema.Field{Name: "queue", Type: schema.Elements(queueSchema), AutoIdx: true},
		),
		Fixup:     fixup,
		Templates: render.TemplateSet{Header: headerTemplate, Source: sourceTemplate},
		Grants: []render.Grant{
			{Key: "prefix", Block: "kernel", Attr: "prefix"},
		},
	})
}

// fixup derives the total backing storage the queue buffers occupy.
func fixup(ctx context.Context, el *document.Element, ix *document.Index) error {
	var total int64
	for _, q := range el.List("queue") {
		itemSize, _ := q.AttrInt("item_size")
		depth, _ := q.AttrInt("depth")
		total += itemSize * depth
	}
	el.SetAttr("total_buffer_bytes", cty.NumberIntVal(total))
	return nil
}
