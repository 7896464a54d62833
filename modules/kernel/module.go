// Package kernel is the base module of every generated project. It owns the
// top-level kernel block: the symbol prefix shared by all generated code,
// the RTOS variant selection and the system tick rate.
package kernel

import (
	"context"
	_ "embed"
	"strings"

	"github.com/prjkit/prjgen/internal/document"
	"github.com/prjkit/prjgen/internal/registry"
	"github.com/prjkit/prjgen/internal/render"
	"github.com/prjkit/prjgen/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

//go:embed templates/kernel.h.tmpl
var headerTemplate string

//go:embed templates/kernel.c.tmpl
var sourceTemplate string

// Module implements registry.Registrar for this package.
type Module struct{}

// Register adds the kernel module to the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Module{
		Name: "kernel",
		Schema: schema.New("kernel",
			&schema.Field{Name: "prefix", Type: schema.CIdentifier(), Default: schema.DefaultVal(cty.StringVal("rtos_"))},
			&schema.Field{Name: "rtos_variant", Type: schema.Enum("acamar", "gatria", "kraz"), Required: true},
			&schema.Field{Name: "tick_rate_hz", Type: schema.Int(), Required: true},
		),
		Fixup:     fixup,
		Templates: render.TemplateSet{Header: headerTemplate, Source: sourceTemplate},
	})
}

// fixup derives the variant selection macro from the chosen variant name.
func fixup(ctx context.Context, el *document.Element, ix *document.Index) error {
	variant := el.AttrString("rtos_variant")
	el.SetAttr("variant_define", cty.StringVal("CONFIG_RTOS_VARIANT_"+strings.ToUpper(variant)))
	return nil
}
