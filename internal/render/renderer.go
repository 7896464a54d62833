package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/prjkit/prjgen/internal/ctxlog"
	"github.com/prjkit/prjgen/internal/document"
)

// TemplateSet is the pair of templates a module renders: one header, one
// source.
type TemplateSet struct {
	Header string
	Source string
}

// Grant names one cross-module value a module's templates may read. The
// value of Attr on the top-level Block element is exposed under Key. Grants
// are the only visibility a module has into other modules' state.
type Grant struct {
	Key   string
	Block string
	Attr  string
}

// Output is the fully rendered text for one module, held in memory until
// every module has rendered successfully.
type Output struct {
	HeaderName string
	SourceName string
	Header     []byte
	Source     []byte
}

// templateFuncs are helpers available in all module templates.
var templateFuncs = template.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	// cmacro turns an arbitrary name into an object-like macro spelling.
	"cmacro": func(s string) string {
		var b strings.Builder
		for _, r := range s {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToUpper(r))
			} else {
				b.WriteRune('_')
			}
		}
		return b.String()
	},
}

// Renderer renders module templates in strict mode: a template referencing
// an undefined variable fails instead of emitting "<no value>".
type Renderer struct{}

// New creates a Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Render projects the derived subtree of one module through its template
// set. grantData holds any cross-module values resolved for this module; it
// may be nil.
func (r *Renderer) Render(ctx context.Context, module string, ts TemplateSet, el *document.Element, grantData map[string]any) (*Output, error) {
	logger := ctxlog.FromContext(ctx)

	data, err := ElementData(el)
	if err != nil {
		return nil, &RenderError{Module: module, Template: "data", Detail: err.Error()}
	}
	for key, val := range grantData {
		data[key] = val
	}

	headerName := module + ".h"
	sourceName := module + ".c"

	headerBody, err := r.execute(module, headerName, ts.Header, data)
	if err != nil {
		return nil, err
	}
	header := wrapIncludeGuard(headerName, headerBody)

	source, err := r.renderSource(module, sourceName, ts.Source, data)
	if err != nil {
		return nil, err
	}

	logger.Debug("Module rendered.", "module", module, "header", headerName, "source", sourceName)
	return &Output{
		HeaderName: headerName,
		SourceName: sourceName,
		Header:     []byte(header),
		Source:     []byte(source),
	}, nil
}

// renderSource renders a possibly sectioned source template: each section is
// rendered separately, type_definitions is sorted into dependency order, and
// the sections are reassembled in the canonical order.
func (r *Renderer) renderSource(module, templateName, text string, data map[string]any) (string, error) {
	sections, err := splitSections(text)
	if err != nil {
		return "", &RenderError{Module: module, Template: templateName, Detail: err.Error()}
	}

	if len(sections) == 1 && sections[0].name == "" {
		return r.execute(module, templateName, sections[0].body, data)
	}

	rendered := make(map[string]string, len(sections))
	for _, sec := range sections {
		body, err := r.execute(module, templateName+"#"+sec.name, sec.body, data)
		if err != nil {
			return "", err
		}
		if sec.name == typedefSection {
			body, err = sortTypedefs(body)
			if err != nil {
				return "", &RenderError{Module: module, Template: templateName + "#" + sec.name, Detail: err.Error()}
			}
		}
		rendered[sec.name] = body
	}
	return assembleSections(rendered), nil
}

// execute parses and runs one template in strict mode.
func (r *Renderer) execute(module, name, text string, data map[string]any) (string, error) {
	tmpl, err := template.New(name).
		Funcs(templateFuncs).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return "", &RenderError{Module: module, Template: name, Detail: err.Error()}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", &RenderError{Module: module, Template: name, Detail: err.Error()}
	}
	return buf.String(), nil
}

// ResolveGrants collects the granted cross-module values for one module from
// the derived document.
func ResolveGrants(module string, grants []Grant, doc *document.Document) (map[string]any, error) {
	if len(grants) == 0 {
		return nil, nil
	}
	data := make(map[string]any, len(grants))
	for _, g := range grants {
		el := doc.ByKind(g.Block)
		if el == nil {
			return nil, &GrantError{Module: module, Key: g.Key, Block: g.Block, Attr: g.Attr}
		}
		v, ok := el.Attr(g.Attr)
		if !ok {
			return nil, &GrantError{Module: module, Key: g.Key, Block: g.Block, Attr: g.Attr}
		}
		native, err := ctyToNative(v)
		if err != nil {
			return nil, fmt.Errorf("grant %q: %w", g.Key, err)
		}
		data[g.Key] = native
	}
	return data, nil
}

// wrapIncludeGuard surrounds rendered header content with an include guard
// derived from the header file name.
func wrapIncludeGuard(headerName, body string) string {
	guard := templateFuncs["cmacro"].(func(string) string)(headerName)
	var b strings.Builder
	fmt.Fprintf(&b, "#ifndef %s\n#define %s\n\n", guard, guard)
	b.WriteString(strings.TrimRight(body, "\n"))
	fmt.Fprintf(&b, "\n\n#endif /* %s */\n", guard)
	return b.String()
}
