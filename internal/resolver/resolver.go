package resolver

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/prjkit/prjgen/internal/ctxlog"
	"github.com/prjkit/prjgen/internal/document"
	"github.com/prjkit/prjgen/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

const (
	includeKind    = "include"
	includeAttr    = "file"
	searchPathAttr = "search_path"
)

// state tracks a file's position in the resolution walk; in-progress files
// are on the current include chain, so reaching one again is a cycle.
type state int

const (
	stateUnvisited state = iota
	stateInProgress
	stateDone
)

// Resolver merges a root file and its includes into one raw document tree.
// It is scoped to a single run: the parse cache and visiting set die with
// the instance.
type Resolver struct {
	parser      *hclparse.Parser
	searchPaths []string

	states map[string]state
	cache  map[string][]*document.RawElement
	stack  []string
}

// New creates a resolver for one run. searchPaths are the invocation-time
// include directories, highest precedence first; paths declared in the
// project root file are appended after them.
func New(searchPaths ...string) *Resolver {
	return &Resolver{
		parser:      hclparse.NewParser(),
		searchPaths: append([]string(nil), searchPaths...),
		states:      map[string]state{},
		cache:       map[string][]*document.RawElement{},
	}
}

// Resolve parses the root project file, merges every included file into it
// and returns the merged raw document.
func (r *Resolver) Resolve(ctx context.Context, rootFile string) (*document.Raw, error) {
	logger := ctxlog.FromContext(ctx)

	if !fsutil.FileExists(rootFile) {
		return nil, &IncludeNotFoundError{Path: rootFile, Attempted: []string{rootFile}}
	}
	canon, err := fsutil.Canonical(rootFile)
	if err != nil {
		return nil, fmt.Errorf("canonicalize %s: %w", rootFile, err)
	}
	logger.Debug("Resolving project document.", "root", canon, "search_paths", r.searchPaths)

	body, err := r.parseFile(canon)
	if err != nil {
		return nil, err
	}

	declared, err := r.declaredSearchPaths(body, canon)
	if err != nil {
		return nil, err
	}
	// Invocation-time paths stay in front: they win when both name a file.
	r.searchPaths = append(r.searchPaths, declared...)

	r.states[canon] = stateInProgress
	r.stack = append(r.stack, canon)
	elements, err := r.convertTopLevel(ctx, body, canon, true)
	if err != nil {
		return nil, err
	}
	r.states[canon] = stateDone
	r.stack = r.stack[:len(r.stack)-1]

	logger.Debug("Project document resolved.", "top_level_elements", len(elements))
	return &document.Raw{Elements: elements, RootFile: canon}, nil
}

// declaredSearchPaths reads the optional search_path attribute of the root
// file. Relative entries are taken relative to the root file's directory.
func (r *Resolver) declaredSearchPaths(body *hclsyntax.Body, rootFile string) ([]string, error) {
	attr, ok := body.Attributes[searchPathAttr]
	if !ok {
		return nil, nil
	}
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s: evaluate %s: %w", rootFile, searchPathAttr, diags)
	}
	if !val.Type().IsTupleType() && !val.Type().IsListType() {
		return nil, fmt.Errorf("%s: %s must be a list of strings", rootFile, searchPathAttr)
	}
	rootDir := filepath.Dir(rootFile)
	var paths []string
	for it := val.ElementIterator(); it.Next(); {
		_, entry := it.Element()
		if entry.Type() != cty.String {
			return nil, fmt.Errorf("%s: %s must be a list of strings", rootFile, searchPathAttr)
		}
		p := entry.AsString()
		if !filepath.IsAbs(p) {
			p = filepath.Join(rootDir, p)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// resolveInclude loads the file named by an include directive, resolving it
// recursively, and returns its top-level elements. Resolved files are cached
// by canonical path, so a file included from several places is parsed once
// and its subtree shared.
func (r *Resolver) resolveInclude(ctx context.Context, name, fromFile string) ([]*document.RawElement, error) {
	logger := ctxlog.FromContext(ctx)

	path, attempted := fsutil.Locate(name, filepath.Dir(fromFile), r.searchPaths)
	if path == "" {
		return nil, &IncludeNotFoundError{RequestedBy: fromFile, Path: name, Attempted: attempted}
	}
	canon, err := fsutil.Canonical(path)
	if err != nil {
		return nil, fmt.Errorf("canonicalize %s: %w", path, err)
	}

	switch r.states[canon] {
	case stateInProgress:
		cycle := append(append([]string(nil), r.stack...), canon)
		return nil, &CyclicIncludeError{Cycle: cycle}
	case stateDone:
		logger.Debug("Include served from cache.", "file", canon)
		return r.cache[canon], nil
	}

	logger.Debug("Resolving include.", "file", canon, "requested_by", fromFile)
	body, err := r.parseFile(canon)
	if err != nil {
		return nil, err
	}

	r.states[canon] = stateInProgress
	r.stack = append(r.stack, canon)
	elements, err := r.convertTopLevel(ctx, body, canon, false)
	if err != nil {
		return nil, err
	}
	r.states[canon] = stateDone
	r.stack = r.stack[:len(r.stack)-1]
	r.cache[canon] = elements

	return elements, nil
}

// parseFile parses one configuration file. File handles are opened and
// closed inside the HCL parser; nothing is held across calls.
func (r *Resolver) parseFile(path string) (*hclsyntax.Body, error) {
	file, diags := r.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", path, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("parse %s: unexpected body type %T", path, file.Body)
	}
	return body, nil
}

// convertTopLevel turns a file body into top-level raw elements, splicing
// include directives in place. Only the root file may carry top-level
// attributes, and only search_path.
func (r *Resolver) convertTopLevel(ctx context.Context, body *hclsyntax.Body, file string, isRoot bool) ([]*document.RawElement, error) {
	for _, attr := range sortedAttributes(body) {
		if isRoot && attr.Name == searchPathAttr {
			continue
		}
		return nil, fmt.Errorf("%s: unexpected top-level attribute %q", file, attr.Name)
	}

	var elements []*document.RawElement
	for _, block := range body.Blocks {
		if block.Type == includeKind {
			included, err := r.convertInclude(ctx, block, file)
			if err != nil {
				return nil, err
			}
			elements = append(elements, included...)
			continue
		}
		el, err := r.convertBlock(ctx, block, file)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}
	return elements, nil
}

// convertInclude validates an include directive block and resolves it.
func (r *Resolver) convertInclude(ctx context.Context, block *hclsyntax.Block, file string) ([]*document.RawElement, error) {
	if len(block.Labels) > 0 {
		return nil, fmt.Errorf("%s: include directive takes no label (%s)", file, block.DefRange())
	}
	if len(block.Body.Blocks) > 0 {
		return nil, fmt.Errorf("%s: include directive must not contain blocks (%s)", file, block.DefRange())
	}
	var target string
	for _, attr := range sortedAttributes(block.Body) {
		if attr.Name != includeAttr {
			return nil, fmt.Errorf("%s: include directive has unexpected attribute %q", file, attr.Name)
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%s: evaluate include file: %w", file, diags)
		}
		if val.Type() != cty.String {
			return nil, fmt.Errorf("%s: include file must be a string", file)
		}
		target = val.AsString()
	}
	if target == "" {
		return nil, fmt.Errorf("%s: include directive requires a file attribute (%s)", file, block.DefRange())
	}
	return r.resolveInclude(ctx, target, file)
}

// convertBlock turns one HCL block into a raw element, recursing into child
// blocks and splicing nested include directives into the children.
func (r *Resolver) convertBlock(ctx context.Context, block *hclsyntax.Block, file string) (*document.RawElement, error) {
	name := ""
	if len(block.Labels) > 1 {
		return nil, fmt.Errorf("%s: element %q takes at most one label (%s)", file, block.Type, block.DefRange())
	}
	if len(block.Labels) == 1 {
		name = block.Labels[0]
	}

	el := document.NewRawElement(block.Type, name, block.DefRange())

	for _, attr := range sortedAttributes(block.Body) {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%s: evaluate attribute %q: %w", file, attr.Name, diags)
		}
		el.SetAttr(attr.Name, document.RawAttr{Value: val, Range: attr.SrcRange})
	}

	for _, child := range block.Body.Blocks {
		if child.Type == includeKind {
			included, err := r.convertInclude(ctx, child, file)
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, included...)
			continue
		}
		converted, err := r.convertBlock(ctx, child, file)
		if err != nil {
			return nil, err
		}
		el.Children = append(el.Children, converted)
	}

	return el, nil
}

// sortedAttributes returns a body's attributes in source order. The HCL AST
// stores them in a map, so order has to be recovered from ranges to keep
// runs deterministic.
func sortedAttributes(body *hclsyntax.Body) []*hclsyntax.Attribute {
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, attr := range body.Attributes {
		attrs = append(attrs, attr)
	}
	sort.Slice(attrs, func(i, j int) bool {
		ri, rj := attrs[i].SrcRange.Start, attrs[j].SrcRange.Start
		if ri.Line != rj.Line {
			return ri.Line < rj.Line
		}
		return ri.Column < rj.Column
	})
	return attrs
}
