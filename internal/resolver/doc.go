// Package resolver merges a root project file with every file referenced by
// include directives into one raw document tree. A resolver instance is
// constructed once per run and holds its own search-path configuration and
// parse cache; there is no process-wide include state.
package resolver
