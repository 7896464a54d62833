// Package registry holds the module bundles that drive the generation
// pipeline: per element kind, a schema, the shared default fixup stage, an
// optional custom fixup procedure and a template set. The registry is built
// once at startup and treated as immutable shared state for the run.
package registry
