// Package document holds the in-memory project configuration tree in its two
// forms: the raw element tree produced by the include resolver, and the typed
// tree produced by schema validation and augmented by module fixups. It also
// maintains the index of declared identifiers used for cross-reference
// resolution.
package document
