// Package render projects a derived configuration subtree into generated
// header and source text. Rendering is a pure function of the subtree plus
// any explicitly granted cross-module values: templates run in strict mode,
// a reference to an undefined variable fails the run, and callers write
// output files only after every module rendered successfully.
package render
