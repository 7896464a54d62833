// Package app wires the generation pipeline together: it builds the logger
// and module registry, drives resolution, validation and rendering for one
// run, and writes the generated files only after every module has rendered.
package app
