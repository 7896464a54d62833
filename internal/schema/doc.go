// Package schema declares the field types available to module configuration
// and validates raw elements against a module's declared schema, producing
// typed elements. Validation is strict: any attribute or child block the
// schema does not declare is an error, which catches configuration typos at
// the earliest possible point.
package schema
