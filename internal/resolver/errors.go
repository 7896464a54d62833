package resolver

import (
	"fmt"
	"strings"
)

// IncludeNotFoundError reports an include directive whose target could not
// be found in any candidate location.
type IncludeNotFoundError struct {
	// RequestedBy is the file containing the directive; empty for the
	// project root file itself.
	RequestedBy string
	Path        string
	Attempted   []string
}

func (e *IncludeNotFoundError) Error() string {
	if e.RequestedBy == "" {
		return fmt.Sprintf("project file %q not found (tried %s)", e.Path, strings.Join(e.Attempted, ", "))
	}
	return fmt.Sprintf("%s: include %q not found (tried %s)", e.RequestedBy, e.Path, strings.Join(e.Attempted, ", "))
}

// CyclicIncludeError reports an include chain that reaches a file already
// being resolved. Cycle lists the chain in inclusion order, ending with the
// repeated file.
type CyclicIncludeError struct {
	Cycle []string
}

func (e *CyclicIncludeError) Error() string {
	return fmt.Sprintf("cyclic include: %s", strings.Join(e.Cycle, " -> "))
}
