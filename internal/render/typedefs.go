package render

import (
	"fmt"
	"strings"
)

// typedefEntry is one parsed typedef line: `typedef <old> <new>;`.
type typedefEntry struct {
	newType string
	oldType string
}

// sortTypedefs orders typedef lines so a typedef appears after the typedef
// it builds on. Types not defined by any line in the input are assumed to
// come from other headers and sort first. Blank lines are dropped.
func sortTypedefs(lines string) (string, error) {
	var entries []typedefEntry
	for _, line := range strings.Split(lines, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasSuffix(line, ";") {
			return "", fmt.Errorf("typedef line must end with ';': %q", line)
		}
		parts := strings.Fields(strings.TrimSuffix(line, ";"))
		if len(parts) < 3 || parts[0] != "typedef" {
			return "", fmt.Errorf("not a typedef line: %q", line)
		}
		entries = append(entries, typedefEntry{
			newType: parts[len(parts)-1],
			oldType: strings.Join(parts[1:len(parts)-1], " "),
		})
	}

	defined := make(map[string]bool, len(entries))
	for _, e := range entries {
		defined[e.newType] = true
	}

	var sorted []typedefEntry
	remaining := append([]typedefEntry(nil), entries...)

	// Externally-defined base types first, in input order.
	rest := remaining[:0]
	for _, e := range remaining {
		if !defined[e.oldType] {
			sorted = append(sorted, e)
		} else {
			rest = append(rest, e)
		}
	}
	remaining = rest

	// Then breadth-first over the dependency chain.
	for i := 0; i < len(sorted); i++ {
		base := sorted[i].newType
		rest := remaining[:0]
		for _, e := range remaining {
			if e.oldType == base {
				sorted = append(sorted, e)
			} else {
				rest = append(rest, e)
			}
		}
		remaining = rest
	}

	if len(remaining) > 0 {
		return "", fmt.Errorf("typedef %q depends on %q, which is part of a cycle or undefined chain",
			remaining[0].newType, remaining[0].oldType)
	}

	out := make([]string, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, fmt.Sprintf("typedef %s %s;", e.oldType, e.newType))
	}
	return strings.Join(out, "\n"), nil
}
