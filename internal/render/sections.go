package render

import (
	"fmt"
	"strings"
)

// sectionOrder is the fixed order in which source file sections are emitted,
// regardless of the order they appear in the template.
var sectionOrder = []string{
	"headers",
	"object_like_macros",
	"type_definitions",
	"structure_definitions",
	"extern_definitions",
	"function_definitions",
	"state",
	"function_like_macros",
	"functions",
	"public_functions",
}

// typedefSection is sorted after rendering so typedefs appear in dependency
// order.
const typedefSection = "type_definitions"

// section is one named chunk of a sectioned source template.
type section struct {
	name string
	body string
}

// splitSections splits a source template on `/*| name |*/` marker lines.
// A template with content before the first marker is treated as a single
// unnamed, unsectioned body. Section names must come from the fixed section
// vocabulary, and no section may repeat.
func splitSections(text string) ([]section, error) {
	known := make(map[string]bool, len(sectionOrder))
	for _, name := range sectionOrder {
		known[name] = true
	}

	var sections []section
	seen := map[string]bool{}
	current := -1

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "/*|") && strings.HasSuffix(trimmed, "|*/") {
			name := strings.TrimSpace(trimmed[3 : len(trimmed)-3])
			if !known[name] {
				return nil, fmt.Errorf("unknown section %q", name)
			}
			if seen[name] {
				return nil, fmt.Errorf("section %q appears twice", name)
			}
			seen[name] = true
			sections = append(sections, section{name: name})
			current = len(sections) - 1
			continue
		}
		if current == -1 {
			if trimmed == "" {
				continue
			}
			// Content before any marker: treat the whole template as one
			// unsectioned body.
			return []section{{body: text}}, nil
		}
		sections[current].body += line + "\n"
	}

	for i := range sections {
		sections[i].body = strings.TrimRight(sections[i].body, "\n")
	}
	return sections, nil
}

// assembleSections renders section bodies back into one source file in the
// canonical order, dropping sections the template did not use.
func assembleSections(rendered map[string]string) string {
	var b strings.Builder
	for _, name := range sectionOrder {
		body, ok := rendered[name]
		if !ok {
			continue
		}
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}
