package dockerfile

import (
	"strings"
)

// Section is a named part of a Dockerfile. Optional parts that don't apply
// to a spec have empty Text and are left out by Render.
type Section struct {
	Name string
	Text string
}

// Render joins the non-empty sections, separated by blank lines.
func Render(sections []Section) string {
	parts := []string{}
	for _, section := range sections {
		text := strings.TrimSpace(section.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// Names returns the names of the sections that Render keeps.
func Names(sections []Section) []string {
	names := []string{}
	for _, section := range sections {
		if strings.TrimSpace(section.Text) != "" {
			names = append(names, section.Name)
		}
	}
	return names
}

// continued joins the lines of one instruction with backslash continuations.
func continued(first string, rest ...string) string {
	if len(rest) == 0 {
		return first
	}
	return first + " \\\n    " + strings.Join(rest, " \\\n    ")
}
