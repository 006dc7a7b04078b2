package utils

import (
	"strings"

	"github.com/PolarWolf314/coffer/internal/ui"
)

// FormatPaths formats a slice of paths into a readable string.
func FormatPaths(paths []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, path := range paths {
		b.WriteString("    - ")
		b.WriteString(ui.Path.Sprint(path))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatEntries formats entry names as an indented list, one per line.
func FormatEntries(names []string) string {
	var b strings.Builder
	for _, name := range names {
		b.WriteString("    ")
		b.WriteString(ui.Highlight.Sprint(name))
		b.WriteString("\n")
	}
	return b.String()
}
