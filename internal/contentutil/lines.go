// Package contentutil holds small helpers for working with note text.
package contentutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase title-cases s using English rules.
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// NormalizeLineEndings converts Windows and legacy Mac line endings to "\n".
func NormalizeLineEndings(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

// SplitLines splits a string into lines, normalizing line endings.
func SplitLines(content string) []string {
	return strings.Split(NormalizeLineEndings(content), "\n")
}

// DisplayName turns a file name such as "weekly-review_notes.md" into
// "Weekly Review Notes".
func DisplayName(name string) string {
	name = strings.TrimSuffix(name, ".md")
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	return TitleCase(name)
}
