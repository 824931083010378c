package contentutil

import (
	"strings"
)

type FrontmatterBounds struct {
	Start int
	End   int
	Found bool
}

// FindFrontmatter finds the bounds of the frontmatter section in the given lines
func FindFrontmatter(lines []string) FrontmatterBounds {
	if len(lines) == 0 {
		return FrontmatterBounds{}
	}

	// Skip any blank lines at the start
	startIdx := 0
	for startIdx < len(lines) && strings.TrimSpace(lines[startIdx]) == "" {
		startIdx++
	}

	if startIdx >= len(lines) || strings.TrimSpace(lines[startIdx]) != "---" {
		return FrontmatterBounds{}
	}

	for i := startIdx + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return FrontmatterBounds{
				Start: startIdx,
				End:   i + 1,
				Found: true,
			}
		}
	}

	// Unclosed frontmatter is treated as body text
	return FrontmatterBounds{}
}

// FrontmatterValue returns the value of a simple "key: value" entry in the
// document's frontmatter. Quotes around the value are removed. Nested YAML is
// not interpreted; the preview renderer reads full metadata.
func FrontmatterValue(content, key string) (string, bool) {
	lines := SplitLines(content)
	bounds := FindFrontmatter(lines)
	if !bounds.Found {
		return "", false
	}

	prefix := key + ":"
	for _, line := range lines[bounds.Start+1 : bounds.End-1] {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		value := strings.TrimSpace(strings.TrimPrefix(line, prefix))
		value = strings.Trim(value, `"'`)
		return value, value != ""
	}

	return "", false
}
