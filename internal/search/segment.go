package search

// Segment is a contiguous run of document text that either matches the
// query or does not.
type Segment struct {
	Text    string
	IsMatch bool
}

// Segments splits content into alternating non-matching and matching runs.
// Joining the Text of the returned segments always reproduces content.
// Empty content, or a matcher that matches nothing, yields a single
// non-matching segment.
func Segments(content string, m *Matcher) []Segment {
	spans := m.FindAll(content)
	if len(spans) == 0 {
		return []Segment{{Text: content}}
	}

	segments := make([]Segment, 0, 2*len(spans)+1)
	pos := 0
	for _, sp := range spans {
		if sp.Start > pos {
			segments = append(segments, Segment{Text: content[pos:sp.Start]})
		}
		segments = append(segments, Segment{Text: content[sp.Start:sp.End], IsMatch: true})
		pos = sp.End
	}
	if pos < len(content) {
		segments = append(segments, Segment{Text: content[pos:]})
	}

	return segments
}

// MatchCount returns the number of non-overlapping matches in content. It is
// always equal to the number of matching segments Segments returns.
func MatchCount(content string, m *Matcher) int {
	return len(m.FindAll(content))
}

// Join concatenates segment text.
func Join(segments []Segment) string {
	n := 0
	for _, s := range segments {
		n += len(s.Text)
	}

	buf := make([]byte, 0, n)
	for _, s := range segments {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}
