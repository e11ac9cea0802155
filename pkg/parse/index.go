package parse

import (
	"strings"
	"unicode/utf8"
)

// IndexLocator finds every occurrence of a literal in a text.
type IndexLocator struct {
	Comparison   Comparison
	SignalMarker string
}

// Locate is IndexLocator.Locate without a signal marker.
func Locate(text, needle string, cmp Comparison) []int {
	return IndexLocator{Comparison: cmp}.Locate(text, needle)
}

// Locate returns the byte offsets of needle in text, most recently found
// first. The last occurrence is found, recorded and cut out of a working
// copy until none remain, so occurrences formed across a cut are reported
// as well. An absent needle yields an empty slice.
func (l IndexLocator) Locate(text, needle string) []int {
	if needle == "" || text == "" {
		return []int{}
	}
	start := l.start(text)
	ft := l.Comparison.fold(text[start:])
	n := l.Comparison.foldNeedle(needle)

	var found []int
	if utf8.RuneCountInString(n) == 1 {
		found = lastRunes(ft.s, n)
	} else {
		found = lastSubstrings(ft.s, n)
	}
	out := make([]int, 0, len(found))
	for _, i := range found {
		out = append(out, start+ft.sourceOffset(i))
	}
	return out
}

// start is the offset searching begins at: just past the last signal
// marker, or 0 without one.
func (l IndexLocator) start(text string) int {
	if l.SignalMarker == "" {
		return 0
	}
	ft := l.Comparison.fold(text)
	marker := l.Comparison.foldNeedle(l.SignalMarker)
	if i := strings.LastIndex(ft.s, marker); i >= 0 {
		return ft.sourceOffset(i + len(marker))
	}
	return 0
}

// lastRunes scans backwards for a single-character needle. Removing one
// character can never create another match, so no working copy is needed.
func lastRunes(s, needle string) []int {
	r, _ := utf8.DecodeRuneInString(needle)
	var out []int
	for i := len(s); i > 0; {
		c, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
		if c == r {
			out = append(out, i)
		}
	}
	return out
}

func lastSubstrings(s, needle string) []int {
	var out []int
	work := s
	for {
		i := strings.LastIndex(work, needle)
		if i < 0 {
			return out
		}
		out = append(out, i)
		work = work[:i] + work[i+len(needle):]
	}
}
