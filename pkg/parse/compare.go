package parse

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Comparison selects how label text is matched against the buffer.
type Comparison int

const (
	// IgnoreCase folds both sides with culture-invariant Unicode case folding.
	IgnoreCase Comparison = iota
	// Ordinal compares bytes exactly.
	Ordinal
)

func (c Comparison) String() string {
	if c == Ordinal {
		return "ordinal"
	}
	return "ignore-case"
}

// folded is a case-folded copy of a text together with, for every folded
// byte, the byte offset in the source text it came from.
type folded struct {
	s      string
	origin []int
	srcLen int
}

func (f folded) sourceOffset(i int) int {
	if i >= len(f.origin) {
		return f.srcLen
	}
	return f.origin[i]
}

func (c Comparison) fold(text string) folded {
	origin := make([]int, 0, len(text))
	if c == Ordinal {
		for i := range len(text) {
			origin = append(origin, i)
		}
		return folded{s: text, origin: origin, srcLen: len(text)}
	}
	caser := cases.Fold()
	buf := make([]byte, 0, len(text))
	for i, r := range text {
		if r < utf8.RuneSelf {
			if 'A' <= r && r <= 'Z' {
				r += 'a' - 'A'
			}
			buf = append(buf, byte(r))
			origin = append(origin, i)
			continue
		}
		f := caser.String(string(r))
		buf = append(buf, f...)
		for range len(f) {
			origin = append(origin, i)
		}
	}
	return folded{s: string(buf), origin: origin, srcLen: len(text)}
}

// foldNeedle folds a search term the same way fold treats the text.
func (c Comparison) foldNeedle(needle string) string {
	return c.fold(needle).s
}
