package parse

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// Repairer restores labels that OCR split with stray spaces or garbled with
// i/l confusion, e.g. "CAPAClTY" or "CAP ACITY" for "capacity".
type Repairer struct {
	// Span is how many extra characters a corrupted word may occupy.
	Span int
	// Scope skips what its signal marker skips; nothing before the marker
	// is searched or rewritten.
	Scope IndexLocator
}

// Repair looks for a corrupted rendering of word in buf. Every occurrence
// of the first corrupted rendering found is replaced with the upper-cased
// word plus one padding space, and that rendering is returned. It returns
// "" and leaves buf untouched when nothing needs repairing, which makes a
// second call for the same word a no-op.
func (r Repairer) Repair(buf *Buffer, word string) string {
	clean := strings.TrimSpace(word)
	letters := []rune(strings.ToLower(strings.ReplaceAll(clean, " ", "")))
	if len(letters) == 0 || buf.Len() == 0 {
		return ""
	}
	text := buf.String()
	from := r.Scope.start(text)
	for _, at := range Locate(text[from:], string(letters[0]), IgnoreCase) {
		at += from
		end, ok := r.match(text, at, letters)
		if !ok {
			continue
		}
		corrupted := text[at:end]
		if strings.EqualFold(corrupted, clean) {
			continue
		}
		n := buf.replaceFold(corrupted, strings.ToUpper(clean)+" ", from)
		log.Debug().Str("word", clean).Str("corrupted", corrupted).Int("replaced", n).Msg("repaired OCR label")
		return corrupted
	}
	return ""
}

// match walks text from at, matching letters in order. Spaces are skipped
// without using the budget; other characters that do not match are noise
// and do. A line break ends the attempt. It returns the end of the matched
// span.
func (r Repairer) match(text string, at int, letters []rune) (int, bool) {
	budget := len(letters) + r.Span
	k := 0
	for i := at; i < len(text) && budget > 0; {
		c, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case c == '\r' || c == '\n':
			return 0, false
		case c == ' ':
		default:
			budget--
			if sameLetter(c, letters[k]) {
				k++
				if k == len(letters) {
					return i + size, true
				}
			}
		}
		i += size
	}
	return 0, false
}

// sameLetter compares case-insensitively and treats i and l as one letter.
func sameLetter(a, b rune) bool {
	a, b = unicode.ToLower(a), unicode.ToLower(b)
	if a == b {
		return true
	}
	return (a == 'i' && b == 'l') || (a == 'l' && b == 'i')
}
