package parse

import (
	"regexp"
)

// Buffer is the OCR text owned by one extraction run. Repairs rewrite it in
// place and every later search in the run sees the repaired text. A Buffer
// must not be shared between concurrent runs.
type Buffer struct {
	text     string
	revision int
}

func NewBuffer(text string) *Buffer {
	return &Buffer{text: text}
}

func (b *Buffer) String() string { return b.text }

func (b *Buffer) Len() int { return len(b.text) }

// Revision increases each time the text changes.
func (b *Buffer) Revision() int { return b.revision }

// replaceFold replaces every case-insensitive occurrence of old with repl
// at or after offset from. Text before from is left alone.
func (b *Buffer) replaceFold(old, repl string, from int) int {
	if old == "" || from < 0 || from > len(b.text) {
		return 0
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(old))
	head, tail := b.text[:from], b.text[from:]
	n := len(re.FindAllStringIndex(tail, -1))
	if n == 0 {
		return 0
	}
	b.text = head + re.ReplaceAllLiteralString(tail, repl)
	b.revision++
	return n
}
