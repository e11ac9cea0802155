package parse

import "fmt"

const (
	DefaultInterWordSpaces = 3
	DefaultCorruptionSpan  = 3
)

// Params tunes one extraction run. The zero value is not useful; start from DefaultParams.
type Params struct {
	// ToleratedInterWordSpaces is the slack allowed between adjacent label words.
	ToleratedInterWordSpaces int
	// ToleratedCorruptionSpan is the extra characters a corrupted label may spread over.
	ToleratedCorruptionSpan int
	Comparison              Comparison
	// SignalMarker, when set, limits word search to text after its last occurrence.
	SignalMarker string
	// Delimiters end a captured value in addition to CR and LF.
	Delimiters string
}

func DefaultParams() Params {
	return Params{
		ToleratedInterWordSpaces: DefaultInterWordSpaces,
		ToleratedCorruptionSpan:  DefaultCorruptionSpan,
		Comparison:               IgnoreCase,
	}
}

func (p Params) Validate() error {
	if p.ToleratedInterWordSpaces < 0 {
		return fmt.Errorf("tolerated inter-word spaces must be >= 0, got %d", p.ToleratedInterWordSpaces)
	}
	if p.ToleratedCorruptionSpan < 0 {
		return fmt.Errorf("tolerated corruption span must be >= 0, got %d", p.ToleratedCorruptionSpan)
	}
	if p.Comparison != IgnoreCase && p.Comparison != Ordinal {
		return fmt.Errorf("unknown comparison rule %d", p.Comparison)
	}
	return nil
}

func (p Params) isDelimiter(r rune) bool {
	if r == '\r' || r == '\n' {
		return true
	}
	for _, d := range p.Delimiters {
		if d == r {
			return true
		}
	}
	return false
}
