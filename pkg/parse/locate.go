package parse

import (
	"fmt"
	"slices"
	"strings"

	"pfdb/pkg/weapon"
)

// modernDamageMarker prefixes each damage row cropped from the redesigned
// statistic screen, which has no "damage" label of its own.
const modernDamageMarker = "index "

// exclusion is a phrase whose words overlap a target's label but name a
// different statistic.
type exclusion struct {
	words []string
}

var exclusions = map[SearchTarget]exclusion{
	ReloadTime:  {words: []string{"empty", "reload", "time"}},
	Damage:      {words: []string{"damage", "range"}},
	Suppression: {words: []string{"suppression", "range"}},
}

// rankHeader is the section header that also contains "rank".
const rankHeader = "RankInfo"

// Match is the raw text found for one target.
type Match struct {
	Target SearchTarget
	// Offsets[i] is where Candidates[i] starts. An offset whose trailing
	// text repeats an earlier candidate is dropped with it.
	Offsets    []int
	Candidates []string
}

// Text joins the candidates the way the validator expects them.
func (m Match) Text() string {
	var b strings.Builder
	for _, c := range m.Candidates {
		b.WriteString(c)
		b.WriteByte('\t')
	}
	return b.String()
}

// StatisticLocator finds the label of a statistic in a buffer and returns
// the text following it.
type StatisticLocator struct {
	params   Params
	index    IndexLocator
	repairer Repairer
	legacy   bool
}

func NewStatisticLocator(params Params, version weapon.Version) *StatisticLocator {
	index := IndexLocator{Comparison: params.Comparison, SignalMarker: params.SignalMarker}
	return &StatisticLocator{
		params:   params,
		index:    index,
		repairer: Repairer{Span: params.ToleratedCorruptionSpan, Scope: index},
		legacy:   version.IsLegacy(),
	}
}

// Locate resolves target in buf for a weapon of the given kind. Missing
// labels are repaired in buf before giving up.
func (l *StatisticLocator) Locate(buf *Buffer, kind weapon.Kind, target SearchTarget) (Match, error) {
	if !Applicable(kind, target) {
		return Match{}, fmt.Errorf("%w: %s for a %s", ErrTargetMismatch, target, kind)
	}
	words := target.Words()
	if buf.Len() == 0 {
		return Match{}, &WordNotFoundError{Target: target, Words: words, Empty: true}
	}

	var offsets []int
	if l.modernDamage(target) {
		offsets = l.index.Locate(buf.String(), modernDamageMarker)
	} else {
		locs := l.locateWords(buf, words)
		if len(locs[len(locs)-1]) == 0 {
			return Match{}, &WordNotFoundError{Target: target, Words: words, Reason: "last word missing"}
		}
		if len(words) == 1 {
			offsets = locs[0]
		} else {
			offsets = l.proximity(buf.String(), words, locs)
		}
		offsets = l.exclude(buf.String(), target, offsets)
	}

	if len(offsets) == 0 {
		return Match{}, &WordNotFoundError{Target: target, Words: words}
	}
	slices.Sort(offsets)
	offsets = slices.Compact(offsets)

	m := Match{Target: target}
	seen := make(map[string]bool, len(offsets))
	for _, at := range offsets {
		c := l.trailing(buf.String(), at)
		k := strings.TrimSpace(c)
		if seen[k] {
			continue
		}
		seen[k] = true
		m.Offsets = append(m.Offsets, at)
		m.Candidates = append(m.Candidates, c)
	}
	return m, nil
}

// modernDamage reports whether target is read from the row markers instead
// of a label.
func (l *StatisticLocator) modernDamage(target SearchTarget) bool {
	return !l.legacy && (target == Damage || target == DamageRange)
}

// locateWords finds every word, repairing the buffer for words that are
// absent and searching again.
func (l *StatisticLocator) locateWords(buf *Buffer, words []string) [][]int {
	locs := l.searchAll(buf.String(), words)
	repaired := false
	for i, w := range words {
		if len(locs[i]) == 0 && l.repairer.Repair(buf, w) != "" {
			repaired = true
		}
	}
	if repaired {
		// a repair shifts offsets after it, so every word is searched again
		locs = l.searchAll(buf.String(), words)
	}
	return locs
}

func (l *StatisticLocator) searchAll(text string, words []string) [][]int {
	locs := make([][]int, len(words))
	for i, w := range words {
		locs[i] = l.index.Locate(text, w)
	}
	return locs
}

// proximity keeps the offsets of the first word that start a chain in
// which every following word begins after the previous one and within
// its length plus the tolerated spaces. Words that were never located
// are stood in for by their first character.
func (l *StatisticLocator) proximity(text string, words []string, locs [][]int) []int {
	chain := make([][]int, len(locs))
	for i, loc := range locs {
		chain[i] = loc
		if len(loc) == 0 {
			first, _ := firstRune(words[i])
			chain[i] = l.index.Locate(text, first)
		}
	}
	var out []int
	for _, at := range chain[0] {
		if l.follows(words, chain, 0, at) {
			out = append(out, at)
		}
	}
	return out
}

func (l *StatisticLocator) follows(words []string, chain [][]int, i, at int) bool {
	if i == len(words)-1 {
		return true
	}
	limit := at + len(words[i]) + l.params.ToleratedInterWordSpaces
	for _, next := range chain[i+1] {
		if next > at && next < limit && l.follows(words, chain, i+1, next) {
			return true
		}
	}
	return false
}

// exclude drops offsets that belong to a polluting phrase.
func (l *StatisticLocator) exclude(text string, target SearchTarget, offsets []int) []int {
	if target == Rank {
		headers := l.index.Locate(text, rankHeader)
		return slices.DeleteFunc(offsets, func(at int) bool {
			return slices.Contains(headers, at)
		})
	}
	ex, ok := exclusions[target]
	if !ok || (target == Damage && !l.legacy) {
		return offsets
	}
	locs := l.searchAll(text, ex.words)
	for _, loc := range locs {
		if len(loc) == 0 {
			return offsets
		}
	}
	polluted := l.proximity(text, ex.words, locs)
	window := len(ex.words[0]) + l.params.ToleratedInterWordSpaces
	return slices.DeleteFunc(offsets, func(at int) bool {
		for _, p := range polluted {
			if at == p || (p < at && at < p+window) || (p > at && at > p-window) {
				return true
			}
		}
		return false
	})
}

// trailing copies text from at up to the first delimiter.
func (l *StatisticLocator) trailing(text string, at int) string {
	end := strings.IndexFunc(text[at:], l.params.isDelimiter)
	if end < 0 {
		return text[at:]
	}
	return text[at : at+end]
}

func firstRune(s string) (string, bool) {
	for _, r := range s {
		return string(r), true
	}
	return "", false
}
