package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateWords(t *testing.T) {
	got := Locate("the quick brown fox jumps over the lazy fox", "fox", IgnoreCase)
	assert.Equal(t, []int{40, 16}, got)
}

func TestLocateSingleCharacter(t *testing.T) {
	got := Locate("the quick brown fox jumps over the lazy dog", "o", IgnoreCase)
	assert.ElementsMatch(t, []int{12, 17, 26, 41}, got)
	assert.Equal(t, []int{41, 26, 17, 12}, got, "most recent first")
}

func TestLocateAbsent(t *testing.T) {
	assert.Empty(t, Locate("the quick brown fox jumps over the lazy dog", "1", IgnoreCase))
	assert.Empty(t, Locate("the quick brown fox", "cat", IgnoreCase))
	assert.Empty(t, Locate("", "cat", IgnoreCase))
	assert.Empty(t, Locate("cat", "", IgnoreCase))
}

func TestLocateComparison(t *testing.T) {
	text := "Ammo AMMO ammo"
	assert.Len(t, Locate(text, "ammo", IgnoreCase), 3)
	assert.Equal(t, []int{10}, Locate(text, "ammo", Ordinal))
	assert.Equal(t, []int{5, 0}, Locate(text, "A", Ordinal))
}

func TestLocateFindsOccurrenceFormedByCut(t *testing.T) {
	// cutting "fox" out of "fofoxx" leaves another "fox" at 0
	assert.Equal(t, []int{2, 0}, Locate("fofoxx", "fox", IgnoreCase))
}

func TestLocateNonASCIIKeepsSourceOffsets(t *testing.T) {
	text := "Größe RANK 11"
	got := Locate(text, "rank", IgnoreCase)
	require.Len(t, got, 1)
	assert.Equal(t, "RANK", text[got[0]:got[0]+4])
}

func TestLocateSignalMarker(t *testing.T) {
	text := "rank 1\nDoes the file exist? True\nRANK 11"
	l := IndexLocator{Comparison: IgnoreCase, SignalMarker: "Does the file exist?"}
	got := l.Locate(text, "rank")
	require.Len(t, got, 1)
	assert.Equal(t, "RANK 11", text[got[0]:])

	l.SignalMarker = "not present"
	assert.Len(t, l.Locate(text, "rank"), 2)
}

func TestLocateDeterministicAndDistinct(t *testing.T) {
	text := "aaaa ab aaa ba"
	for _, needle := range []string{"a", "aa", "ab", "ba"} {
		first := Locate(text, needle, IgnoreCase)
		second := Locate(text, needle, IgnoreCase)
		assert.Equal(t, first, second)
		seen := map[int]bool{}
		for _, i := range first {
			assert.GreaterOrEqual(t, i, 0)
			assert.False(t, seen[i], "duplicate offset %d for %q", i, needle)
			seen[i] = true
		}
	}
}
