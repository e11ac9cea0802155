package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairLetterConfusion(t *testing.T) {
	buf := NewBuffer("===== FireInfo =====\nAMMO CAPAClTY 30/120\n")
	got := Repairer{Span: DefaultCorruptionSpan}.Repair(buf, "capacity")
	assert.Equal(t, "CAPAClTY", got)
	assert.Contains(t, buf.String(), "AMMO CAPACITY  30/120")
	assert.Equal(t, 1, buf.Revision())
}

func TestRepairIsIdempotent(t *testing.T) {
	buf := NewBuffer("AMMO CAPAClTY 30/120")
	r := Repairer{Span: DefaultCorruptionSpan}
	assert.NotEmpty(t, r.Repair(buf, "capacity"))
	after := buf.String()
	assert.Empty(t, r.Repair(buf, "capacity"))
	assert.Equal(t, after, buf.String())
	assert.Equal(t, 1, buf.Revision())
}

func TestRepairSpacesAndNoise(t *testing.T) {
	buf := NewBuffer("RELOAD TI ME 2.5 seconds")
	got := Repairer{Span: DefaultCorruptionSpan}.Repair(buf, "time")
	assert.Equal(t, "TI ME", got)
	assert.True(t, strings.HasPrefix(buf.String(), "RELOAD TIME  2.5"))

	buf = NewBuffer("HEAD MULTlPL!IER 1.40")
	got = Repairer{Span: DefaultCorruptionSpan}.Repair(buf, "multiplier")
	assert.Equal(t, "MULTlPL!IER", got)
	assert.Contains(t, buf.String(), "MULTIPLIER  1.40")
}

func TestRepairReplacesEveryOccurrence(t *testing.T) {
	buf := NewBuffer("AMMO CAPAClTY 30/120\nSTORED capaclty 3")
	Repairer{Span: DefaultCorruptionSpan}.Repair(buf, "capacity")
	assert.Equal(t, 2, strings.Count(buf.String(), "CAPACITY "))
}

func TestRepairStaysAfterSignalMarker(t *testing.T) {
	r := Repairer{
		Span:  DefaultCorruptionSpan,
		Scope: IndexLocator{Comparison: IgnoreCase, SignalMarker: "Does the file exist?"},
	}
	buf := NewBuffer("AMMO CAPAClTY preamble\nDoes the file exist? True\nAMMO CAPAClTY 30/120\n")
	assert.Equal(t, "CAPAClTY", r.Repair(buf, "capacity"))
	assert.True(t, strings.HasPrefix(buf.String(), "AMMO CAPAClTY preamble\n"))
	assert.Contains(t, buf.String(), "AMMO CAPACITY  30/120")

	buf = NewBuffer("AMMO CAPAClTY 30/120\nDoes the file exist? True\nRANK 3\n")
	assert.Empty(t, r.Repair(buf, "capacity"))
	assert.Equal(t, 0, buf.Revision())
}

func TestRepairNoMatch(t *testing.T) {
	buf := NewBuffer("RANK 11\nKILLS 2103")
	r := Repairer{Span: DefaultCorruptionSpan}
	assert.Empty(t, r.Repair(buf, "capacity"))
	assert.Empty(t, r.Repair(buf, ""))
	assert.Equal(t, 0, buf.Revision())

	// a label never continues onto the next line
	buf = NewBuffer("CAPA\nCITY")
	assert.Empty(t, r.Repair(buf, "capacity"))
}
