package parse

import (
	"regexp"
	"strings"

	"pfdb/pkg/weapon"
)

// Value patterns per statistic kind. The first capture group, when present,
// is the value; otherwise the whole match is.
var (
	magazineRE  = regexp.MustCompile(`(\d+)\x20{0,2}/\x20{0,2}\d+`)
	reserveRE   = regexp.MustCompile(`\d+\x20{0,2}/\x20{0,2}(\d+)`)
	firerateRE  = regexp.MustCompile(`\x20?(\d+\x20?[a-zA-Z]?)\x20?`)
	ammoTypeRE  = regexp.MustCompile(`(5\.56x45mm|5\.45x39mm|\.45\x20{0,2}ACP|9x19mm|7\.62x39mm|7\.62x51mm|9x18mm|12\x20{0,2}gauge|\.22\x20{0,2}Long\x20{0,2}Rifle|\.50\x20{0,2}BMG|\d+(?:\.\d+)?x\d+mm)`)
	fireModesRE = regexp.MustCompile(`\|\x20{0,2}([^|\t\n]*)`)
	fireModeRE  = regexp.MustCompile(`^(?:AUTO|SEMI|[Il]{1,6})$`)
	numberRE    = regexp.MustCompile(`\d+\.?\d*`)

	legacyDamageRE      = regexp.MustCompile(`(\d+\.?\d*)`)
	modernDamageRE      = regexp.MustCompile(`index\x20*\d+\x20*:\x20*(\d+\.?\d*)`)
	modernDamageRangeRE = regexp.MustCompile(`index\x20*\d+\x20*:\x20*(\(\d+\)|\d+\)|\(\d+)`)
)

// Validator turns located text into typed statistics.
type Validator struct {
	weapon weapon.ID
	legacy bool
}

func NewValidator(id weapon.ID) Validator {
	return Validator{weapon: id, legacy: id.Version.IsLegacy()}
}

// Extract applies the pattern for kind to raw. When nothing matches, the
// raw text is kept as the value and the statistic needs revision.
func (v Validator) Extract(kind StatisticKind, raw string) LocatedStatistic {
	switch kind {
	case AmmoTypeStat:
		return v.single(kind, ammoTypeRE, raw)
	case MagazineCapacity:
		return v.single(kind, magazineRE, raw)
	case ReserveCapacity:
		return v.single(kind, reserveRE, raw)
	case DamageStat:
		if v.legacy {
			return v.multi(kind, legacyDamageRE, raw)
		}
		return v.multi(kind, modernDamageRE, raw)
	case DamageRangeStat:
		if v.legacy {
			return v.multi(kind, legacyDamageRE, raw)
		}
		return v.multi(kind, modernDamageRangeRE, raw)
	case FirerateStat:
		return v.multi(kind, firerateRE, raw)
	case FireModesStat:
		return v.fireModes(raw)
	}
	return v.single(kind, numberRE, raw)
}

func (v Validator) single(kind StatisticKind, re *regexp.Regexp, raw string) LocatedStatistic {
	m := re.FindStringSubmatchIndex(raw)
	if m == nil {
		return NewStatistic(v.weapon, kind, true, raw)
	}
	val, _ := captured(raw, m)
	return NewStatistic(v.weapon, kind, false, val)
}

// multi collects every match. A group that did not take part in a match
// flags the statistic; empty captures are skipped.
func (v Validator) multi(kind StatisticKind, re *regexp.Regexp, raw string) LocatedStatistic {
	matches := re.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return NewStatistic(v.weapon, kind, true, raw)
	}
	var values []string
	revise := false
	for _, m := range matches {
		val, ok := captured(raw, m)
		if !ok {
			revise = true
			continue
		}
		if val == "" {
			continue
		}
		values = append(values, val)
	}
	return NewStatistic(v.weapon, kind, revise, values...)
}

// fireModes reads the tokens between pipes. A token that is not a known
// mode is kept as read and flags the statistic.
func (v Validator) fireModes(raw string) LocatedStatistic {
	matches := fireModesRE.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return NewStatistic(v.weapon, FireModesStat, true, raw)
	}
	var values []string
	revise := false
	for _, m := range matches {
		tok := strings.TrimSpace(m[1])
		if tok == "" {
			continue
		}
		if !fireModeRE.MatchString(tok) {
			revise = true
		}
		values = append(values, tok)
	}
	return NewStatistic(v.weapon, FireModesStat, revise, values...)
}

// captured returns group 1 of a match, or the whole match for patterns
// without groups. ok is false when group 1 exists but did not participate.
func captured(raw string, m []int) (string, bool) {
	if len(m) < 4 {
		return raw[m[0]:m[1]], true
	}
	if m[2] < 0 {
		return "", false
	}
	return raw[m[2]:m[3]], true
}
