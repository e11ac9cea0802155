package weapon

import (
	"fmt"
	"regexp"
	"strconv"
)

// legacyCutoff is the first version number using the redesigned statistic screen.
const legacyCutoff = 900

var (
	dottedVersionRE = regexp.MustCompile(`^(\d+)\.(\d)\.(\d)$`)
	packedVersionRE = regexp.MustCompile(`^(\d+)(\d)(\d)$`)
)

// Version is a game release such as 10.0.1. Minor and patch are single digits,
// which is what makes the dot-stripped number unambiguous.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion accepts either the dotted form ("10.0.1") or the packed
// form used in file names ("1001").
func ParseVersion(s string) (Version, error) {
	m := dottedVersionRE.FindStringSubmatch(s)
	if m == nil {
		m = packedVersionRE.FindStringSubmatch(s)
	}
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])
	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// Number is the version with its dots removed (10.0.1 -> 1001).
func (v Version) Number() int {
	return v.Major*100 + v.Minor*10 + v.Patch
}

// IsLegacy reports whether the version predates the UI redesign that
// dropped the "damage" and "damage range" labels.
func (v Version) IsLegacy() bool {
	return v.Number() < legacyCutoff
}

// Screenshots is how many captures one weapon needs for this version.
func (v Version) Screenshots() int {
	if v.IsLegacy() || v.Number() > 1012 {
		return 2
	}
	return 1
}

func (v Version) Compare(o Version) int {
	switch a, b := v.Number(), o.Number(); {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
