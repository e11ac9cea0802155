package weapon

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MaxRank       = 10001
	MaxTiebreaker = 99
)

// ID identifies one weapon in one game version. Two weapons sharing a
// version, category and rank are told apart by the tiebreaker.
type ID struct {
	Version    Version
	Category   Category
	Rank       int
	Tiebreaker int
}

func NewID(v Version, c Category, rank, tiebreaker int) (ID, error) {
	if !c.Valid() {
		return ID{}, fmt.Errorf("%w: %d", ErrInvalidCategory, int(c))
	}
	if rank < 0 || rank > MaxRank {
		return ID{}, fmt.Errorf("%w: rank %d", ErrOutOfRange, rank)
	}
	if tiebreaker < 0 || tiebreaker > MaxTiebreaker {
		return ID{}, fmt.Errorf("%w: tiebreaker %d", ErrOutOfRange, tiebreaker)
	}
	return ID{Version: v, Category: c, Rank: rank, Tiebreaker: tiebreaker}, nil
}

// ParseID reads the form produced by String, e.g. "10.0.1/AssaultRifles/11/0".
// The tiebreaker may be omitted.
func ParseID(s string) (ID, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) < 3 || len(parts) > 4 {
		return ID{}, fmt.Errorf("weapon id %q: want version/category/rank[/tiebreaker]", s)
	}
	v, err := ParseVersion(parts[0])
	if err != nil {
		return ID{}, err
	}
	c, err := ParseCategory(parts[1])
	if err != nil {
		return ID{}, err
	}
	rank, err := strconv.Atoi(parts[2])
	if err != nil {
		return ID{}, fmt.Errorf("%w: rank %q", ErrOutOfRange, parts[2])
	}
	tb := 0
	if len(parts) == 4 {
		if tb, err = strconv.Atoi(parts[3]); err != nil {
			return ID{}, fmt.Errorf("%w: tiebreaker %q", ErrOutOfRange, parts[3])
		}
	}
	return NewID(v, c, rank, tb)
}

func (id ID) Type() Type { return id.Category.WeaponType() }

func (id ID) Kind() Kind { return id.Type().Kind() }

// Number packs the identity into one integer. Field bounds keep it collision free.
func (id ID) Number() int64 {
	return int64(id.Version.Number())*1_000_000_000 +
		int64(id.Category)*10_000_000 +
		int64(id.Rank)*100 +
		int64(id.Tiebreaker)
}

// FromNumber reverses Number.
func FromNumber(n int64) (ID, error) {
	if n < 0 {
		return ID{}, fmt.Errorf("%w: weapon number %d", ErrOutOfRange, n)
	}
	v := int(n / 1_000_000_000)
	ver := Version{Major: v / 100, Minor: v / 10 % 10, Patch: v % 10}
	return NewID(ver, Category(n/10_000_000%100), int(n/100%100_000), int(n%100))
}

func (id ID) String() string {
	return fmt.Sprintf("%s/%s/%d/%d", id.Version, id.Category, id.Rank, id.Tiebreaker)
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(b []byte) error {
	v, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}
