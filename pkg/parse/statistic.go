package parse

import (
	"fmt"
	"slices"

	"pfdb/pkg/weapon"
)

// LocatedStatistic is one extracted statistic of one weapon.
type LocatedStatistic struct {
	Weapon weapon.ID     `json:"weapon"`
	Kind   StatisticKind `json:"kind"`
	Values []string      `json:"values"`
	// NeedsRevision flags a value that should be checked by hand.
	NeedsRevision bool `json:"needsRevision"`
}

// NewStatistic builds a statistic; an empty value list always needs revision.
func NewStatistic(id weapon.ID, kind StatisticKind, needsRevision bool, values ...string) LocatedStatistic {
	return LocatedStatistic{
		Weapon:        id,
		Kind:          kind,
		Values:        values,
		NeedsRevision: needsRevision || len(values) == 0,
	}
}

// Value is the first value, or "" if there is none.
func (s LocatedStatistic) Value() string {
	if len(s.Values) == 0 {
		return ""
	}
	return s.Values[0]
}

func (s LocatedStatistic) String() string {
	flag := ""
	if s.NeedsRevision {
		flag = " (needs revision)"
	}
	return fmt.Sprintf("%s %s=%v%s", s.Weapon, s.Kind, s.Values, flag)
}

// ResultSet holds the statistics of one weapon in extraction order.
type ResultSet struct {
	weapon weapon.ID
	stats  []LocatedStatistic
	sealed bool
}

func NewResultSet(id weapon.ID) *ResultSet {
	return &ResultSet{weapon: id}
}

func (r *ResultSet) Weapon() weapon.ID { return r.weapon }

func (r *ResultSet) Len() int { return len(r.stats) }

// Add appends s. It fails if s belongs to another weapon or the set is sealed.
func (r *ResultSet) Add(s LocatedStatistic) error {
	if err := r.check(s); err != nil {
		return err
	}
	r.stats = append(r.stats, s)
	return nil
}

// AddRange appends all of ss or none of them.
func (r *ResultSet) AddRange(ss []LocatedStatistic) error {
	for _, s := range ss {
		if err := r.check(s); err != nil {
			return err
		}
	}
	r.stats = append(r.stats, ss...)
	return nil
}

func (r *ResultSet) check(s LocatedStatistic) error {
	if r.sealed {
		return ErrSealed
	}
	if s.Weapon != r.weapon {
		return fmt.Errorf("%w: %s is not %s", ErrForeignWeapon, s.Weapon, r.weapon)
	}
	return nil
}

// Seal makes the set read-only.
func (r *ResultSet) Seal() { r.sealed = true }

// Statistics returns a copy of the members.
func (r *ResultSet) Statistics() []LocatedStatistic {
	out := make([]LocatedStatistic, len(r.stats))
	for i, s := range r.stats {
		s.Values = slices.Clone(s.Values)
		out[i] = s
	}
	return out
}

// Get returns the first statistic of the given kind.
func (r *ResultSet) Get(kind StatisticKind) (LocatedStatistic, bool) {
	for _, s := range r.stats {
		if s.Kind == kind {
			s.Values = slices.Clone(s.Values)
			return s, true
		}
	}
	return LocatedStatistic{}, false
}

func (r *ResultSet) NeedsRevision() []LocatedStatistic {
	var out []LocatedStatistic
	for _, s := range r.stats {
		if s.NeedsRevision {
			out = append(out, s)
		}
	}
	return out
}

// Missing lists the kinds in expected that have no statistic in the set.
func (r *ResultSet) Missing(expected []StatisticKind) []StatisticKind {
	var out []StatisticKind
	for _, k := range expected {
		if _, ok := r.Get(k); !ok {
			out = append(out, k)
		}
	}
	return out
}
