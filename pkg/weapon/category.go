package weapon

import (
	"fmt"
	"strconv"
	"strings"
)

type Category int

const (
	AssaultRifles Category = iota
	PersonalDefenseWeapons
	LightMachineGuns
	SniperRifles
	BattleRifles
	Carbines
	DesignatedMarksmanRifles
	Shotguns
	Pistols
	MachinePistols
	Revolvers
	Other
	FragmentationGrenades
	HighExplosiveGrenades
	ImpactGrenades
	OneHandBladeMelees
	TwoHandBladeMelees
	OneHandBluntMelees
	TwoHandBluntMelees
	numCategories
)

var categoryNames = [numCategories]string{
	"AssaultRifles",
	"PersonalDefenseWeapons",
	"LightMachineGuns",
	"SniperRifles",
	"BattleRifles",
	"Carbines",
	"DesignatedMarksmanRifles",
	"Shotguns",
	"Pistols",
	"MachinePistols",
	"Revolvers",
	"Other",
	"FragmentationGrenades",
	"HighExplosiveGrenades",
	"ImpactGrenades",
	"OneHandBladeMelees",
	"TwoHandBladeMelees",
	"OneHandBluntMelees",
	"TwoHandBluntMelees",
}

// ParseCategory accepts a category name (case-insensitive) or its number.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		c := Category(n)
		if !c.Valid() {
			return 0, fmt.Errorf("%w: %d", ErrInvalidCategory, n)
		}
		return c, nil
	}
	for i, name := range categoryNames {
		if strings.EqualFold(name, s) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

func (c Category) Valid() bool {
	return c >= 0 && c < numCategories
}

func (c Category) String() string {
	if !c.Valid() {
		return "Category(" + strconv.Itoa(int(c)) + ")"
	}
	return categoryNames[c]
}

// WeaponType derives the inventory slot from the category.
func (c Category) WeaponType() Type {
	switch {
	case c < Pistols:
		return Primary
	case c < FragmentationGrenades:
		return Secondary
	case c < OneHandBladeMelees:
		return Grenade
	}
	return Melee
}
