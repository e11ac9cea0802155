package parse

import (
	"fmt"
	"strings"

	"pfdb/pkg/weapon"
)

// SearchTarget names a statistic as it is searched for in the text.
type SearchTarget int

const (
	Rank SearchTarget = iota
	Damage
	DamageRange
	Firerate
	AmmoCapacity
	HeadMultiplier
	TorsoMultiplier
	LimbMultiplier
	MuzzleVelocity
	Suppression
	PenetrationDepth
	ReloadTime
	EmptyReloadTime
	WeaponWalkspeed
	AimingWalkspeed
	AmmoType
	SightMagnification
	MinimumTimeToKill
	HipfireSpreadFactor
	HipfireRecoverySpeed
	HipfireSpreadDamping
	HipChoke
	AimChoke
	EquipSpeed
	AimModelSpeed
	AimMagnificationSpeed
	CrosshairSize
	CrosshairSpreadRate
	CrosshairRecoverRate
	FireModes

	BlastRadius
	KillingRadius
	MaximumDamage
	TriggerMechanism
	SpecialEffects
	ThrowVelocity
	ThrowAngle
	StoredCapacity

	FrontStabDamage
	BackStabDamage
	MainAttackTime
	MainAttackDelay
	AltAttackTime
	AltAttackDelay
	QuickAttackTime
	QuickAttackDelay
	Walkspeed

	numTargets
)

var targetNames = [numTargets]string{
	"Rank", "Damage", "DamageRange", "Firerate", "AmmoCapacity",
	"HeadMultiplier", "TorsoMultiplier", "LimbMultiplier", "MuzzleVelocity",
	"Suppression", "PenetrationDepth", "ReloadTime", "EmptyReloadTime",
	"WeaponWalkspeed", "AimingWalkspeed", "AmmoType", "SightMagnification",
	"MinimumTimeToKill", "HipfireSpreadFactor", "HipfireRecoverySpeed",
	"HipfireSpreadDamping", "HipChoke", "AimChoke", "EquipSpeed",
	"AimModelSpeed", "AimMagnificationSpeed", "CrosshairSize",
	"CrosshairSpreadRate", "CrosshairRecoverRate", "FireModes",
	"BlastRadius", "KillingRadius", "MaximumDamage", "TriggerMechanism",
	"SpecialEffects", "ThrowVelocity", "ThrowAngle", "StoredCapacity",
	"FrontStabDamage", "BackStabDamage", "MainAttackTime", "MainAttackDelay",
	"AltAttackTime", "AltAttackDelay", "QuickAttackTime", "QuickAttackDelay",
	"Walkspeed",
}

func (t SearchTarget) String() string {
	if t < 0 || t >= numTargets {
		return fmt.Sprintf("SearchTarget(%d)", int(t))
	}
	return targetNames[t]
}

// ParseSearchTarget looks a target up by name, ignoring case.
func ParseSearchTarget(name string) (SearchTarget, error) {
	for i, n := range targetNames {
		if strings.EqualFold(n, name) {
			return SearchTarget(i), nil
		}
	}
	return 0, fmt.Errorf("unknown search target %q", name)
}

// targetWords are the label words identifying each target, in reading order.
// The trailing space on "damage " keeps it from matching the DamageInfo header.
var targetWords = map[SearchTarget][]string{
	Rank:                  {"rank"},
	Damage:                {"damage "},
	DamageRange:           {"damage", "range"},
	Firerate:              {"firerate"},
	AmmoCapacity:          {"ammo", "capacity"},
	HeadMultiplier:        {"head", "multiplier"},
	TorsoMultiplier:       {"torso", "multiplier"},
	LimbMultiplier:        {"limb", "multiplier"},
	MuzzleVelocity:        {"muzzle", "velocity"},
	Suppression:           {"suppression"},
	PenetrationDepth:      {"penetration", "depth"},
	ReloadTime:            {"reload", "time"},
	EmptyReloadTime:       {"empty", "reload", "time"},
	WeaponWalkspeed:       {"weapon", "walkspeed"},
	AimingWalkspeed:       {"aiming", "walkspeed"},
	AmmoType:              {"ammo", "type"},
	SightMagnification:    {"sight", "magnification"},
	MinimumTimeToKill:     {"minimum", "time", "to", "kill"},
	HipfireSpreadFactor:   {"hipfire", "spread", "factor"},
	HipfireRecoverySpeed:  {"hipfire", "recovery", "speed"},
	HipfireSpreadDamping:  {"hipfire", "spread", "damping"},
	HipChoke:              {"hip", "choke"},
	AimChoke:              {"aim", "choke"},
	EquipSpeed:            {"equip", "speed"},
	AimModelSpeed:         {"aim", "model", "speed"},
	AimMagnificationSpeed: {"aim", "magnification", "speed"},
	CrosshairSize:         {"crosshair", "size"},
	CrosshairSpreadRate:   {"crosshair", "spread", "rate"},
	CrosshairRecoverRate:  {"crosshair", "recover", "rate"},
	FireModes:             {"fire", "modes"},

	BlastRadius:      {"blast", "radius"},
	KillingRadius:    {"killing", "radius"},
	MaximumDamage:    {"maximum", "damage"},
	TriggerMechanism: {"trigger", "mechanism"},
	SpecialEffects:   {"special", "effects"},
	ThrowVelocity:    {"throw", "velocity"},
	ThrowAngle:       {"throw", "angle"},
	StoredCapacity:   {"stored", "capacity"},

	FrontStabDamage:  {"front", "stab", "damage"},
	BackStabDamage:   {"back", "stab", "damage"},
	MainAttackTime:   {"main", "attack", "time"},
	MainAttackDelay:  {"main", "attack", "delay"},
	AltAttackTime:    {"alt", "attack", "time"},
	AltAttackDelay:   {"alt", "attack", "delay"},
	QuickAttackTime:  {"quick", "attack", "time"},
	QuickAttackDelay: {"quick", "attack", "delay"},
	Walkspeed:        {"walkspeed"},
}

// Words returns a copy of the label words for t.
func (t SearchTarget) Words() []string {
	return append([]string(nil), targetWords[t]...)
}

var (
	gunTargets = []SearchTarget{
		Rank, Damage, DamageRange, Firerate, AmmoCapacity, HeadMultiplier,
		TorsoMultiplier, LimbMultiplier, MuzzleVelocity, Suppression,
		PenetrationDepth, ReloadTime, EmptyReloadTime, WeaponWalkspeed,
		AimingWalkspeed, AmmoType, SightMagnification, MinimumTimeToKill,
		HipfireSpreadFactor, HipfireRecoverySpeed, HipfireSpreadDamping,
		HipChoke, AimChoke, EquipSpeed, AimModelSpeed, AimMagnificationSpeed,
		CrosshairSize, CrosshairSpreadRate, CrosshairRecoverRate, FireModes,
	}
	grenadeTargets = []SearchTarget{
		BlastRadius, KillingRadius, MaximumDamage, TriggerMechanism,
		SpecialEffects, ThrowVelocity, ThrowAngle, StoredCapacity,
	}
	meleeTargets = []SearchTarget{
		FrontStabDamage, BackStabDamage, MainAttackTime, MainAttackDelay,
		AltAttackTime, AltAttackDelay, QuickAttackTime, QuickAttackDelay,
		Walkspeed, HeadMultiplier, TorsoMultiplier, LimbMultiplier,
	}
	targetsByKind = map[weapon.Kind][]SearchTarget{
		weapon.GunKind:     gunTargets,
		weapon.GrenadeKind: grenadeTargets,
		weapon.MeleeKind:   meleeTargets,
	}
)

// TargetsFor lists the targets extracted for a weapon kind, in extraction order.
func TargetsFor(kind weapon.Kind) []SearchTarget {
	return append([]SearchTarget(nil), targetsByKind[kind]...)
}

func Applicable(kind weapon.Kind, t SearchTarget) bool {
	for _, x := range targetsByKind[kind] {
		if x == t {
			return true
		}
	}
	return false
}
