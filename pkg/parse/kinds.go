package parse

import (
	"fmt"
	"strings"
)

// StatisticKind names an extracted statistic. It mirrors SearchTarget except
// that AmmoCapacity is split into magazine, reserve and total.
type StatisticKind int

const (
	RankStat StatisticKind = iota
	DamageStat
	DamageRangeStat
	FirerateStat
	MagazineCapacity
	ReserveCapacity
	TotalAmmoCapacity
	HeadMultiplierStat
	TorsoMultiplierStat
	LimbMultiplierStat
	MuzzleVelocityStat
	SuppressionStat
	PenetrationDepthStat
	ReloadTimeStat
	EmptyReloadTimeStat
	WeaponWalkspeedStat
	AimingWalkspeedStat
	AmmoTypeStat
	SightMagnificationStat
	MinimumTimeToKillStat
	HipfireSpreadFactorStat
	HipfireRecoverySpeedStat
	HipfireSpreadDampingStat
	HipChokeStat
	AimChokeStat
	EquipSpeedStat
	AimModelSpeedStat
	AimMagnificationSpeedStat
	CrosshairSizeStat
	CrosshairSpreadRateStat
	CrosshairRecoverRateStat
	FireModesStat
	BlastRadiusStat
	KillingRadiusStat
	MaximumDamageStat
	TriggerMechanismStat
	SpecialEffectsStat
	ThrowVelocityStat
	ThrowAngleStat
	StoredCapacityStat
	FrontStabDamageStat
	BackStabDamageStat
	MainAttackTimeStat
	MainAttackDelayStat
	AltAttackTimeStat
	AltAttackDelayStat
	QuickAttackTimeStat
	QuickAttackDelayStat
	WalkspeedStat

	numKinds
)

// kindTargets maps every statistic kind back to the target it is searched by.
var kindTargets = [numKinds]SearchTarget{
	RankStat:                  Rank,
	DamageStat:                Damage,
	DamageRangeStat:           DamageRange,
	FirerateStat:              Firerate,
	MagazineCapacity:          AmmoCapacity,
	ReserveCapacity:           AmmoCapacity,
	TotalAmmoCapacity:         AmmoCapacity,
	HeadMultiplierStat:        HeadMultiplier,
	TorsoMultiplierStat:       TorsoMultiplier,
	LimbMultiplierStat:        LimbMultiplier,
	MuzzleVelocityStat:        MuzzleVelocity,
	SuppressionStat:           Suppression,
	PenetrationDepthStat:      PenetrationDepth,
	ReloadTimeStat:            ReloadTime,
	EmptyReloadTimeStat:       EmptyReloadTime,
	WeaponWalkspeedStat:       WeaponWalkspeed,
	AimingWalkspeedStat:       AimingWalkspeed,
	AmmoTypeStat:              AmmoType,
	SightMagnificationStat:    SightMagnification,
	MinimumTimeToKillStat:     MinimumTimeToKill,
	HipfireSpreadFactorStat:   HipfireSpreadFactor,
	HipfireRecoverySpeedStat:  HipfireRecoverySpeed,
	HipfireSpreadDampingStat:  HipfireSpreadDamping,
	HipChokeStat:              HipChoke,
	AimChokeStat:              AimChoke,
	EquipSpeedStat:            EquipSpeed,
	AimModelSpeedStat:         AimModelSpeed,
	AimMagnificationSpeedStat: AimMagnificationSpeed,
	CrosshairSizeStat:         CrosshairSize,
	CrosshairSpreadRateStat:   CrosshairSpreadRate,
	CrosshairRecoverRateStat:  CrosshairRecoverRate,
	FireModesStat:             FireModes,
	BlastRadiusStat:           BlastRadius,
	KillingRadiusStat:         KillingRadius,
	MaximumDamageStat:         MaximumDamage,
	TriggerMechanismStat:      TriggerMechanism,
	SpecialEffectsStat:        SpecialEffects,
	ThrowVelocityStat:         ThrowVelocity,
	ThrowAngleStat:            ThrowAngle,
	StoredCapacityStat:        StoredCapacity,
	FrontStabDamageStat:       FrontStabDamage,
	BackStabDamageStat:        BackStabDamage,
	MainAttackTimeStat:        MainAttackTime,
	MainAttackDelayStat:       MainAttackDelay,
	AltAttackTimeStat:         AltAttackTime,
	AltAttackDelayStat:        AltAttackDelay,
	QuickAttackTimeStat:       QuickAttackTime,
	QuickAttackDelayStat:      QuickAttackDelay,
	WalkspeedStat:             Walkspeed,
}

var targetKinds = func() map[SearchTarget]StatisticKind {
	m := make(map[SearchTarget]StatisticKind, numKinds)
	for k, t := range kindTargets {
		if t == AmmoCapacity {
			continue
		}
		m[t] = StatisticKind(k)
	}
	return m
}()

func (k StatisticKind) String() string {
	switch k {
	case MagazineCapacity:
		return "MagazineCapacity"
	case ReserveCapacity:
		return "ReserveCapacity"
	case TotalAmmoCapacity:
		return "TotalAmmoCapacity"
	}
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("StatisticKind(%d)", int(k))
	}
	return kindTargets[k].String()
}

// ParseStatisticKind looks a kind up by name, ignoring case.
func ParseStatisticKind(name string) (StatisticKind, error) {
	for k := StatisticKind(0); k < numKinds; k++ {
		if strings.EqualFold(k.String(), name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown statistic kind %q", name)
}

// Target is total: the three ammo sub-kinds all map to AmmoCapacity.
func (k StatisticKind) Target() SearchTarget {
	if k < 0 || k >= numKinds {
		return SearchTarget(-1)
	}
	return kindTargets[k]
}

// Kind converts a target to its statistic kind. AmmoCapacity has three
// kinds and fails with ErrAmbiguousConversion.
func (t SearchTarget) Kind() (StatisticKind, error) {
	if t == AmmoCapacity {
		return 0, fmt.Errorf("%w: %s maps to %s, %s and %s", ErrAmbiguousConversion,
			t, MagazineCapacity, ReserveCapacity, TotalAmmoCapacity)
	}
	k, ok := targetKinds[t]
	if !ok {
		return 0, fmt.Errorf("no statistic kind for %s", t)
	}
	return k, nil
}

// Kinds lists every statistic kind expected for the given targets.
func Kinds(targets []SearchTarget) []StatisticKind {
	out := make([]StatisticKind, 0, len(targets)+2)
	for _, t := range targets {
		if t == AmmoCapacity {
			out = append(out, MagazineCapacity, ReserveCapacity, TotalAmmoCapacity)
			continue
		}
		if k, err := t.Kind(); err == nil {
			out = append(out, k)
		}
	}
	return out
}

func (k StatisticKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *StatisticKind) UnmarshalText(b []byte) error {
	v, err := ParseStatisticKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
