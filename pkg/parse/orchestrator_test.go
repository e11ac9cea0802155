package parse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfdb/pkg/weapon"
)

type memStore struct {
	saves []string
	err   error
}

func (m *memStore) Save(_ context.Context, _ weapon.ID, text string) error {
	m.saves = append(m.saves, text)
	return m.err
}

func TestExtractAllSampleDump(t *testing.T) {
	id := mustID(t, "10.0.1", weapon.AssaultRifles, 11)
	rs, err := Extract(context.Background(), sampleDump(t), id, DefaultParams())
	require.NoError(t, err)

	want := map[StatisticKind]string{
		RankStat:                  "11",
		FirerateStat:              "600A",
		MagazineCapacity:          "30",
		ReserveCapacity:           "120",
		TotalAmmoCapacity:         "150",
		HeadMultiplierStat:        "1.40",
		TorsoMultiplierStat:       "1.00",
		LimbMultiplierStat:        "1.00",
		MuzzleVelocityStat:        "2500.00",
		SuppressionStat:           "0.50",
		PenetrationDepthStat:      "1.00",
		ReloadTimeStat:            "2.5",
		EmptyReloadTimeStat:       "3.2",
		WeaponWalkspeedStat:       "14.00",
		AimingWalkspeedStat:       "8.4",
		AmmoTypeStat:              "9.45x39mm",
		SightMagnificationStat:    "2.00",
		MinimumTimeToKillStat:     "0.20",
		HipfireSpreadFactorStat:   "0.05",
		HipfireRecoverySpeedStat:  "10.00",
		HipfireSpreadDampingStat:  "0.90",
		HipChokeStat:              "0.00",
		AimChokeStat:              "0.00",
		EquipSpeedStat:            "12.00",
		AimModelSpeedStat:         "15.00",
		AimMagnificationSpeedStat: "12.00",
		CrosshairSizeStat:         "30.00",
		CrosshairSpreadRateStat:   "400.00",
		CrosshairRecoverRateStat:  "20.00",
		FireModesStat:             "AUTO",
	}
	good := 0
	for kind, value := range want {
		s, ok := rs.Get(kind)
		if !assert.True(t, ok, "missing %s", kind) {
			continue
		}
		assert.Equal(t, value, s.Value(), kind.String())
		assert.False(t, s.NeedsRevision, kind.String())
		if s.Value() == value && !s.NeedsRevision {
			good++
		}
	}
	assert.GreaterOrEqual(t, good, 30)

	fr, _ := rs.Get(FirerateStat)
	assert.Equal(t, []string{"600A", "1800B", "600S"}, fr.Values)

	// no row markers in this dump, so modern damage is reported missing
	assert.ElementsMatch(t, []StatisticKind{DamageStat, DamageRangeStat},
		rs.Missing(Kinds(TargetsFor(weapon.GunKind))))
}

func TestExtractAllIsStableAfterRepair(t *testing.T) {
	id := mustID(t, "10.0.1", weapon.AssaultRifles, 11)
	o := NewOrchestrator(sampleDump(t), id, DefaultParams(), nil)
	first, err := o.ExtractAll(context.Background())
	require.NoError(t, err)
	assert.Contains(t, o.Text(), "AMMO CAPACITY ")

	second, err := Extract(context.Background(), o.Text(), id, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, first.Statistics(), second.Statistics())
}

func TestExtractAllSavesRepairedText(t *testing.T) {
	id := mustID(t, "10.0.1", weapon.AssaultRifles, 11)
	store := &memStore{}
	_, err := NewOrchestrator(sampleDump(t), id, DefaultParams(), store).ExtractAll(context.Background())
	require.NoError(t, err)
	require.Len(t, store.saves, 1)
	assert.Contains(t, store.saves[0], "AMMO CAPACITY  30/120")

	store = &memStore{}
	_, err = NewOrchestrator("FIRERATE 600\n", id, DefaultParams(), store).ExtractAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, store.saves, "nothing repaired, nothing saved")

	store = &memStore{err: errors.New("disk full")}
	_, err = NewOrchestrator(sampleDump(t), id, DefaultParams(), store).ExtractAll(context.Background())
	require.Error(t, err)
}

func TestAmmoCapacityComposite(t *testing.T) {
	id := mustID(t, "10.0.1", weapon.AssaultRifles, 11)
	o := NewOrchestrator("AMMO CAPACITY 30/120\n", id, DefaultParams(), nil)
	stats, err := o.ExtractTarget(AmmoCapacity)
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, MagazineCapacity, stats[0].Kind)
	assert.Equal(t, "30", stats[0].Value())
	assert.Equal(t, ReserveCapacity, stats[1].Kind)
	assert.Equal(t, "120", stats[1].Value())
	assert.Equal(t, TotalAmmoCapacity, stats[2].Kind)
	assert.Equal(t, "150", stats[2].Value())
	for _, s := range stats {
		assert.False(t, s.NeedsRevision, s.Kind.String())
	}
}

func TestAmmoCapacityUnparsable(t *testing.T) {
	id := mustID(t, "10.0.1", weapon.AssaultRifles, 11)
	o := NewOrchestrator("AMMO CAPACITY thirty\n", id, DefaultParams(), nil)
	stats, err := o.ExtractTarget(AmmoCapacity)
	require.NoError(t, err)
	require.Len(t, stats, 3)
	for _, s := range stats {
		assert.True(t, s.NeedsRevision, s.Kind.String())
	}
	assert.Equal(t, "AMMO CAPACITY thirty", stats[2].Value())
}

func TestExtractAllGrenadeAndMelee(t *testing.T) {
	grenade := mustID(t, "10.0.1", weapon.FragmentationGrenades, 1)
	text := "BLAST RADIUS 12.00 studs\nKILLING RADIUS 6.00\nMAXIMUM DAMAGE 250\n" +
		"TRIGGER MECHANISM Timed 3.0s\nSPECIAL EFFECTS None\nTHROW VELOCITY 100\n" +
		"THROW ANGLE 15\nSTORED CAPACITY 2\n"
	rs, err := Extract(context.Background(), text, grenade, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 8, rs.Len())
	s, _ := rs.Get(BlastRadiusStat)
	assert.Equal(t, "12.00", s.Value())
	s, _ = rs.Get(ThrowAngleStat)
	assert.Equal(t, "15", s.Value())
	s, _ = rs.Get(SpecialEffectsStat)
	assert.True(t, s.NeedsRevision)

	melee := mustID(t, "10.0.1", weapon.OneHandBladeMelees, 1)
	text = "FRONT STAB DAMAGE 100\nBACK STAB DAMAGE 200\n" +
		"MAIN ATTACK TIME 0.5\nMAIN ATTACK DELAY 0.1\n" +
		"ALT ATTACK TIME 0.8\nALT ATTACK DELAY 0.2\n" +
		"QUICK ATTACK TIME 0.3\nQUICK ATTACK DELAY 0.0\n" +
		"WALKSPEED 18\nHEAD MULTIPLIER 1.00\nTORSO MULTIPLIER 1.00\nLIMB MULTIPLIER 1.00\n"
	rs, err = Extract(context.Background(), text, melee, DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 12, rs.Len())
	assert.Empty(t, rs.NeedsRevision())
	s, _ = rs.Get(BackStabDamageStat)
	assert.Equal(t, "200", s.Value())
	s, _ = rs.Get(AltAttackTimeStat)
	assert.Equal(t, "0.8", s.Value())
	s, _ = rs.Get(WalkspeedStat)
	assert.Equal(t, "18", s.Value())
	_, ok := rs.Get(FirerateStat)
	assert.False(t, ok)
}

func TestExtractAllRejectsBadParams(t *testing.T) {
	p := DefaultParams()
	p.ToleratedInterWordSpaces = -1
	_, err := Extract(context.Background(), "RANK 1", mustID(t, "10.0.1", weapon.AssaultRifles, 1), p)
	require.Error(t, err)
}
