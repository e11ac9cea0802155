package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pfdb/pkg/weapon"
)

func TestExtractSingleValues(t *testing.T) {
	v := NewValidator(mustID(t, "10.0.1", weapon.AssaultRifles, 11))
	cases := []struct {
		kind StatisticKind
		raw  string
		want string
	}{
		{MagazineCapacity, "AMMO CAPACITY  30 / 120\t", "30"},
		{ReserveCapacity, "AMMO CAPACITY  30/ 120\t", "120"},
		{AmmoTypeStat, "AMMO TYPE 7.62x39mm\t", "7.62x39mm"},
		{AmmoTypeStat, "AMMO TYPE .45  ACP\t", ".45  ACP"},
		{AmmoTypeStat, "AMMO TYPE 9.45x39mm\t", "9.45x39mm"},
		{HeadMultiplierStat, "HEAD MULTIPLIER 1.40 \t", "1.40"},
		{RankStat, "RANK 11\t", "11"},
		{MinimumTimeToKillStat, "MINIMUM TIME TO KILL 0.20s\t", "0.20"},
	}
	for _, c := range cases {
		s := v.Extract(c.kind, c.raw)
		assert.Equal(t, []string{c.want}, s.Values, c.kind.String())
		assert.False(t, s.NeedsRevision, c.kind.String())
		assert.Equal(t, c.kind, s.Kind)
	}
}

func TestExtractNoMatchKeepsRawText(t *testing.T) {
	v := NewValidator(mustID(t, "10.0.1", weapon.AssaultRifles, 11))
	s := v.Extract(AmmoTypeStat, "AMMO TYPE unknown\t")
	assert.True(t, s.NeedsRevision)
	assert.Equal(t, "AMMO TYPE unknown\t", s.Value())

	s = v.Extract(EquipSpeedStat, "EQUIP SPEED --")
	assert.True(t, s.NeedsRevision)
	assert.Equal(t, "EQUIP SPEED --", s.Value())
}

func TestExtractMultiValues(t *testing.T) {
	v := NewValidator(mustID(t, "10.0.1", weapon.AssaultRifles, 11))

	s := v.Extract(FirerateStat, "FIRERATE 600A|1800B|600S \t")
	assert.Equal(t, []string{"600A", "1800B", "600S"}, s.Values)
	assert.False(t, s.NeedsRevision)

	s = v.Extract(FireModesStat, "FIRE MODES | AUTO | Il | SEMI |\t")
	assert.Equal(t, []string{"AUTO", "Il", "SEMI"}, s.Values)
	assert.False(t, s.NeedsRevision)

	s = v.Extract(FireModesStat, "FIRE MODES | AUTO | BURST 3 | SEMI |")
	assert.Equal(t, []string{"AUTO", "BURST 3", "SEMI"}, s.Values)
	assert.True(t, s.NeedsRevision, "an unknown mode is kept and flagged")

	s = v.Extract(FireModesStat, "FIRE MODES ||\t")
	assert.Empty(t, s.Values)
	assert.True(t, s.NeedsRevision, "an empty value list always needs revision")
}

func TestExtractDamageByVersion(t *testing.T) {
	modern := NewValidator(mustID(t, "10.0.1", weapon.AssaultRifles, 11))
	raw := "index 0: 30\tindex 1: (0)\tindex 2: 25\tindex 3: (80)\t"
	assert.Equal(t, []string{"30", "25"}, modern.Extract(DamageStat, raw).Values)
	assert.Equal(t, []string{"(0)", "(80)"}, modern.Extract(DamageRangeStat, raw).Values)

	legacy := NewValidator(mustID(t, "8.0.2", weapon.AssaultRifles, 11))
	assert.Equal(t, []string{"34", "25.5"}, legacy.Extract(DamageStat, "DAMAGE 34 25.5\t").Values)
	assert.Equal(t, []string{"0", "80"}, legacy.Extract(DamageRangeStat, "DAMAGE RANGE 0 80\t").Values)

	s := modern.Extract(DamageStat, "no rows here")
	assert.True(t, s.NeedsRevision)
}
