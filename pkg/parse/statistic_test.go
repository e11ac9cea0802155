package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfdb/pkg/weapon"
)

func TestResultSetRejectsForeignWeapon(t *testing.T) {
	own := mustID(t, "10.0.1", weapon.AssaultRifles, 11)
	other := mustID(t, "10.0.1", weapon.AssaultRifles, 12)
	rs := NewResultSet(own)

	require.NoError(t, rs.Add(NewStatistic(own, RankStat, false, "11")))
	err := rs.Add(NewStatistic(other, RankStat, false, "12"))
	require.ErrorIs(t, err, ErrForeignWeapon)
	assert.Equal(t, 1, rs.Len())
}

func TestResultSetAddRangeIsAllOrNothing(t *testing.T) {
	own := mustID(t, "10.0.1", weapon.AssaultRifles, 11)
	other := mustID(t, "9.0.2", weapon.AssaultRifles, 11)
	rs := NewResultSet(own)

	err := rs.AddRange([]LocatedStatistic{
		NewStatistic(own, RankStat, false, "11"),
		NewStatistic(other, FirerateStat, false, "600"),
	})
	require.ErrorIs(t, err, ErrForeignWeapon)
	assert.Equal(t, 0, rs.Len())
}

func TestResultSetSealAndCopies(t *testing.T) {
	own := mustID(t, "10.0.1", weapon.AssaultRifles, 11)
	rs := NewResultSet(own)
	require.NoError(t, rs.Add(NewStatistic(own, FirerateStat, false, "600A", "900S")))
	rs.Seal()
	require.ErrorIs(t, rs.Add(NewStatistic(own, RankStat, false, "11")), ErrSealed)

	stats := rs.Statistics()
	stats[0].Values[0] = "changed"
	got, ok := rs.Get(FirerateStat)
	require.True(t, ok)
	assert.Equal(t, "600A", got.Value())
}

func TestResultSetRevisionAndMissing(t *testing.T) {
	own := mustID(t, "10.0.1", weapon.AssaultRifles, 11)
	rs := NewResultSet(own)
	require.NoError(t, rs.Add(NewStatistic(own, RankStat, false, "11")))
	require.NoError(t, rs.Add(NewStatistic(own, AmmoTypeStat, false)))

	flagged := rs.NeedsRevision()
	require.Len(t, flagged, 1)
	assert.Equal(t, AmmoTypeStat, flagged[0].Kind)

	assert.Equal(t, []StatisticKind{FirerateStat}, rs.Missing([]StatisticKind{RankStat, FirerateStat, AmmoTypeStat}))
}
