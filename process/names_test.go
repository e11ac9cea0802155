package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfdb/pkg/weapon"
)

func TestParseDumpName(t *testing.T) {
	tests := []struct {
		name    string
		rank    int
		tb      int
		cat     weapon.Category
		wantErr bool
	}{
		{name: "1001_0_11.txt", rank: 11, cat: weapon.AssaultRifles},
		{name: "10.0.1_AssaultRifles_11_2.txt", rank: 11, tb: 2, cat: weapon.AssaultRifles},
		{name: "dir/1001_15_3.TXT", rank: 3, cat: weapon.OneHandBladeMelees},
		{name: "1001_0_11.json", wantErr: true},
		{name: "1001_0.txt", wantErr: true},
		{name: "1001_0_x.txt", wantErr: true},
		{name: "abc_0_11.txt", wantErr: true},
		{name: "1001_0_11_y.txt", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseDumpName(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1001, id.Version.Number())
			assert.Equal(t, tt.cat, id.Category)
			assert.Equal(t, tt.rank, id.Rank)
			assert.Equal(t, tt.tb, id.Tiebreaker)
		})
	}
}

func TestDumpNameIsParseable(t *testing.T) {
	id, err := ParseDumpName("10.0.1_AssaultRifles_11_2.txt")
	require.NoError(t, err)
	require.Equal(t, "1001_0_11_2.txt", DumpName(id))
	back, err := ParseDumpName(DumpName(id))
	require.NoError(t, err)
	require.Equal(t, id, back)
}

func TestIsDump(t *testing.T) {
	assert.True(t, isDump("1001_0_11.txt"))
	assert.True(t, isDump("notes.TXT"))
	assert.False(t, isDump("1001_0_11.json"))
	assert.False(t, isDump(".1001_0_11.txt.tmp-123"))
	assert.False(t, isDump(".hidden.txt"))
}
