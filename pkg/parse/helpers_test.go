package parse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pfdb/pkg/weapon"
)

func mustID(t *testing.T, version string, c weapon.Category, rank int) weapon.ID {
	t.Helper()
	v, err := weapon.ParseVersion(version)
	require.NoError(t, err)
	id, err := weapon.NewID(v, c, rank, 0)
	require.NoError(t, err)
	return id
}

func sampleDump(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "an94_1001.txt"))
	require.NoError(t, err)
	return string(b)
}
