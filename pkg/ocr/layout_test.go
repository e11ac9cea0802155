package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfdb/pkg/weapon"
)

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()
	require.NoError(t, l.Validate())
	for _, kind := range []weapon.Kind{weapon.GunKind, weapon.GrenadeKind, weapon.MeleeKind} {
		secs, err := l.For(kind)
		require.NoError(t, err, kind.String())
		assert.NotEmpty(t, secs)
	}
	gun, _ := l.For(weapon.GunKind)
	indexed := 0
	for _, s := range gun {
		if s.Indexed {
			indexed++
			assert.Equal(t, "DamageInfo", s.Name)
		}
	}
	assert.Equal(t, 1, indexed)
}

func TestLayoutForMissingKind(t *testing.T) {
	l := Layout{Language: "eng"}
	_, err := l.For(weapon.MeleeKind)
	assert.ErrorIs(t, err, ErrNoSections)
}

func TestLayoutValidate(t *testing.T) {
	l := DefaultLayout()
	l.Sections["gun"] = append(l.Sections["gun"], Section{Name: "Broken", Width: 0, Height: 10})
	assert.Error(t, l.Validate())

	l = DefaultLayout()
	l.ResizeScale = -1
	assert.Error(t, l.Validate())
}

func TestCaptureMissingFile(t *testing.T) {
	id, err := weapon.ParseID("10.0.1/AssaultRifles/11")
	require.NoError(t, err)
	_, err = Capture("testdata/does-not-exist.png", DefaultLayout(), id)
	assert.Error(t, err)
}
