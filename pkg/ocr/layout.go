package ocr

import (
	"fmt"
	"image"

	"pfdb/pkg/weapon"
)

// Section is a named crop of the statistics screen. Indexed sections hold a
// row of damage cells that are read one by one.
type Section struct {
	Name    string `yaml:"name"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Indexed bool   `yaml:"indexed"`
}

func (s Section) Rect() image.Rectangle {
	return image.Rect(s.X, s.Y, s.X+s.Width, s.Y+s.Height)
}

// Layout describes where the statistics are on a screenshot and how to read them.
type Layout struct {
	Language    string  `yaml:"language"`
	ResizeScale float64 `yaml:"resizeScale"`
	// Threshold is the binarization cut-off; 0 selects the adaptive threshold.
	Threshold uint8 `yaml:"threshold"`
	// Sections are keyed by weapon kind: gun, grenade or melee.
	Sections map[string][]Section `yaml:"sections"`
}

// DefaultLayout is the 1920x1080 layout of the 10.0.1 statistics screen.
func DefaultLayout() Layout {
	return Layout{
		Language:    "eng",
		ResizeScale: 3,
		Threshold:   140,
		Sections: map[string][]Section{
			weapon.GunKind.String(): {
				{Name: "Ballistics", X: 1290, Y: 150, Width: 270, Height: 230},
				{Name: "Accuracies", X: 1290, Y: 400, Width: 270, Height: 230},
				{Name: "WeaponCharacteristics", X: 1290, Y: 555, Width: 270, Height: 235},
				{Name: "Miscellaneous", X: 1290, Y: 700, Width: 270, Height: 220},
				{Name: "RankInfo", X: 1580, Y: 150, Width: 270, Height: 240},
				{Name: "DamageInfo", X: 1580, Y: 365, Width: 270, Height: 107, Indexed: true},
				{Name: "FireInfo", X: 1580, Y: 500, Width: 270, Height: 220},
			},
			weapon.GrenadeKind.String(): {
				{Name: "GRankInfo", X: 1580, Y: 100, Width: 270, Height: 200},
				{Name: "DamageAdvanced", X: 1580, Y: 290, Width: 270, Height: 220},
				{Name: "DamageAdvanced2", X: 1580, Y: 390, Width: 270, Height: 215},
			},
			weapon.MeleeKind.String(): {
				{Name: "MRankInfo", X: 1580, Y: 150, Width: 270, Height: 215},
				{Name: "AnimationSpeeds", X: 1580, Y: 220, Width: 270, Height: 220},
			},
		},
	}
}

// For returns the sections read for a weapon kind.
func (l Layout) For(kind weapon.Kind) ([]Section, error) {
	secs := l.Sections[kind.String()]
	if len(secs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSections, kind)
	}
	return secs, nil
}

func (l Layout) Validate() error {
	if l.ResizeScale < 0 {
		return fmt.Errorf("ocr resize scale must be >= 0, got %g", l.ResizeScale)
	}
	for kind, secs := range l.Sections {
		for _, s := range secs {
			if s.Name == "" {
				return fmt.Errorf("ocr section of %s has no name", kind)
			}
			if s.Width <= 0 || s.Height <= 0 || s.X < 0 || s.Y < 0 {
				return fmt.Errorf("ocr section %s/%s has an empty or negative rectangle", kind, s.Name)
			}
		}
	}
	return nil
}
