package process

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"pfdb/pkg/weapon"
)

// DumpExt is the extension of OCR text dumps.
const DumpExt = ".txt"

// ParseDumpName reads the weapon ID encoded in a dump file name:
// <version>_<category>_<rank>[_<tiebreaker>].txt, for example
// 1001_0_11.txt or 10.0.1_AssaultRifles_11_2.txt.
func ParseDumpName(name string) (weapon.ID, error) {
	base := filepath.Base(name)
	if !strings.EqualFold(filepath.Ext(base), DumpExt) {
		return weapon.ID{}, fmt.Errorf("dump %q: not a %s file", name, DumpExt)
	}
	parts := strings.Split(strings.TrimSuffix(base, filepath.Ext(base)), "_")
	if len(parts) != 3 && len(parts) != 4 {
		return weapon.ID{}, fmt.Errorf("dump %q: want version_category_rank[_tiebreaker]", name)
	}
	v, err := weapon.ParseVersion(parts[0])
	if err != nil {
		return weapon.ID{}, fmt.Errorf("dump %q: %w", name, err)
	}
	c, err := weapon.ParseCategory(parts[1])
	if err != nil {
		return weapon.ID{}, fmt.Errorf("dump %q: %w", name, err)
	}
	rank, err := strconv.Atoi(parts[2])
	if err != nil {
		return weapon.ID{}, fmt.Errorf("dump %q: rank: %w", name, err)
	}
	tb := 0
	if len(parts) == 4 {
		if tb, err = strconv.Atoi(parts[3]); err != nil {
			return weapon.ID{}, fmt.Errorf("dump %q: tiebreaker: %w", name, err)
		}
	}
	return weapon.NewID(v, c, rank, tb)
}

// DumpName is the canonical file name for id.
func DumpName(id weapon.ID) string {
	return fmt.Sprintf("%d_%d_%d_%d%s", id.Version.Number(), int(id.Category), id.Rank, id.Tiebreaker, DumpExt)
}

// isDump filters directory entries. Sidecar and temp files are skipped.
func isDump(name string) bool {
	if strings.HasPrefix(name, ".") || strings.Contains(name, ".tmp") {
		return false
	}
	return strings.EqualFold(filepath.Ext(name), DumpExt)
}
