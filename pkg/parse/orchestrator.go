package parse

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"pfdb/pkg/weapon"
)

// Store receives the repaired text of a weapon so later runs start from it.
type Store interface {
	Save(ctx context.Context, id weapon.ID, text string) error
}

// Orchestrator runs every applicable target over one weapon's text.
type Orchestrator struct {
	id        weapon.ID
	params    Params
	buf       *Buffer
	store     Store
	locator   *StatisticLocator
	validator Validator
}

// NewOrchestrator prepares a run over text. store may be nil for text that
// does not come from persistent storage.
func NewOrchestrator(text string, id weapon.ID, params Params, store Store) *Orchestrator {
	return &Orchestrator{
		id:        id,
		params:    params,
		buf:       NewBuffer(text),
		store:     store,
		locator:   NewStatisticLocator(params, id.Version),
		validator: NewValidator(id),
	}
}

// Extract is a one-shot run without a backing store.
func Extract(ctx context.Context, text string, id weapon.ID, params Params) (*ResultSet, error) {
	return NewOrchestrator(text, id, params, nil).ExtractAll(ctx)
}

// Text is the buffer as repaired so far.
func (o *Orchestrator) Text() string { return o.buf.String() }

// ExtractAll resolves every target applicable to the weapon. Targets that
// cannot be found are logged and left out; only contract violations and
// store failures are returned.
func (o *Orchestrator) ExtractAll(ctx context.Context) (*ResultSet, error) {
	if err := o.params.Validate(); err != nil {
		return nil, err
	}
	rs := NewResultSet(o.id)
	for _, target := range TargetsFor(o.id.Kind()) {
		before := o.buf.Revision()
		stats, err := o.ExtractTarget(target)
		switch {
		case err == nil:
			if err := rs.AddRange(stats); err != nil {
				return nil, err
			}
		case IsHard(err):
			return nil, err
		default:
			log.Warn().Err(err).Str("weapon", o.id.String()).Stringer("target", target).Msg("statistic skipped")
		}
		if o.buf.Revision() != before && o.store != nil {
			if err := o.store.Save(ctx, o.id, o.buf.String()); err != nil {
				return nil, fmt.Errorf("save repaired text for %s: %w", o.id, err)
			}
		}
	}
	rs.Seal()
	return rs, nil
}

// ExtractTarget locates and validates a single target.
func (o *Orchestrator) ExtractTarget(target SearchTarget) ([]LocatedStatistic, error) {
	m, err := o.locator.Locate(o.buf, o.id.Kind(), target)
	if err != nil {
		return nil, err
	}
	raw := m.Text()
	if target == AmmoCapacity {
		return o.ammo(raw), nil
	}
	kind, err := target.Kind()
	if err != nil {
		return nil, err
	}
	return []LocatedStatistic{o.validator.Extract(kind, raw)}, nil
}

// ammo splits "30/120" into magazine, reserve and their sum. If either side
// is not an integer all three are emitted for revision, the total holding
// the located text once.
func (o *Orchestrator) ammo(raw string) []LocatedStatistic {
	mag := o.validator.Extract(MagazineCapacity, raw)
	res := o.validator.Extract(ReserveCapacity, raw)
	m, errM := strconv.Atoi(mag.Value())
	r, errR := strconv.Atoi(res.Value())
	if errM != nil || errR != nil || mag.NeedsRevision || res.NeedsRevision {
		return []LocatedStatistic{
			NewStatistic(o.id, MagazineCapacity, true, mag.Values...),
			NewStatistic(o.id, ReserveCapacity, true, res.Values...),
			NewStatistic(o.id, TotalAmmoCapacity, true, strings.TrimSpace(raw)),
		}
	}
	return []LocatedStatistic{
		mag,
		res,
		NewStatistic(o.id, TotalAmmoCapacity, false, strconv.Itoa(m+r)),
	}
}
