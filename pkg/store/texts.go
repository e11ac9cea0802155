package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pfdb/models"
	"pfdb/pkg/parse"
	"pfdb/pkg/weapon"
)

// TextStore keeps weapon dumps and their extracted statistics. It is the
// persistent write-back target of parse.Orchestrator.
type TextStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ parse.Store = (*TextStore)(nil)

func NewTextStore(db *gorm.DB) *TextStore {
	return &TextStore{db: db, now: time.Now}
}

func textRow(id weapon.ID, text string) models.WeaponText {
	return models.WeaponText{
		Number:     id.Number(),
		Weapon:     id.String(),
		Version:    id.Version.String(),
		Category:   int(id.Category),
		Rank:       id.Rank,
		Tiebreaker: id.Tiebreaker,
		Text:       text,
	}
}

// rowID rebuilds the weapon ID of a stored dump.
func rowID(row models.WeaponText) (weapon.ID, error) {
	v, err := weapon.ParseVersion(row.Version)
	if err != nil {
		return weapon.ID{}, err
	}
	return weapon.NewID(v, weapon.Category(row.Category), row.Rank, row.Tiebreaker)
}

// Put stores a new dump for id, replacing any earlier one. The weapon is
// marked for extraction again.
func (s *TextStore) Put(ctx context.Context, id weapon.ID, text string, uploadedBy *uint) (models.WeaponText, error) {
	row := textRow(id, text)
	row.UploadedBy = uploadedBy
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "number"}},
		DoUpdates: clause.Assignments(map[string]any{"text": text, "revision": 0, "extracted_at": nil, "uploaded_by": uploadedBy, "updated_at": s.now()}),
	}).Create(&row).Error
	if err != nil {
		return models.WeaponText{}, fmt.Errorf("store dump %s: %w", id, err)
	}
	return s.row(ctx, id)
}

// Save writes repaired text back. It only touches dumps that already exist.
func (s *TextStore) Save(ctx context.Context, id weapon.ID, text string) error {
	res := s.db.WithContext(ctx).Model(&models.WeaponText{}).
		Where("number = ?", id.Number()).
		Updates(map[string]any{"text": text, "revision": gorm.Expr("revision + 1"), "updated_at": s.now()})
	if res.Error != nil {
		return fmt.Errorf("save repaired text %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("save repaired text %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *TextStore) row(ctx context.Context, id weapon.ID) (models.WeaponText, error) {
	var row models.WeaponText
	if err := s.db.WithContext(ctx).Where("number = ?", id.Number()).First(&row).Error; err != nil {
		return models.WeaponText{}, fmt.Errorf("dump %s: %w", id, notFound(err))
	}
	return row, nil
}

func (s *TextStore) LoadText(ctx context.Context, id weapon.ID) (string, error) {
	row, err := s.row(ctx, id)
	if err != nil {
		return "", err
	}
	return row.Text, nil
}

// SaveResults replaces the statistics of the result set's weapon and stamps
// the dump as extracted.
func (s *TextStore) SaveResults(ctx context.Context, rs *parse.ResultSet) error {
	id := rs.Weapon()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.WeaponText
		if err := tx.Where("number = ?", id.Number()).First(&row).Error; err != nil {
			return fmt.Errorf("dump %s: %w", id, notFound(err))
		}
		if err := tx.Where("weapon_text_id = ?", row.ID).Delete(&models.Statistic{}).Error; err != nil {
			return err
		}
		stats := rs.Statistics()
		if len(stats) > 0 {
			rows := make([]models.Statistic, 0, len(stats))
			for _, st := range stats {
				rows = append(rows, statisticRow(row.ID, st))
			}
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return markExtracted(tx, &row, s.now()).Error
	})
}

// markExtracted stamps extracted_at alone. updated_at only moves when the
// text does, which is what Pending compares against.
func markExtracted(tx *gorm.DB, row *models.WeaponText, at time.Time) *gorm.DB {
	return tx.Model(row).UpdateColumn("extracted_at", at)
}

func statisticRow(textID uint, st parse.LocatedStatistic) models.Statistic {
	return models.Statistic{
		WeaponTextID:  textID,
		Weapon:        st.Weapon.String(),
		Kind:          st.Kind.String(),
		Values:        st.Values,
		NeedsRevision: st.NeedsRevision,
	}
}

func fromRow(row models.Statistic) (parse.LocatedStatistic, error) {
	id, err := weapon.ParseID(row.Weapon)
	if err != nil {
		return parse.LocatedStatistic{}, err
	}
	kind, err := parse.ParseStatisticKind(row.Kind)
	if err != nil {
		return parse.LocatedStatistic{}, err
	}
	return parse.NewStatistic(id, kind, row.NeedsRevision, row.Values...), nil
}

func fromRows(rows []models.Statistic) ([]parse.LocatedStatistic, error) {
	out := make([]parse.LocatedStatistic, 0, len(rows))
	for _, r := range rows {
		st, err := fromRow(r)
		if err != nil {
			return nil, fmt.Errorf("statistic %d: %w", r.ID, err)
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *TextStore) LoadStatistics(ctx context.Context, id weapon.ID) ([]parse.LocatedStatistic, error) {
	var rows []models.Statistic
	if err := s.db.WithContext(ctx).Where("weapon = ?", id.String()).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows)
}

// Revisions lists flagged statistics, newest first. limit <= 0 means no limit.
func (s *TextStore) Revisions(ctx context.Context, limit int) ([]parse.LocatedStatistic, error) {
	q := s.db.WithContext(ctx).Where("needs_revision = ?", true).Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.Statistic
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return fromRows(rows)
}

// Pending lists weapons whose dump was never extracted or changed since.
func (s *TextStore) Pending(ctx context.Context) ([]weapon.ID, error) {
	var rows []models.WeaponText
	err := s.db.WithContext(ctx).
		Where("extracted_at IS NULL OR updated_at > extracted_at").
		Order("number").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	ids := make([]weapon.ID, 0, len(rows))
	for _, r := range rows {
		id, err := rowID(r)
		if err != nil {
			return nil, fmt.Errorf("dump %d: %w", r.ID, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Extract runs a full extraction over the stored dump of id, writing
// repairs back as they happen, and persists the results.
func (s *TextStore) Extract(ctx context.Context, id weapon.ID, params parse.Params) (*parse.ResultSet, error) {
	text, err := s.LoadText(ctx, id)
	if err != nil {
		return nil, err
	}
	rs, err := parse.NewOrchestrator(text, id, params, s).ExtractAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.SaveResults(ctx, rs); err != nil {
		return nil, err
	}
	return rs, nil
}
