// Package captures turns uploaded statistics screenshots into stored dumps
// and retries the ones OCR could not read.
package captures

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"pfdb/models"
	"pfdb/pkg/ocr"
	"pfdb/pkg/store"
	"pfdb/pkg/weapon"
)

const maxReason = 255

// Reader renders the text dump of a screenshot. ocr.Capture is the
// production reader.
type Reader func(path string, layout ocr.Layout, id weapon.ID) (string, error)

type Ingester struct {
	DB     *gorm.DB
	Texts  *store.TextStore
	Layout ocr.Layout
	Read   Reader
}

func New(db *gorm.DB, texts *store.TextStore, layout ocr.Layout) *Ingester {
	return &Ingester{DB: db, Texts: texts, Layout: layout, Read: ocr.Capture}
}

// Ingest reads c and stores the dump. A failed read is recorded on the
// capture and returned; the capture row itself is always saved.
func (in *Ingester) Ingest(ctx context.Context, c *models.Capture) (models.WeaponText, error) {
	row, err := in.read(ctx, c)
	if err != nil {
		c.Failed = true
		c.FailedReason = reason(err)
		c.WeaponTextID = nil
	} else {
		c.Failed = false
		c.FailedReason = ""
		c.WeaponTextID = &row.ID
	}
	if serr := in.DB.WithContext(ctx).Save(c).Error; serr != nil {
		return models.WeaponText{}, errors.Join(err, fmt.Errorf("save capture: %w", serr))
	}
	return row, err
}

func (in *Ingester) read(ctx context.Context, c *models.Capture) (models.WeaponText, error) {
	id, err := weapon.ParseID(c.Weapon)
	if err != nil {
		return models.WeaponText{}, err
	}
	text, err := in.Read(c.StorePath, in.Layout, id)
	if err != nil {
		return models.WeaponText{}, err
	}
	uploader := c.UserID
	return in.Texts.Put(ctx, id, text, &uploader)
}

// Summary counts what Retry did.
type Summary struct {
	Retried   int
	Recovered int
}

// Retry runs OCR again on every failed capture, oldest first. With dry set
// the captures are read but nothing is written.
func (in *Ingester) Retry(ctx context.Context, dry bool) (Summary, error) {
	var failed []models.Capture
	if err := in.DB.WithContext(ctx).Where("failed = ?", true).Order("id").Find(&failed).Error; err != nil {
		return Summary{}, err
	}
	var sum Summary
	for i := range failed {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		c := &failed[i]
		sum.Retried++
		if dry {
			if _, err := in.dryRead(c); err != nil {
				log.Info().Err(err).Uint("capture", c.ID).Msg("still unreadable")
				continue
			}
			log.Info().Uint("capture", c.ID).Str("weapon", c.Weapon).Msg("would recover")
			sum.Recovered++
			continue
		}
		if _, err := in.Ingest(ctx, c); err != nil {
			log.Warn().Err(err).Uint("capture", c.ID).Str("file", c.FileName).Msg("retry failed")
			continue
		}
		sum.Recovered++
		log.Info().Uint("capture", c.ID).Str("weapon", c.Weapon).Msg("capture recovered")
	}
	return sum, nil
}

func (in *Ingester) dryRead(c *models.Capture) (string, error) {
	id, err := weapon.ParseID(c.Weapon)
	if err != nil {
		return "", err
	}
	return in.Read(c.StorePath, in.Layout, id)
}

func reason(err error) string {
	s := err.Error()
	if len(s) > maxReason {
		s = s[:maxReason]
	}
	return s
}
