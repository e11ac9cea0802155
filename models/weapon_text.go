package models

import "time"

// WeaponText is the OCR dump of one weapon. Text is rewritten in place when
// the parser repairs a label, and Revision counts those rewrites.
type WeaponText struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Number      int64      `gorm:"uniqueIndex;not null"`
	Weapon      string     `gorm:"size:64;not null"`
	Version     string     `gorm:"size:16;index;not null"`
	Category    int        `gorm:"not null"`
	Rank        int        `gorm:"not null"`
	Tiebreaker  int        `gorm:"not null;default:0"`
	Text        string     `gorm:"type:text;not null"`
	Revision    int        `gorm:"not null;default:0"`
	ExtractedAt *time.Time `gorm:"index"`
	UploadedBy  *uint      `gorm:"index"`
}
