package models

import (
	"time"
)

// Capture is a statistics screenshot uploaded for OCR. A failed capture is
// kept with its reason so it can be retried or reviewed.
type Capture struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	FileName     string     `gorm:"size:255;not null"`
	StorePath    string     `gorm:"column:store_path;size:512"`
	ContentType  string     `gorm:"size:128"`
	UserID       uint       `gorm:"index;not null"`
	User         User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Weapon       string     `gorm:"size:64;index;not null"`
	WeaponTextID *uint      `gorm:"index"`
	WeaponText   WeaponText `gorm:"foreignKey:WeaponTextID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	Failed       bool       `gorm:"default:false;index"`
	FailedReason string     `gorm:"size:255"`
}
