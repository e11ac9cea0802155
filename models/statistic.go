package models

import "time"

// Statistic is one extracted value set. A weapon's statistics are replaced
// as a whole on every extraction.
type Statistic struct {
	ID            uint `gorm:"primaryKey"`
	CreatedAt     time.Time
	WeaponTextID  uint       `gorm:"index;not null"`
	WeaponText    WeaponText `gorm:"foreignKey:WeaponTextID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Weapon        string     `gorm:"size:64;index;not null"`
	Kind          string     `gorm:"size:64;not null"`
	Values        []string   `gorm:"serializer:json;type:text"`
	NeedsRevision bool       `gorm:"default:false;index"`
}
