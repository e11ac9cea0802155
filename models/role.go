package models

import "time"

const (
	RoleAdministrator = "administrator"
	RoleUser          = "user"
)

// Role is the master table of user roles.
type Role struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string `gorm:"size:32;uniqueIndex;not null"`
	Description string `gorm:"size:255"`
}

// DefaultRoles are seeded on every migration.
func DefaultRoles() []Role {
	return []Role{
		{Name: RoleAdministrator, Description: "reviews flagged statistics"},
		{Name: RoleUser, Description: "submits dumps and screenshots"},
	}
}
