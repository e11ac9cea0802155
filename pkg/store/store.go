package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pfdb/models"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials hides whether the user or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Open connects gorm to Postgres.
func Open(dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("database DSN is not set (DB_DSN or database.dsn)")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// OpenSQL opens a plain database/sql handle through the pgx driver, for
// aggregate queries that gorm would only wrap.
func OpenSQL(dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("database DSN is not set (DB_DSN or database.dsn)")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open pgx: %w", err)
	}
	return db, nil
}

// Migrate creates the schema and seeds the master roles. The roles table
// goes first so the users foreign key can be applied. Failures on single
// tables are logged and skipped so a restricted database user can still
// run the rest.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Role{}); err != nil {
		log.Warn().Err(err).Str("table", "roles").Msg("migration warning")
	}
	if err := seedRoles(db); err != nil {
		return err
	}
	for _, m := range []any{
		&models.User{},
		&models.RefreshToken{},
		&models.WeaponText{},
		&models.Statistic{},
		&models.Capture{},
	} {
		if err := db.AutoMigrate(m); err != nil {
			log.Warn().Err(err).Str("model", fmt.Sprintf("%T", m)).Msg("migration warning")
		}
	}
	return nil
}

func seedRoles(db *gorm.DB) error {
	for _, r := range models.DefaultRoles() {
		if err := db.Where("name = ?", r.Name).FirstOrCreate(&r).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", r.Name, err)
		}
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
