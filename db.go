package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"pfdb/pkg/config"
	"pfdb/pkg/store"
)

const defaultAdminPassword = "admin123"

// initDB opens the database, migrates it when configured to, and seeds the
// administrator account and the upload directory.
func initDB(cfg config.Config) (*gorm.DB, error) {
	db, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.Database.AutoMigrate {
		if err := store.Migrate(db); err != nil {
			return nil, err
		}
	}
	seedDB(db, cfg)
	return db, nil
}

func seedDB(db *gorm.DB, cfg config.Config) {
	pw := os.Getenv("ADMIN_PASSWORD")
	if pw == "" {
		pw = defaultAdminPassword
	}
	if err := store.NewUsers(db).SeedAdmin(context.Background(), "admin", pw); err != nil {
		log.Warn().Err(err).Msg("seed admin")
	}
	ensureUploadBase(cfg.Server.UploadDir)
}

func ensureUploadBase(dir string) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("create upload dir")
	}
}
