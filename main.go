package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pfdb/pkg/config"
)

func main() {
	// ./.env fills in variables that are not already set
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "load .env:", err)
	}
	cfg, err := config.Load(os.Getenv("PFDB_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	setupLogging(cfg)

	// `pfdb-server migrate` runs migrations and seeding, then exits.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		cfg.Database.AutoMigrate = true
		if _, err := initDB(cfg); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		}
		log.Info().Msg("migration and seeding completed")
		return
	}

	db, err := initDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	if cfg.Server.JWTSecret == config.DevJWTSecret {
		log.Warn().Msg("JWT_SECRET not set, using the development secret")
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	newServer(cfg, db).routes(r)

	log.Info().Str("addr", cfg.Server.Addr).Msg("listening")
	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogging(cfg config.Config) {
	lvl, _ := cfg.LogLevel()
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if lvl > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
}

// requestLogger replaces gin's default logger with one zerolog line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		ev := log.Info()
		if c.Writer.Status() >= 500 {
			ev = log.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
