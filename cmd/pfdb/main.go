// Command pfdb extracts weapon statistics from OCR dumps of the in-game
// statistics screen and manages the weapon database.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"pfdb/pkg/config"
	"pfdb/pkg/store"
)

// app carries what the subcommands share once the root has loaded it.
type app struct {
	cfgPath string
	verbose bool
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "pfdb",
		Short: "Weapon statistics extraction from OCR dumps",
		Long: `pfdb reads the text dumps produced by OCR of the weapon statistics
screen, repairs labels the OCR corrupted and extracts every statistic.

Dumps are named <version>_<category>_<rank>[_<tiebreaker>].txt, for example
1001_0_11.txt for the rank 11 assault rifle of version 10.0.1.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	cmd.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "config file (default "+config.DefaultPath+")")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(
		newParseCmd(a),
		newBatchCmd(a),
		newReportCmd(a),
		newOCRCmd(a),
		newMigrateCmd(a),
		newCreateUserCmd(a),
		newResetPasswordCmd(a),
	)
	return cmd
}

func (a *app) load(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	lvl, _ := cfg.LogLevel()
	if a.verbose {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	a.cfg = cfg
	return nil
}

// openDB connects and, unless disabled, migrates the schema.
func (a *app) openDB() (*gorm.DB, error) {
	db, err := store.Open(a.cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if a.cfg.Database.AutoMigrate {
		if err := store.Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
