package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pfdb/pkg/store"
	"pfdb/process/report"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		f     report.Filter
		xlsx  string
		flags int
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise stored weapons and flagged statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := store.OpenSQL(a.cfg.Database.DSN)
			if err != nil {
				return err
			}
			defer db.Close()
			ctx := cmd.Context()
			rows, err := report.Build(ctx, db, f)
			if err != nil {
				return err
			}
			report.Render(cmd.OutOrStdout(), rows)
			if xlsx == "" {
				return nil
			}
			fl, err := report.Flags(ctx, db, flags)
			if err != nil {
				return err
			}
			if err := report.WriteXLSX(xlsx, rows, fl); err != nil {
				return err
			}
			log.Info().Str("path", xlsx).Int("weapons", len(rows)).Int("flagged", len(fl)).Msg("workbook written")
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Version, "game-version", "", "only weapons of this game version, e.g. 10.0.1")
	cmd.Flags().BoolVar(&f.FlaggedOnly, "flagged", false, "only weapons with flagged statistics")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "also write an Excel workbook")
	cmd.Flags().IntVar(&flags, "flags", 500, "flagged statistics listed in the workbook (0 = all)")
	return cmd
}
