package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pfdb/pkg/ocr"
	"pfdb/pkg/store"
	"pfdb/process"
	"pfdb/process/captures"
)

func newOCRCmd(a *app) *cobra.Command {
	var (
		weaponFlag string
		outDir     string
		retry      bool
		dryRun     bool
	)
	cmd := &cobra.Command{
		Use:   "ocr [screenshot]",
		Short: "Read a statistics screenshot into a dump",
		Long: `Read a statistics screenshot into a dump. The dump is printed, or saved
under its canonical name in --out.

With --retry-failed, every uploaded capture OCR could not read is tried again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if retry {
				db, err := a.openDB()
				if err != nil {
					return err
				}
				in := captures.New(db, store.NewTextStore(db), a.cfg.OCR)
				sum, err := in.Retry(cmd.Context(), dryRun)
				log.Info().Int("retried", sum.Retried).Int("recovered", sum.Recovered).Bool("dry", dryRun).Msg("retry done")
				return err
			}
			if len(args) != 1 {
				return errors.New("a screenshot is required")
			}
			id, err := dumpWeapon(args[0], weaponFlag)
			if err != nil {
				return err
			}
			text, err := ocr.Capture(args[0], a.cfg.OCR, id)
			if err != nil {
				return err
			}
			if outDir == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), text)
				return err
			}
			if err := process.NewFileStore(outDir).Save(cmd.Context(), id, text); err != nil {
				return err
			}
			log.Info().Str("dump", filepath.Join(outDir, process.DumpName(id))).Msg("dump written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&weaponFlag, "weapon", "w", "", "weapon id, e.g. 10.0.1/AssaultRifles/11")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to save the dump into")
	cmd.Flags().BoolVar(&retry, "retry-failed", false, "retry failed uploaded captures")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "with --retry-failed, read but do not store")
	return cmd
}
