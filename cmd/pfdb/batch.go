package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pfdb/pkg/store"
	"pfdb/process"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		watch     bool
		workers   int
		writeBack bool
		jsonOut   string
		toDB      bool
	)
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Extract every dump in a directory",
		Long: `Extract every dump in a directory with a pool of workers.

With --watch the directory is then watched and new or rewritten dumps are
extracted once they stop changing. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if workers <= 0 {
				workers = a.cfg.Batch.Workers
			}
			var sinks process.Sinks
			if jsonOut != "" {
				if err := os.MkdirAll(jsonOut, 0o755); err != nil {
					return err
				}
				sinks = append(sinks, process.JSONSink{Dir: jsonOut})
			}
			if toDB {
				db, err := a.openDB()
				if err != nil {
					return err
				}
				sinks = append(sinks, process.DBSink{Texts: store.NewTextStore(db)})
			}
			opts := process.Options{
				Dir:       args[0],
				Workers:   workers,
				Params:    a.cfg.Params(),
				WriteBack: writeBack,
				Debounce:  a.cfg.Batch.Debounce,
			}
			if len(sinks) > 0 {
				opts.Sink = sinks
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			run := process.Run
			if watch {
				run = process.Watch
			}
			sum, err := run(ctx, opts)
			log.Info().
				Int64("files", sum.Files).
				Int64("extracted", sum.Extracted).
				Int64("flagged", sum.Flagged).
				Int64("failed", sum.Failed).
				Msg("batch done")
			return err
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "keep watching the directory")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "parallel workers (default from config)")
	cmd.Flags().BoolVar(&writeBack, "write-back", false, "rewrite dumps with repaired labels")
	cmd.Flags().StringVar(&jsonOut, "json-out", "", "write one JSON report per dump into this directory")
	cmd.Flags().BoolVar(&toDB, "db", false, "store dumps and statistics in the database")
	return cmd
}
