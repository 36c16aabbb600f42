package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dgnsrekt/catalog-stream/internal/importer"
	"github.com/dgnsrekt/catalog-stream/internal/notify"
	"github.com/dgnsrekt/catalog-stream/internal/staging"
)

func importCmd() *cobra.Command {
	var (
		dryRun       bool
		skipExisting bool
		workers      int
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create records from a newline-delimited JSON file",
		Long: `Create one record per line of FILE. Files ending in .zst are decompressed.

Examples:
  catalogctl import movies.jsonl

  # Resume an interrupted import
  catalogctl import --skip-existing movies.jsonl.zst`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rc, err := staging.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening import file: %w", err)
			}
			tasks, err := importer.ReadTasks(rc)
			_ = rc.Close()
			if err != nil {
				return err
			}

			logger.Info("read import file", zap.String("file", args[0]), zap.Int("records", len(tasks)))

			if dryRun {
				for _, t := range tasks {
					fmt.Printf("Would import: %s\n", t)
				}
				return nil
			}

			if !cmd.Flags().Changed("workers") {
				workers = cfg.Client.Workers
			}

			mgr := importer.NewManager(newClient(), workers, skipExisting, logger)

			start := time.Now()
			result, execErr := mgr.Execute(ctx, tasks)
			duration := time.Since(start)

			logger.Info("import complete",
				zap.Int("total", result.Total),
				zap.Int("success", result.Success),
				zap.Int("skipped", result.Skipped),
				zap.Int("invalid", result.Invalid),
				zap.Int("failed", result.Failed),
				zap.Duration("duration", duration),
			)

			notifier := notify.New(cfg.Notify, logger)
			if err := notifier.ImportFinished(ctx, result, duration, execErr); err != nil {
				logger.Warn("failed to send import notification", zap.Error(err))
			}

			if execErr != nil {
				return execErr
			}
			for _, e := range result.Errors {
				logger.Error("import error", zap.String("error", e))
			}
			if result.Failed > 0 || result.Invalid > 0 {
				return fmt.Errorf("%d records not imported", result.Failed+result.Invalid)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be imported")
	cmd.Flags().BoolVar(&skipExisting, "skip-existing", false, "skip records whose name already exists")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent workers (default client.workers)")

	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write every record to a newline-delimited JSON file",
		Long: `Write every record to FILE, replacing it atomically. Files ending in .zst
are zstd-compressed.

Examples:
  catalogctl export backup.jsonl.zst`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			recs, err := newClient().List(ctx, nil)
			if err != nil {
				return err
			}

			stgMgr := staging.NewManager(filepath.Dir(args[0]))
			size, err := stgMgr.Export(ctx, filepath.Base(args[0]), recs)
			if err != nil {
				return err
			}

			logger.Info("export complete",
				zap.String("file", args[0]),
				zap.Int("records", len(recs)),
				zap.Int64("bytes", size),
			)
			return nil
		},
	}

	return cmd
}
