package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resume-matcher/internal/app"
	"resume-matcher/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	resumeRunID    string
	workers        int
	extractWorkers int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one batch ingestion: rank every job and replace its match set",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRanking(cmd.Context())
	},
}

func init() {
	runCmd.Flags().StringVar(&resumeRunID, "resume", "", "resume an interrupted run by id, skipping jobs it already committed")
	runCmd.Flags().IntVar(&workers, "workers", 0, "jobs ranked in parallel (default INGEST_WORKERS)")
	runCmd.Flags().IntVar(&extractWorkers, "extract-workers", 0, "feature extraction workers per job (default INGEST_EXTRACT_WORKERS)")
}

func runRanking(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.NewContainer(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init container: %w", err)
	}
	defer func() { _ = c.Close() }()

	params := c.DefaultParams()
	params.ResumeRunID = resumeRunID
	if workers > 0 {
		params.Workers = workers
	}
	if extractWorkers > 0 {
		params.ExtractWorkers = extractWorkers
	}

	rep, err := c.Pipeline(nil).Run(ctx, params)
	log.Info("ranking run finished",
		zap.String("run_id", rep.RunID),
		zap.String("status", rep.State()),
		zap.Int("completed", rep.Completed),
		zap.Int("skipped", rep.Skipped),
		zap.Int("remaining", rep.Remaining),
		zap.Int("failed", len(rep.Failed)),
		zap.Int("matches_written", rep.MatchesWritten),
		zap.Any("diagnostics", rep.Diagnostics),
	)
	if err != nil {
		if rep.RunID != "" && rep.Remaining > 0 {
			log.Info("run can be resumed", zap.String("resume", rep.RunID))
		}
		return err
	}
	return nil
}
