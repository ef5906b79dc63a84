package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-matcher/internal/config"
	"resume-matcher/internal/database/migration"
	dbpostgres "resume-matcher/internal/database/postgres"
	"resume-matcher/internal/database/seeder"
	"resume-matcher/internal/infrastructure/source"
	"resume-matcher/migrations"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	seedJobsFile       string
	seedCandidatesFile string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load jobs.json and candidates.json into the Postgres source tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return seed(cmd.Context())
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedJobsFile, "jobs", "", "jobs JSON file (default JOBS_FILE)")
	seedCmd.Flags().StringVar(&seedCandidatesFile, "candidates", "", "candidates JSON file (default CANDIDATES_FILE)")
}

func seed(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	jobsPath, candPath := seedJobsFile, seedCandidatesFile
	if jobsPath == "" {
		jobsPath = cfg.Ingestion.JobsFile
	}
	if candPath == "" {
		candPath = cfg.Ingestion.CandidatesFile
	}
	if jobsPath == "" || candPath == "" {
		return errors.New("provide --jobs and --candidates (or JOBS_FILE / CANDIDATES_FILE)")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := dbpostgres.Connect(connCtx, cfg.Database)
	cancel()
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() { _ = db.Close() }()

	runner := migration.Runner{Dir: cfg.App.MigrationsDir}
	if cfg.App.MigrationsDir == "" {
		runner.FS = migrations.FS
	}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	jobs := source.NewJobFile(jobsPath)
	r := seeder.Runner{
		Seeders: []seeder.Seeder{
			seeder.JobPostingsSeeder{Jobs: jobs},
			seeder.ResumesSeeder{Jobs: jobs, Candidates: source.NewCandidateFile(candPath)},
		},
		Log: log,
	}
	counts, err := r.Run(ctx, db)
	if err != nil {
		return err
	}
	log.Info("source tables seeded",
		zap.String("jobs_file", jobsPath),
		zap.String("candidates_file", candPath),
		zap.Int("jobs", counts["job_postings"]),
		zap.Int("resumes", counts["resumes"]),
	)
	return nil
}
