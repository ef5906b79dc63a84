package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"resume-matcher/internal/domain"
	"resume-matcher/internal/domain/candidate"
	"resume-matcher/internal/domain/job"
	"resume-matcher/internal/domain/matching"
	"resume-matcher/internal/observability"
	"resume-matcher/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrRunInProgress     = errors.New("ranking run already in progress")
)

const (
	LockKey = "ranking:lock"
	lockTTL = 2 * time.Hour

	defaultWorkers        = 4
	defaultExtractWorkers = 8
)

// Checkpoint remembers which jobs a run already committed so an interrupted run can resume.
type Checkpoint interface {
	MarkCompleted(ctx context.Context, runID, jobID string) error
	Completed(ctx context.Context, runID string) (map[string]struct{}, error)
	Clear(ctx context.Context, runID string) error
}

type Locker interface {
	TryLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, token string) error
}

// Invalidator drops cached viewer reads that a committed job made stale.
type Invalidator interface {
	InvalidateJob(ctx context.Context, jobID string) error
}

type Notifier interface {
	MatchesReplaced(jobID string, matches int, scoringVersion string)
}

type Params struct {
	// ResumeRunID continues an earlier run: jobs it already committed are skipped.
	ResumeRunID string
	// RunID names a fresh run. Ignored when ResumeRunID is set.
	RunID          string
	Workers        int
	ExtractWorkers int

	// OnJobDone sees every finished job, in completion order.
	OnJobDone func(Result)

	onLocked func(runID string)
}

type Report struct {
	RunID          string
	StartedAt      time.Time
	FinishedAt     time.Time
	Completed      int
	Skipped        int
	Remaining      int
	Failed         []domain.JobFailure
	MatchesWritten int
	Diagnostics    map[string]int64
	// SourceError is set when the job source could not be read and nothing was ranked.
	SourceError string
}

func (r Report) State() string {
	switch {
	case r.SourceError != "", len(r.Failed) > 0:
		return domain.RunStateFailed
	case r.Remaining > 0:
		return domain.RunStateCancelled
	default:
		return domain.RunStateSucceeded
	}
}

func (r Report) Status() domain.RunStatus {
	finished := r.FinishedAt
	failed := r.Failed
	if failed == nil {
		failed = []domain.JobFailure{}
	}
	return domain.RunStatus{
		RunID:       r.RunID,
		State:       r.State(),
		StartedAt:   r.StartedAt,
		FinishedAt:  &finished,
		Completed:   r.Completed,
		Skipped:     r.Skipped,
		Remaining:   r.Remaining,
		Failed:      failed,
		Diagnostics: r.Diagnostics,
		Error:       r.SourceError,
	}
}

type Dependencies struct {
	Jobs        repository.JobSource
	Candidates  repository.CandidateSource
	Store       repository.MatchStore
	Checkpoint  Checkpoint
	Locker      Locker
	Invalidator Invalidator
	Notifier    Notifier
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// RankingPipeline scores every job's candidate pool and replaces its match set in the store.
type RankingPipeline struct {
	deps   Dependencies
	table  matching.Table
	engine *matching.Engine
	log    *zap.Logger

	running atomic.Bool
	now     func() time.Time
}

func NewRankingPipeline(deps Dependencies, table matching.Table, engine *matching.Engine) *RankingPipeline {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Checkpoint == nil {
		deps.Checkpoint = NewMemoryCheckpoint()
	}
	return &RankingPipeline{
		deps:   deps,
		table:  table,
		engine: engine,
		log:    logger.With(zap.String("pipeline", "ranking")),
		now:    time.Now,
	}
}

// Run processes all jobs. Cancelling ctx stops new jobs from starting; a job already
// started still commits. The returned error is nil only when every pending job committed.
func (p *RankingPipeline) Run(ctx context.Context, params Params) (rep Report, err error) {
	runID := strings.TrimSpace(params.ResumeRunID)
	resuming := runID != ""
	if !resuming {
		runID = strings.TrimSpace(params.RunID)
	}
	if runID == "" {
		runID = uuid.NewString()
	}
	log := p.log.With(zap.String("run_id", runID))

	if !p.running.CompareAndSwap(false, true) {
		return Report{RunID: runID}, ErrRunInProgress
	}
	defer p.running.Store(false)

	if p.deps.Locker != nil {
		ok, lockErr := p.deps.Locker.TryLock(ctx, LockKey, runID, lockTTL)
		if lockErr != nil {
			return Report{RunID: runID}, fmt.Errorf("acquire run lock: %w", lockErr)
		}
		if !ok {
			return Report{RunID: runID}, ErrRunInProgress
		}
		defer func() {
			_ = p.deps.Locker.Unlock(context.WithoutCancel(ctx), LockKey, runID)
		}()
	}
	if params.onLocked != nil {
		params.onLocked(runID)
	}

	start := p.now()
	rep = Report{RunID: runID, StartedAt: start.UTC(), Failed: []domain.JobFailure{}}
	diag := matching.NewDiagnostics()
	norm := matching.NewNormalizer(p.table, diag)

	log.Info("run started", zap.String("step", "run"), zap.String("status", "started"), zap.Bool("resume", resuming))
	defer func() {
		rep.FinishedAt = p.now().UTC()
		rep.Diagnostics = diag.Snapshot()
		p.deps.Metrics.AddFallbacks(rep.Diagnostics)
		p.deps.Metrics.ObserveRun(rep.FinishedAt.Sub(start))
		log.Info("run finished",
			zap.String("step", "run"),
			zap.String("status", rep.State()),
			zap.Int("completed", rep.Completed),
			zap.Int("skipped", rep.Skipped),
			zap.Int("remaining", rep.Remaining),
			zap.Int("failed", len(rep.Failed)),
			zap.Int("matches_written", rep.MatchesWritten),
			zap.Duration("duration", rep.FinishedAt.Sub(start)),
		)
	}()

	raws, err := p.deps.Jobs.ListJobs(ctx)
	if err != nil {
		log.Error("list jobs failed", zap.String("step", "load_jobs"), zap.String("status", "error"), zap.Error(err))
		err = fmt.Errorf("%w: list jobs: %w", ErrSourceUnavailable, err)
		rep.SourceError = err.Error()
		return rep, err
	}
	jobs := normalizeJobs(norm, diag, raws)

	done := map[string]struct{}{}
	if resuming {
		done, err = p.deps.Checkpoint.Completed(ctx, runID)
		if err != nil {
			log.Warn("checkpoint unreadable, ranking every job", zap.String("step", "resume"), zap.Error(err))
			done = map[string]struct{}{}
		}
	}

	pending := make([]job.Job, 0, len(jobs))
	for _, j := range jobs {
		if _, ok := done[j.ID]; ok {
			rep.Skipped++
			continue
		}
		pending = append(pending, j)
	}
	log.Info("jobs loaded",
		zap.String("step", "load_jobs"),
		zap.String("status", "ok"),
		zap.Int("jobs", len(jobs)),
		zap.Int("pending", len(pending)),
		zap.Int("skipped", rep.Skipped),
	)

	workers := params.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	extractWorkers := params.ExtractWorkers
	if extractWorkers <= 0 {
		extractWorkers = defaultExtractWorkers
	}

	pool := NewWorkerPool(workers, workers*2)
	results := pool.Run(ctx)

	go func() {
		defer pool.Close()
		for _, j := range pending {
			j := j
			pool.Submit(func(runCtx context.Context) Result {
				if runCtx.Err() != nil {
					return Result{JobID: j.ID, NotStarted: true}
				}
				n, err := p.rankJob(context.WithoutCancel(runCtx), log, runID, norm, diag, j, extractWorkers)
				return Result{JobID: j.ID, Matches: n, Err: err}
			})
		}
	}()

	var errs []error
	for r := range results {
		switch {
		case r.NotStarted:
			rep.Remaining++
		case r.Err != nil:
			rep.Failed = append(rep.Failed, domain.JobFailure{JobID: r.JobID, Error: r.Err.Error()})
			errs = append(errs, fmt.Errorf("job %s: %w", r.JobID, r.Err))
			p.deps.Metrics.JobRanked("failed")
		default:
			rep.Completed++
			rep.MatchesWritten += r.Matches
			p.deps.Metrics.JobRanked("succeeded")
		}
		if params.OnJobDone != nil {
			params.OnJobDone(r)
		}
	}
	sort.Slice(rep.Failed, func(i, k int) bool { return rep.Failed[i].JobID < rep.Failed[k].JobID })

	if rep.Remaining > 0 {
		errs = append(errs, fmt.Errorf("run %s stopped with %d jobs remaining: %w", runID, rep.Remaining, context.Cause(ctx)))
	}
	if len(errs) == 0 {
		if clearErr := p.deps.Checkpoint.Clear(context.WithoutCancel(ctx), runID); clearErr != nil {
			log.Warn("checkpoint clear failed", zap.String("step", "checkpoint"), zap.Error(clearErr))
		}
		return rep, nil
	}
	return rep, errors.Join(errs...)
}

func (p *RankingPipeline) rankJob(ctx context.Context, log *zap.Logger, runID string, norm *matching.Normalizer, diag *matching.Diagnostics, j job.Job, extractWorkers int) (int, error) {
	start := p.now()
	log = log.With(zap.String("step", "rank_job"), zap.String("job_id", j.ID))

	raws, err := p.deps.Candidates.ListCandidates(ctx, j.ID)
	if err != nil {
		log.Error("list candidates failed", zap.String("status", "error"), zap.Error(err))
		return 0, fmt.Errorf("%w: list candidates: %w", ErrSourceUnavailable, err)
	}
	cands := normalizeCandidates(norm, diag, raws)

	scored := make([]matching.Scored, len(cands))
	var g errgroup.Group
	g.SetLimit(extractWorkers)
	for i := range cands {
		i := i
		g.Go(func() error {
			scored[i] = p.engine.Evaluate(j, cands[i])
			return nil
		})
	}
	_ = g.Wait()

	ms := p.engine.RankJob(j, scored)

	if err := p.deps.Store.PutJob(ctx, j); err != nil {
		log.Error("store job failed", zap.String("status", "error"), zap.Error(err))
		return 0, fmt.Errorf("put job: %w", err)
	}
	if err := p.deps.Store.PutCandidates(ctx, cands); err != nil {
		log.Error("store candidates failed", zap.String("status", "error"), zap.Error(err))
		return 0, fmt.Errorf("put candidates: %w", err)
	}
	if err := p.deps.Store.PutMatches(ctx, j.ID, ms); err != nil {
		log.Error("store matches failed", zap.String("status", "error"), zap.Error(err))
		return 0, fmt.Errorf("put matches: %w", err)
	}
	p.deps.Metrics.MatchesWritten(len(ms))

	if err := p.deps.Checkpoint.MarkCompleted(ctx, runID, j.ID); err != nil {
		log.Warn("checkpoint write failed", zap.Error(err))
	}
	if p.deps.Invalidator != nil {
		if err := p.deps.Invalidator.InvalidateJob(ctx, j.ID); err != nil {
			log.Warn("cache invalidation failed", zap.Error(err))
		}
	}
	if p.deps.Notifier != nil {
		p.deps.Notifier.MatchesReplaced(j.ID, len(ms), p.engine.Version())
	}

	log.Info("job ranked",
		zap.String("status", "ok"),
		zap.Int("candidates", len(cands)),
		zap.Int("matches", len(ms)),
		zap.Duration("duration", p.now().Sub(start)),
	)
	return len(ms), nil
}

// normalizeJobs drops records without an id and keeps the first record of each id,
// returning jobs in id order.
func normalizeJobs(norm *matching.Normalizer, diag *matching.Diagnostics, raws []matching.RawJob) []job.Job {
	out := make([]job.Job, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		j := norm.Job(raw)
		if j.ID == "" {
			diag.Add(matching.DiagMissingID)
			continue
		}
		if _, dup := seen[j.ID]; dup {
			diag.Add(matching.DiagDuplicateJob)
			continue
		}
		seen[j.ID] = struct{}{}
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

func normalizeCandidates(norm *matching.Normalizer, diag *matching.Diagnostics, raws []matching.RawCandidate) []candidate.Candidate {
	out := make([]candidate.Candidate, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		c := norm.Candidate(raw)
		if c.ID == "" {
			diag.Add(matching.DiagMissingID)
			continue
		}
		if _, dup := seen[c.ID]; dup {
			diag.Add(matching.DiagDuplicateCandidate)
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
