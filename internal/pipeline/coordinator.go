package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"resume-matcher/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Coordinator runs the ranking pipeline in the background for the server and keeps the
// status of the latest run.
type Coordinator struct {
	pipeline *RankingPipeline
	defaults Params
	log      *zap.Logger

	baseCtx context.Context
	wg      sync.WaitGroup

	mu     sync.Mutex
	status domain.RunStatus
}

// NewCoordinator ties background runs to ctx: cancelling it stops runs between jobs.
func NewCoordinator(ctx context.Context, p *RankingPipeline, defaults Params, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		pipeline: p,
		defaults: defaults,
		log:      logger.With(zap.String("pipeline", "ranking")),
		baseCtx:  ctx,
		status:   domain.RunStatus{State: domain.RunStateIdle, Failed: []domain.JobFailure{}, Diagnostics: map[string]int64{}},
	}
}

// Start launches a run and returns its id once the run lock is held. resumeRunID may be
// empty for a fresh run.
func (c *Coordinator) Start(resumeRunID string) (string, error) {
	params := c.defaults
	params.ResumeRunID = resumeRunID
	if resumeRunID == "" {
		params.RunID = uuid.NewString()
	}

	locked := make(chan string, 1)
	params.onLocked = func(runID string) {
		c.mu.Lock()
		c.status = domain.RunStatus{
			RunID:       runID,
			State:       domain.RunStateRunning,
			StartedAt:   time.Now().UTC(),
			Failed:      []domain.JobFailure{},
			Diagnostics: map[string]int64{},
		}
		c.mu.Unlock()
		locked <- runID
	}
	params.OnJobDone = func(r Result) {
		c.mu.Lock()
		defer c.mu.Unlock()
		switch {
		case r.NotStarted:
			c.status.Remaining++
		case r.Err != nil:
			c.status.Failed = append(c.status.Failed, domain.JobFailure{JobID: r.JobID, Error: r.Err.Error()})
		default:
			c.status.Completed++
		}
	}

	early := make(chan error, 1)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		rep, err := c.pipeline.Run(c.baseCtx, params)
		if rep.StartedAt.IsZero() {
			early <- err
			return
		}
		c.mu.Lock()
		c.status = rep.Status()
		c.mu.Unlock()
		if err != nil {
			c.log.Warn("background run ended with errors", zap.String("run_id", rep.RunID), zap.Error(err))
		}
	}()

	select {
	case runID := <-locked:
		return runID, nil
	case err := <-early:
		if err == nil {
			err = errors.New("run ended before starting")
		}
		return "", err
	}
}

func (c *Coordinator) Status() domain.RunStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.status
	st.Failed = append([]domain.JobFailure{}, c.status.Failed...)
	st.Diagnostics = make(map[string]int64, len(c.status.Diagnostics))
	for k, v := range c.status.Diagnostics {
		st.Diagnostics[k] = v
	}
	return st
}

// Schedule starts a fresh run every interval until ctx is done. Ticks that find a run in
// progress are skipped.
func (c *Coordinator) Schedule(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			runID, err := c.Start("")
			switch {
			case errors.Is(err, ErrRunInProgress):
				c.log.Debug("scheduled run skipped", zap.String("status", "skipped"))
			case err != nil:
				c.log.Error("scheduled run failed to start", zap.String("status", "error"), zap.Error(err))
			default:
				c.log.Info("scheduled run started", zap.String("run_id", runID))
			}
		}
	}
}

// Wait blocks until every background run has returned.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}
