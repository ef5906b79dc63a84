package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"resume-matcher/internal/domain"
	"resume-matcher/internal/domain/matching"
	"resume-matcher/internal/infrastructure/persistence/memory"
)

// blockingSource holds every candidate request until release is closed.
type blockingSource struct {
	entered chan struct{}
	release chan struct{}
}

func (s *blockingSource) ListCandidates(context.Context, string) ([]matching.RawCandidate, error) {
	select {
	case s.entered <- struct{}{}:
	default:
	}
	<-s.release
	return nil, nil
}

func TestCoordinator_StartStatusAndOverlap(t *testing.T) {
	src := &blockingSource{entered: make(chan struct{}, 1), release: make(chan struct{})}
	p := newTestPipeline(t, scenarioJobs(), src, memory.NewMatchStore(3))
	c := NewCoordinator(context.Background(), p, Params{Workers: 1}, nil)

	if st := c.Status(); st.State != domain.RunStateIdle {
		t.Fatalf("expected idle before any run, got %s", st.State)
	}

	runID, err := c.Start("")
	if err != nil || runID == "" {
		t.Fatalf("start: id=%q err=%v", runID, err)
	}
	<-src.entered
	if st := c.Status(); st.State != domain.RunStateRunning || st.RunID != runID {
		t.Fatalf("expected running status for %s, got %+v", runID, st)
	}

	if _, err := c.Start(""); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}

	close(src.release)
	c.Wait()

	st := c.Status()
	if st.State != domain.RunStateSucceeded || st.Completed != 1 || st.FinishedAt == nil {
		t.Fatalf("unexpected final status: %+v", st)
	}
}

func TestCoordinator_JobSourceFailureReportedAsFailed(t *testing.T) {
	jobs := &memory.JobSource{Err: errors.New("db down")}
	p := newTestPipeline(t, jobs, &memory.CandidateSource{}, memory.NewMatchStore(3))
	c := NewCoordinator(context.Background(), p, Params{}, nil)

	runID, err := c.Start("")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	c.Wait()

	st := c.Status()
	if st.RunID != runID || st.State != domain.RunStateFailed {
		t.Fatalf("expected failed status for %s, got %+v", runID, st)
	}
	if !strings.Contains(st.Error, "db down") {
		t.Fatalf("expected source error surfaced, got %q", st.Error)
	}
}
