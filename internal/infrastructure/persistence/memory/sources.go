package memory

import (
	"context"
	"sync"

	"resume-matcher/internal/domain/matching"
)

// JobSource serves a fixed job set. Err, when set, is returned in place of the jobs.
type JobSource struct {
	Jobs []matching.RawJob
	Err  error
}

func (s *JobSource) ListJobs(context.Context) ([]matching.RawJob, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]matching.RawJob, len(s.Jobs))
	copy(out, s.Jobs)
	return out, nil
}

// CandidateSource serves per-job pools. Jobs without an entry in Pools get All.
type CandidateSource struct {
	Pools  map[string][]matching.RawCandidate
	All    []matching.RawCandidate
	Errors map[string]error

	mu    sync.Mutex
	calls map[string]int
}

func (s *CandidateSource) ListCandidates(_ context.Context, jobID string) ([]matching.RawCandidate, error) {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[jobID]++
	s.mu.Unlock()

	if err := s.Errors[jobID]; err != nil {
		return nil, err
	}
	pool, ok := s.Pools[jobID]
	if !ok {
		pool = s.All
	}
	out := make([]matching.RawCandidate, len(pool))
	copy(out, pool)
	return out, nil
}

// Calls reports how many times the pool of jobID was requested.
func (s *CandidateSource) Calls(jobID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[jobID]
}
