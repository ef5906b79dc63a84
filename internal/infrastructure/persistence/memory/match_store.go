package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"resume-matcher/internal/domain/candidate"
	"resume-matcher/internal/domain/job"
	"resume-matcher/internal/domain/match"
	"resume-matcher/internal/repository"
)

// MatchStore keeps the ranking output in process. Match sets are never mutated in place:
// PutMatches builds a fresh slice and swaps it in, so a reader holds either the old set
// or the new one.
type MatchStore struct {
	mu         sync.RWMutex
	topK       int
	jobs       map[string]job.Job
	candidates map[string]candidate.Candidate
	matches    map[string][]match.Match
}

var _ repository.MatchStore = (*MatchStore)(nil)

func NewMatchStore(topK int) *MatchStore {
	return &MatchStore{
		topK:       topK,
		jobs:       map[string]job.Job{},
		candidates: map[string]candidate.Candidate{},
		matches:    map[string][]match.Match{},
	}
}

func (s *MatchStore) PutJob(_ context.Context, j job.Job) error {
	if strings.TrimSpace(j.ID) == "" {
		return fmt.Errorf("put job: empty id")
	}
	j.Skills = append(j.Skills[:0:0], j.Skills...)

	s.mu.Lock()
	s.jobs[j.ID] = j
	s.mu.Unlock()
	return nil
}

func (s *MatchStore) PutCandidates(_ context.Context, cs []candidate.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range cs {
		if strings.TrimSpace(c.ID) == "" {
			continue
		}
		c.Skills = append(c.Skills[:0:0], c.Skills...)
		s.candidates[c.ID] = c
	}
	return nil
}

func (s *MatchStore) PutMatches(_ context.Context, jobID string, ms []match.Match) error {
	next := make([]match.Match, len(ms))
	copy(next, ms)
	for _, m := range next {
		if m.JobID != jobID {
			return fmt.Errorf("put matches: match for job %q in set of %q", m.JobID, jobID)
		}
	}
	sort.SliceStable(next, func(i, k int) bool { return next[i].Rank < next[k].Rank })

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[jobID]; !ok {
		return repository.ErrJobNotFound
	}
	s.matches[jobID] = next
	return nil
}

func (s *MatchStore) GetJob(_ context.Context, jobID string) (job.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[jobID]
	if !ok {
		return job.Job{}, repository.ErrJobNotFound
	}
	j.Skills = append(j.Skills[:0:0], j.Skills...)
	return j, nil
}

func (s *MatchStore) GetJobs(_ context.Context) ([]job.Summary, error) {
	s.mu.RLock()
	out := make([]job.Summary, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j.Summarize(s.topK))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func (s *MatchStore) GetMatches(_ context.Context, jobID string) ([]match.Match, error) {
	s.mu.RLock()
	cur := s.matches[jobID]
	s.mu.RUnlock()

	out := make([]match.Match, len(cur))
	copy(out, cur)
	return out, nil
}

func (s *MatchStore) GetCandidates(_ context.Context, ids []string) (map[string]candidate.Candidate, error) {
	out := make(map[string]candidate.Candidate, len(ids))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range ids {
		if c, ok := s.candidates[id]; ok {
			out[id] = c
		}
	}
	return out, nil
}
