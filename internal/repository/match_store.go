package repository

import (
	"context"
	"errors"

	"resume-matcher/internal/domain/candidate"
	"resume-matcher/internal/domain/job"
	"resume-matcher/internal/domain/match"
	"resume-matcher/internal/domain/matching"
)

var (
	ErrJobNotFound = errors.New("job not found")
)

// MatchStore is the persisted ranking output and the only thing the viewer reads.
// PutMatches replaces a job's whole match set atomically; concurrent readers observe
// either the previous set or the new one.
type MatchStore interface {
	PutJob(ctx context.Context, j job.Job) error
	PutCandidates(ctx context.Context, cs []candidate.Candidate) error
	PutMatches(ctx context.Context, jobID string, ms []match.Match) error

	GetJob(ctx context.Context, jobID string) (job.Job, error)
	GetJobs(ctx context.Context) ([]job.Summary, error)
	GetMatches(ctx context.Context, jobID string) ([]match.Match, error)
	GetCandidates(ctx context.Context, ids []string) (map[string]candidate.Candidate, error)
}

type JobSource interface {
	ListJobs(ctx context.Context) ([]matching.RawJob, error)
}

// CandidateSource returns the candidate pool that applied to a job.
type CandidateSource interface {
	ListCandidates(ctx context.Context, jobID string) ([]matching.RawCandidate, error)
}
