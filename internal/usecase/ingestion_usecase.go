package usecase

import (
	"context"
	"errors"
	"strings"

	"resume-matcher/internal/domain"
	"resume-matcher/internal/pipeline"
)

type IngestionRunner interface {
	Start(resumeRunID string) (string, error)
	Status() domain.RunStatus
}

type IngestionUsecase interface {
	Trigger(ctx context.Context, resumeRunID string) (string, error)
	Status(ctx context.Context) domain.RunStatus
}

type Ingestion struct {
	runner IngestionRunner
}

func NewIngestionUsecase(runner IngestionRunner) *Ingestion {
	return &Ingestion{runner: runner}
}

// Trigger starts a ranking run in the background and returns its run id.
func (u *Ingestion) Trigger(ctx context.Context, resumeRunID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if u == nil || u.runner == nil {
		return "", ErrInternal
	}
	runID, err := u.runner.Start(strings.TrimSpace(resumeRunID))
	if err != nil {
		if errors.Is(err, pipeline.ErrRunInProgress) {
			return "", ErrRunInProgress
		}
		return "", ErrInternal
	}
	return runID, nil
}

func (u *Ingestion) Status(context.Context) domain.RunStatus {
	if u == nil || u.runner == nil {
		return domain.RunStatus{State: domain.RunStateIdle, Failed: []domain.JobFailure{}, Diagnostics: map[string]int64{}}
	}
	return u.runner.Status()
}
