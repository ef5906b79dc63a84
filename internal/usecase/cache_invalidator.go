package usecase

import (
	"context"
	"errors"
)

// MatchCacheInvalidator drops the cached reads a committed job makes stale: every candidate
// list, every job listing and the category list. Candidate rows are shared across jobs, so a
// run for one job can change the profiles cached under another.
type MatchCacheInvalidator struct {
	cache SearchCache
}

func NewMatchCacheInvalidator(cache SearchCache) *MatchCacheInvalidator {
	return &MatchCacheInvalidator{cache: cache}
}

func (i *MatchCacheInvalidator) InvalidateJob(ctx context.Context, jobID string) error {
	if i == nil || i.cache == nil {
		return nil
	}
	var errs []error
	if err := i.cache.Delete(ctx, CandidatesCacheKey(jobID), CategoriesCacheKey()); err != nil {
		errs = append(errs, err)
	}
	for _, pattern := range []string{candidatesPrefix + "*", jobsListPrefix + "*"} {
		if err := i.cache.DeleteByPattern(ctx, pattern); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
