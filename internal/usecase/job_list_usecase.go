package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"resume-matcher/internal/domain/job"
	"resume-matcher/internal/repository"

	"go.uber.org/zap"
)

// AllCategories is the filter value that disables category filtering.
const AllCategories = "All"

type JobListUsecase interface {
	ListJobs(ctx context.Context, category string) ([]job.Summary, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type JobList struct {
	store  repository.MatchStore
	cache  SearchCache
	logger *zap.Logger
}

func NewJobListUsecase(store repository.MatchStore, cache SearchCache, logger *zap.Logger) *JobList {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobList{store: store, cache: cache, logger: logger.Named("jobs")}
}

// ListJobs returns job summaries ordered by id. An empty category or "All" lists every job.
func (u *JobList) ListJobs(ctx context.Context, category string) ([]job.Summary, error) {
	category = strings.Join(strings.Fields(category), " ")
	filter := category
	if strings.EqualFold(filter, AllCategories) {
		filter = ""
	}

	return readThrough(ctx, u.cache, u.logger, JobsListCacheKey(filter), func(ctx context.Context) ([]job.Summary, error) {
		all, err := u.store.GetJobs(ctx)
		if err != nil {
			return nil, storeError(err)
		}
		if filter == "" {
			return all, nil
		}
		out := make([]job.Summary, 0, len(all))
		for _, s := range all {
			if strings.EqualFold(s.Category, filter) {
				out = append(out, s)
			}
		}
		return out, nil
	})
}

// ListCategories returns "All" followed by the distinct normalized categories in order.
func (u *JobList) ListCategories(ctx context.Context) ([]string, error) {
	return readThrough(ctx, u.cache, u.logger, CategoriesCacheKey(), func(ctx context.Context) ([]string, error) {
		all, err := u.store.GetJobs(ctx)
		if err != nil {
			return nil, storeError(err)
		}
		seen := make(map[string]struct{}, len(all))
		cats := make([]string, 0, len(all))
		for _, s := range all {
			if s.Category == "" {
				continue
			}
			if _, ok := seen[s.Category]; ok {
				continue
			}
			seen[s.Category] = struct{}{}
			cats = append(cats, s.Category)
		}
		sort.Strings(cats)
		return append([]string{AllCategories}, cats...), nil
	})
}

func storeError(err error) error {
	if errors.Is(err, repository.ErrJobNotFound) {
		return ErrJobNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
}
