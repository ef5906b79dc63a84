package usecase

import (
	"context"

	"resume-matcher/internal/domain/candidate"
	"resume-matcher/internal/domain/match"
	"resume-matcher/internal/domain/skill"
	"resume-matcher/internal/repository"

	"go.uber.org/zap"
)

// CandidateView is one ranked candidate as the viewer shows it.
type CandidateView struct {
	DisplayName     string   `json:"display_name"`
	CandidateID     string   `json:"candidate_id"`
	CurrentRole     string   `json:"current_role"`
	YearsExperience int      `json:"years_experience"`
	Skills          []string `json:"skills"`
	Score           int      `json:"score"`
	RawScore        float64  `json:"raw_score"`
	Rank            int      `json:"rank"`
	ResumePath      string   `json:"resume_path"`
	ResumeURL       string   `json:"resume_url"`
	ResumeLocation  string   `json:"resume_location"`
}

type CandidateListUsecase interface {
	ListCandidates(ctx context.Context, jobID string) ([]CandidateView, error)
}

type CandidateList struct {
	store  repository.MatchStore
	cache  SearchCache
	logger *zap.Logger
}

func NewCandidateListUsecase(store repository.MatchStore, cache SearchCache, logger *zap.Logger) *CandidateList {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidateList{store: store, cache: cache, logger: logger.Named("candidates")}
}

// ListCandidates returns the job's ranked candidates. A known job without matches yields
// an empty list; an unknown job yields ErrJobNotFound.
func (u *CandidateList) ListCandidates(ctx context.Context, jobID string) ([]CandidateView, error) {
	if jobID == "" {
		return nil, ErrInvalidInput
	}

	return readThrough(ctx, u.cache, u.logger, CandidatesCacheKey(jobID), func(ctx context.Context) ([]CandidateView, error) {
		if _, err := u.store.GetJob(ctx, jobID); err != nil {
			return nil, storeError(err)
		}
		ms, err := u.store.GetMatches(ctx, jobID)
		if err != nil {
			return nil, storeError(err)
		}
		if len(ms) == 0 {
			return []CandidateView{}, nil
		}

		ids := make([]string, 0, len(ms))
		for _, m := range ms {
			ids = append(ids, m.CandidateID)
		}
		byID, err := u.store.GetCandidates(ctx, ids)
		if err != nil {
			return nil, storeError(err)
		}

		out := make([]CandidateView, 0, len(ms))
		for _, m := range ms {
			out = append(out, candidateView(m, byID))
		}
		return out, nil
	})
}

func candidateView(m match.Match, byID map[string]candidate.Candidate) CandidateView {
	v := CandidateView{
		CandidateID: m.CandidateID,
		Score:       m.DisplayScore(),
		RawScore:    m.Score,
		Rank:        m.Rank,
		Skills:      []string{},
	}
	c, ok := byID[m.CandidateID]
	if !ok {
		c = candidate.Candidate{ID: m.CandidateID}
	}
	v.DisplayName = c.DisplayName()
	v.CurrentRole = c.DisplayRole()
	v.YearsExperience = c.YearsExperience
	if len(c.Skills) > 0 {
		v.Skills = skill.Displays(c.Skills)
	}
	v.ResumePath = c.ResumePath
	v.ResumeURL = c.ResumeURL
	v.ResumeLocation = c.ResumeLocation()
	return v
}
