package matching

import (
	"math"
	"sort"

	"resume-matcher/internal/domain/candidate"
	"resume-matcher/internal/domain/job"
	"resume-matcher/internal/domain/match"
)

// Scored is one candidate with its features and unrounded score for a job.
type Scored struct {
	Candidate candidate.Candidate
	Features  FeatureVector
	Score     float64
}

// Rank orders candidates by score, skill overlap, years of experience and finally candidate
// id, then assigns positional ranks 1..N. Tied candidates still get distinct ranks.
func Rank(j job.Job, scored []Scored) []match.Match {
	out := make([]match.Match, 0, len(scored))
	if len(scored) == 0 {
		return out
	}

	items := make([]Scored, len(scored))
	copy(items, scored)
	for i := range items {
		if math.IsNaN(items[i].Score) {
			items[i].Score = 0
		}
	}

	sort.SliceStable(items, func(a, b int) bool {
		return less(items[a], items[b])
	})

	for i, it := range items {
		out = append(out, match.Match{
			JobID:       j.ID,
			CandidateID: it.Candidate.ID,
			Score:       it.Score,
			Rank:        i + 1,
		})
	}
	return out
}

func less(a, b Scored) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Features.SkillOverlap != b.Features.SkillOverlap {
		return a.Features.SkillOverlap > b.Features.SkillOverlap
	}
	if a.Candidate.YearsExperience != b.Candidate.YearsExperience {
		return a.Candidate.YearsExperience > b.Candidate.YearsExperience
	}
	return a.Candidate.ID < b.Candidate.ID
}
