package matching

import (
	"resume-matcher/internal/domain/candidate"
	"resume-matcher/internal/domain/job"
	"resume-matcher/internal/domain/match"
)

// Engine bundles the immutable pieces of one scoring configuration.
type Engine struct {
	extractor Extractor
	strategy  Strategy
}

func NewEngine(extractor Extractor, strategy Strategy) *Engine {
	return &Engine{extractor: extractor, strategy: strategy}
}

func (e *Engine) Evaluate(j job.Job, c candidate.Candidate) Scored {
	fv := e.extractor.Extract(j, c)
	return Scored{Candidate: c, Features: fv, Score: e.strategy.Score(fv)}
}

func (e *Engine) Version() string {
	return e.strategy.Version()
}

// RankJob ranks already evaluated candidates and stamps the scoring version on each match.
func (e *Engine) RankJob(j job.Job, scored []Scored) []match.Match {
	ms := Rank(j, scored)
	v := e.strategy.Version()
	for i := range ms {
		ms[i].ScoringVersion = v
	}
	return ms
}

// Calculate evaluates and ranks a whole candidate pool sequentially.
func (e *Engine) Calculate(j job.Job, candidates []candidate.Candidate) []match.Match {
	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, e.Evaluate(j, c))
	}
	return e.RankJob(j, scored)
}
