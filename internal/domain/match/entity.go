package match

import "math"

// Match is one ranked (job, candidate) pair. Score is kept unrounded; only DisplayScore rounds.
type Match struct {
	JobID          string  `json:"job_id"`
	CandidateID    string  `json:"candidate_id"`
	Score          float64 `json:"score"`
	Rank           int     `json:"rank"`
	ScoringVersion string  `json:"scoring_version"`
}

func (m Match) DisplayScore() int {
	return Round(m.Score)
}

// Round converts an unrounded score to a whole percentage in [0,100].
func Round(score float64) int {
	if math.IsNaN(score) || score <= 0 {
		return 0
	}
	if score >= 100 {
		return 100
	}
	return int(math.Round(score))
}
