package matching

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

const weightTolerance = 1e-6

var ErrInvalidWeights = errors.New("invalid scoring weights")

// Weights of the linear scoring strategy. They must be non-negative and sum to 1.
type Weights struct {
	Skill      float64 `yaml:"skill_weight" json:"skill_weight"`
	Role       float64 `yaml:"role_weight" json:"role_weight"`
	Experience float64 `yaml:"experience_weight" json:"experience_weight"`
}

func DefaultWeights() Weights {
	return Weights{Skill: 0.6, Role: 0.2, Experience: 0.2}
}

func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"skill_weight":      w.Skill,
		"role_weight":       w.Role,
		"experience_weight": w.Experience,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidWeights, name)
		}
		if v < 0 {
			return fmt.Errorf("%w: %s=%g is negative", ErrInvalidWeights, name, v)
		}
	}
	sum := w.Skill + w.Role + w.Experience
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %g, want 1.0", ErrInvalidWeights, sum)
	}
	return nil
}

// Strategy turns a feature vector into an unrounded score in [0,100]. Version identifies the
// strategy and its parameters and is stored next to every match it produced.
type Strategy interface {
	Score(fv FeatureVector) float64
	Version() string
}

type LinearScorer struct {
	weights Weights
	version string
}

func NewLinearScorer(w Weights) (*LinearScorer, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &LinearScorer{
		weights: w,
		version: "linear-v1:" + formatWeight(w.Skill) + "/" + formatWeight(w.Role) + "/" + formatWeight(w.Experience),
	}, nil
}

// formatWeight prints the shortest text that round-trips, so distinct weights never share a version.
func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

func (s *LinearScorer) Score(fv FeatureVector) float64 {
	total := s.weights.Skill*clamp01(fv.SkillOverlap) +
		s.weights.Role*clamp01(fv.RoleSimilarity) +
		s.weights.Experience*clamp01(fv.ExperienceFit)
	score := 100 * total
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func (s *LinearScorer) Version() string {
	return s.version
}

func (s *LinearScorer) Weights() Weights {
	return s.weights
}
