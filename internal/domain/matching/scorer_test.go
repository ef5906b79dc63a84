package matching

import (
	"errors"
	"math"
	"testing"
)

func TestWeightsValidate(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights must be valid: %v", err)
	}

	bad := []Weights{
		{Skill: 0.7, Role: 0.2, Experience: 0.2},
		{Skill: 0.5, Role: 0.2, Experience: 0.2},
		{Skill: 1.2, Role: -0.2, Experience: 0},
		{Skill: math.NaN(), Role: 0.5, Experience: 0.5},
		{Skill: math.Inf(1), Role: 0, Experience: 0},
	}
	for _, w := range bad {
		if err := w.Validate(); !errors.Is(err, ErrInvalidWeights) {
			t.Fatalf("weights %+v: expected ErrInvalidWeights, got %v", w, err)
		}
	}

	if err := (Weights{Skill: 1}).Validate(); err != nil {
		t.Fatalf("single weight of 1 must be valid: %v", err)
	}
	if err := (Weights{Skill: 0.3333333, Role: 0.3333333, Experience: 0.3333334}).Validate(); err != nil {
		t.Fatalf("sum within tolerance must be valid: %v", err)
	}
}

func TestNewLinearScorer_RejectsInvalid(t *testing.T) {
	if _, err := NewLinearScorer(Weights{Skill: 0.9}); !errors.Is(err, ErrInvalidWeights) {
		t.Fatalf("expected ErrInvalidWeights, got %v", err)
	}
}

func TestLinearScorer_Score(t *testing.T) {
	s, err := NewLinearScorer(DefaultWeights())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if got := s.Score(FeatureVector{SkillOverlap: 1, RoleSimilarity: 1, ExperienceFit: 1}); math.Abs(got-100) > 1e-9 {
		t.Fatalf("expected 100, got %v", got)
	}
	if got := s.Score(FeatureVector{}); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	got := s.Score(FeatureVector{SkillOverlap: 1.0 / 3.0, RoleSimilarity: 0.5, ExperienceFit: 0.5})
	if math.Abs(got-40) > 1e-9 {
		t.Fatalf("expected 40, got %v", got)
	}
	if got := s.Score(FeatureVector{SkillOverlap: 7, RoleSimilarity: -3, ExperienceFit: 2}); got < 0 || got > 100 {
		t.Fatalf("score out of bounds: %v", got)
	}
	if s.Version() != "linear-v1:0.6/0.2/0.2" {
		t.Fatalf("unexpected version %q", s.Version())
	}
}

func TestLinearScorer_VersionDistinguishesCloseWeights(t *testing.T) {
	def, err := NewLinearScorer(Weights{Skill: 0.6, Role: 0.2, Experience: 0.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	near, err := NewLinearScorer(Weights{Skill: 0.601, Role: 0.199, Experience: 0.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Version() == near.Version() {
		t.Fatalf("expected distinct versions, both are %q", def.Version())
	}
	if near.Version() != "linear-v1:0.601/0.199/0.2" {
		t.Fatalf("unexpected version %q", near.Version())
	}
}
