package matching

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"resume-matcher/internal/domain/candidate"
	"resume-matcher/internal/domain/job"
)

func scored(id string, score, overlap float64, years int) Scored {
	return Scored{
		Candidate: candidate.Candidate{ID: id, YearsExperience: years, ExperienceKnown: true},
		Features:  FeatureVector{SkillOverlap: overlap},
		Score:     score,
	}
}

func TestRank_Empty(t *testing.T) {
	got := Rank(job.Job{ID: "J"}, nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestRank_TieBreaks(t *testing.T) {
	in := []Scored{
		scored("d", 70, 0.5, 3),
		scored("c", 70, 0.5, 3),
		scored("b", 70, 0.5, 8),
		scored("a", 70, 0.9, 1),
		scored("e", 90, 0.1, 0),
		scored("f", 69.9999, 1, 20),
	}
	got := Rank(job.Job{ID: "J"}, in)

	var order []string
	for _, m := range got {
		order = append(order, m.CandidateID)
	}
	want := []string{"e", "a", "b", "c", "d", "f"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i, m := range got {
		if m.Rank != i+1 || m.JobID != "J" {
			t.Fatalf("unexpected match at %d: %+v", i, m)
		}
	}
}

func TestRank_UsesUnroundedScore(t *testing.T) {
	got := Rank(job.Job{ID: "J"}, []Scored{scored("a", 80.4, 0, 0), scored("b", 80.45, 0, 0)})
	if got[0].CandidateID != "b" {
		t.Fatalf("expected b first on unrounded score, got %+v", got)
	}
	if got[0].DisplayScore() != got[1].DisplayScore() {
		t.Fatalf("expected equal display scores, got %d and %d", got[0].DisplayScore(), got[1].DisplayScore())
	}
}

func TestRank_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(40)
		in := make([]Scored, 0, n)
		for i := 0; i < n; i++ {
			in = append(in, scored(
				fmt.Sprintf("c%03d", i),
				float64(rng.Intn(5)*20),
				float64(rng.Intn(3))/2,
				rng.Intn(3),
			))
		}

		got := Rank(job.Job{ID: "J"}, in)
		if len(got) != n {
			t.Fatalf("trial %d: expected %d matches, got %d", trial, n, len(got))
		}
		seen := map[string]bool{}
		for i, m := range got {
			if m.Rank != i+1 {
				t.Fatalf("trial %d: rank gap at %d: %d", trial, i, m.Rank)
			}
			if seen[m.CandidateID] {
				t.Fatalf("trial %d: duplicate candidate %s", trial, m.CandidateID)
			}
			seen[m.CandidateID] = true
			if i > 0 && got[i-1].Score < m.Score {
				t.Fatalf("trial %d: score increased at rank %d", trial, m.Rank)
			}
		}

		shuffled := make([]Scored, len(in))
		copy(shuffled, in)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		if again := Rank(job.Job{ID: "J"}, shuffled); !reflect.DeepEqual(again, got) {
			t.Fatalf("trial %d: ranking depends on input order", trial)
		}
	}
}

func TestEngine_ScenarioSkillOverlapWins(t *testing.T) {
	n := testNormalizer(nil)
	scorer, err := NewLinearScorer(Weights{Skill: 0.6, Role: 0.2, Experience: 0.2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	eng := NewEngine(NewExtractor(DefaultExperiencePolicy()), scorer)

	j := n.Job(RawJob{ID: "J1", Title: "Data Engineer", SkillsList: []string{"Python", "SQL", "AWS"}})
	b := n.Candidate(RawCandidate{ID: "B", CurrentRole: "Data Engineer", SkillsList: []string{"Python"}, YearsExperience: intPtr(5)})
	a := n.Candidate(RawCandidate{ID: "A", CurrentRole: "Data Engineer", SkillsList: []string{"Python", "SQL", "AWS", "React"}, YearsExperience: intPtr(5)})

	sa, sb := eng.Evaluate(j, a), eng.Evaluate(j, b)
	if sa.Score <= sb.Score {
		t.Fatalf("expected A > B, got %v <= %v", sa.Score, sb.Score)
	}

	ms := eng.Calculate(j, []candidate.Candidate{b, a})
	if len(ms) != 2 || ms[0].CandidateID != "A" || ms[0].Rank != 1 || ms[1].CandidateID != "B" || ms[1].Rank != 2 {
		t.Fatalf("unexpected ranking %+v", ms)
	}
	if ms[0].ScoringVersion != scorer.Version() {
		t.Fatalf("expected scoring version stamped, got %q", ms[0].ScoringVersion)
	}
}
