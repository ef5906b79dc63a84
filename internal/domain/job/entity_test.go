package job

import (
	"reflect"
	"testing"

	"resume-matcher/internal/domain/skill"
)

func TestSummarize_NoSkillsShowsLabel(t *testing.T) {
	j := Job{ID: "J1", Title: "Backend"}
	s := j.Summarize(3)
	if !reflect.DeepEqual(s.TopSkills, []string{NoSkillsListed}) {
		t.Fatalf("expected %q label, got %v", NoSkillsListed, s.TopSkills)
	}
	if len(j.Skills) != 0 {
		t.Fatalf("label must not be added to the job skills, got %+v", j.Skills)
	}
}

func TestSummarize_TruncatesToTopK(t *testing.T) {
	j := Job{ID: "J1", Skills: []skill.Skill{
		{Display: "Go", Key: "go"},
		{Display: "SQL", Key: "sql"},
		{Display: "Docker", Key: "docker"},
	}}
	if got := j.Summarize(2).TopSkills; !reflect.DeepEqual(got, []string{"Go", "SQL"}) {
		t.Fatalf("unexpected top skills %v", got)
	}
	if got := j.Summarize(0).TopSkills; len(got) != 3 {
		t.Fatalf("topK 0 must keep every skill, got %v", got)
	}
}
