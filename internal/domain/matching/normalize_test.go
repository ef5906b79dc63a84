package matching

import (
	"reflect"
	"testing"

	"resume-matcher/internal/domain/skill"
)

func testNormalizer(diag *Diagnostics) *Normalizer {
	return NewNormalizer(NewTable(
		map[string]string{
			"MECHANICALCHEMICALQUALITYENGINEERING": "Core_Engg",
			"IT":                                   "Engineering",
		},
		map[string]string{"golang": "go", "js": "javascript"},
		map[string]string{"sde": "software engineer", "swe": "software engineer"},
	), diag)
}

func TestNormalizeCategory(t *testing.T) {
	diag := NewDiagnostics()
	n := testNormalizer(diag)

	cases := map[string]string{
		"IT":                                   "Engineering",
		"  it ":                                "Engineering",
		"MechanicalChemicalQualityEngineering": "Core_Engg",
		"Banking":                              "Banking",
		"  HR ":                                "HR",
	}
	for in, want := range cases {
		if got := n.NormalizeCategory(in); got != want {
			t.Fatalf("NormalizeCategory(%q) = %q, want %q", in, got, want)
		}
	}

	if got := n.NormalizeCategory("   "); got != UncategorizedCategory {
		t.Fatalf("expected %q for empty category, got %q", UncategorizedCategory, got)
	}
	if diag.Count(DiagCategoryMissing) != 1 {
		t.Fatalf("expected 1 category_missing, got %d", diag.Count(DiagCategoryMissing))
	}
}

func TestNormalizeSkills_JSONArray(t *testing.T) {
	n := testNormalizer(nil)
	got := skill.Displays(n.NormalizeSkills(`["Python", " SQL ", "python", "", null, "AWS"]`))
	want := []string{"Python", "SQL", "AWS"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNormalizeSkills_DelimitedKeepsOrder(t *testing.T) {
	n := testNormalizer(nil)
	got := n.NormalizeSkills("SQL, AWS ; Python| ,React\nDocker")
	if disp := skill.Displays(got); !reflect.DeepEqual(disp, []string{"SQL", "AWS", "Python", "React", "Docker"}) {
		t.Fatalf("unexpected order: %v", disp)
	}
	if got[2].Key != "python" {
		t.Fatalf("expected case folded key, got %q", got[2].Key)
	}
}

func TestNormalizeSkills_Malformed(t *testing.T) {
	diag := NewDiagnostics()
	n := testNormalizer(diag)

	for _, raw := range []string{"not-json[", `["Python", "SQL"`, `{"a": 1}`} {
		got := n.NormalizeSkills(raw)
		if len(got) != 1 || got[0].Display != skill.Unavailable || !got[0].Placeholder {
			t.Fatalf("NormalizeSkills(%q) = %+v, want skills unavailable placeholder", raw, got)
		}
	}
	if diag.Count(DiagSkillsMalformed) != 3 {
		t.Fatalf("expected 3 skills_malformed, got %d", diag.Count(DiagSkillsMalformed))
	}
}

func TestNormalizeSkills_ArrayOfObjectsIsMalformed(t *testing.T) {
	diag := NewDiagnostics()
	n := testNormalizer(diag)

	for _, raw := range []string{`[{"name":"Go"},{"name":"SQL"}]`, `["Go", ["SQL"]]`} {
		got := n.NormalizeSkills(raw)
		if len(got) != 1 || got[0].Display != skill.Unavailable {
			t.Fatalf("NormalizeSkills(%q) = %+v, want skills unavailable placeholder", raw, got)
		}
	}
	if diag.Count(DiagSkillsMalformed) != 2 {
		t.Fatalf("expected 2 skills_malformed, got %d", diag.Count(DiagSkillsMalformed))
	}
}

func TestNormalizeSkills_BalancedBracketsInDelimitedText(t *testing.T) {
	diag := NewDiagnostics()
	n := testNormalizer(diag)

	got := n.NormalizeSkills("Python, SQL [advanced]")
	if len(got) != 2 {
		t.Fatalf("expected 2 skills, got %+v", got)
	}
	if got[0].Display != "Python" || got[1].Display != "SQL [advanced]" {
		t.Fatalf("unexpected skills %+v", got)
	}
	if diag.Count(DiagSkillsMalformed) != 0 {
		t.Fatalf("balanced brackets must not count as malformed")
	}
}

func TestNormalizeSkills_NumbersInArray(t *testing.T) {
	n := testNormalizer(nil)
	got := n.NormalizeSkills(`[1, "Go"]`)
	if len(got) != 2 || got[0].Display != "1" {
		t.Fatalf("expected numeric token kept as text, got %+v", got)
	}
}

func TestNormalizeSkills_EmptyIsNotFailure(t *testing.T) {
	diag := NewDiagnostics()
	n := testNormalizer(diag)
	got := n.NormalizeSkills("   ")
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if diag.Count(DiagSkillsMalformed) != 0 {
		t.Fatalf("empty input must not count as malformed")
	}
}

func TestNormalizeSkillList_Aliases(t *testing.T) {
	n := testNormalizer(nil)
	got := n.NormalizeSkillList([]string{"Golang", "Go", "JS", "C++", "Node.js"})
	want := []skill.Skill{
		{Display: "Golang", Key: "go"},
		{Display: "JS", Key: "javascript"},
		{Display: "C++", Key: "c++"},
		{Display: "Node.js", Key: "node.js"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestNormalizeRole(t *testing.T) {
	n := testNormalizer(nil)
	cases := map[string]string{
		"Senior Developer at TechCorp": "senior developer",
		"Full-Stack Engineer!":         "full stack engineer",
		"Backend Developer @ DataCorp": "backend developer",
		"SDE":                          "software engineer",
		"SWE II":                       "software engineer ii",
		"":                             UnspecifiedRole,
		" -- ":                         UnspecifiedRole,
		"at":                           "at",
	}
	for in, want := range cases {
		if got := n.NormalizeRole(in); got != want {
			t.Fatalf("NormalizeRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCandidateIDFromResume(t *testing.T) {
	cases := map[string]string{
		"1234.pdf":              "1234",
		"resumes/2024/JDoe.PDF": "JDoe",
		`C:\uploads\abc.docx`:   "abc",
		"plain":                 "plain",
		"  ":                    "",
	}
	for in, want := range cases {
		if got := CandidateIDFromResume(in); got != want {
			t.Fatalf("CandidateIDFromResume(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizer_Candidate(t *testing.T) {
	diag := NewDiagnostics()
	n := testNormalizer(diag)

	neg := -2
	c := n.Candidate(RawCandidate{ResumeName: "42.pdf", YearsExperience: &neg, SkillsText: "Go, SQL"})
	if c.ID != "42" {
		t.Fatalf("expected id 42, got %q", c.ID)
	}
	if c.ExperienceKnown || c.YearsExperience != 0 {
		t.Fatalf("negative experience must be treated as unknown, got %+v", c)
	}
	if c.NormalizedRole != UnspecifiedRole {
		t.Fatalf("expected unspecified role, got %q", c.NormalizedRole)
	}
	if c.DisplayRole() != "Not specified" {
		t.Fatalf("unexpected display role %q", c.DisplayRole())
	}
	if diag.Count(DiagInvalidExperience) != 1 || diag.Count(DiagRoleMissing) != 1 {
		t.Fatalf("unexpected diagnostics %v", diag.Snapshot())
	}
}

func TestNormalizer_JobMalformedSkillsStillNormalizes(t *testing.T) {
	n := testNormalizer(nil)
	j := n.Job(RawJob{ID: " REQ001 ", Title: "Software  Engineer", Category: "IT", SkillsText: "not-json["})
	if j.ID != "REQ001" || j.NormalizedCategory != "Engineering" || j.NormalizedTitle != "software engineer" {
		t.Fatalf("unexpected job %+v", j)
	}
	if got := skill.Displays(j.Skills); !reflect.DeepEqual(got, []string{skill.Unavailable}) {
		t.Fatalf("expected skills unavailable, got %v", got)
	}
	if s := j.Summarize(3); s.DisplayTitle != "Software Engineer (REQ001)" ||
		s.Description != "Job requirements and details for Software Engineer (REQ001)" {
		t.Fatalf("unexpected summary %+v", s)
	}
}
