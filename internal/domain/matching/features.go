package matching

import (
	"math"
	"strings"

	"resume-matcher/internal/domain/candidate"
	"resume-matcher/internal/domain/job"
	"resume-matcher/internal/domain/skill"
)

// UnknownExperienceFit is used when a resume carries no years of experience.
const UnknownExperienceFit = 0.5

const DefaultSaturationYears = 5

type FeatureVector struct {
	SkillOverlap   float64 `json:"skill_overlap"`
	RoleSimilarity float64 `json:"role_similarity"`
	ExperienceFit  float64 `json:"experience_fit"`
	MatchedSkills  int     `json:"matched_skills"`
	RequiredSkills int     `json:"required_skills"`
}

// ExperiencePolicy sets the years after which experience fit saturates at 1.0.
// RoleMinimums raises that threshold for titles carrying a token such as "senior".
type ExperiencePolicy struct {
	SaturationYears float64
	RoleMinimums    map[string]float64
}

func DefaultExperiencePolicy() ExperiencePolicy {
	return ExperiencePolicy{SaturationYears: DefaultSaturationYears}
}

type Extractor struct {
	policy ExperiencePolicy
}

func NewExtractor(policy ExperiencePolicy) Extractor {
	mins := make(map[string]float64, len(policy.RoleMinimums))
	for token, years := range policy.RoleMinimums {
		t := foldText(token)
		if t == "" || years < 0 || math.IsNaN(years) {
			continue
		}
		mins[t] = years
	}
	policy.RoleMinimums = mins
	return Extractor{policy: policy}
}

// Extract depends on nothing but its arguments and the extractor's immutable policy.
func (e Extractor) Extract(j job.Job, c candidate.Candidate) FeatureVector {
	matched, required := skillOverlap(j.Skills, c.Skills)

	fv := FeatureVector{
		MatchedSkills:  matched,
		RequiredSkills: required,
		RoleSimilarity: clamp01(tokenJaccard(j.NormalizedTitle, c.NormalizedRole)),
		ExperienceFit:  clamp01(e.experienceFit(j.NormalizedTitle, c)),
	}
	if required > 0 {
		fv.SkillOverlap = clamp01(float64(matched) / float64(required))
	}
	return fv
}

// Threshold reports the years needed to saturate experience fit for a normalized title.
func (e Extractor) Threshold(normalizedTitle string) float64 {
	threshold := e.policy.SaturationYears
	for _, t := range strings.Fields(normalizedTitle) {
		if v, ok := e.policy.RoleMinimums[t]; ok && v > threshold {
			threshold = v
		}
	}
	return threshold
}

func (e Extractor) experienceFit(normalizedTitle string, c candidate.Candidate) float64 {
	if !c.ExperienceKnown {
		return UnknownExperienceFit
	}
	threshold := e.Threshold(normalizedTitle)
	if threshold <= 0 {
		return 1
	}
	years := float64(c.YearsExperience)
	if years <= 0 {
		return 0
	}
	return years / threshold
}

func skillOverlap(required, have []skill.Skill) (int, int) {
	reqKeys := skill.Keys(required)
	if len(reqKeys) == 0 {
		return 0, 0
	}
	haveSet := make(map[string]struct{}, len(have))
	for _, k := range skill.Keys(have) {
		haveSet[k] = struct{}{}
	}

	seen := make(map[string]struct{}, len(reqKeys))
	matched := 0
	for _, k := range reqKeys {
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := haveSet[k]; ok {
			matched++
		}
	}
	return matched, len(seen)
}

func tokenJaccard(a, b string) float64 {
	if a == "" || b == "" || a == UnspecifiedRole || b == UnspecifiedRole {
		return 0
	}
	as := tokenSet(a)
	bs := tokenSet(b)
	if len(as) == 0 || len(bs) == 0 {
		return 0
	}
	inter := 0
	for t := range as {
		if _, ok := bs[t]; ok {
			inter++
		}
	}
	union := len(as) + len(bs) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		out[f] = struct{}{}
	}
	return out
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
