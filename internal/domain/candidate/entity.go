package candidate

import "resume-matcher/internal/domain/skill"

const NotSpecifiedRole = "Not specified"

type Candidate struct {
	ID              string
	CurrentRole     string
	NormalizedRole  string
	YearsExperience int
	ExperienceKnown bool
	Skills          []skill.Skill
	ResumePath      string
	ResumeURL       string
}

func (c Candidate) DisplayName() string {
	return "Candidate " + c.ID
}

func (c Candidate) DisplayRole() string {
	if c.CurrentRole == "" {
		return NotSpecifiedRole
	}
	return c.CurrentRole
}

// ResumeLocation prefers the resolvable URL over the file path.
func (c Candidate) ResumeLocation() string {
	if c.ResumeURL != "" {
		return c.ResumeURL
	}
	return c.ResumePath
}
