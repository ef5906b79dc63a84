package job

import (
	"strings"

	"resume-matcher/internal/domain/skill"
)

// NoSkillsListed is shown in a summary when the job lists no skills. It never takes part in
// skill overlap.
const NoSkillsListed = "Skills vary by position"

type Job struct {
	ID                 string
	Title              string
	Category           string
	NormalizedCategory string
	NormalizedTitle    string
	Skills             []skill.Skill
	Description        string
}

// Summary is the projection the viewer lists.
type Summary struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	DisplayTitle string   `json:"display_title"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	TopSkills    []string `json:"top_skills"`
}

func (j Job) DisplayTitle() string {
	title := strings.TrimSpace(j.Title)
	if title == "" {
		return j.ID
	}
	return title + " (" + j.ID + ")"
}

func (j Job) DisplayDescription() string {
	if d := strings.TrimSpace(j.Description); d != "" {
		return d
	}
	return "Job requirements and details for " + j.DisplayTitle()
}

func (j Job) Summarize(topK int) Summary {
	skills := skill.Displays(j.Skills)
	if len(skills) == 0 {
		skills = []string{NoSkillsListed}
	}
	if topK > 0 && len(skills) > topK {
		skills = skills[:topK]
	}
	return Summary{
		ID:           j.ID,
		Title:        j.Title,
		DisplayTitle: j.DisplayTitle(),
		Category:     j.NormalizedCategory,
		Description:  j.DisplayDescription(),
		TopSkills:    skills,
	}
}
