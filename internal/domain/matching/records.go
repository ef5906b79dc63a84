package matching

// RawJob is a job posting as the job source delivers it, before normalization.
type RawJob struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	SkillsText  string   `json:"skills_text,omitempty"`
	SkillsList  []string `json:"skills,omitempty"`
	Description string   `json:"description,omitempty"`
}

// RawCandidate is a parsed resume as the candidate source delivers it.
// ID may be empty, in which case it is derived from ResumeName.
type RawCandidate struct {
	ID              string   `json:"id,omitempty"`
	ResumeName      string   `json:"resume_name,omitempty"`
	CurrentRole     string   `json:"current_role,omitempty"`
	YearsExperience *int     `json:"years_experience,omitempty"`
	SkillsText      string   `json:"skills_text,omitempty"`
	SkillsList      []string `json:"skills,omitempty"`
	FilePath        string   `json:"file_path,omitempty"`
	FileURL         string   `json:"file_url,omitempty"`
}
