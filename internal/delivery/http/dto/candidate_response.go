package dto

type CandidateMatchResponse struct {
	Rank            int      `json:"rank"`
	CandidateID     string   `json:"candidate_id"`
	DisplayName     string   `json:"display_name"`
	CurrentRole     string   `json:"current_role"`
	YearsExperience int      `json:"years_experience"`
	Skills          []string `json:"skills"`
	MatchScore      int      `json:"match_score"`
	ResumeFilePath  string   `json:"resume_file_path"`
	ResumeURL       string   `json:"resume_url"`
	ResumeLocation  string   `json:"resume_location"`
}

type JobCandidatesResponse struct {
	JobID      string                   `json:"job_id"`
	Candidates []CandidateMatchResponse `json:"candidates"`
}
