package dto

type JobSummaryResponse struct {
	JobID        string   `json:"job_id"`
	Title        string   `json:"title"`
	DisplayTitle string   `json:"display_title"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	TopSkills    []string `json:"top_skills"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}
