package dto

type TriggerIngestionRequest struct {
	ResumeRunID string `json:"resume_run_id"`
}

type TriggerIngestionResponse struct {
	RunID   string `json:"run_id"`
	Resumed bool   `json:"resumed"`
}
