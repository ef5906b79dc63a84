package domain

import "time"

type JobFailure struct {
	JobID string `json:"job_id"`
	Error string `json:"error"`
}

// RunStatus summarizes one ingestion run for the status endpoint.
type RunStatus struct {
	RunID       string           `json:"run_id"`
	State       string           `json:"state"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  *time.Time       `json:"finished_at,omitempty"`
	Completed   int              `json:"completed"`
	Skipped     int              `json:"skipped"`
	Remaining   int              `json:"remaining"`
	Failed      []JobFailure     `json:"failed"`
	Diagnostics map[string]int64 `json:"diagnostics"`
	Error       string           `json:"error,omitempty"`
}

const (
	RunStateIdle      = "idle"
	RunStateRunning   = "running"
	RunStateSucceeded = "succeeded"
	RunStateCancelled = "cancelled"
	RunStateFailed    = "failed"
)

type HealthStatus struct {
	DatabaseHealthy bool      `json:"database_healthy"`
	RedisHealthy    bool      `json:"redis_healthy"`
	ServerTime      time.Time `json:"server_time"`
}
