package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusPartial   RunStatus = "partial"
)

// SyncRun records one ingestion pass over one source system.
type SyncRun struct {
	ID             int64      `json:"id" db:"id"`
	Source         string     `json:"source" db:"source"`
	StartedAt      time.Time  `json:"started_at" db:"started_at"`
	FinishedAt     *time.Time `json:"finished_at" db:"finished_at"`
	Status         RunStatus  `json:"status" db:"status"`
	PropertiesSeen int        `json:"properties_seen" db:"properties_seen"`
	UnitsSeen      int        `json:"units_seen" db:"units_seen"`
	ResidentsSeen  int        `json:"residents_seen" db:"residents_seen"`
	LeasesSeen     int        `json:"leases_seen" db:"leases_seen"`
	RecordsSkipped int        `json:"records_skipped" db:"records_skipped"`
	ErrorsCount    int        `json:"errors_count" db:"errors_count"`
	ErrorMessage   string     `json:"error_message" db:"error_message"`
}

// SourceStats summarizes the most recent sync state for one source.
type SourceStats struct {
	Source          string     `json:"source" db:"source"`
	LastRunAt       *time.Time `json:"last_run_at" db:"last_run_at"`
	LastRunStatus   string     `json:"last_run_status" db:"last_run_status"`
	TotalProperties int        `json:"total_properties" db:"total_properties"`
	TotalUnits      int        `json:"total_units" db:"total_units"`
	SuccessRate     float64    `json:"success_rate" db:"success_rate"`
}
