package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// JobStatus tracks a job through the plan → retime pipeline.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusPlanning  JobStatus = "planning"
	JobStatusRetiming  JobStatus = "retiming"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// AssetType distinguishes the artifacts a job can produce.
type AssetType string

const (
	AssetTypeTranscript AssetType = "transcript"
	AssetTypePlan       AssetType = "plan_json"
	AssetTypeSRT        AssetType = "subtitles_srt"
	AssetTypeVTT        AssetType = "subtitles_vtt"
)

// JSONB is a custom type for PostgreSQL JSONB columns, grounded on the
// teacher's models.JSONB — used here to persist the effective cut-planner
// configuration alongside each job (spec §4.1: parameters must be
// reproducible by downstream reviewers).
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// Job is one plan+retime request. A job owns exactly one transcript asset
// and, once processed, a plan asset and (if subtitle re-timing was
// requested) SRT/VTT assets.
type Job struct {
	ID                  uuid.UUID  `json:"id"`
	TenantID            string     `json:"tenant_id"`
	Status              JobStatus  `json:"status"`
	Attempts            int        `json:"attempts"`
	TranscriptAssetID   uuid.UUID  `json:"transcript_asset_id"`
	PlanAssetID         *uuid.UUID `json:"plan_asset_id,omitempty"`
	SRTAssetID          *uuid.UUID `json:"srt_asset_id,omitempty"`
	VTTAssetID          *uuid.UUID `json:"vtt_asset_id,omitempty"`
	FinalDurationSec    *float64   `json:"final_duration_sec,omitempty"`
	Parameters          JSONB      `json:"parameters,omitempty"`
	ProcessingTimeMs    *int64     `json:"processing_time_ms,omitempty"`
	ErrorKind           *string    `json:"error_kind,omitempty"`
	ErrorMessage        *string    `json:"error_message,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Asset is a stored byproduct of a job (the transcript it was given, or
// the plan/SRT/VTT it produced).
type Asset struct {
	ID            uuid.UUID `json:"id"`
	JobID         uuid.UUID `json:"job_id"`
	Type          AssetType `json:"type"`
	StorageBucket string    `json:"storage_bucket"`
	StoragePath   string    `json:"storage_path"`
	ContentType   *string   `json:"content_type,omitempty"`
	ByteSize      *int64    `json:"byte_size,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateJobRequest submits a transcript for planning, and optionally
// re-timing, in one call.
type CreateJobRequest struct {
	Transcript       json.RawMessage `json:"transcript"`
	TenantID         string          `json:"tenant_id,omitempty"`
	RetimeSubtitles  bool            `json:"retimeSubtitles,omitempty"`
	FinalDurationSec *float64        `json:"finalDurationSec,omitempty"`
}

// CreateJobResponse is returned immediately on submission; the job is
// processed asynchronously by the worker pool.
type CreateJobResponse struct {
	JobID  uuid.UUID `json:"job_id"`
	Status JobStatus `json:"status"`
}

// JobResponse is the polled job-status representation, with public URLs
// for whichever assets have been produced so far.
type JobResponse struct {
	Job
	PlanURL *string `json:"plan_url,omitempty"`
	SRTURL  *string `json:"srt_url,omitempty"`
	VTTURL  *string `json:"vtt_url,omitempty"`
}
