package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bobarin/cutplanner/internal/models"
	"github.com/google/uuid"
)

func (db *DB) CreateJob(ctx context.Context, job *models.Job) error {
	query := `
		INSERT INTO jobs (
			id, tenant_id, status, attempts, transcript_asset_id,
			final_duration_sec, parameters
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	return db.QueryRowContext(
		ctx, query,
		job.ID, job.TenantID, job.Status, job.Attempts,
		job.TranscriptAssetID, job.FinalDurationSec, job.Parameters,
	).Scan(&job.CreatedAt, &job.UpdatedAt)
}

func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	query := `
		SELECT
			id, tenant_id, status, attempts, transcript_asset_id,
			plan_asset_id, srt_asset_id, vtt_asset_id, final_duration_sec,
			parameters, processing_time_ms, error_kind, error_message,
			created_at, updated_at
		FROM jobs
		WHERE id = $1
	`

	job := &models.Job{}
	err := db.QueryRowContext(ctx, query, id).Scan(
		&job.ID, &job.TenantID, &job.Status, &job.Attempts, &job.TranscriptAssetID,
		&job.PlanAssetID, &job.SRTAssetID, &job.VTTAssetID, &job.FinalDurationSec,
		&job.Parameters, &job.ProcessingTimeMs, &job.ErrorKind, &job.ErrorMessage,
		&job.CreatedAt, &job.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return job, nil
}

func (db *DB) UpdateJobStatus(ctx context.Context, id uuid.UUID, status models.JobStatus) error {
	query := `UPDATE jobs SET status = $1, updated_at = $2 WHERE id = $3`
	_, err := db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

func (db *DB) UpdateJobError(ctx context.Context, id uuid.UUID, kind, message string) error {
	query := `
		UPDATE jobs
		SET status = $1, error_kind = $2, error_message = $3, attempts = attempts + 1, updated_at = $4
		WHERE id = $5
	`
	_, err := db.ExecContext(ctx, query, models.JobStatusFailed, kind, message, time.Now(), id)
	return err
}

// SetJobPlan records the plan asset produced by the cut-planning stage and
// persists the effective configuration used to produce it, alongside
// processing time, for downstream reproducibility.
func (db *DB) SetJobPlan(ctx context.Context, id uuid.UUID, planAssetID uuid.UUID, parameters models.JSONB, processingTimeMs int64) error {
	query := `
		UPDATE jobs
		SET plan_asset_id = $1, parameters = $2, processing_time_ms = $3, status = $4, updated_at = $5
		WHERE id = $6
	`
	_, err := db.ExecContext(ctx, query, planAssetID, parameters, processingTimeMs, models.JobStatusPlanning, time.Now(), id)
	return err
}

// SetJobSubtitles records the SRT/VTT assets produced by the re-timing
// stage and marks the job succeeded.
func (db *DB) SetJobSubtitles(ctx context.Context, id uuid.UUID, srtAssetID, vttAssetID uuid.UUID, finalDurationSec float64) error {
	query := `
		UPDATE jobs
		SET srt_asset_id = $1, vtt_asset_id = $2, final_duration_sec = $3, status = $4, updated_at = $5
		WHERE id = $6
	`
	_, err := db.ExecContext(ctx, query, srtAssetID, vttAssetID, finalDurationSec, models.JobStatusSucceeded, time.Now(), id)
	return err
}

// MarkJobSucceededWithoutSubtitles completes a job that only requested a
// cut plan (no subtitle re-timing).
func (db *DB) MarkJobSucceededWithoutSubtitles(ctx context.Context, id uuid.UUID) error {
	return db.UpdateJobStatus(ctx, id, models.JobStatusSucceeded)
}
