// Package worker drains the plan_cuts and retime_subtitles queues and runs
// the CORE pipelines (internal/cutplan, internal/subtitles) against the
// assets a job owns.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/bobarin/cutplanner/internal/cutplan"
	"github.com/bobarin/cutplanner/internal/db"
	"github.com/bobarin/cutplanner/internal/models"
	"github.com/bobarin/cutplanner/internal/queue"
	"github.com/bobarin/cutplanner/internal/storage"
	"github.com/bobarin/cutplanner/internal/subtitles"
)

type Worker struct {
	db      *db.DB
	queue   *queue.Queue
	storage *storage.Storage

	cutplanConfig   cutplan.Config
	subtitlesConfig subtitles.Config

	// Per-stage semaphores bound how many jobs run each stage
	// concurrently, independent of how many queue-draining goroutines
	// are started.
	planSem   chan struct{}
	retimeSem chan struct{}
}

func New(database *db.DB, q *queue.Queue, stor *storage.Storage, cpCfg cutplan.Config, srCfg subtitles.Config, maxConcurrent int) *Worker {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Worker{
		db:              database,
		queue:           q,
		storage:         stor,
		cutplanConfig:   cpCfg,
		subtitlesConfig: srCfg,
		planSem:         make(chan struct{}, maxConcurrent),
		retimeSem:       make(chan struct{}, maxConcurrent),
	}
}

func (w *Worker) withSemaphore(ctx context.Context, sem chan struct{}, label string, fn func() error) error {
	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%s cancelled while waiting for slot: %w", label, ctx.Err())
	}
	defer func() { <-sem }()

	return fn()
}

// Start begins draining both queues with the given number of poller
// goroutines per queue. Actual pipeline concurrency is bounded separately
// by the per-stage semaphores.
func (w *Worker) Start(ctx context.Context, pollers int) {
	if pollers < 1 {
		pollers = 1
	}
	log.Printf("worker started (pollers=%d, plan_concurrency=%d, retime_concurrency=%d)", pollers, cap(w.planSem), cap(w.retimeSem))

	for i := 0; i < pollers; i++ {
		go w.processQueue(ctx, queue.QueuePlanCuts, w.handlePlanCuts)
		go w.processQueue(ctx, queue.QueueRetimeSubtitles, w.handleRetimeSubtitles)
	}

	<-ctx.Done()
	log.Println("worker shutting down...")
}

func (w *Worker) processQueue(ctx context.Context, queueName string, handler func(context.Context, *queue.Job) error) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.queue.Dequeue(ctx, queueName, 5*time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("error dequeuing from %s: %v", queueName, err)
			continue
		}
		if job == nil {
			continue
		}

		log.Printf("processing job %s (type: %s)", job.ID, job.Type)

		if err := handler(ctx, job); err != nil {
			log.Printf("job %s failed: %v", job.ID, err)
			if dbErr := w.db.UpdateJobError(ctx, job.ID, errorKind(err), err.Error()); dbErr != nil {
				log.Printf("failed to record job error for %s: %v", job.ID, dbErr)
			}
			continue
		}
		log.Printf("job %s completed stage %s", job.ID, job.Type)
	}
}

func errorKind(err error) string {
	var cpErr *cutplan.Error
	if errors.As(err, &cpErr) {
		return string(cpErr.Kind)
	}
	var srErr *subtitles.Error
	if errors.As(err, &srErr) {
		return string(srErr.Kind)
	}
	return "UNKNOWN"
}

// handlePlanCuts loads the job's transcript, runs the cut planner, stores
// the resulting plan asset, and — if the job requested it — enqueues the
// re-timing stage.
func (w *Worker) handlePlanCuts(ctx context.Context, job *queue.Job) error {
	return w.withSemaphore(ctx, w.planSem, fmt.Sprintf("plan_cuts:%s", job.ID), func() error {
		dbJob, err := w.db.GetJob(ctx, job.ID)
		if err != nil {
			return fmt.Errorf("failed to load job: %w", err)
		}

		if err := w.db.UpdateJobStatus(ctx, job.ID, models.JobStatusPlanning); err != nil {
			return fmt.Errorf("failed to update job status: %w", err)
		}

		transcriptAsset, err := w.db.GetAsset(ctx, dbJob.TranscriptAssetID)
		if err != nil {
			return fmt.Errorf("failed to load transcript asset: %w", err)
		}

		transcriptData, err := w.storage.Download(ctx, transcriptAsset.StoragePath)
		if err != nil {
			return fmt.Errorf("failed to download transcript: %w", err)
		}

		var transcript cutplan.Transcript
		if err := json.Unmarshal(transcriptData, &transcript); err != nil {
			return fmt.Errorf("failed to parse transcript: %w", err)
		}

		plan, err := cutplan.PlanCuts(transcript, w.cutplanConfig)
		if err != nil {
			return fmt.Errorf("cut planning failed: %w", err)
		}

		planJSON, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode plan: %w", err)
		}

		planAsset := &models.Asset{
			ID:            uuid.New(),
			JobID:         job.ID,
			Type:          models.AssetTypePlan,
			StorageBucket: w.storage.Bucket,
			StoragePath:   storage.GenerateStoragePath(storage.PrefixPlan, job.ID, "cut_plan.json"),
			ContentType:   strPtr("application/json"),
			ByteSize:      int64Ptr(int64(len(planJSON))),
		}

		if err := w.storage.Upload(ctx, planAsset.StoragePath, planJSON, "application/json"); err != nil {
			return fmt.Errorf("failed to upload plan: %w", err)
		}
		if err := w.db.CreateAsset(ctx, planAsset); err != nil {
			return fmt.Errorf("failed to save plan asset: %w", err)
		}

		parameters := configToJSONB(w.cutplanConfig)
		if err := w.db.SetJobPlan(ctx, job.ID, planAsset.ID, parameters, plan.Metadata.ProcessingTimeMs); err != nil {
			return fmt.Errorf("failed to record plan asset: %w", err)
		}

		if dbJob.FinalDurationSec == nil {
			return w.db.MarkJobSucceededWithoutSubtitles(ctx, job.ID)
		}

		return w.queue.EnqueueRetimeSubtitles(ctx, job.ID)
	})
}

// handleRetimeSubtitles loads the job's transcript and plan, runs the
// subtitle re-timer, and stores the resulting SRT/VTT assets.
func (w *Worker) handleRetimeSubtitles(ctx context.Context, job *queue.Job) error {
	return w.withSemaphore(ctx, w.retimeSem, fmt.Sprintf("retime_subtitles:%s", job.ID), func() error {
		dbJob, err := w.db.GetJob(ctx, job.ID)
		if err != nil {
			return fmt.Errorf("failed to load job: %w", err)
		}
		if dbJob.PlanAssetID == nil {
			return fmt.Errorf("job has no plan asset yet")
		}
		if dbJob.FinalDurationSec == nil {
			return fmt.Errorf("job has no finalDurationSec; re-timing cannot proceed")
		}

		if err := w.db.UpdateJobStatus(ctx, job.ID, models.JobStatusRetiming); err != nil {
			return fmt.Errorf("failed to update job status: %w", err)
		}

		transcriptAsset, err := w.db.GetAsset(ctx, dbJob.TranscriptAssetID)
		if err != nil {
			return fmt.Errorf("failed to load transcript asset: %w", err)
		}
		transcriptData, err := w.storage.Download(ctx, transcriptAsset.StoragePath)
		if err != nil {
			return fmt.Errorf("failed to download transcript: %w", err)
		}
		var transcript cutplan.Transcript
		if err := json.Unmarshal(transcriptData, &transcript); err != nil {
			return fmt.Errorf("failed to parse transcript: %w", err)
		}

		planAsset, err := w.db.GetAsset(ctx, *dbJob.PlanAssetID)
		if err != nil {
			return fmt.Errorf("failed to load plan asset: %w", err)
		}
		planData, err := w.storage.Download(ctx, planAsset.StoragePath)
		if err != nil {
			return fmt.Errorf("failed to download plan: %w", err)
		}
		var plan cutplan.CutPlan
		if err := json.Unmarshal(planData, &plan); err != nil {
			return fmt.Errorf("failed to parse plan: %w", err)
		}

		cues, err := subtitles.Retime(transcript, plan, *dbJob.FinalDurationSec, w.subtitlesConfig)
		if err != nil {
			return fmt.Errorf("subtitle re-timing failed: %w", err)
		}

		srt := subtitles.WriteSRT(cues, w.subtitlesConfig)
		vtt := subtitles.WriteVTT(cues, w.subtitlesConfig)

		srtAsset := &models.Asset{
			ID:            uuid.New(),
			JobID:         job.ID,
			Type:          models.AssetTypeSRT,
			StorageBucket: w.storage.Bucket,
			StoragePath:   storage.GenerateStoragePath(storage.PrefixSubtitles, job.ID, "final.srt"),
			ContentType:   strPtr("text/plain"),
			ByteSize:      int64Ptr(int64(len(srt))),
		}
		vttAsset := &models.Asset{
			ID:            uuid.New(),
			JobID:         job.ID,
			Type:          models.AssetTypeVTT,
			StorageBucket: w.storage.Bucket,
			StoragePath:   storage.GenerateStoragePath(storage.PrefixSubtitles, job.ID, "final.vtt"),
			ContentType:   strPtr("text/vtt"),
			ByteSize:      int64Ptr(int64(len(vtt))),
		}

		if err := w.storage.Upload(ctx, srtAsset.StoragePath, []byte(srt), "text/plain"); err != nil {
			return fmt.Errorf("failed to upload SRT: %w", err)
		}
		if err := w.storage.Upload(ctx, vttAsset.StoragePath, []byte(vtt), "text/vtt"); err != nil {
			return fmt.Errorf("failed to upload VTT: %w", err)
		}
		if err := w.db.CreateAsset(ctx, srtAsset); err != nil {
			return fmt.Errorf("failed to save SRT asset: %w", err)
		}
		if err := w.db.CreateAsset(ctx, vttAsset); err != nil {
			return fmt.Errorf("failed to save VTT asset: %w", err)
		}

		return w.db.SetJobSubtitles(ctx, job.ID, srtAsset.ID, vttAsset.ID, *dbJob.FinalDurationSec)
	})
}

func configToJSONB(cfg cutplan.Config) models.JSONB {
	data, _ := json.Marshal(cfg)
	var j models.JSONB
	_ = json.Unmarshal(data, &j)
	return j
}

func strPtr(s string) *string {
	return &s
}

func int64Ptr(i int64) *int64 {
	return &i
}
