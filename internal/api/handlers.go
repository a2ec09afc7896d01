package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bobarin/cutplanner/internal/cutplan"
	"github.com/bobarin/cutplanner/internal/db"
	"github.com/bobarin/cutplanner/internal/ingest"
	"github.com/bobarin/cutplanner/internal/models"
	"github.com/bobarin/cutplanner/internal/queue"
	"github.com/bobarin/cutplanner/internal/storage"
)

type Handler struct {
	db          *db.DB
	queue       *queue.Queue
	storage     *storage.Storage
	transcriber ingest.Transcriber // optional; nil disables /v1/jobs/from-audio
}

func NewHandler(database *db.DB, q *queue.Queue, stor *storage.Storage, transcriber ingest.Transcriber) *Handler {
	return &Handler{
		db:          database,
		queue:       q,
		storage:     stor,
		transcriber: transcriber,
	}
}

// CreateJob handles POST /v1/jobs. The caller submits a transcript; the
// job is enqueued for cut planning and, if requested, subtitle re-timing.
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req models.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Transcript) == 0 {
		respondError(w, http.StatusBadRequest, "transcript is required")
		return
	}

	var transcript cutplan.Transcript
	if err := json.Unmarshal(req.Transcript, &transcript); err != nil {
		respondError(w, http.StatusBadRequest, "transcript is not valid JSON for the expected schema")
		return
	}
	if err := transcript.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid transcript: "+err.Error())
		return
	}

	if req.RetimeSubtitles && req.FinalDurationSec == nil {
		respondError(w, http.StatusBadRequest, "finalDurationSec is required when retimeSubtitles is true")
		return
	}

	h.createJobFromTranscript(w, r.Context(), req.Transcript, req.TenantID, req.FinalDurationSec)
}

// CreateJobFromAudio handles POST /v1/jobs/from-audio: transcribes raw
// audio via the ingest collaborator, then submits it the same way
// CreateJob does.
func (h *Handler) CreateJobFromAudio(w http.ResponseWriter, r *http.Request) {
	if h.transcriber == nil {
		respondError(w, http.StatusServiceUnavailable, "Audio transcription is not configured")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		respondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	audioData := make([]byte, 0)
	buf := make([]byte, 32*1024)
	for {
		n, readErr := file.Read(buf)
		if n > 0 {
			audioData = append(audioData, buf[:n]...)
		}
		if readErr != nil {
			break
		}
	}

	language := r.FormValue("language")

	transcript, err := h.transcriber.Transcribe(r.Context(), audioData, language)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Transcription failed: "+err.Error())
		return
	}
	if err := transcript.Validate(); err != nil {
		respondError(w, http.StatusBadGateway, "Transcription produced an invalid transcript: "+err.Error())
		return
	}

	transcriptJSON, err := json.Marshal(transcript)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to encode transcript")
		return
	}

	h.createJobFromTranscript(w, r.Context(), transcriptJSON, r.FormValue("tenant_id"), nil)
}

// createJobFromTranscript is the shared persistence path for CreateJob and
// CreateJobFromAudio once a validated transcript is in hand.
func (h *Handler) createJobFromTranscript(w http.ResponseWriter, ctx context.Context, transcriptJSON []byte, tenantID string, finalDurationSec *float64) {
	jobID := uuid.New()

	transcriptAsset := &models.Asset{
		ID:            uuid.New(),
		JobID:         jobID,
		Type:          models.AssetTypeTranscript,
		StorageBucket: h.storage.Bucket,
		StoragePath:   storage.GenerateStoragePath(storage.PrefixTranscripts, jobID, "transcript.json"),
		ContentType:   strPtr("application/json"),
		ByteSize:      int64Ptr(int64(len(transcriptJSON))),
	}

	if err := h.storage.Upload(ctx, transcriptAsset.StoragePath, transcriptJSON, "application/json"); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store transcript")
		return
	}
	if err := h.db.CreateAsset(ctx, transcriptAsset); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save transcript asset")
		return
	}

	job := &models.Job{
		ID:                jobID,
		TenantID:          tenantID,
		Status:            models.JobStatusQueued,
		TranscriptAssetID: transcriptAsset.ID,
		FinalDurationSec:  finalDurationSec,
	}

	if err := h.db.CreateJob(ctx, job); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create job")
		return
	}

	if err := h.queue.EnqueuePlanCuts(ctx, jobID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to enqueue job")
		return
	}

	respondJSON(w, http.StatusCreated, models.CreateJobResponse{
		JobID:  job.ID,
		Status: job.Status,
	})
}

// GetJob handles GET /v1/jobs/{id}
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := h.db.GetJob(r.Context(), jobID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Job not found")
		return
	}

	response := models.JobResponse{Job: *job}

	if job.PlanAssetID != nil {
		if asset, err := h.db.GetAsset(r.Context(), *job.PlanAssetID); err == nil {
			url := h.storage.GetPublicURL(asset.StoragePath)
			response.PlanURL = &url
		}
	}
	if job.SRTAssetID != nil {
		if asset, err := h.db.GetAsset(r.Context(), *job.SRTAssetID); err == nil {
			url := h.storage.GetPublicURL(asset.StoragePath)
			response.SRTURL = &url
		}
	}
	if job.VTTAssetID != nil {
		if asset, err := h.db.GetAsset(r.Context(), *job.VTTAssetID); err == nil {
			url := h.storage.GetPublicURL(asset.StoragePath)
			response.VTTURL = &url
		}
	}

	respondJSON(w, http.StatusOK, response)
}

// GetJobPlan handles GET /v1/jobs/{id}/plan, redirecting to a signed URL
// for the cut plan JSON once the planning stage has completed.
func (h *Handler) GetJobPlan(w http.ResponseWriter, r *http.Request) {
	h.redirectToAsset(w, r, func(job *models.Job) *uuid.UUID { return job.PlanAssetID }, "Plan not ready")
}

// GetJobSubtitles handles GET /v1/jobs/{id}/subtitles, redirecting to the
// SRT file once re-timing has completed. Pass ?format=vtt for the VTT
// asset instead.
func (h *Handler) GetJobSubtitles(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("format") == "vtt" {
		h.redirectToAsset(w, r, func(job *models.Job) *uuid.UUID { return job.VTTAssetID }, "Subtitles not ready")
		return
	}
	h.redirectToAsset(w, r, func(job *models.Job) *uuid.UUID { return job.SRTAssetID }, "Subtitles not ready")
}

func (h *Handler) redirectToAsset(w http.ResponseWriter, r *http.Request, assetID func(*models.Job) *uuid.UUID, notReadyMessage string) {
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := h.db.GetJob(r.Context(), jobID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Job not found")
		return
	}

	id := assetID(job)
	if id == nil {
		respondError(w, http.StatusNotFound, notReadyMessage)
		return
	}

	asset, err := h.db.GetAsset(r.Context(), *id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Asset not found")
		return
	}

	signedURL, err := h.storage.GetSignedURL(r.Context(), asset.StoragePath, 3600)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate download URL")
		return
	}

	http.Redirect(w, r, signedURL, http.StatusTemporaryRedirect)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Health check
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func strPtr(s string) *string {
	return &s
}

func int64Ptr(i int64) *int64 {
	return &i
}
