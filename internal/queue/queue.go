package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	QueuePlanCuts        = "queue:plan_cuts"
	QueueRetimeSubtitles = "queue:retime_subtitles"
)

type Queue struct {
	client *redis.Client
}

// Job is a minimal envelope identifying which job to process and which
// stage to run; the worker re-reads job state from Postgres rather than
// carrying a payload through Redis.
type Job struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

func New(redisURL string) (*Queue, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Queue{client: client}, nil
}

func (q *Queue) Close() error {
	return q.client.Close()
}

func (q *Queue) Enqueue(ctx context.Context, queueName string, job *Job) error {
	job.CreatedAt = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	return q.client.RPush(ctx, queueName, data).Err()
}

func (q *Queue) Dequeue(ctx context.Context, queueName string, timeout time.Duration) (*Job, error) {
	result, err := q.client.BLPop(ctx, timeout, queueName).Result()
	if err == redis.Nil {
		return nil, nil // No job available
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue: %w", err)
	}

	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected redis response")
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	return &job, nil
}

func (q *Queue) GetQueueLength(ctx context.Context, queueName string) (int64, error) {
	return q.client.LLen(ctx, queueName).Result()
}

// EnqueuePlanCuts enqueues the cut-planning stage for jobID.
func (q *Queue) EnqueuePlanCuts(ctx context.Context, jobID uuid.UUID) error {
	return q.Enqueue(ctx, QueuePlanCuts, &Job{ID: jobID, Type: "plan_cuts"})
}

// EnqueueRetimeSubtitles enqueues the subtitle re-timing stage for jobID.
// Only reachable once a job's plan asset exists.
func (q *Queue) EnqueueRetimeSubtitles(ctx context.Context, jobID uuid.UUID) error {
	return q.Enqueue(ctx, QueueRetimeSubtitles, &Job{ID: jobID, Type: "retime_subtitles"})
}
