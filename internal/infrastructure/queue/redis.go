package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"stocksentiment/internal/domain"
)

// Redis is the queue backend: a list of pending job ids plus one hash per
// job carrying its state and terminal payload. Job keys expire after the
// configured TTL so abandoned results do not accumulate.
type Redis struct {
	client *redis.Client
	name   string
	jobTTL time.Duration
}

// NewRedis parses the connection URL and builds the backend. The connection
// is not probed here; Ping does that where reachability matters.
func NewRedis(url, name string, jobTTL time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if jobTTL <= 0 {
		jobTTL = time.Hour
	}
	return &Redis{client: redis.NewClient(opts), name: name, jobTTL: jobTTL}, nil
}

// Ping probes backend reachability.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) queueKey() string {
	return "queue:" + r.name
}

func (r *Redis) jobKey(id string) string {
	return "job:" + r.name + ":" + id
}

// Enqueue records a queued job and pushes its id onto the pending list.
func (r *Redis) Enqueue(ctx context.Context, symbol string) (string, error) {
	id := uuid.NewString()
	key := r.jobKey(id)

	fields := map[string]any{
		"symbol":      symbol,
		"state":       string(domain.JobQueued),
		"enqueued_at": time.Now().UTC().Format(time.RFC3339),
	}
	if err := r.client.HSet(ctx, key, fields).Err(); err != nil {
		return "", fmt.Errorf("record job: %w", err)
	}
	if err := r.client.Expire(ctx, key, r.jobTTL).Err(); err != nil {
		return "", fmt.Errorf("expire job: %w", err)
	}
	if err := r.client.LPush(ctx, r.queueKey(), id).Err(); err != nil {
		return "", fmt.Errorf("push job: %w", err)
	}

	return id, nil
}

// Dequeue blocks up to timeout for the next pending job id. It returns an
// empty id when the wait timed out with nothing pending.
func (r *Redis) Dequeue(ctx context.Context, timeout time.Duration) (string, error) {
	vals, err := r.client.BRPop(ctx, timeout, r.queueKey()).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("pop job: %w", err)
	}
	if len(vals) != 2 {
		return "", fmt.Errorf("unexpected BRPOP reply of %d values", len(vals))
	}
	return vals[1], nil
}

// MarkStarted transitions a job to the started state.
func (r *Redis) MarkStarted(ctx context.Context, id string) error {
	return r.setState(ctx, id, map[string]any{
		"state":      string(domain.JobStarted),
		"started_at": time.Now().UTC().Format(time.RFC3339),
	})
}

// MarkFinished records the terminal result payload.
func (r *Redis) MarkFinished(ctx context.Context, id string, result domain.CollectionResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return r.setState(ctx, id, map[string]any{
		"state":  string(domain.JobFinished),
		"result": string(payload),
	})
}

// MarkFailed records the terminal failure detail.
func (r *Redis) MarkFailed(ctx context.Context, id string, detail string) error {
	return r.setState(ctx, id, map[string]any{
		"state": string(domain.JobFailed),
		"error": detail,
	})
}

func (r *Redis) setState(ctx context.Context, id string, fields map[string]any) error {
	key := r.jobKey(id)
	if err := r.client.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("update job %s: %w", id, err)
	}
	if err := r.client.Expire(ctx, key, r.jobTTL).Err(); err != nil {
		return fmt.Errorf("expire job %s: %w", id, err)
	}
	return nil
}

// Status loads a job's state and terminal payload. Unknown identifiers
// yield domain.ErrJobNotFound.
func (r *Redis) Status(ctx context.Context, id string) (domain.JobStatus, error) {
	fields, err := r.client.HGetAll(ctx, r.jobKey(id)).Result()
	if err != nil {
		return domain.JobStatus{}, fmt.Errorf("load job %s: %w", id, err)
	}
	if len(fields) == 0 {
		return domain.JobStatus{}, domain.ErrJobNotFound
	}

	status := domain.JobStatus{
		ID:    id,
		State: domain.JobState(fields["state"]),
		Error: fields["error"],
	}

	if raw, ok := fields["result"]; ok && raw != "" {
		var result domain.CollectionResult
		if err := json.Unmarshal([]byte(raw), &result); err != nil {
			return domain.JobStatus{}, fmt.Errorf("decode job result: %w", err)
		}
		status.Result = &result
	}

	return status, nil
}

// Symbol returns the symbol a job was enqueued for.
func (r *Redis) Symbol(ctx context.Context, id string) (string, error) {
	symbol, err := r.client.HGet(ctx, r.jobKey(id), "symbol").Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrJobNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load job symbol: %w", err)
	}
	return symbol, nil
}
