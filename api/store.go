package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"portscan/scanner"
)

// TaskStore defines persistence operations for scan tasks.
type TaskStore interface {
	CreateTask(task *ScanTask) error
	GetTask(id string) (*ScanTask, error)
	UpdateTask(task *ScanTask) error
	// UpdateProgress persists live probe counts without rewriting the task.
	UpdateProgress(id string, completed, total int) error
	PushToQueue(taskID string) error
	// PopFromQueue blocks until a task ID is available or ctx is cancelled.
	PopFromQueue(ctx context.Context) (string, error)
}

// ErrTaskNotFound indicates the requested task doesn't exist in the store.
var ErrTaskNotFound = errors.New("task not found")

const queueKey = "portscan:queue"

// RedisStore implements TaskStore using Redis as backend. Tasks live in
// hashes keyed by ID; the work queue is a list.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed task store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) taskKey(id string) string {
	return fmt.Sprintf("portscan:task:%s", id)
}

// CreateTask persists a new scan task.
func (s *RedisStore) CreateTask(task *ScanTask) error {
	data, err := serializeTask(task)
	if err != nil {
		return err
	}
	return s.client.HSet(context.Background(), s.taskKey(task.ID), data).Err()
}

// GetTask retrieves a task by ID.
func (s *RedisStore) GetTask(id string) (*ScanTask, error) {
	res, err := s.client.HGetAll(context.Background(), s.taskKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, ErrTaskNotFound
	}
	return deserializeTask(res)
}

// UpdateTask overwrites an existing task.
func (s *RedisStore) UpdateTask(task *ScanTask) error {
	data, err := serializeTask(task)
	if err != nil {
		return err
	}
	return s.client.HSet(context.Background(), s.taskKey(task.ID), data).Err()
}

// UpdateProgress writes only the probe counters of a running task.
func (s *RedisStore) UpdateProgress(id string, completed, total int) error {
	return s.client.HSet(context.Background(), s.taskKey(id), map[string]interface{}{
		"completed": completed,
		"total":     total,
	}).Err()
}

// PushToQueue enqueues a task ID for workers to process.
func (s *RedisStore) PushToQueue(taskID string) error {
	return s.client.LPush(context.Background(), queueKey, taskID).Err()
}

// PopFromQueue blocks until a task ID is available.
func (s *RedisStore) PopFromQueue(ctx context.Context) (string, error) {
	res, err := s.client.BRPop(ctx, 0, queueKey).Result()
	if err != nil {
		return "", err
	}
	if len(res) != 2 {
		return "", errors.New("unexpected response size from BRPOP")
	}
	return res[1], nil
}

func serializeTask(task *ScanTask) (map[string]interface{}, error) {
	var resultsData string
	if task.Results != nil {
		encoded, err := json.Marshal(task.Results)
		if err != nil {
			return nil, err
		}
		resultsData = string(encoded)
	}

	startedAt := ""
	if task.StartedAt != nil {
		startedAt = task.StartedAt.Format(time.RFC3339Nano)
	}
	completedAt := ""
	if task.CompletedAt != nil {
		completedAt = task.CompletedAt.Format(time.RFC3339Nano)
	}

	return map[string]interface{}{
		"id":           task.ID,
		"status":       task.Status,
		"host":         task.Host,
		"ports":        task.Ports,
		"concurrency":  task.Concurrency,
		"completed":    task.Completed,
		"total":        task.Total,
		"results":      resultsData,
		"created_at":   task.CreatedAt.Format(time.RFC3339Nano),
		"started_at":   startedAt,
		"completed_at": completedAt,
		"error":        task.Error,
	}, nil
}

func deserializeTask(data map[string]string) (*ScanTask, error) {
	var results []scanner.ProbeResult
	if raw, ok := data["results"]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &results); err != nil {
			return nil, err
		}
	}

	createdAt := time.Time{}
	if raw, ok := data["created_at"]; ok && raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, err
		}
		createdAt = t
	}

	parseOptionalTime := func(field string) (*time.Time, error) {
		raw, ok := data[field]
		if !ok || raw == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}

	startedAt, err := parseOptionalTime("started_at")
	if err != nil {
		return nil, err
	}
	completedAt, err := parseOptionalTime("completed_at")
	if err != nil {
		return nil, err
	}

	parseInt := func(field string) int {
		n, _ := strconv.Atoi(data[field])
		return n
	}

	return &ScanTask{
		ID:          data["id"],
		Status:      data["status"],
		Host:        data["host"],
		Ports:       data["ports"],
		Concurrency: parseInt("concurrency"),
		Completed:   parseInt("completed"),
		Total:       parseInt("total"),
		Results:     results,
		CreatedAt:   createdAt,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		Error:       data["error"],
	}, nil
}
