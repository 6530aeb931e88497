package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"portscan/logging"
	"portscan/scanner"
)

// StartWorkers launches background goroutines that process queued scan tasks.
// Workers exit when ctx is cancelled.
func StartWorkers(ctx context.Context, store TaskStore, catalog *scanner.ServiceCatalog, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go workerLoop(ctx, store, catalog)
	}
}

func workerLoop(ctx context.Context, store TaskStore, catalog *scanner.ServiceCatalog) {
	logger := logging.Logger()
	for {
		taskID, err := store.PopFromQueue(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			logger.Error("worker failed to pop task", "error", err)
			time.Sleep(time.Second)
			continue
		}

		runTask(ctx, store, catalog, taskID, logger)
	}
}

func runTask(ctx context.Context, store TaskStore, catalog *scanner.ServiceCatalog, taskID string, logger *slog.Logger) {
	task, err := store.GetTask(taskID)
	if err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			logger.Warn("worker task disappeared", "task_id", taskID)
			return
		}
		logger.Error("worker failed to load task", "task_id", taskID, "error", err)
		return
	}

	startPort, endPort, err := scanner.ParsePortRange(task.Ports)
	if err != nil {
		failTask(task, store, err)
		return
	}

	req := scanner.ScanRequest{
		Host:        task.Host,
		StartPort:   startPort,
		EndPort:     endPort,
		Concurrency: task.Concurrency,
	}
	if req.Concurrency < 1 {
		req.Concurrency = scanner.DefaultConcurrency
	}
	if err := req.Validate(); err != nil {
		failTask(task, store, err)
		return
	}

	now := time.Now().UTC()
	task.Status = "running"
	task.StartedAt = &now
	task.Total = endPort - startPort + 1
	task.Completed = 0
	task.Error = ""
	task.Results = nil
	task.CompletedAt = nil
	if err := store.UpdateTask(task); err != nil {
		logger.Error("worker failed to mark task running", "task_id", taskID, "error", err)
		return
	}

	engine := scanner.NewEngine(catalog, logger)
	engine.OnProgress = func(p scanner.Progress) {
		if err := store.UpdateProgress(task.ID, p.Completed, p.Total); err != nil {
			logger.Warn("worker failed to persist progress", "task_id", task.ID, "error", err)
		}
	}

	report, err := engine.Scan(ctx, req)
	if err != nil {
		failTask(task, store, err)
		return
	}

	task.Status = "completed"
	task.Results = report.Results
	task.Completed = task.Total
	done := time.Now().UTC()
	task.CompletedAt = &done
	if ctx.Err() != nil {
		// Shutdown mid-scan: the engine drained and returned what it had.
		task.Error = "scan interrupted; results are partial"
		logger.Warn("worker finished interrupted scan with partial results",
			"task_id", task.ID, "open", len(report.Results))
	}

	if err := store.UpdateTask(task); err != nil {
		logger.Error("worker failed to update task", "task_id", task.ID, "error", err)
	}
}

func failTask(task *ScanTask, store TaskStore, err error) {
	logger := logging.Logger()
	logger.Error("worker task failed", "task_id", task.ID, "error", err)
	task.Status = "failed"
	task.Error = err.Error()
	task.Results = nil
	now := time.Now().UTC()
	task.CompletedAt = &now
	if updateErr := store.UpdateTask(task); updateErr != nil {
		logger.Error("worker failed to persist failed task", "task_id", task.ID, "error", updateErr)
	}
}
