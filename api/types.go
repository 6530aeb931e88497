package api

import (
	"time"

	"portscan/scanner"
)

// ScanTask represents a scan job managed by the API service.
type ScanTask struct {
	// ID is the immutable identifier of the scan task (UUID v4).
	ID string `json:"id" format:"uuid" example:"a3f5c62e-1234-4f72-a84a-1c2d3e4f5678"`
	// Status reflects the asynchronous lifecycle state of the task.
	Status string `json:"status" enums:"pending,running,completed,failed" example:"pending"`
	// Host is the target submitted for scanning.
	Host string `json:"host" example:"scanme.nmap.org"`
	// Ports is the requested inclusive port range in start-end form.
	Ports string `json:"ports" example:"1-1024"`
	// Concurrency is the worker pool size used for this scan.
	Concurrency int `json:"concurrency" example:"16"`
	// Completed counts probes finished so far; live while running.
	Completed int `json:"completed" example:"2000"`
	// Total is the number of ports in the requested range.
	Total int `json:"total" example:"65535"`
	// Results holds the open ports, sorted ascending, once the task completes.
	Results []scanner.ProbeResult `json:"results,omitempty"`
	// CreatedAt records when the API accepted the request (UTC).
	CreatedAt time.Time `json:"created_at" format:"date-time" example:"2024-01-02T15:04:05Z"`
	// StartedAt is set when a worker picks the task up.
	StartedAt *time.Time `json:"started_at,omitempty" format:"date-time"`
	// CompletedAt is set once the task reaches a terminal state.
	CompletedAt *time.Time `json:"completed_at,omitempty" format:"date-time"`
	// Error contains context when a task fails.
	Error string `json:"error,omitempty" example:"invalid port range format. Use startPort-endPort"`
}

// CreateScanRequest is the payload for creating new scan tasks.
type CreateScanRequest struct {
	// Host is the hostname or IP address to probe.
	Host string `json:"host" binding:"required" example:"scanme.nmap.org"`
	// Ports is an inclusive range in start-end form. Empty means the full range.
	Ports string `json:"ports" example:"1-1024"`
	// Concurrency is the worker pool size. Zero means the server default.
	Concurrency int `json:"concurrency" example:"16"`
}

// ScanAcceptedResponse acknowledges an accepted scan task.
type ScanAcceptedResponse struct {
	// ID is the task identifier clients poll with.
	ID string `json:"id" format:"uuid" example:"a3f5c62e-1234-4f72-a84a-1c2d3e4f5678"`
	// Status is always pending immediately after acceptance.
	Status string `json:"status" enums:"pending" example:"pending"`
}

// ErrorResponse provides a consistent structure for API error payloads.
type ErrorResponse struct {
	// Error is a human-readable explanation of why the request failed.
	Error string `json:"error" example:"task not found"`
}
