package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultConcurrency is the worker pool size used when the caller does
	// not specify one.
	DefaultConcurrency = 16
	// DefaultProgressEvery is the completion interval between progress
	// notifications.
	DefaultProgressEvery = 1000

	// MaxPort is the highest valid TCP port number.
	MaxPort = 65535
)

// ScanRequest describes one scan invocation.
type ScanRequest struct {
	Host        string
	StartPort   int
	EndPort     int
	Concurrency int
	// Timeout bounds each individual connect attempt. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Validate rejects malformed requests before any work is dispatched.
func (r ScanRequest) Validate() error {
	if r.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if r.StartPort < 1 || r.EndPort > MaxPort {
		return fmt.Errorf("ports must be within 1-%d range", MaxPort)
	}
	if r.StartPort > r.EndPort {
		return fmt.Errorf("start port must be less than or equal to end port")
	}
	if r.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	return nil
}

// ScanReport is the final outcome of a scan. Results hold only OPEN ports,
// sorted ascending by port number.
type ScanReport struct {
	Host      string        `json:"host"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Results   []ProbeResult `json:"results"`
}

// Progress is an advisory snapshot emitted periodically during a scan.
// Completed and Fraction are non-decreasing and Completed never exceeds Total.
type Progress struct {
	Completed int
	Total     int
	Fraction  float64
	// Rate is the observed throughput in probes per second since scan start.
	Rate float64
}

// ProbeFunc performs a single port check. The engine's default dials a real
// TCP connection; tests substitute their own.
type ProbeFunc func(host string, port int, timeout time.Duration) ProbeResult

// Engine orchestrates probing a port range with a bounded worker pool.
type Engine struct {
	// Probe is invoked once per port from pool workers.
	Probe ProbeFunc
	// OnProgress, when set, receives a progress snapshot every ProgressEvery
	// completions. It is called from the single collector goroutine and must
	// not be on any correctness path.
	OnProgress func(Progress)
	// ProgressEvery is the completion interval between OnProgress calls.
	ProgressEvery int

	logger *slog.Logger
}

// NewEngine builds an engine whose probes are labeled from the given catalog.
func NewEngine(catalog *ServiceCatalog, logger *slog.Logger) *Engine {
	if catalog == nil {
		catalog = EmptyCatalog()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		Probe: func(host string, port int, timeout time.Duration) ProbeResult {
			return CheckPort(host, port, timeout, catalog)
		},
		ProgressEvery: DefaultProgressEvery,
		logger:        logger,
	}
}

// Scan probes every port in [req.StartPort, req.EndPort] and returns the OPEN
// ports sorted ascending. The pool size bounds in-flight probes at all times.
// When ctx is cancelled, dispatch stops, in-flight probes are allowed to
// finish or time out naturally, and whatever was collected so far is returned
// sorted. Only an invalid request yields an error.
func (e *Engine) Scan(ctx context.Context, req ScanRequest) (*ScanReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	total := req.EndPort - req.StartPort + 1
	startTime := time.Now()

	jobs := make(chan int, req.Concurrency)
	results := make(chan ProbeResult, req.Concurrency)

	var wg sync.WaitGroup
	wg.Add(req.Concurrency)
	for w := 0; w < req.Concurrency; w++ {
		go func() {
			defer wg.Done()
			for port := range jobs {
				results <- e.probePort(req.Host, port, timeout)
			}
		}()
	}

	// Dispatcher. Cancellation is observed between sends so the engine never
	// enters an uninterruptible wait on a saturated pool.
	go func() {
		defer close(jobs)
		for port := req.StartPort; port <= req.EndPort; port++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- port:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single collector goroutine: the only writer to the results slice and
	// the progress counter.
	var open []ProbeResult
	completed := 0
	for result := range results {
		completed++
		if e.ProgressEvery > 0 && completed%e.ProgressEvery == 0 {
			e.emitProgress(completed, total, startTime)
		}
		if result.Status == StatusOpen {
			e.logger.Info("open port found", "port", result.Port, "service", result.Service)
			open = append(open, result)
		}
	}

	if err := ctx.Err(); err != nil {
		e.logger.Warn("scan interrupted, returning partial results",
			"completed", completed, "total", total, "open", len(open))
	}

	sort.Slice(open, func(i, j int) bool { return open[i].Port < open[j].Port })

	return &ScanReport{
		Host:      req.Host,
		StartTime: startTime,
		EndTime:   time.Now(),
		Results:   open,
	}, nil
}

// probePort runs one probe with a panic boundary. A probe that fails
// unexpectedly is reported with its port and counted as closed so one bad
// probe never sinks the whole scan.
func (e *Engine) probePort(host string, port int, timeout time.Duration) (result ProbeResult) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("probe failed unexpectedly", "port", port, "reason", r)
			result = ProbeResult{Port: port, Status: StatusClosed, Service: ServiceUnknown}
		}
	}()
	return e.Probe(host, port, timeout)
}

func (e *Engine) emitProgress(completed, total int, startTime time.Time) {
	if e.OnProgress == nil {
		return
	}
	rate := 0.0
	if elapsed := time.Since(startTime).Seconds(); elapsed > 0 {
		rate = float64(completed) / elapsed
	}
	e.OnProgress(Progress{
		Completed: completed,
		Total:     total,
		Fraction:  float64(completed) / float64(total),
		Rate:      rate,
	})
}

// ParsePortRange extracts start and end port from string format "start-end".
func ParsePortRange(portRange string) (int, int, error) {
	parts := strings.Split(portRange, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid port range format. Use startPort-endPort")
	}

	startPort, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("start port is not a number: %s", parts[0])
	}

	endPort, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("end port is not a number: %s", parts[1])
	}

	if startPort < 1 || endPort > MaxPort {
		return 0, 0, fmt.Errorf("ports must be within 1-%d range", MaxPort)
	}

	if startPort > endPort {
		return 0, 0, fmt.Errorf("start port must be less than or equal to end port")
	}

	return startPort, endPort, nil
}
