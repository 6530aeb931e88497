package scanner

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProbe returns OPEN for the given ports and CLOSED for everything else.
func fakeProbe(openPorts map[int]string) ProbeFunc {
	return func(host string, port int, timeout time.Duration) ProbeResult {
		if service, ok := openPorts[port]; ok {
			return ProbeResult{Port: port, Status: StatusOpen, Service: service}
		}
		return ProbeResult{Port: port, Status: StatusClosed, Service: ServiceUnknown}
	}
}

func TestScanReportsOpenPortsSorted(t *testing.T) {
	engine := NewEngine(nil, quietLogger())
	engine.Probe = fakeProbe(map[int]string{150: "svc-c", 22: "SSH", 80: "HTTP"})

	report, err := engine.Scan(context.Background(), ScanRequest{
		Host:        "localhost",
		StartPort:   1,
		EndPort:     200,
		Concurrency: 8,
	})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	if len(report.Results) != 3 {
		t.Fatalf("expected 3 open ports, got %d", len(report.Results))
	}
	if !sort.SliceIsSorted(report.Results, func(i, j int) bool {
		return report.Results[i].Port < report.Results[j].Port
	}) {
		t.Errorf("results are not sorted by port: %+v", report.Results)
	}
	seen := map[int]bool{}
	for _, result := range report.Results {
		if result.Status != StatusOpen {
			t.Errorf("non-OPEN result in report: %+v", result)
		}
		if seen[result.Port] {
			t.Errorf("duplicate port %d in report", result.Port)
		}
		seen[result.Port] = true
	}
	if got := report.Results[0]; got.Port != 22 || got.Service != "SSH" {
		t.Errorf("first result = %+v, want port 22 / SSH", got)
	}
}

func TestScanEmptyRange(t *testing.T) {
	engine := NewEngine(nil, quietLogger())
	engine.Probe = fakeProbe(nil)

	report, err := engine.Scan(context.Background(), ScanRequest{
		Host:        "localhost",
		StartPort:   1,
		EndPort:     100,
		Concurrency: 4,
	})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if len(report.Results) != 0 {
		t.Errorf("expected no open ports, got %+v", report.Results)
	}
	if report.EndTime.Before(report.StartTime) {
		t.Errorf("end time %v precedes start time %v", report.EndTime, report.StartTime)
	}
}

func TestScanValidatesRequest(t *testing.T) {
	tests := []struct {
		name string
		req  ScanRequest
	}{
		{"empty host", ScanRequest{Host: "", StartPort: 1, EndPort: 10, Concurrency: 1}},
		{"zero start port", ScanRequest{Host: "h", StartPort: 0, EndPort: 10, Concurrency: 1}},
		{"end port too large", ScanRequest{Host: "h", StartPort: 1, EndPort: 65536, Concurrency: 1}},
		{"inverted range", ScanRequest{Host: "h", StartPort: 100, EndPort: 10, Concurrency: 1}},
		{"zero concurrency", ScanRequest{Host: "h", StartPort: 1, EndPort: 10, Concurrency: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(nil, quietLogger())
			engine.Probe = func(host string, port int, timeout time.Duration) ProbeResult {
				t.Error("probe dispatched for invalid request")
				return ProbeResult{}
			}
			if _, err := engine.Scan(context.Background(), tt.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestScanProgressMonotonic(t *testing.T) {
	const total = 50

	engine := NewEngine(nil, quietLogger())
	engine.Probe = fakeProbe(map[int]string{7: "svc"})
	engine.ProgressEvery = 1

	// OnProgress runs on the single collector goroutine; no locking needed.
	var snapshots []Progress
	engine.OnProgress = func(p Progress) { snapshots = append(snapshots, p) }

	if _, err := engine.Scan(context.Background(), ScanRequest{
		Host:        "localhost",
		StartPort:   1,
		EndPort:     total,
		Concurrency: 4,
	}); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	if len(snapshots) == 0 {
		t.Fatal("expected progress notifications")
	}
	prev := Progress{}
	for _, p := range snapshots {
		if p.Completed < prev.Completed {
			t.Errorf("completed count decreased: %d after %d", p.Completed, prev.Completed)
		}
		if p.Fraction < prev.Fraction {
			t.Errorf("fraction decreased: %f after %f", p.Fraction, prev.Fraction)
		}
		if p.Completed > p.Total {
			t.Errorf("completed %d exceeds total %d", p.Completed, p.Total)
		}
		if p.Total != total {
			t.Errorf("total = %d, want %d", p.Total, total)
		}
		prev = p
	}
}

func TestScanInterruptedReturnsPartialResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := NewEngine(nil, quietLogger())
	engine.Probe = fakeProbe(map[int]string{3: "svc-a", 900: "svc-b"})
	engine.ProgressEvery = 1

	completions := 0
	engine.OnProgress = func(p Progress) {
		completions = p.Completed
		if p.Completed == 10 {
			cancel()
		}
	}

	report, err := engine.Scan(ctx, ScanRequest{
		Host:        "localhost",
		StartPort:   1,
		EndPort:     1000,
		Concurrency: 4,
	})
	if err != nil {
		t.Fatalf("interrupted scan returned error: %v", err)
	}

	// Dispatch stops once cancellation is observed; only already queued jobs
	// may still complete.
	if completions >= 1000 {
		t.Errorf("scan ran to completion despite cancellation: %d probes", completions)
	}
	if !sort.SliceIsSorted(report.Results, func(i, j int) bool {
		return report.Results[i].Port < report.Results[j].Port
	}) {
		t.Errorf("partial results not sorted: %+v", report.Results)
	}
	for _, result := range report.Results {
		if result.Status != StatusOpen {
			t.Errorf("non-OPEN result in partial report: %+v", result)
		}
	}
}

func TestScanSurvivesProbePanic(t *testing.T) {
	engine := NewEngine(nil, quietLogger())
	engine.Probe = func(host string, port int, timeout time.Duration) ProbeResult {
		if port == 13 {
			panic("boom")
		}
		return fakeProbe(map[int]string{80: "HTTP"})(host, port, timeout)
	}

	report, err := engine.Scan(context.Background(), ScanRequest{
		Host:        "localhost",
		StartPort:   1,
		EndPort:     100,
		Concurrency: 4,
	})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	if len(report.Results) != 1 || report.Results[0].Port != 80 {
		t.Fatalf("expected exactly port 80 open, got %+v", report.Results)
	}
}

func TestScanAgainstLocalListener(t *testing.T) {
	_, port := startListener(t)
	catalog := NewServiceCatalog(map[int]string{port: "test-http"})

	engine := NewEngine(catalog, quietLogger())
	report, err := engine.Scan(context.Background(), ScanRequest{
		Host:        "127.0.0.1",
		StartPort:   port,
		EndPort:     port,
		Concurrency: 2,
		Timeout:     time.Second,
	})
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	if len(report.Results) != 1 {
		t.Fatalf("expected one open port, got %+v", report.Results)
	}
	got := report.Results[0]
	if got.Port != port || got.Status != StatusOpen || got.Service != "test-http" {
		t.Errorf("result = %+v, want {%d OPEN test-http}", got, port)
	}
}

func TestParsePortRange(t *testing.T) {
	tests := []struct {
		input     string
		wantStart int
		wantEnd   int
		wantErr   bool
	}{
		{"1-65535", 1, 65535, false},
		{"80-443", 80, 443, false},
		{"22-22", 22, 22, false},
		{"443-80", 0, 0, true},
		{"0-100", 0, 0, true},
		{"1-70000", 0, 0, true},
		{"abc-100", 0, 0, true},
		{"1-xyz", 0, 0, true},
		{"100", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			start, end, err := ParsePortRange(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParsePortRange(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePortRange(%q) returned error: %v", tt.input, err)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("ParsePortRange(%q) = (%d, %d), want (%d, %d)",
					tt.input, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
