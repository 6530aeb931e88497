package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"portscan/scanner"
)

func sampleReport() *scanner.ScanReport {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &scanner.ScanReport{
		Host:      "example.com",
		StartTime: start,
		EndTime:   start.Add(2500 * time.Millisecond),
		Results: []scanner.ProbeResult{
			{Port: 80, Status: scanner.StatusOpen, Service: "HTTP"},
		},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteText returned error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Port Scan Report for example.com") {
		t.Errorf("missing header in text report:\n%s", out)
	}
	if !strings.Contains(out, "Scan Time: 2024-03-01 12:00:00 to 2024-03-01 12:00:02") {
		t.Errorf("missing scan time line in text report:\n%s", out)
	}
	if !strings.Contains(out, "Port 80: OPEN - HTTP") {
		t.Errorf("missing result line in text report:\n%s", out)
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteHTML returned error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<title>Port Scan Report - example.com</title>") {
		t.Errorf("host missing from title:\n%s", out)
	}
	if !strings.Contains(out, "Duration: 2.50 seconds") {
		t.Errorf("missing two-decimal duration:\n%s", out)
	}
	for _, cell := range []string{"<td>80</td>", "<td>OPEN</td>", "<td>HTTP</td>"} {
		if !strings.Contains(out, cell) {
			t.Errorf("missing cell %s in HTML report:\n%s", cell, out)
		}
	}
}

func TestWriteFileChoosesFormatByExtension(t *testing.T) {
	dir := t.TempDir()

	htmlPath := filepath.Join(dir, "report.html")
	if err := WriteFile(htmlPath, sampleReport()); err != nil {
		t.Fatalf("WriteFile(.html) returned error: %v", err)
	}
	htmlOut, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("failed to read html report: %v", err)
	}
	if !strings.Contains(string(htmlOut), "<!DOCTYPE html>") {
		t.Error("html report does not contain HTML document")
	}

	textPath := filepath.Join(dir, "report.txt")
	if err := WriteFile(textPath, sampleReport()); err != nil {
		t.Fatalf("WriteFile(.txt) returned error: %v", err)
	}
	textOut, err := os.ReadFile(textPath)
	if err != nil {
		t.Fatalf("failed to read text report: %v", err)
	}
	if strings.Contains(string(textOut), "<") {
		t.Error("text report contains markup")
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, sampleReport())

	out := buf.String()
	if !strings.Contains(out, "1 open ports found:") {
		t.Errorf("missing open port count:\n%s", out)
	}
	if !strings.Contains(out, "Port 80: HTTP") {
		t.Errorf("missing port line:\n%s", out)
	}
}

func TestPrintSummaryEmpty(t *testing.T) {
	rep := sampleReport()
	rep.Results = nil

	var buf bytes.Buffer
	PrintSummary(&buf, rep)

	if got := strings.TrimSpace(buf.String()); got != "No open ports found" {
		t.Errorf("summary for empty report = %q, want %q", got, "No open ports found")
	}
}
