// Package report renders scan reports as plain text, HTML, and console
// summaries. It consumes a finished ScanReport and never mutates it.
package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"

	"portscan/scanner"
)

const timeLayout = "2006-01-02 15:04:05"

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>Port Scan Report - {{.Host}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        table { border-collapse: collapse; width: 100%; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f2f2f2; }
        tr:nth-child(even) { background-color: #f9f9f9; }
        .header { margin-bottom: 20px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Port Scan Report</h1>
        <p>Target Host: {{.Host}}</p>
        <p>Start Time: {{.StartTime}}</p>
        <p>End Time: {{.EndTime}}</p>
        <p>Duration: {{.Duration}} seconds</p>
    </div>
    <table>
        <tr>
            <th>Port</th>
            <th>Status</th>
            <th>Service</th>
        </tr>
{{- range .Results}}
        <tr>
            <td>{{.Port}}</td>
            <td>{{.Status}}</td>
            <td>{{.Service}}</td>
        </tr>
{{- end}}
    </table>
</body>
</html>
`

var reportTemplate = template.Must(template.New("report").Parse(htmlTemplate))

type htmlData struct {
	Host      string
	StartTime string
	EndTime   string
	Duration  string
	Results   []scanner.ProbeResult
}

// WriteHTML renders the report as an HTML document with one table row per
// open port.
func WriteHTML(w io.Writer, rep *scanner.ScanReport) error {
	data := htmlData{
		Host:      rep.Host,
		StartTime: rep.StartTime.Format(timeLayout),
		EndTime:   rep.EndTime.Format(timeLayout),
		Duration:  fmt.Sprintf("%.2f", rep.EndTime.Sub(rep.StartTime).Seconds()),
		Results:   rep.Results,
	}
	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("error executing report template: %w", err)
	}
	return nil
}

// WriteText renders the report in plain text: a header with the host and
// scan timestamps, then one line per open port.
func WriteText(w io.Writer, rep *scanner.ScanReport) error {
	if _, err := fmt.Fprintf(w, "Port Scan Report for %s\n", rep.Host); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Scan Time: %s to %s\n\n",
		rep.StartTime.Format(timeLayout), rep.EndTime.Format(timeLayout)); err != nil {
		return err
	}
	for _, result := range rep.Results {
		if _, err := fmt.Fprintf(w, "Port %d: %s - %s\n", result.Port, result.Status, result.Service); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes the report to path, choosing HTML for .html files and
// plain text for everything else.
func WriteFile(path string, rep *scanner.ScanReport) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create report file %s: %w", path, err)
	}
	defer file.Close()

	if strings.HasSuffix(strings.ToLower(path), ".html") {
		return WriteHTML(file, rep)
	}
	return WriteText(file, rep)
}

// PrintSummary writes the console summary: a count of open ports followed by
// one line per open port, or an explicit message when none were found.
func PrintSummary(w io.Writer, rep *scanner.ScanReport) {
	if len(rep.Results) == 0 {
		fmt.Fprintln(w, "No open ports found")
		return
	}

	fmt.Fprintf(w, "\n%d open ports found:\n", len(rep.Results))
	for _, result := range rep.Results {
		fmt.Fprintf(w, "Port %d: %s\n", result.Port, result.Service)
	}
}
