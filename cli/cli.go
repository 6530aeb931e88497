// Package cli implements the command-line face of the scanner: flag parsing,
// catalog loading, interrupt handling, and report output.
package cli

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portscan/logging"
	"portscan/report"
	"portscan/scanner"
)

// Run parses flags and arguments, executes the scan, and writes reports.
// It returns the process exit code.
func Run(args []string) int {
	flags := flag.NewFlagSet("portscan", flag.ExitOnError)
	ports := flags.String("p", "1-65535", "Port range to scan (format: start-end)")
	concurrency := flags.Int("c", scanner.DefaultConcurrency, "Number of concurrent probes")
	output := flags.String("o", "", "Output file (.txt or .html)")
	catalogPath := flags.String("catalog", "ports.json", "Path to the service catalog file")
	verbose := flags.Bool("v", false, "Enable debug logging")
	flags.Usage = func() { printUsage(flags) }
	_ = flags.Parse(args)

	if flags.NArg() != 1 {
		printUsage(flags)
		return 2
	}
	host := flags.Arg(0)

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := logging.ConfigureText(os.Stderr, level)

	startPort, endPort, err := scanner.ParsePortRange(*ports)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	catalog, err := scanner.LoadCatalog(*catalogPath)
	if err != nil {
		logger.Warn("could not load service catalog, ports will be reported as Unknown", "error", err)
		catalog = scanner.EmptyCatalog()
	} else {
		logger.Debug("service catalog loaded", "path", *catalogPath, "entries", catalog.Len())
	}

	// Ctrl-C stops dispatching and drains; partial results are still reported.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := scanner.NewEngine(catalog, logger)
	engine.OnProgress = func(p scanner.Progress) {
		logger.Info("scan progress",
			"percent", fmt.Sprintf("%.1f", p.Fraction*100),
			"completed", p.Completed,
			"total", p.Total,
			"ports_per_sec", fmt.Sprintf("%.0f", p.Rate),
		)
	}

	fmt.Printf("Starting scan of %s at %s\n", host, time.Now().Format("2006-01-02 15:04:05"))

	rep, err := engine.Scan(ctx, scanner.ScanRequest{
		Host:        host,
		StartPort:   startPort,
		EndPort:     endPort,
		Concurrency: *concurrency,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if *output != "" {
		if err := report.WriteFile(*output, rep); err != nil {
			logger.Error("failed to write report", "path", *output, "error", err)
		} else {
			fmt.Printf("\nResults written to %s\n", *output)
		}
	}

	report.PrintSummary(os.Stdout, rep)
	return 0
}

func printUsage(flags *flag.FlagSet) {
	fmt.Fprintln(os.Stderr, "Usage: portscan [flags] host")
	fmt.Fprintln(os.Stderr, "       portscan serve")
	fmt.Fprintln(os.Stderr, "Example: portscan -p 1-1024 -c 32 -o report.html scanme.nmap.org")
	flags.PrintDefaults()
}
