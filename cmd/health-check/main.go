// Package main provides a standalone health check command for the meal planner.
// It probes the ops server and is meant for container health checks and scripts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/alchemorsel/mealplanner/pkg/healthcheck"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeError   = 2
)

const defaultURL = "http://localhost:9090/health"

// Config holds command-line configuration
type Config struct {
	URL            string
	Timeout        time.Duration
	Verbose        bool
	OutputFormat   string
	ExpectedStatus string
	RetryCount     int
	RetryDelay     time.Duration
}

// report mirrors the ops server's health response. Durations arrive in milliseconds.
type report struct {
	Status          healthcheck.Status `json:"status"`
	Version         string             `json:"version"`
	Timestamp       time.Time          `json:"timestamp"`
	TotalDurationMS float64            `json:"total_duration_ms"`
	Checks          []struct {
		Name       string             `json:"name"`
		Status     healthcheck.Status `json:"status"`
		Message    string             `json:"message,omitempty"`
		DurationMS float64            `json:"duration_ms"`
	} `json:"checks"`
}

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeError)
	}
	os.Exit(run(context.Background(), cfg, os.Stdout))
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{}

	fs.StringVar(&cfg.URL, "url", "", "Health endpoint URL (default $HEALTH_CHECK_URL or "+defaultURL+")")
	fs.DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "Request timeout")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.StringVar(&cfg.OutputFormat, "format", "text", "Output format: text, json")
	fs.StringVar(&cfg.ExpectedStatus, "expect", "healthy", "Expected status: healthy, degraded")
	fs.IntVar(&cfg.RetryCount, "retry", 0, "Number of retries on failure")
	fs.DurationVar(&cfg.RetryDelay, "retry-delay", time.Second, "Delay between retries")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.URL == "" {
		cfg.URL = os.Getenv("HEALTH_CHECK_URL")
	}
	if cfg.URL == "" {
		cfg.URL = defaultURL
	}

	switch healthcheck.Status(cfg.ExpectedStatus) {
	case healthcheck.StatusHealthy, healthcheck.StatusDegraded:
	default:
		return cfg, fmt.Errorf("invalid -expect %q", cfg.ExpectedStatus)
	}
	if cfg.OutputFormat != "text" && cfg.OutputFormat != "json" {
		return cfg, fmt.Errorf("invalid -format %q", cfg.OutputFormat)
	}
	return cfg, nil
}

// run probes the endpoint, retrying transport failures
func run(ctx context.Context, cfg Config, out io.Writer) int {
	client := &http.Client{Timeout: cfg.Timeout}

	var lastError error
	for attempt := 0; attempt <= cfg.RetryCount; attempt++ {
		if attempt > 0 {
			if cfg.Verbose {
				fmt.Fprintf(out, "Retrying in %v... (attempt %d/%d)\n", cfg.RetryDelay, attempt, cfg.RetryCount)
			}
			select {
			case <-ctx.Done():
				return exitCodeError
			case <-time.After(cfg.RetryDelay):
			}
		}

		rep, raw, err := probe(ctx, client, cfg.URL)
		if err != nil {
			lastError = err
			if cfg.Verbose {
				fmt.Fprintf(out, "Request failed: %v\n", err)
			}
			continue
		}
		return outputResult(out, rep, raw, cfg)
	}

	fmt.Fprintf(out, "Health check failed after %d attempts: %v\n", cfg.RetryCount+1, lastError)
	return exitCodeError
}

func probe(ctx context.Context, client *http.Client, url string) (*report, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	var rep report
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, nil, fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode, err)
	}
	if rep.Status == "" {
		return nil, nil, fmt.Errorf("response without status (HTTP %d)", resp.StatusCode)
	}
	return &rep, raw, nil
}

func outputResult(out io.Writer, rep *report, raw []byte, cfg Config) int {
	if cfg.OutputFormat == "json" {
		out.Write(raw)
		fmt.Fprintln(out)
	} else {
		outputText(out, rep, cfg.Verbose)
	}
	return exitCode(rep.Status, healthcheck.Status(cfg.ExpectedStatus))
}

// exitCode treats degraded as passing only when degraded is acceptable
func exitCode(status, expected healthcheck.Status) int {
	switch status {
	case healthcheck.StatusHealthy:
		return exitCodeSuccess
	case healthcheck.StatusDegraded:
		if expected == healthcheck.StatusDegraded {
			return exitCodeSuccess
		}
		return exitCodeFailure
	default:
		return exitCodeFailure
	}
}

func outputText(out io.Writer, rep *report, verbose bool) {
	fmt.Fprintf(out, "Status: %s\n", rep.Status)
	if rep.Version != "" {
		fmt.Fprintf(out, "Version: %s\n", rep.Version)
	}
	if !rep.Timestamp.IsZero() {
		fmt.Fprintf(out, "Timestamp: %s\n", rep.Timestamp.Format(time.RFC3339))
	}
	fmt.Fprintf(out, "Duration: %.0fms\n", rep.TotalDurationMS)

	if verbose && len(rep.Checks) > 0 {
		fmt.Fprintln(out, "\nChecks:")
		for _, check := range rep.Checks {
			fmt.Fprintf(out, "  %s: %s", check.Name, check.Status)
			if check.Message != "" {
				fmt.Fprintf(out, " (%s)", check.Message)
			}
			fmt.Fprintf(out, " [%.0fms]\n", check.DurationMS)
		}
	}
}
