package main

import (
	"bytes"
	"context"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alchemorsel/mealplanner/pkg/healthcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveStatus(status healthcheck.Status, code int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		io.WriteString(w, `{"status":"`+string(status)+`","version":"1.0.0","timestamp":"2026-01-02T03:04:05Z",`+
			`"total_duration_ms":4.5,"checks":[{"name":"database","status":"`+string(status)+`","message":"ok","duration_ms":1.2}]}`)
	}))
}

func testConfig(url string) Config {
	return Config{URL: url, Timeout: time.Second, OutputFormat: "text", ExpectedStatus: "healthy", RetryDelay: time.Millisecond}
}

func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		status   healthcheck.Status
		code     int
		expect   string
		wantExit int
	}{
		{"healthy", healthcheck.StatusHealthy, http.StatusOK, "healthy", exitCodeSuccess},
		{"degraded expecting healthy", healthcheck.StatusDegraded, http.StatusOK, "healthy", exitCodeFailure},
		{"degraded accepted", healthcheck.StatusDegraded, http.StatusOK, "degraded", exitCodeSuccess},
		{"unhealthy", healthcheck.StatusUnhealthy, http.StatusServiceUnavailable, "healthy", exitCodeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveStatus(tt.status, tt.code)
			defer srv.Close()

			cfg := testConfig(srv.URL)
			cfg.ExpectedStatus = tt.expect
			var out bytes.Buffer
			assert.Equal(t, tt.wantExit, run(context.Background(), cfg, &out))
			assert.Contains(t, out.String(), "Status: "+string(tt.status))
		})
	}
}

func TestRun_VerboseListsChecks(t *testing.T) {
	srv := serveStatus(healthcheck.StatusHealthy, http.StatusOK)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Verbose = true
	var out bytes.Buffer
	require.Equal(t, exitCodeSuccess, run(context.Background(), cfg, &out))
	assert.Contains(t, out.String(), "database: healthy (ok) [1ms]")
}

func TestRun_JSONEchoesBody(t *testing.T) {
	srv := serveStatus(healthcheck.StatusHealthy, http.StatusOK)
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.OutputFormat = "json"
	var out bytes.Buffer
	require.Equal(t, exitCodeSuccess, run(context.Background(), cfg, &out))
	assert.Contains(t, out.String(), `"total_duration_ms":4.5`)
}

func TestRun_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			io.WriteString(w, "not json")
			return
		}
		io.WriteString(w, `{"status":"healthy"}`)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.RetryCount = 2
	var out bytes.Buffer
	assert.Equal(t, exitCodeSuccess, run(context.Background(), cfg, &out))
	assert.Equal(t, int32(2), calls.Load())
}

func TestRun_UnreachableIsError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var out bytes.Buffer
	assert.Equal(t, exitCodeError, run(context.Background(), testConfig(url), &out))
	assert.Contains(t, out.String(), "failed after 1 attempts")
}

func TestParseFlags(t *testing.T) {
	t.Setenv("HEALTH_CHECK_URL", "http://ops:9090/health")

	fs := flag.NewFlagSet("health-check", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg, err := parseFlags(fs, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://ops:9090/health", cfg.URL)

	fs = flag.NewFlagSet("health-check", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	_, err = parseFlags(fs, []string{"-expect", "unhealthy"})
	assert.ErrorContains(t, err, "invalid -expect")
}
