package executor

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brigantine-ci/brigantine/internal/config"
	"github.com/brigantine-ci/brigantine/internal/core"
)

func newTestExecutor(url string) core.Executor {
	cfg := &config.RunnerConfig{URL: url, RequestTimeout: 5 * time.Second}
	return NewHTTPExecutor(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRunSuccess(t *testing.T) {
	var received runRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/jobs", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(runResponse{Output: "tests passed"})
	}))
	defer srv.Close()

	exec := newTestExecutor(srv.URL)
	spec := core.JobSpec{Name: "tests", Image: "golang:1.24-bookworm", Tasks: []string{"make test"}}

	out, err := exec.Run(context.Background(), "build-1", spec)

	require.NoError(t, err)
	assert.Equal(t, "tests passed", out)
	assert.Equal(t, "build-1", received.BuildID)
	assert.Equal(t, "tests", received.Spec.Name)
}

func TestRunFailureIsJobError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "task 2 exited with status 1"})
	}))
	defer srv.Close()

	exec := newTestExecutor(srv.URL)

	_, err := exec.Run(context.Background(), "build-1", core.JobSpec{Name: "tests"})

	require.Error(t, err)
	var jobErr *core.JobError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, "build-1", jobErr.BuildID)
	assert.Equal(t, "task 2 exited with status 1", jobErr.Reason)
}

func TestRunFailureWithPlainBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "runner on fire", http.StatusInternalServerError)
	}))
	defer srv.Close()

	exec := newTestExecutor(srv.URL)

	_, err := exec.Run(context.Background(), "build-1", core.JobSpec{Name: "tests"})

	var jobErr *core.JobError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, "runner on fire", jobErr.Reason)
}

func TestLogs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/builds/build-1/jobs/tests/logs", r.URL.Path)
		_ = json.NewEncoder(w).Encode(logsResponse{Logs: "=== RUN TestFoo"})
	}))
	defer srv.Close()

	exec := newTestExecutor(srv.URL)

	logs, err := exec.Logs(context.Background(), "build-1", "tests")

	require.NoError(t, err)
	assert.Equal(t, "=== RUN TestFoo", logs)
}

func TestLogsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	exec := newTestExecutor(srv.URL)

	_, err := exec.Logs(context.Background(), "build-1", "tests")
	assert.Error(t, err)
}
