// Package executor is the client for the external job runner, the service
// that actually executes job specifications in isolated containers.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brigantine-ci/brigantine/internal/config"
	"github.com/brigantine-ci/brigantine/internal/core"
)

// httpExecutor implements core.Executor over the runner's HTTP API. Run
// blocks for the whole job, which can be a long time; the client timeout
// is sized for that, not for ordinary request latency.
type httpExecutor struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPExecutor creates an executor client for the runner at cfg.URL.
func NewHTTPExecutor(cfg *config.RunnerConfig, logger *slog.Logger) core.Executor {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}

	return &httpExecutor{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		logger: logger,
	}
}

type runRequest struct {
	BuildID string       `json:"build_id"`
	Spec    core.JobSpec `json:"spec"`
}

type runResponse struct {
	Output string `json:"output"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type logsResponse struct {
	Logs string `json:"logs"`
}

// Run submits the job and blocks until the runner reports an outcome. A
// non-2xx response is converted into a core.JobError carrying the build
// identifier and the runner's description of the failure.
func (e *httpExecutor) Run(ctx context.Context, buildID string, spec core.JobSpec) (string, error) {
	body, err := json.Marshal(runRequest{BuildID: buildID, Spec: spec})
	if err != nil {
		return "", fmt.Errorf("failed to encode job spec: %w", err)
	}

	e.logger.Info("submitting job to runner", "job", spec.Name, "build_id", buildID, "image", spec.Image)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/jobs", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build runner request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("runner request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read runner response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var runnerErr errorResponse
		reason := strings.TrimSpace(string(data))
		if err := json.Unmarshal(data, &runnerErr); err == nil && runnerErr.Error != "" {
			reason = runnerErr.Error
		}
		return "", &core.JobError{BuildID: buildID, Reason: reason}
	}

	var result runResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("failed to decode runner response: %w", err)
	}
	return result.Output, nil
}

// Logs fetches the captured output of a job regardless of its outcome.
func (e *httpExecutor) Logs(ctx context.Context, buildID, jobName string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/builds/%s/jobs/%s/logs",
		e.baseURL, url.PathEscape(buildID), url.PathEscape(jobName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build logs request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("logs request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read logs response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("runner returned %d for logs of job %q", resp.StatusCode, jobName)
	}

	var result logsResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("failed to decode logs response: %w", err)
	}
	return result.Logs, nil
}
