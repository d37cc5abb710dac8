// Package core defines the essential interfaces and data structures that form
// the backbone of the application. These components are designed to be
// abstract, allowing for flexible and decoupled implementations of the
// orchestration logic.
package core

import (
	"context"
	"fmt"
	"time"
)

// JobSpec is an immutable description of one containerized unit of work.
// It is built once by an action builder, never mutated afterwards, and
// handed by value to the external executor.
type JobSpec struct {
	// Name is unique within the handling of one event.
	Name string `json:"name"`
	// Image is the container image the job runs in.
	Image string `json:"image"`
	// AlwaysPull forces the executor to re-pull the image even when a
	// cached copy exists, which matters for mutable tags.
	AlwaysPull bool `json:"always_pull,omitempty"`
	// Tasks are shell commands executed in order.
	Tasks []string `json:"tasks"`
	// Env is the environment the tasks run with.
	Env map[string]string `json:"env,omitempty"`
	// MountPath is where the event's source tree is mounted, if any.
	MountPath string `json:"mount_path,omitempty"`
	// Privileged requests an unrestricted container, needed to run a
	// nested container engine inside the job.
	Privileged bool `json:"privileged,omitempty"`
}

// Conclusion is the outcome of a check as reported to the external surface.
type Conclusion string

// The full set of conclusions the reporting surface accepts. The core only
// ever produces ConclusionSuccess and ConclusionFailure itself; cancelled
// and timed_out exist for forward compatibility with outcomes set by the
// surface.
const (
	ConclusionNeutral   Conclusion = "neutral"
	ConclusionSuccess   Conclusion = "success"
	ConclusionFailure   Conclusion = "failure"
	ConclusionCancelled Conclusion = "cancelled"
	ConclusionTimedOut  Conclusion = "timed_out"
)

// Terminal reports whether the conclusion represents a finished check.
// Neutral (and the empty value) mean the check is still pending.
func (c Conclusion) Terminal() bool {
	switch c {
	case ConclusionSuccess, ConclusionFailure, ConclusionCancelled, ConclusionTimedOut:
		return true
	default:
		return false
	}
}

// CheckRunUpdate is the immutable snapshot dispatched to the reporter on
// every notification send. ID is unique per physical send; the visible
// check is keyed by Name and ExternalID.
type CheckRunUpdate struct {
	ID         string
	Name       string
	Conclusion Conclusion
	Title      string
	Summary    string
	Text       string
	DetailsURL string
	ExternalID string

	Owner          string
	Repo           string
	HeadSHA        string
	InstallationID int64
}

// Reporter posts check statuses to the external reporting surface. A failed
// Send is surfaced to the caller as an ordinary error; whether that error
// is fatal depends on where in the job lifecycle the send happens.
type Reporter interface {
	Send(ctx context.Context, update CheckRunUpdate) error
}

// HeadResolver looks up the commit a ref currently points at. Events that
// arrive without a head SHA, such as issue comments, need one resolved
// before any check run can be reported against them.
type HeadResolver interface {
	ResolveHead(ctx context.Context, owner, repo, ref string, installationID int64) (string, error)
}

// Executor runs job specifications in an isolated environment, out of
// process. Run blocks until the job finishes and returns its captured
// output. Logs fetches whatever output the job produced regardless of its
// outcome, which is the only reliable source of diagnostics after a
// failure.
type Executor interface {
	Run(ctx context.Context, buildID string, spec JobSpec) (string, error)
	Logs(ctx context.Context, buildID, jobName string) (string, error)
}

// JobError is the failure raised by the executor when a job does not
// complete successfully.
type JobError struct {
	BuildID string
	Reason  string
}

func (e *JobError) Error() string {
	return fmt.Sprintf("job failed (build %s): %s", e.BuildID, e.Reason)
}

// BuildRecord is one row of build history: the outcome of a single wrapped
// job, kept for the operator surface. The orchestration core never reads
// these back.
type BuildRecord struct {
	ID         int64      `db:"id"`
	BuildID    string     `db:"build_id"`
	Category   string     `db:"category"`
	Action     string     `db:"action"`
	Ref        string     `db:"ref"`
	Commit     string     `db:"commit"`
	JobName    string     `db:"job_name"`
	Conclusion Conclusion `db:"conclusion"`
	DurationMS int64      `db:"duration_ms"`
	CreatedAt  time.Time  `db:"created_at"`
}

// JobDispatcher defines the contract for a system that can accept and queue
// events for asynchronous processing. This interface decouples the event
// source (the webhook handler) from the pipeline execution mechanism.
type JobDispatcher interface {
	// Dispatch accepts an Event and queues it for processing. It returns an
	// error if the event cannot be queued, for example when the queue is
	// full, providing a mechanism for backpressure.
	Dispatch(ctx context.Context, event *Event) error
}

// Job represents the executable handling of one event.
type Job interface {
	// Run executes the handling for one event and returns an error if any
	// part of it failed.
	Run(ctx context.Context, event *Event) error
}
