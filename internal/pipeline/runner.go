package pipeline

import (
	"context"
	"log/slog"

	"github.com/brigantine-ci/brigantine/internal/config"
	"github.com/brigantine-ci/brigantine/internal/core"
	"github.com/brigantine-ci/brigantine/internal/storage"
)

// Runner owns the handling of one event from routing through job execution
// and status reporting. It implements core.Job so the dispatcher's workers
// can drive it.
type Runner struct {
	executor  core.Executor
	reporter  core.Reporter
	resolver  core.HeadResolver
	store     storage.Store
	project   *core.Project
	overrides *core.PipelineOverrides

	dashboardURL string
	routes       map[routeKey]handlerFunc
	logger       *slog.Logger
}

// NewRunner wires the pipeline together. The store may be nil, in which case
// build history is not recorded. The routing table is built once here and is
// read-only afterwards.
func NewRunner(cfg *config.Config, executor core.Executor, reporter core.Reporter, resolver core.HeadResolver, store storage.Store, overrides *core.PipelineOverrides, logger *slog.Logger) *Runner {
	if executor == nil {
		panic("executor cannot be nil")
	}
	if reporter == nil {
		panic("reporter cannot be nil")
	}
	if resolver == nil {
		panic("resolver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if overrides == nil {
		overrides = core.DefaultPipelineOverrides()
	}

	r := &Runner{
		executor:  executor,
		reporter:  reporter,
		resolver:  resolver,
		store:     store,
		overrides: overrides,
		project: &core.Project{
			Name:    "brigantine",
			Secrets: cfg.Pipeline.Secrets(),
		},
		dashboardURL: cfg.Pipeline.DashboardURL,
		logger:       logger,
	}
	r.routes = map[routeKey]handlerFunc{
		{"push", ""}:                   r.handlePush,
		{"exec", ""}:                   r.runTests,
		{"check_suite", "requested"}:   r.runSuite,
		{"check_suite", "rerequested"}: r.runSuite,
		{"check_run", "rerequested"}:   r.handleCheckRerun,
		{"issue_comment", "created"}:   r.handleComment,
		{"issue_comment", "edited"}:    r.handleComment,
	}
	return r
}

// Run satisfies core.Job by routing the event.
func (r *Runner) Run(ctx context.Context, event *core.Event) error {
	return r.Route(ctx, event)
}
