package pipeline

import (
	"context"

	"github.com/brigantine-ci/brigantine/internal/core"
)

// routeKey selects a handler by event category and action. Push events are
// registered with an empty action: their handling depends on the ref, not
// on a webhook action.
type routeKey struct {
	Category string
	Action   string
}

type handlerFunc func(ctx context.Context, event *core.Event) error

// Route selects and invokes exactly one handler for the event. Events with
// no registered handler are ignored; receiving them is normal, not an
// error.
func (r *Runner) Route(ctx context.Context, event *core.Event) error {
	handler, ok := r.routes[routeKey{Category: event.Category, Action: event.Action}]
	if !ok {
		r.logger.Debug("no handler registered for event",
			"category", event.Category,
			"action", event.Action,
		)
		return nil
	}

	r.logger.Info("handling event",
		"category", event.Category,
		"action", event.Action,
		"ref", event.Revision.Ref,
		"build_id", event.BuildID,
	)
	return handler(ctx, event)
}

// handlePush implements the push policy: a release tag publishes directly,
// the master branch runs tests and then - only when they pass - publishes a
// floating edge build. Pushes to any other ref are ignored.
func (r *Runner) handlePush(ctx context.Context, event *core.Event) error {
	if m := releaseTagPattern.FindStringSubmatch(event.Revision.Ref); m != nil {
		return r.buildAndPublish(ctx, event, m[1])
	}

	if event.Revision.Ref == "refs/heads/master" {
		// The edge build is gated on the test run. A test failure must
		// propagate and the publish must never start.
		if err := r.runTests(ctx, event); err != nil {
			return err
		}
		return r.buildAndPublish(ctx, event, "")
	}

	r.logger.Debug("ignoring push to non-release ref", "ref", event.Revision.Ref)
	return nil
}

// runTests runs the test pipeline as a wrapped, reported job.
func (r *Runner) runTests(ctx context.Context, event *core.Event) error {
	spec := TestJob(r.overrides)
	note := NewNotification(spec.Name, event, r.dashboardURL)
	_, err := r.wrapJob(ctx, spec, note)
	return err
}

// buildAndPublish runs the image build-and-publish pipeline as a wrapped,
// reported job. An empty version produces the floating edge build.
func (r *Runner) buildAndPublish(ctx context.Context, event *core.Event, version string) error {
	spec := BuildAndPublishJob(r.project, version, r.overrides)
	note := NewNotification(spec.Name, event, r.dashboardURL)
	_, err := r.wrapJob(ctx, spec, note)
	return err
}
