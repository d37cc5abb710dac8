package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brigantine-ci/brigantine/internal/core"
)

// ErrUnknownCheck is raised when a check run re-request names a check this
// service does not provide. It is a configuration error: there is no valid
// check context to report against, so no notification is ever sent for it.
var ErrUnknownCheck = errors.New("unknown check")

// runCommand is the one comment command the service recognizes.
const runCommand = "/brig run"

// checkBuilders maps recognized check names to their job builders.
var checkBuilders = map[string]func(*core.PipelineOverrides) core.JobSpec{
	testJobName: TestJob,
}

// runSuite handles the "run everything" intent of a check suite request.
// Pushes to master already run tests as a precondition of publishing, so
// suites requested there are skipped rather than reporting the same work
// through two code paths. The skip applies to check_suite webhooks only;
// a comment command is an explicit ask and runs on any branch.
func (r *Runner) runSuite(ctx context.Context, event *core.Event) error {
	if event.Category == "check_suite" && event.Revision.Ref == "master" {
		r.logger.Info("skipping check suite on master; the push pipeline runs tests",
			"build_id", event.BuildID,
		)
		return nil
	}
	return r.runCheck(ctx, event, testJobName)
}

// runCheck resolves a check by name and runs it as a wrapped job.
func (r *Runner) runCheck(ctx context.Context, event *core.Event, name string) error {
	builder, ok := checkBuilders[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCheck, name)
	}

	spec := builder(r.overrides)
	note := NewNotification(name, event, r.dashboardURL)
	_, err := r.wrapJob(ctx, spec, note)
	return err
}

// handleCheckRerun handles a re-request for a single named check.
func (r *Runner) handleCheckRerun(ctx context.Context, event *core.Event) error {
	return r.runCheck(ctx, event, event.Payload.CheckName())
}

// handleComment matches a comment body against the command vocabulary.
// Comments are free text and most are not commands, so anything
// unrecognized is logged and ignored. Comment webhooks carry no head SHA,
// so a recognized command first resolves the current head of the event's
// ref; check runs cannot be reported without one.
func (r *Runner) handleComment(ctx context.Context, event *core.Event) error {
	body := strings.TrimSpace(event.Payload.CommentBody())
	if body != runCommand {
		r.logger.Debug("ignoring comment without a recognized command")
		return nil
	}

	if event.Revision.Commit == "" {
		sha, err := r.resolver.ResolveHead(ctx, event.RepoOwner, event.RepoName, event.Revision.Ref, event.InstallationID)
		if err != nil {
			return fmt.Errorf("failed to resolve head for comment command: %w", err)
		}
		resolved := *event
		resolved.Revision.Commit = sha
		event = &resolved
	}
	return r.runSuite(ctx, event)
}
