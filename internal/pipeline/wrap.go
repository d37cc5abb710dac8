package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/brigantine-ci/brigantine/internal/core"
)

// wrapJob brackets job execution with status reporting: a pending send
// before the job starts and a terminal send after it finishes. The three
// steps are strictly sequential.
//
// Failure handling is deliberately asymmetric. If the pending send fails,
// the job never starts: work that cannot be reported is not worth running.
// If the job fails, its failure is reported best-effort and then propagated
// unchanged; a failure in that final send is logged and swallowed so the
// reporting path can never mask the execution path.
func (r *Runner) wrapJob(ctx context.Context, spec core.JobSpec, note *Notification) (string, error) {
	start := time.Now()

	note.Conclusion = core.ConclusionNeutral
	note.Title = "running check"
	note.Summary = fmt.Sprintf("Running %s", spec.Name)
	note.Text = ""
	if err := note.Send(ctx, r.reporter); err != nil {
		return "", fmt.Errorf("failed to report pending status for %s: %w", spec.Name, err)
	}

	output, runErr := r.executor.Run(ctx, note.Event.BuildID, spec)
	if runErr != nil {
		// Logs come from the job, not from the error: the error is not
		// guaranteed to carry full output. Missing logs are a diagnostic
		// gap, never fatal.
		logs, logErr := r.executor.Logs(ctx, note.Event.BuildID, spec.Name)
		if logErr != nil {
			r.logger.Warn("could not fetch logs for failed job",
				"job", spec.Name,
				"build_id", note.Event.BuildID,
				"error", logErr,
			)
			logs = "no logs available"
		}

		note.Conclusion = core.ConclusionFailure
		note.Title = "check failed"
		note.Summary = fmt.Sprintf("Build %s failed", spec.Name)
		note.Text = fmt.Sprintf("%s\n\n%s", runErr, logs)
		if sendErr := note.Send(ctx, r.reporter); sendErr != nil {
			r.logger.Error("failed to report job failure",
				"job", spec.Name,
				"build_id", note.Event.BuildID,
				"error", sendErr,
			)
		}

		r.recordBuild(ctx, spec, note, time.Since(start))
		return "", runErr
	}

	note.Conclusion = core.ConclusionSuccess
	note.Title = "check complete"
	note.Summary = fmt.Sprintf("Build %s passed", spec.Name)
	note.Text = output
	if err := note.Send(ctx, r.reporter); err != nil {
		r.recordBuild(ctx, spec, note, time.Since(start))
		return output, err
	}

	r.recordBuild(ctx, spec, note, time.Since(start))
	return output, nil
}

// recordBuild writes one build history row. History is an operator
// convenience, so failures are logged and otherwise ignored.
func (r *Runner) recordBuild(ctx context.Context, spec core.JobSpec, note *Notification, elapsed time.Duration) {
	if r.store == nil {
		return
	}

	record := &core.BuildRecord{
		BuildID:    note.Event.BuildID,
		Category:   note.Event.Category,
		Action:     note.Event.Action,
		Ref:        note.Event.Revision.Ref,
		Commit:     note.Event.Revision.Commit,
		JobName:    spec.Name,
		Conclusion: note.Conclusion,
		DurationMS: elapsed.Milliseconds(),
	}
	if err := r.store.SaveBuildRecord(ctx, record); err != nil {
		r.logger.Error("failed to record build history",
			"job", spec.Name,
			"build_id", note.Event.BuildID,
			"error", err,
		)
	}
}
