// Package pipeline implements the orchestration core: the mapping from
// repository events to jobs, the notification state machine, and the
// execution wrapper that brackets every job with status reporting.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/brigantine-ci/brigantine/internal/core"
)

// Notification is the mutable status record for one logical check. It is
// sent at least twice: once pending before the job starts, once with the
// terminal conclusion after it finishes. Each send produces a distinct
// derived identity so the reporting surface can tell physical reporting
// actions apart while keying the visible status by Name and ExternalID.
type Notification struct {
	Name       string
	Event      *core.Event
	DetailsURL string

	Title      string
	Summary    string
	Text       string
	Conclusion core.Conclusion

	count int
}

// NewNotification binds a status record to one event. The details URL is
// derived from the event's build identifier and the dashboard base URL.
func NewNotification(name string, event *core.Event, dashboardURL string) *Notification {
	return &Notification{
		Name:       name,
		Event:      event,
		DetailsURL: fmt.Sprintf("%s/builds/%s", strings.TrimRight(dashboardURL, "/"), event.BuildID),
		Title:      "running check",
		Conclusion: core.ConclusionNeutral,
	}
}

// Count returns how many sends have happened so far.
func (n *Notification) Count() int { return n.count }

// Send increments the send counter, snapshots the notification's current
// state into a uniquely named check-run update, and dispatches it to the
// reporter. The snapshot is immutable; repeated sends with differing
// conclusions are how pending and final status are communicated.
func (n *Notification) Send(ctx context.Context, reporter core.Reporter) error {
	n.count++
	update := core.CheckRunUpdate{
		ID:             fmt.Sprintf("%s-notification-%d", n.Name, n.count),
		Name:           n.Name,
		Conclusion:     n.Conclusion,
		Title:          n.Title,
		Summary:        n.Summary,
		Text:           n.Text,
		DetailsURL:     n.DetailsURL,
		ExternalID:     n.Event.BuildID,
		Owner:          n.Event.RepoOwner,
		Repo:           n.Event.RepoName,
		HeadSHA:        n.Event.Revision.Commit,
		InstallationID: n.Event.InstallationID,
	}

	if err := reporter.Send(ctx, update); err != nil {
		return fmt.Errorf("failed to send notification %q: %w", update.ID, err)
	}
	return nil
}
