package github

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/go-github/v73/github"

	"github.com/brigantine-ci/brigantine/internal/config"
	"github.com/brigantine-ci/brigantine/internal/core"
)

// clientFactory builds a Client for one installation. Extracted so tests can
// substitute a fake without touching the App credentials.
type clientFactory func(ctx context.Context, installationID int64) (Client, error)

// checksReporter implements core.Reporter over the GitHub Checks API. Every
// send creates a fresh check run; GitHub keys the visible status by name
// and head SHA, so a terminal send supersedes the pending one.
type checksReporter struct {
	newClient clientFactory
	logger    *slog.Logger
}

// NewChecksReporter creates the production reporter. Sends authenticate as
// the App installation the originating event belongs to, or with a personal
// access token when one is configured.
func NewChecksReporter(cfg *config.GitHubConfig, logger *slog.Logger) core.Reporter {
	return &checksReporter{
		newClient: newClientFactory(cfg, logger),
		logger:    logger,
	}
}

// Send posts one check-run snapshot. Pending snapshots become in_progress
// runs; terminal ones are completed with their conclusion.
func (r *checksReporter) Send(ctx context.Context, update core.CheckRunUpdate) error {
	if update.HeadSHA == "" {
		return fmt.Errorf("check run update %q has no head SHA to report against", update.ID)
	}

	client, err := r.newClient(ctx, update.InstallationID)
	if err != nil {
		return fmt.Errorf("failed to create installation client: %w", err)
	}

	opts := github.CreateCheckRunOptions{
		Name:       update.Name,
		HeadSHA:    update.HeadSHA,
		ExternalID: github.Ptr(update.ExternalID),
		DetailsURL: github.Ptr(update.DetailsURL),
		Output: &github.CheckRunOutput{
			Title:   github.Ptr(update.Title),
			Summary: github.Ptr(update.Summary),
			Text:    github.Ptr(update.Text),
		},
	}
	if update.Conclusion.Terminal() {
		opts.Status = github.Ptr("completed")
		opts.Conclusion = github.Ptr(string(update.Conclusion))
		opts.CompletedAt = &github.Timestamp{Time: time.Now()}
	} else {
		opts.Status = github.Ptr("in_progress")
	}

	r.logger.Debug("sending check run update",
		"id", update.ID,
		"name", update.Name,
		"conclusion", string(update.Conclusion),
	)

	if _, err := client.CreateCheckRun(ctx, update.Owner, update.Repo, opts); err != nil {
		return fmt.Errorf("failed to create check run for %q: %w", update.ID, err)
	}
	return nil
}
