// Package github implements the external reporting surface over the GitHub
// Checks API.
package github

import (
	"context"
	"log/slog"

	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"
)

// Client defines the narrow slice of the GitHub API this service needs:
// creating check runs and resolving a ref to its head commit.
type Client interface {
	CreateCheckRun(ctx context.Context, owner, repo string, opts github.CreateCheckRunOptions) (*github.CheckRun, error)
	GetBranchHead(ctx context.Context, owner, repo, ref string) (string, error)
}

type gitHubClient struct {
	client *github.Client
	logger *slog.Logger
}

// NewGitHubClient wraps the official go-github client to provide a focused,
// testable interface for check-run reporting.
func NewGitHubClient(client *github.Client, logger *slog.Logger) Client {
	return &gitHubClient{client: client, logger: logger}
}

// NewPATClient creates a Client authenticated with a personal access token.
// Useful for local development where no App installation is available.
func NewPATClient(ctx context.Context, token string, logger *slog.Logger) Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return &gitHubClient{client: github.NewClient(tc), logger: logger}
}

// GetBranchHead resolves a branch or tag ref to the commit SHA it points at.
func (g *gitHubClient) GetBranchHead(ctx context.Context, owner, repo, ref string) (string, error) {
	sha, _, err := g.client.Repositories.GetCommitSHA1(ctx, owner, repo, ref, "")
	if err != nil {
		g.logger.Error("failed to resolve ref to a commit", "owner", owner, "repo", repo, "ref", ref, "error", err)
		return "", err
	}
	return sha, nil
}

// CreateCheckRun creates a new check run on the given commit.
func (g *gitHubClient) CreateCheckRun(ctx context.Context, owner, repo string, opts github.CreateCheckRunOptions) (*github.CheckRun, error) {
	checkRun, _, err := g.client.Checks.CreateCheckRun(ctx, owner, repo, opts)
	if err != nil {
		g.logger.Error("failed to create check run", "owner", owner, "repo", repo, "name", opts.Name, "error", err)
		return nil, err
	}
	return checkRun, nil
}
