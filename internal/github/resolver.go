package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brigantine-ci/brigantine/internal/config"
	"github.com/brigantine-ci/brigantine/internal/core"
)

// headResolver implements core.HeadResolver over the GitHub commits API.
// It shares the reporter's per-installation client factory.
type headResolver struct {
	newClient clientFactory
	logger    *slog.Logger
}

// NewHeadResolver creates the production resolver, authenticating each
// lookup the same way the checks reporter does.
func NewHeadResolver(cfg *config.GitHubConfig, logger *slog.Logger) core.HeadResolver {
	return &headResolver{
		newClient: newClientFactory(cfg, logger),
		logger:    logger,
	}
}

// ResolveHead returns the commit SHA the given ref currently points at.
func (r *headResolver) ResolveHead(ctx context.Context, owner, repo, ref string, installationID int64) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("cannot resolve a head commit without a ref")
	}

	client, err := r.newClient(ctx, installationID)
	if err != nil {
		return "", fmt.Errorf("failed to create installation client: %w", err)
	}

	sha, err := client.GetBranchHead(ctx, owner, repo, ref)
	if err != nil {
		return "", fmt.Errorf("failed to resolve head of %s/%s@%s: %w", owner, repo, ref, err)
	}
	return sha, nil
}
