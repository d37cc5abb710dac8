package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v73/github"
	"golang.org/x/oauth2"

	"github.com/brigantine-ci/brigantine/internal/config"
)

// newClientFactory picks the authentication path for outgoing API calls.
// When a personal access token is configured it wins, which keeps local
// development working without an App installation; otherwise each call
// authenticates as the installation the originating event belongs to.
func newClientFactory(cfg *config.GitHubConfig, logger *slog.Logger) clientFactory {
	return func(ctx context.Context, installationID int64) (Client, error) {
		if cfg.Token != "" {
			return NewPATClient(ctx, cfg.Token, logger), nil
		}
		return CreateInstallationClient(ctx, cfg, installationID, logger)
	}
}

// CreateInstallationClient creates a GitHub client authenticated as a
// specific installation of the App.
func CreateInstallationClient(ctx context.Context, cfg *config.GitHubConfig, installationID int64, logger *slog.Logger) (Client, error) {
	privateKey, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key from %s: %w", cfg.PrivateKeyPath, err)
	}

	// The apps transport talks to the GitHub App API to mint installation
	// tokens.
	appTransport, err := ghinstallation.NewAppsTransport(http.DefaultTransport, cfg.AppID, privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub App transport: %w", err)
	}
	appClient := github.NewClient(&http.Client{Transport: appTransport})

	token, _, err := appClient.Apps.CreateInstallationToken(ctx, installationID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create installation token for installation ID %d: %w", installationID, err)
	}
	if token.GetToken() == "" {
		return nil, fmt.Errorf("received an empty installation token")
	}
	logger.Info("created installation token",
		"installation_id", installationID,
		"expires_at", token.GetExpiresAt(),
	)

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token.GetToken()})
	installationClient := github.NewClient(oauth2.NewClient(ctx, ts))

	return NewGitHubClient(installationClient, logger), nil
}
