package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/brigantine-ci/brigantine/internal/logger"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port string
}

// GitHubConfig holds the GitHub App identity used to authenticate webhook
// payloads and check-run reporting.
type GitHubConfig struct {
	AppID          int64
	WebhookSecret  string
	PrivateKeyPath string

	// Token is a personal access token used instead of App installation
	// auth when set. Intended for local development.
	Token string
}

// RunnerConfig holds the connection settings for the external job runner.
type RunnerConfig struct {
	URL            string
	RequestTimeout time.Duration
}

// DBConfig holds the build history database settings. History is optional:
// an empty Host disables it entirely.
type DBConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Enabled reports whether a build history database is configured.
func (c *DBConfig) Enabled() bool { return c.Host != "" }

// PipelineConfig holds the settings consumed by the pipeline runner: worker
// pool size, the dashboard that build detail URLs point at, and the registry
// secrets handed to the publishing job.
type PipelineConfig struct {
	MaxWorkers    int
	DashboardURL  string
	OverridesPath string

	DockerRegistry string
	DockerOrg      string
	DockerUsername string
	DockerPassword string
}

// Config holds the application's configuration values.
type Config struct {
	Server   ServerConfig
	Log      logger.Config
	GitHub   GitHubConfig
	Runner   RunnerConfig
	Database DBConfig
	Pipeline PipelineConfig
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates required fields. It uses the Viper
// library to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_OUTPUT", "stdout")
	viper.SetDefault("MAX_WORKERS", 5)
	viper.SetDefault("RUNNER_URL", "http://localhost:8081")
	viper.SetDefault("RUNNER_REQUEST_TIMEOUT", "30m")
	viper.SetDefault("DASHBOARD_URL", "https://brigantine-ci.github.io/helm")
	viper.SetDefault("PIPELINE_OVERRIDES_PATH", ".brigantine.yml")
	viper.SetDefault("GITHUB_PRIVATE_KEY_PATH", "keys/brigantine-app.private-key.pem")
	viper.SetDefault("DATABASE_PORT", 5432)
	viper.SetDefault("DATABASE_USER", "brigantine")
	viper.SetDefault("DATABASE_NAME", "brigantine")
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("DATABASE_CONN_MAX_IDLE_TIME", "5m")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", "error", err)
		}
	}

	if viper.GetInt64("GITHUB_APP_ID") == 0 && viper.GetString("GITHUB_TOKEN") == "" {
		return nil, fmt.Errorf("GITHUB_APP_ID must be set unless GITHUB_TOKEN is provided")
	}
	if viper.GetString("GITHUB_WEBHOOK_SECRET") == "" {
		return nil, fmt.Errorf("GITHUB_WEBHOOK_SECRET must be set")
	}

	return &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Log: logger.Config{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
		GitHub: GitHubConfig{
			AppID:          viper.GetInt64("GITHUB_APP_ID"),
			WebhookSecret:  viper.GetString("GITHUB_WEBHOOK_SECRET"),
			PrivateKeyPath: viper.GetString("GITHUB_PRIVATE_KEY_PATH"),
			Token:          viper.GetString("GITHUB_TOKEN"),
		},
		Runner: RunnerConfig{
			URL:            viper.GetString("RUNNER_URL"),
			RequestTimeout: viper.GetDuration("RUNNER_REQUEST_TIMEOUT"),
		},
		Database: DBConfig{
			Host:            viper.GetString("DATABASE_HOST"),
			Port:            viper.GetInt("DATABASE_PORT"),
			Username:        viper.GetString("DATABASE_USER"),
			Password:        viper.GetString("DATABASE_PASSWORD"),
			Database:        viper.GetString("DATABASE_NAME"),
			ConnMaxLifetime: viper.GetDuration("DATABASE_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: viper.GetDuration("DATABASE_CONN_MAX_IDLE_TIME"),
		},
		Pipeline: PipelineConfig{
			MaxWorkers:     viper.GetInt("MAX_WORKERS"),
			DashboardURL:   viper.GetString("DASHBOARD_URL"),
			OverridesPath:  viper.GetString("PIPELINE_OVERRIDES_PATH"),
			DockerRegistry: viper.GetString("DOCKER_REGISTRY"),
			DockerOrg:      viper.GetString("DOCKER_ORG"),
			DockerUsername: viper.GetString("DOCKER_USERNAME"),
			DockerPassword: viper.GetString("DOCKER_PASSWORD"),
		},
	}, nil
}

// Secrets flattens the registry settings into the secret map handed to
// action builders. Empty values are omitted so builders can apply their
// own defaults.
func (c *PipelineConfig) Secrets() map[string]string {
	secrets := make(map[string]string)
	for name, value := range map[string]string{
		"dockerRegistry": c.DockerRegistry,
		"dockerOrg":      c.DockerOrg,
		"dockerUsername": c.DockerUsername,
		"dockerPassword": c.DockerPassword,
	} {
		if value != "" {
			secrets[name] = value
		}
	}
	return secrets
}
