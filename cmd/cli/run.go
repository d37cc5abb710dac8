package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	runRef    string
	runCommit string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Trigger the test pipeline on the server.",
	RunE: func(_ *cobra.Command, _ []string) error {
		body, err := json.Marshal(map[string]string{
			"ref":    runRef,
			"commit": runCommit,
		})
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}

		client := &http.Client{Timeout: 30 * time.Second}
		endpoint := viper.GetString("SERVER_URL") + "/api/v1/exec"
		resp, err := client.Post(endpoint, "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("request to %s failed: %w", endpoint, err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusAccepted {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, bytes.TrimSpace(data))
		}

		var result struct {
			BuildID string `json:"build_id"`
		}
		if err := json.Unmarshal(data, &result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}

		color.Green("Pipeline run accepted")
		fmt.Printf("build id: %s\n", result.BuildID)
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	runCmd.Flags().StringVar(&runRef, "ref", "refs/heads/master", "Git ref the run is for")
	runCmd.Flags().StringVar(&runCommit, "commit", "", "Commit SHA the run is for")
	rootCmd.AddCommand(runCmd)
}
