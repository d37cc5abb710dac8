package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var buildsLimit int

var buildsCmd = &cobra.Command{
	Use:   "builds",
	Short: "List recent builds recorded by the server.",
	RunE: func(_ *cobra.Command, _ []string) error {
		client := &http.Client{Timeout: 30 * time.Second}
		endpoint := fmt.Sprintf("%s/api/v1/builds?limit=%d", viper.GetString("SERVER_URL"), buildsLimit)
		resp, err := client.Get(endpoint)
		if err != nil {
			return fmt.Errorf("request to %s failed: %w", endpoint, err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned %d", resp.StatusCode)
		}

		var records []struct {
			BuildID    string    `json:"BuildID"`
			JobName    string    `json:"JobName"`
			Conclusion string    `json:"Conclusion"`
			Ref        string    `json:"Ref"`
			CreatedAt  time.Time `json:"CreatedAt"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("no builds recorded")
			return nil
		}

		for _, r := range records {
			line := fmt.Sprintf("%s  %-18s %-10s %-30s %s",
				r.CreatedAt.Format(time.RFC3339), r.JobName, r.Conclusion, r.Ref, r.BuildID)
			switch r.Conclusion {
			case "success":
				color.Green(line)
			case "failure":
				color.Red(line)
			default:
				fmt.Println(line)
			}
		}
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	buildsCmd.Flags().IntVar(&buildsLimit, "limit", 20, "Maximum number of builds to list")
	rootCmd.AddCommand(buildsCmd)
}
