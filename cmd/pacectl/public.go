package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/2beens/pacelink/internal/slug"
)

var (
	publicServer  string
	publicTimeout time.Duration
)

var publicCmd = &cobra.Command{
	Use:   "public <slug>",
	Short: "Fetch a shared workout from a running service",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shareSlug := strings.TrimSpace(args[0])
		if !slug.Valid(shareSlug) {
			return fmt.Errorf("invalid share slug: %q", shareSlug)
		}

		body, err := fetchPublicWorkout(cmd, shareSlug)
		if err != nil {
			return err
		}

		var workout any
		if err := json.Unmarshal(body, &workout); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return printValue(cmd.OutOrStdout(), workout)
	},
}

func init() {
	publicCmd.Flags().StringVar(&publicServer, "server", "http://localhost:9000", "PaceLink service base URL")
	publicCmd.Flags().DurationVar(&publicTimeout, "timeout", 10*time.Second, "request timeout")
}

func fetchPublicWorkout(cmd *cobra.Command, shareSlug string) ([]byte, error) {
	reqURL, err := url.JoinPath(publicServer, "w", shareSlug)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "pacectl/"+Version)
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: publicTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", reqURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %s: status %d: %s", reqURL, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
