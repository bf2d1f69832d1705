// (c) Copyright ZeroEval Inc. 2026

package setup

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeroeval/zeroeval-go/internal/config"
)

var apiURL string

func init() {
	Setup.Flags().StringVarP(&apiURL, "api-url", "", "", "override the API base URL")
}

// Setup captures the API key interactively, validates it against the backend
// and stores it in the local configuration file.
var Setup = &cobra.Command{
	Use:   "setup",
	Short: "configure ZeroEval credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		apiKey := os.Getenv("ZEROEVAL_API_KEY")
		if apiKey == "" {
			fmt.Fprint(cmd.OutOrStdout(), "Enter your ZeroEval API key: ")

			reader := bufio.NewReader(cmd.InOrStdin())
			line, err := reader.ReadString('\n')
			if err != nil && err != io.EOF {
				return fmt.Errorf("failed to read API key: %w", err)
			}

			apiKey = strings.TrimSpace(line)
		}

		if apiKey == "" {
			return fmt.Errorf("API key must not be empty")
		}

		cfg := config.Config{
			APIKey: apiKey,
			APIURL: strings.TrimSuffix(apiURL, "/"),
		}

		ws, err := validate(cfg)
		if err != nil {
			return fmt.Errorf("failed to validate API key: %w", err)
		}
		cfg.WorkspaceID = ws.ID

		if err := config.Save(cfg); err != nil {
			return err
		}

		path, _ := config.Path()
		fmt.Fprintf(cmd.OutOrStdout(), "Authenticated to workspace %q, credentials saved to %s\n", ws.Name, path)

		return nil
	},
}

type workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// validate resolves the workspace behind the API key, proving the key is valid
func validate(cfg config.Config) (*workspace, error) {
	baseURL := cfg.APIURL
	if baseURL == "" {
		baseURL = "https://api.zeroeval.com"
	}

	req, err := http.NewRequest(http.MethodGet, baseURL+"/v1/workspaces/current", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("the API key was rejected (status %d)", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var ws workspace
	if err := json.NewDecoder(resp.Body).Decode(&ws); err != nil {
		return nil, fmt.Errorf("malformed workspace response: %w", err)
	}

	return &ws, nil
}
