// (c) Copyright ZeroEval Inc. 2026

package run

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zeroeval/zeroeval-go/internal/config"
)

var envFile string

func init() {
	Run.Flags().StringVarP(&envFile, "env-file", "", ".env", "env file loaded before the script runs")
}

// Run executes a script with the ZeroEval credentials from the configuration
// file and the local .env file injected into its environment, so that tracing
// initializes without further setup.
var Run = &cobra.Command{
	Use:   "run <script> [args...]",
	Short: "run a script with tracing configured",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		env := os.Environ()
		env = append(env, cfg.Env()...)

		if fileEnv, err := godotenv.Read(envFile); err == nil {
			for k, v := range fileEnv {
				env = append(env, k+"="+v)
			}
		} else if envFile != ".env" {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}

		if !hasKey(env, "ZEROEVAL_API_KEY") {
			return fmt.Errorf("no API key configured, run `zeroeval setup` first")
		}

		child := exec.Command(args[0], args[1:]...)
		child.Env = env
		child.Stdin = cmd.InOrStdin()
		child.Stdout = cmd.OutOrStdout()
		child.Stderr = cmd.ErrOrStderr()

		if err := child.Run(); err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				os.Exit(exitErr.ExitCode())
			}

			return fmt.Errorf("failed to run %s: %w", args[0], err)
		}

		return nil
	},
}

// hasKey reports whether env contains a non-empty assignment for the given
// variable. Later entries override earlier ones, matching exec semantics.
func hasKey(env []string, key string) bool {
	val := ""
	for _, kv := range env {
		if strings.HasPrefix(kv, key+"=") {
			val = strings.TrimPrefix(kv, key+"=")
		}
	}

	return val != ""
}
