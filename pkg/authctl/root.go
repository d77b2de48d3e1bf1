// Package authctl implements the admin CLI for the auth service: session
// token tooling and manual cleanup runs against a local credential store.
package authctl

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "authctl",
		Short:         "Auth service admin CLI",
		Long:          "Administrative tooling for the auth service: session tokens and account cleanup.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newCleanupCmd())
	return rootCmd
}

// secretFromFlagOrEnv resolves the signing secret: flag > JWT_SECRET env.
func secretFromFlagOrEnv(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("signing secret required: pass --secret or set JWT_SECRET")
}
