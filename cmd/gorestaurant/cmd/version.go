package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbmrq/gorestaurant/internal/version"
)

func newVersionCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show detailed version information for gorestaurant.

Examples:
  gorestaurant version           # Show detailed version info
  gorestaurant version --check   # Also ask the backend for its version`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
	c.Flags().BoolP("check", "c", false, "Compare with the version of a gorestaurant backend")
	return c
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.NewInfo(Version, Commit, Date)
	cmd.Println(info.FullString())

	if check, _ := cmd.Flags().GetBool("check"); check {
		return checkBackend(cmd)
	}
	return nil
}

// checkBackend reports the version of the configured backend.
func checkBackend(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	cmd.Println("")
	cmd.Printf("Checking %s...\n", cfg.API.BaseURL)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.API.Timeout)
	defer cancel()

	remote, err := version.NewChecker(cfg.API.BaseURL, cfg.API.Timeout).ServerVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to check backend version: %w", err)
	}

	cmd.Printf("Backend: %s\n", remote.String())
	switch version.CompareVersions(remote.Version, Version) {
	case 1:
		cmd.Println("The backend is newer than this client.")
	case -1:
		cmd.Println("The backend is older than this client.")
	default:
		cmd.Println("✓ Client and backend versions match.")
	}
	return nil
}
