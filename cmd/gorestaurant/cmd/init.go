package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dbmrq/gorestaurant/internal/config"
)

func newInitCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a default configuration file to .gorestaurant/config.yaml, or to
the path given with --config.

The --api flag is written as the backend URL. Use --force to overwrite an
existing file.

Examples:
  gorestaurant init
  gorestaurant init --api http://10.0.0.5:3333
  gorestaurant init --force`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}
	c.Flags().BoolP("force", "f", false, "Overwrite an existing configuration file")
	return c
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite it", path)
	}

	cfg := config.NewConfig()
	if apiURL, _ := cmd.Flags().GetString("api"); apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}

	cmd.Printf("Created %s\n", path)
	cmd.Printf("Backend: %s\n", cfg.API.BaseURL)
	cmd.Println("Run 'gorestaurant' to open the dashboard.")
	return nil
}
