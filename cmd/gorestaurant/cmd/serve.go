package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbmrq/gorestaurant/internal/logging"
	"github.com/dbmrq/gorestaurant/internal/server"
	"github.com/dbmrq/gorestaurant/internal/store"
	"github.com/dbmrq/gorestaurant/internal/version"
)

func newServeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Run a local /foods backend",
		Long: `Run a local /foods backend for the dashboard to talk to.

Foods are kept in memory and saved to a JSON file after every change.
IDs are assigned in sequence and never reused.

Examples:
  gorestaurant serve                        # Listen on the configured address
  gorestaurant serve --addr :8080 --seed    # Start with a sample menu
  gorestaurant serve --data ./foods.json`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	c.Flags().String("addr", "", "Listen address (default from config, 127.0.0.1:3333)")
	c.Flags().String("data", "", "JSON file to persist foods to (default from config)")
	c.Flags().Bool("seed", false, "Fill an empty store with a sample menu")
	return c
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer setupLogging(cmd, cfg, true)()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}
	dataFile, _ := cmd.Flags().GetString("data")
	if dataFile == "" {
		dataFile = cfg.Server.DataFile
	}

	st := store.New(dataFile)
	if err := st.Load(); err != nil {
		return err
	}
	if seed, _ := cmd.Flags().GetBool("seed"); seed && st.Seed(store.SampleMenu()) {
		if err := st.Save(); err != nil {
			return err
		}
		cmd.Printf("Seeded %d sample foods\n", st.Count())
	}

	srv := server.New(st, logging.Global())
	srv.SetVersion(version.NewInfo(Version, Commit, Date))

	ctx, cancel := signalContext(cmd)
	defer cancel()

	cmd.Printf("Serving /foods on %s (data: %s)\n", addr, st.Path())
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	cmd.Println("Server stopped")
	return nil
}
