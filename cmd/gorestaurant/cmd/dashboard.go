package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dbmrq/gorestaurant/internal/listsync"
	"github.com/dbmrq/gorestaurant/internal/logging"
	"github.com/dbmrq/gorestaurant/internal/tui"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive food dashboard",
		Long: `Open the interactive food dashboard.

The dashboard loads the menu from the backend and lets you add, edit,
delete and toggle the availability of items. Changes are sent to the
backend one at a time, in the order you make them.

Examples:
  gorestaurant                                   # Same as "gorestaurant dashboard"
  gorestaurant dashboard --api http://10.0.0.5:3333`,
		Args: cobra.NoArgs,
		RunE: runDashboard,
	}
}

// runDashboard runs the TUI until the user quits.
func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer setupLogging(cmd, cfg, false)()

	ctx, cancel := signalContext(cmd)
	s := newSynchronizer(cfg)
	defer stopSynchronizer(cancel, s)

	runner := tui.NewRunner(ctx, s, cfg.API.BaseURL)
	if err := runner.Run(); err != nil {
		logging.Error("dashboard failed", "error", err)
		return err
	}
	logging.Info("dashboard closed")
	return nil
}

// stopSynchronizer cancels the dashboard's context before closing s, so
// Close does not wait out a request that is still in flight.
func stopSynchronizer(cancel context.CancelFunc, s *listsync.Synchronizer) {
	cancel()
	_ = s.Close()
}
