// Package cmd provides the CLI commands for gorestaurant.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dbmrq/gorestaurant/internal/api"
	"github.com/dbmrq/gorestaurant/internal/config"
	apperrors "github.com/dbmrq/gorestaurant/internal/errors"
	"github.com/dbmrq/gorestaurant/internal/listsync"
	"github.com/dbmrq/gorestaurant/internal/logging"
)

// Version information, set from main before Execute.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gorestaurant",
		Short: "GoRestaurant - manage the food menu of a restaurant backend",
		Long: `GoRestaurant keeps a local copy of a restaurant's food menu in sync
with a REST backend that exposes /foods.

Run it without a subcommand to open the interactive dashboard, or use the
list, add, edit and delete commands from scripts. "gorestaurant serve"
starts a local backend to try it against.`,
		SilenceUsage: true,
		// Same as "gorestaurant dashboard".
		RunE: runDashboard,
	}

	root.PersistentFlags().String("config", "", "Path to config file (default .gorestaurant/config.yaml)")
	root.PersistentFlags().String("api", "", "Backend base URL, overrides the config file")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newDashboardCmd(),
		newListCmd(),
		newAddCmd(),
		newEditCmd(),
		newDeleteCmd(),
		newServeCmd(),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command. It is called once by main.main.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
	rootCmd.SetVersionTemplate("gorestaurant {{.Version}}\n")
	rootCmd.SilenceErrors = true

	if err := rootCmd.Execute(); err != nil {
		os.Exit(reportError(os.Stderr, err))
	}
}

// Exit codes. Bad input and bad configuration exit with 2 so scripts can
// tell them apart from backend failures.
const (
	exitFailure   = 1
	exitUserError = 2
)

// reportError prints err for the terminal and returns the exit code.
func reportError(w io.Writer, err error) int {
	var ae *apperrors.AppError
	if apperrors.As(err, &ae) {
		fmt.Fprint(w, ae.Format())
	} else {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	if apperrors.IsUserError(err) {
		return exitUserError
	}
	return exitFailure
}

// loadConfig loads the file named by --config and applies --api.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if apiURL, _ := cmd.Flags().GetString("api"); apiURL != "" {
		cfg.API.BaseURL = apiURL
		if err := cfg.Validate(); err != nil {
			return nil, apperrors.ConfigValidationError("api", err.Error(), nil)
		}
	}
	return cfg, nil
}

// setupLogging installs the global file logger. console also copies log
// lines to stderr when --verbose is set; the dashboard never does that.
// A logger that cannot be created is only a warning.
func setupLogging(cmd *cobra.Command, cfg *config.Config, console bool) func() {
	verbose, _ := cmd.Flags().GetBool("verbose")

	level := logging.ParseLevel(string(cfg.Log.Level))
	if verbose {
		level = logging.LevelDebug
	}
	logConfig := logging.DefaultConfig()
	logConfig.Level = level
	logConfig.LogDir = cfg.Log.Dir
	logConfig.JSONFormat = cfg.Log.JSON
	logConfig.Console = console && verbose

	if err := logging.InitGlobal(logConfig); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to initialize logging: %v\n", err)
		return func() {}
	}
	logging.Info("gorestaurant starting", "command", cmd.Name(), "version", Version, "api", cfg.API.BaseURL)
	return func() { _ = logging.CloseGlobal() }
}

// newSynchronizer connects a synchronizer to the configured backend.
func newSynchronizer(cfg *config.Config) *listsync.Synchronizer {
	client := api.New(cfg.API)
	return listsync.New(client, &listsync.Options{Logger: logging.Global()})
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}
