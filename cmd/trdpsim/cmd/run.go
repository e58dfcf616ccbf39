// cmd/trdpsim/cmd/run.go
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tamzrod/trdp-sim/internal/app"
	"github.com/tamzrod/trdp-sim/internal/config"
	"github.com/tamzrod/trdp-sim/internal/logging"
)

var runConfigPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a configuration until interrupted",
	Long: `Load, normalize and validate a configuration (.yaml, .toml or .lua),
then run the simulator with its optional capture, recorder and status
export sinks until SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "configuration file")
	_ = runCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	log, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logging setup failed: %w", err)
	}
	defer logging.Close(closer)

	// --------------------
	// Build pipeline
	// --------------------

	a, err := app.Build(*cfg, log)
	if err != nil {
		return fmt.Errorf("pipeline build failed: %w", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting", "config", runConfigPath)
	if err := a.Run(ctx); err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}
