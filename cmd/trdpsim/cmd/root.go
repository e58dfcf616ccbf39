// cmd/trdpsim/cmd/root.go
package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	// Adapter kinds register themselves.
	_ "github.com/tamzrod/trdp-sim/internal/adapter/emulator"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Environment keys that provide flag defaults (also read from .env).
const (
	envAddr    = "TRDPSIM_ADDR"
	envLibrary = "TRDPSIM_LIBRARY"
	envHost    = "TRDPSIM_HOST"
	envPort    = "TRDPSIM_PORT"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "trdpsim",
	Short: "TRDP process and message data simulator",
	Long: `trdpsim simulates TRDP endpoints (PD publishers and subscribers,
MD senders and listeners) from a declarative configuration.

Run a configuration directly with 'trdpsim run', or start the control
plane with 'trdpsim serve' and drive it over HTTP or 'trdpsim top'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnv(envFile)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file with TRDPSIM_* defaults")

	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("trdpsim {{.Version}}\n")
}

// loadEnv reads path into the environment. A missing file is fine;
// variables already set win.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// stringFlag returns the flag value when set on the command line,
// else the environment value, else the flag default.
func stringFlag(cmd *cobra.Command, name, env string) string {
	f := cmd.Flags().Lookup(name)
	if f.Changed {
		return f.Value.String()
	}
	if v, ok := os.LookupEnv(env); ok && v != "" {
		return v
	}
	return f.Value.String()
}
