// cmd/trdpsim/cmd/validate.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tamzrod/trdp-sim/internal/config"
	"github.com/tamzrod/trdp-sim/internal/store"
)

var validateSaveAs string

var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Load and validate a configuration",
	Long: `Load a configuration (.yaml, .toml or .lua), apply defaults and
validate it. With --save-as the normalized result is stored in the
configuration library as YAML.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateSaveAs, "save-as", "", "store the normalized configuration under this name")
	validateCmd.Flags().String("library", store.DefaultDir, "configuration library directory (env "+envLibrary+")")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: OK\n", args[0])
	fmt.Fprint(out, summary(cfg))

	if validateSaveAs == "" {
		return nil
	}

	st, err := store.New(stringFlag(cmd, "library", envLibrary))
	if err != nil {
		return err
	}
	if err := st.SaveConfig(validateSaveAs, cfg); err != nil {
		return err
	}
	fmt.Fprintf(out, "saved as %s\n", st.PathFor(validateSaveAs))
	return nil
}

func summary(cfg *config.Config) string {
	adapter := cfg.Adapter
	if adapter == "" {
		adapter = config.AdapterEmulator
	}

	s := fmt.Sprintf("  interface:      %s\n", cfg.Network.Interface)
	s += fmt.Sprintf("  adapter:        %s\n", adapter)
	s += fmt.Sprintf("  pd publishers:  %d\n", len(cfg.PdPublishers))
	s += fmt.Sprintf("  pd subscribers: %d\n", len(cfg.PdSubscribers))
	s += fmt.Sprintf("  md senders:     %d\n", len(cfg.MdSenders))
	s += fmt.Sprintf("  md listeners:   %d\n", len(cfg.MdListeners))
	if cfg.Capture != nil {
		s += fmt.Sprintf("  capture:        %s\n", cfg.Capture.Path)
	}
	if cfg.Recorder != nil {
		s += fmt.Sprintf("  recorder:       every %dms\n", cfg.Recorder.IntervalMs)
	}
	if se := cfg.StatusExport; se != nil {
		s += fmt.Sprintf("  status export:  %s unit %d slot %d\n", se.Endpoint, se.UnitID, se.BaseSlot)
	}
	return s
}
