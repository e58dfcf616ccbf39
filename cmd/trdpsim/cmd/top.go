// cmd/trdpsim/cmd/top.go
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tamzrod/trdp-sim/internal/tui"
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Live dashboard of a running control plane",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return tui.Run(stringFlag(cmd, "addr", envAddr))
	},
}

func init() {
	topCmd.Flags().String("addr", "http://localhost:8080", "control plane base URL (env "+envAddr+")")
	rootCmd.AddCommand(topCmd)
}
