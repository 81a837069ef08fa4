package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"os"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "maestro",
	Short: "MAESTRO - target scoring dashboard over the AXON knowledge table",
	Long: `MAESTRO reads the axon_knowledge table, derives the composite CES score
(initial_score x (1 - toxicity_index)) and lets you look up a target and export it as CSV.

Examples:
  maestro serve                 # Start the web dashboard
  maestro lookup METTL3         # Show the scores of one target
  maestro lookup                # Show the first rows of the table
  maestro export KRAS --out .   # Write MAESTRO_KRAS_Report.csv`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./maestro.toml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(notifyCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}
