package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "infomat",
	Short: "Infomat - token-bounded map-reduce Q&A engine with prepaid billing",
	Long: `Infomat answers questions about texts far longer than a model's context
window. It chunks the input, queries the model once per chunk, and folds
the partial answers until they converge, charging each request against a
prepaid per-user balance ledger.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
