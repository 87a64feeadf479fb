package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "slotprobe",
	Short: "Run frame slot specialization scenarios",
	Long: `slotprobe runs YAML scenario suites against the adaptive frame slot
storage and reports how write sites specialized and widened.`,
	SilenceUsage: true,
}

func main() {
	log.SetFlags(0)
	rootCmd.AddCommand(newRunCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
