package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/waktunyapuasa/puasa/cmd/puasa/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "puasa",
		Short:         "Operations for the Waktunya Puasa tracker",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.SeedCmd())
	rootCmd.AddCommand(cmd.SummaryCmd())
	rootCmd.AddCommand(cmd.CheckinCmd())
	rootCmd.AddCommand(cmd.WindowsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
