package main

import (
	"os"

	"github.com/spf13/cobra"

	"ctrc/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ctrc",
		Short: "CTRC Analyzer - internal freight delivery portal",
		Long:  `CTRC Analyzer serves the delivery portal API: authentication, user management, support tickets, notifications and delivery metrics.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
