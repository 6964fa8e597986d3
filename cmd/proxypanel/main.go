package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/proxypanel/internal/interfaces/cli/events"
	"github.com/orris-inc/proxypanel/internal/interfaces/cli/migrate"
	"github.com/orris-inc/proxypanel/internal/interfaces/cli/server"
	"github.com/orris-inc/proxypanel/internal/interfaces/cli/worker"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "proxypanel",
		Short: "ProxyPanel - subscription lifecycle and usage enforcement",
		Long:  `ProxyPanel manages reseller subscriptions: lifecycle transitions, data quotas, usage metering and renewals.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		worker.NewCommand(),
		migrate.NewCommand(),
		events.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
