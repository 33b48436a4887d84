// Command ftpmanager is the management layer over a running vsftpd daemon:
// virtual-user administration, activity reporting over the transfer log, and
// reconciliation of a desired configuration into vsftpd.conf.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ftpmanager",
		Short: "Management layer for a vsftpd daemon",
		Long: `ftpmanager administers a local vsftpd daemon.

It serves an HTTP API with dashboard statistics derived from the daemon's
transfer log, virtual-user management backed by the daemon's credential
database, and configuration updates that are merged into vsftpd.conf and
followed by a daemon reload.`,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newApplyConfigCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
