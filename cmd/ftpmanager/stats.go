package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vsftpd-manager/internal/xferlog"
)

func newStatsCommand() *cobra.Command {
	var logPath string
	var windowHours int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print transfer statistics from the daemon log",
		Long: `Scan the daemon's transfer log once and print the windowed aggregates:
total transfers and the ranked recent-activity list.

Example:
  ftpmanager stats --log /var/log/vsftpd.log --window 24`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(logPath, windowHours, asJSON)
		},
	}
	cmd.Flags().StringVarP(&logPath, "log", "l", "/var/log/vsftpd.log", "Path to the daemon transfer log")
	cmd.Flags().IntVarP(&windowHours, "window", "w", 24, "Aggregation window in hours")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func runStats(logPath string, windowHours int, asJSON bool) error {
	svc := xferlog.NewService(
		xferlog.FileSource{Path: logPath},
		time.Duration(windowHours)*time.Hour,
		"",
	)
	sum, err := svc.Stats()
	if err != nil {
		return err
	}
	recent := xferlog.Rank(sum.Users, svc.Now())

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"transfer_total": sum.TransferTotal,
			"recent_users":   recent,
		})
	}

	fmt.Printf("Transfers in the last %dh: %d\n", windowHours, sum.TransferTotal)
	if len(recent) == 0 {
		fmt.Println("No recent activity.")
		return nil
	}
	fmt.Printf("\n%-20s %-8s %-12s %s\n", "USER", "STATUS", "LAST ACCESS", "TRANSFERS")
	for _, e := range recent {
		fmt.Printf("%-20s %-8s %-12s %d\n", e.Name, e.Status, e.LastAccess, e.Transfers)
	}
	return nil
}
