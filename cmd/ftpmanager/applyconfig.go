package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vsftpd-manager/internal/config"
	"vsftpd-manager/internal/daemonconf"
	"vsftpd-manager/internal/supervisor"
)

func newApplyConfigCommand() *cobra.Command {
	var configPath string
	var desiredPath string
	var noRestart bool

	cmd := &cobra.Command{
		Use:   "apply-config",
		Short: "Reconcile a desired configuration into vsftpd.conf",
		Long: `Read a desired configuration JSON document, merge it into the daemon's
configuration file (preserving unmanaged lines), and reload the daemon.

Example:
  ftpmanager apply-config --file desired_config.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApplyConfig(configPath, desiredPath, noRestart)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the manager config file")
	cmd.Flags().StringVarP(&desiredPath, "file", "f", "", "Path to the desired configuration JSON (required)")
	cmd.Flags().BoolVar(&noRestart, "no-restart", false, "Write the configuration without reloading the daemon")
	cmd.MarkFlagRequired("file")
	return cmd
}

func runApplyConfig(configPath, desiredPath string, noRestart bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(desiredPath)
	if err != nil {
		return err
	}
	var desired daemonconf.Desired
	if err := json.Unmarshal(data, &desired); err != nil {
		return fmt.Errorf("parse %s: %w", desiredPath, err)
	}

	rec := &daemonconf.Reconciler{
		File: daemonconf.File{Path: cfg.DaemonConfPath},
	}
	if !noRestart {
		rec.Supervisor = supervisor.New(cfg.RestartCommand, cfg.CommandTimeout())
	}

	result, err := rec.Apply(context.Background(), desired)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", cfg.DaemonConfPath)
	if noRestart {
		fmt.Println("Daemon restart skipped (--no-restart)")
	} else if result.Restarted {
		fmt.Println("Daemon reloaded")
	} else {
		fmt.Printf("Daemon reload failed: %s\n", result.RestartError)
	}
	return nil
}
