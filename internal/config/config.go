// Package config loads the manager's own configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Listen            string   `yaml:"listen"`
	LogPath           string   `yaml:"log_path"`
	DaemonConfPath    string   `yaml:"daemon_conf_path"`
	VirtualUsersFile  string   `yaml:"virtual_users_file"`
	VirtualUsersDB    string   `yaml:"virtual_users_db"`
	UserMetaDBPath    string   `yaml:"user_meta_db_path"`
	FTPHomeBase       string   `yaml:"ftp_home_base"`
	DesiredConfigPath string   `yaml:"desired_config_path"`
	WindowHours       int      `yaml:"window_hours"`
	DefaultQuotaMB    int      `yaml:"default_quota_mb"`
	RestartCommand    []string `yaml:"restart_command"`
	CommandTimeoutSec int      `yaml:"command_timeout_seconds"`
	Probe             Probe    `yaml:"probe"`
}

// Probe configures the optional FTP login check on the health endpoint.
type Probe struct {
	Addr       string `yaml:"addr"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	TimeoutSec int    `yaml:"timeout_seconds"`
}

// Load reads the YAML config at path and fills in defaults. A missing file
// yields the pure defaults so the manager can run unconfigured next to a
// stock daemon install.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// defaults only
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.LogPath == "" {
		cfg.LogPath = "/var/log/vsftpd.log"
	}
	if cfg.DaemonConfPath == "" {
		cfg.DaemonConfPath = "/etc/vsftpd.conf"
	}
	if cfg.VirtualUsersFile == "" {
		cfg.VirtualUsersFile = "/etc/vsftpd/virtual_users.txt"
	}
	if cfg.VirtualUsersDB == "" {
		cfg.VirtualUsersDB = "/etc/vsftpd/virtual_users.db"
	}
	if cfg.UserMetaDBPath == "" {
		cfg.UserMetaDBPath = "./data/users_meta.db"
	}
	if cfg.FTPHomeBase == "" {
		cfg.FTPHomeBase = "/home/ftpusers"
	}
	if cfg.DesiredConfigPath == "" {
		cfg.DesiredConfigPath = "./data/desired_config.json"
	}
	if cfg.WindowHours <= 0 {
		cfg.WindowHours = 24
	}
	if cfg.DefaultQuotaMB <= 0 {
		cfg.DefaultQuotaMB = 100
	}
	if cfg.CommandTimeoutSec <= 0 {
		cfg.CommandTimeoutSec = 30
	}
	return &cfg, nil
}

// Window returns the aggregation window as a duration.
func (c *Config) Window() time.Duration {
	return time.Duration(c.WindowHours) * time.Hour
}

// CommandTimeout returns the bounded wait for external commands.
func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.CommandTimeoutSec) * time.Second
}
