// Package models defines the data structures shared across the manager.
package models

import "time"

// TransferAction is the direction of a logged transfer.
type TransferAction string

const (
	ActionUpload   TransferAction = "UPLOAD"
	ActionDownload TransferAction = "DOWNLOAD"
)

// TransferEvent is a single upload/download record extracted from one line of
// the daemon's activity log. Events live only for the duration of one
// aggregation pass and are never persisted.
type TransferEvent struct {
	Timestamp time.Time
	PID       string
	Username  string
	Action    TransferAction
}

// UserActivity aggregates the transfers seen for one user inside the scanned
// window. LastAccess only ever moves forward.
type UserActivity struct {
	LastAccess time.Time
	Transfers  int
}

// RecentActivityEntry is the presentation form of a UserActivity: the
// online/offline status and the human label are derived from the elapsed time
// since the user's last event.
type RecentActivityEntry struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	LastAccess string `json:"last_access"`
	Transfers  int    `json:"transfers"`
}

// RecentTransfer is one entry of the distinct-actor view built from a reverse
// scan of the xferlog-format records.
type RecentTransfer struct {
	Username     string `json:"username"`
	LastTransfer string `json:"last_transfer"`
	File         string `json:"file"`
	Status       string `json:"status"`
	HomeDir      string `json:"home_dir"`
}

// DashboardStats is the payload of the dashboard stats endpoint.
type DashboardStats struct {
	ActiveUsers       int                   `json:"active_users"`
	ServerStatus      string                `json:"server_status"`
	ServerVersion     string                `json:"server_version"`
	Uptime            string                `json:"uptime"`
	Transfers24h      int                   `json:"transfers_24h"`
	RecentUsers       []RecentActivityEntry `json:"recent_users"`
	DiskUsedGB        float64               `json:"disk_used_gb"`
	DiskTotalGB       float64               `json:"disk_total_gb"`
	DiskUsagePercent  float64               `json:"disk_usage_percent"`
	ActiveConnections int                   `json:"active_connections"`
	FTPPort           int                   `json:"ftp_port"`
	SSLEnabled        bool                  `json:"ssl_enabled"`
	TotalUsers        int                   `json:"total_users"`
}

// UserInfo describes one virtual FTP user.
type UserInfo struct {
	Username  string    `json:"username"`
	HomeDir   string    `json:"home_dir"`
	QuotaMB   int       `json:"quota_mb"`
	CreatedAt time.Time `json:"created_at"`
}
