// Package handlers implements the HTTP API of the manager.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"vsftpd-manager/internal/daemonconf"
	"vsftpd-manager/internal/metrics"
	"vsftpd-manager/internal/models"
	"vsftpd-manager/internal/telemetry"
	"vsftpd-manager/internal/users"
	"vsftpd-manager/internal/xferlog"
)

// DashboardHandler serves the aggregate status endpoints.
type DashboardHandler struct {
	Logs        *xferlog.Service
	Users       *users.Store
	Desired     daemonconf.Store
	HomeBase    string
	ProcessName string
}

// Stats recomputes the full dashboard payload: daemon process state, active
// connections, disk occupancy, the windowed transfer aggregates and the
// ranked recent-activity list.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Logs.Stats()
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	recent := xferlog.Rank(sum.Users, h.Logs.Now())

	desired, err := h.Desired.Load()
	if err != nil {
		log.Printf("dashboard: desired config: %v", err)
		desired = daemonconf.Default()
	}

	daemon := telemetry.DaemonInfo(h.ProcessName)
	connections := telemetry.ActiveConnections(uint32(desired.FTPPort))
	du := telemetry.DiskFor(h.HomeBase)

	totalUsers := 0
	if h.Users != nil {
		if n, err := h.Users.Count(); err == nil {
			totalUsers = n
		} else {
			log.Printf("dashboard: count users: %v", err)
		}
	}

	online := 0
	for _, e := range recent {
		if e.Status == "online" {
			online++
		}
	}
	metrics.TransfersWindow.Set(float64(sum.TransferTotal))
	metrics.UsersOnline.Set(float64(online))
	metrics.ActiveConnections.Set(float64(connections))
	metrics.DiskUsageRatio.Set(du.UsagePercent / 100)
	if daemon.Status == "online" {
		metrics.DaemonUp.Set(1)
	} else {
		metrics.DaemonUp.Set(0)
	}

	writeJSON(w, http.StatusOK, models.DashboardStats{
		ActiveUsers:       connections,
		ServerStatus:      daemon.Status,
		ServerVersion:     daemon.Version,
		Uptime:            daemon.Uptime,
		Transfers24h:      sum.TransferTotal,
		RecentUsers:       recent,
		DiskUsedGB:        du.UsedGB,
		DiskTotalGB:       du.TotalGB,
		DiskUsagePercent:  du.UsagePercent,
		ActiveConnections: connections,
		FTPPort:           desired.FTPPort,
		SSLEnabled:        desired.SSLEnabled,
		TotalUsers:        totalUsers,
	})
}

// RecentUsers serves the distinct-actor view from the reverse log scan.
func (h *DashboardHandler) RecentUsers(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Logs.DistinctUsers()
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func httpError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
