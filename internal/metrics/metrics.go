// Package metrics exposes the manager's gauges on /metrics. Values are
// refreshed whenever the stats endpoints recompute them; there is no
// background scraper of its own.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TransfersWindow = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ftpmanager_transfers_window_total",
		Help: "Matched transfer events inside the aggregation window at last refresh.",
	})
	UsersOnline = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ftpmanager_users_online",
		Help: "Users classified online at last refresh.",
	})
	ActiveConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ftpmanager_active_connections",
		Help: "Established connections on the FTP port at last refresh.",
	})
	DiskUsageRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ftpmanager_disk_usage_ratio",
		Help: "Disk usage of the FTP storage area, 0..1.",
	})
	DaemonUp = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ftpmanager_daemon_up",
		Help: "1 when the vsftpd process is running.",
	})
)

func init() {
	prometheus.MustRegister(TransfersWindow, UsersOnline, ActiveConnections, DiskUsageRatio, DaemonUp)
}

// Handler serves the Prometheus exposition endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
