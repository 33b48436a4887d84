// Package telemetry collects process, connection and disk figures for the
// status endpoints. Every collector degrades to a zero value instead of
// failing the request.
package telemetry

import (
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/disk"
	psnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

const daemonVersion = "vsftpd v3.0.5"

// DaemonStatus describes the running daemon process.
type DaemonStatus struct {
	Status  string
	Version string
	Uptime  string
	PID     int32
}

// DaemonInfo looks for the daemon process and reports its uptime.
func DaemonInfo(processName string) DaemonStatus {
	procs, err := process.Processes()
	if err != nil {
		log.Printf("telemetry: list processes: %v", err)
		return DaemonStatus{Status: "unknown", Version: daemonVersion, Uptime: "0"}
	}
	for _, p := range procs {
		name, err := p.Name()
		if err != nil || !strings.Contains(name, processName) {
			continue
		}
		createdMS, err := p.CreateTime()
		if err != nil {
			continue
		}
		uptime := time.Since(time.UnixMilli(createdMS)).Truncate(time.Second)
		return DaemonStatus{
			Status:  "online",
			Version: daemonVersion,
			Uptime:  uptime.String(),
			PID:     p.Pid,
		}
	}
	return DaemonStatus{Status: "offline", Version: daemonVersion, Uptime: "0"}
}

// ActiveConnections counts established connections on the daemon's listen
// port.
func ActiveConnections(port uint32) int {
	conns, err := psnet.Connections("inet")
	if err != nil {
		log.Printf("telemetry: list connections: %v", err)
		return 0
	}
	active := 0
	for _, c := range conns {
		if c.Laddr.Port == port && c.Status == "ESTABLISHED" {
			active++
		}
	}
	return active
}

// DiskUsage is the disk occupancy of the FTP storage area.
type DiskUsage struct {
	UsedGB       float64
	TotalGB      float64
	UsagePercent float64
}

// DiskFor measures the filesystem holding path, falling back to the root
// filesystem when path does not exist.
func DiskFor(path string) DiskUsage {
	if _, err := os.Stat(path); err != nil {
		path = "/"
	}
	usage, err := disk.Usage(path)
	if err != nil {
		log.Printf("telemetry: disk usage %s: %v", path, err)
		return DiskUsage{TotalGB: 0, UsedGB: 0, UsagePercent: 0}
	}
	const gb = float64(1 << 30)
	return DiskUsage{
		UsedGB:       round1(float64(usage.Used) / gb),
		TotalGB:      round1(float64(usage.Total) / gb),
		UsagePercent: round1(usage.UsedPercent),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
