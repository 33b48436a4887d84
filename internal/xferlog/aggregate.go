package xferlog

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"vsftpd-manager/internal/models"
)

// DefaultWindow is the trailing span within which events count toward
// aggregates.
const DefaultWindow = 24 * time.Hour

const onlineThreshold = 5 * time.Minute

// Summary holds the aggregates of one scan over the log.
type Summary struct {
	TransferTotal int
	Users         map[string]models.UserActivity
}

// Aggregate makes a single pass over the raw log content and builds per-user
// aggregates for events with timestamp >= now-window (the boundary event is
// included). Lines that do not match the grammar are skipped silently.
//
// Precondition: the log is append-only, so file order is assumed to be
// chronological. LastAccess is the running maximum, not the last line seen.
// Each matched line counts as one event; start/end pairs of a single logical
// transfer are not deduplicated, so retries and log rotation can over-count.
func Aggregate(content string, now time.Time, window time.Duration) Summary {
	if window <= 0 {
		window = DefaultWindow
	}
	cutoff := now.Add(-window)
	year := now.Year()

	sum := Summary{Users: make(map[string]models.UserActivity)}
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		ev, ok := Parse(sc.Text(), year)
		if !ok {
			continue
		}
		if ev.Timestamp.Before(cutoff) {
			continue
		}
		sum.TransferTotal++
		ua := sum.Users[ev.Username]
		ua.Transfers++
		if ev.Timestamp.After(ua.LastAccess) {
			ua.LastAccess = ev.Timestamp
		}
		sum.Users[ev.Username] = ua
	}
	return sum
}

// Classify buckets the elapsed time since a user's last event into the
// online/offline status and its human-readable label. Under five minutes the
// user counts as online; everything beyond is offline with a coarser label
// per bucket.
func Classify(now, lastAccess time.Time) (status, label string) {
	elapsed := now.Sub(lastAccess)
	switch {
	case elapsed < onlineThreshold:
		return "online", "now"
	case elapsed < time.Hour:
		return "offline", fmt.Sprintf("%d min ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return "offline", fmt.Sprintf("%d h ago", int(elapsed.Hours()))
	default:
		return "offline", fmt.Sprintf("%d d ago", int(elapsed.Hours())/24)
	}
}
