package xferlog

import (
	"path"
	"sort"
	"strings"
	"time"

	"vsftpd-manager/internal/models"
)

const (
	// MaxRanked caps the aggregate-ranked activity list.
	MaxRanked = 10
	// MaxDistinct caps the distinct-actor list built by the reverse scan.
	MaxDistinct = 5
)

// Rank orders the per-user aggregates by most recent access first and
// truncates to MaxRanked entries. Users with identical LastAccess are ordered
// by username ascending so repeated calls over the same input produce the
// same list.
func Rank(users map[string]models.UserActivity, now time.Time) []models.RecentActivityEntry {
	names := make([]string, 0, len(users))
	for name := range users {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := users[names[i]], users[names[j]]
		if !a.LastAccess.Equal(b.LastAccess) {
			return a.LastAccess.After(b.LastAccess)
		}
		return names[i] < names[j]
	})
	if len(names) > MaxRanked {
		names = names[:MaxRanked]
	}

	entries := make([]models.RecentActivityEntry, 0, len(names))
	for _, name := range names {
		ua := users[name]
		status, label := Classify(now, ua.LastAccess)
		entries = append(entries, models.RecentActivityEntry{
			Name:       name,
			Status:     status,
			LastAccess: label,
			Transfers:  ua.Transfers,
		})
	}
	return entries
}

// xferlog std-format records carry at least 15 whitespace-separated fields:
// the first four are the textual timestamp (sans year), field 9 is the file
// path and the fifth-from-last is the username.
const minXferlogFields = 15

// RecentDistinct walks the raw xferlog content in reverse line order and
// collects the most recently seen distinct usernames, straight from the
// fixed column positions with no full re-parse. The scan stops after `limit`
// distinct users (MaxDistinct when limit <= 0) or when the input is
// exhausted. Short or truncated trailing lines are skipped.
func RecentDistinct(content, homeBase string, limit int) []models.RecentTransfer {
	if limit <= 0 {
		limit = MaxDistinct
	}
	lines := strings.Split(content, "\n")
	seen := make(map[string]struct{}, limit)
	out := make([]models.RecentTransfer, 0, limit)

	for i := len(lines) - 1; i >= 0 && len(out) < limit; i-- {
		fields := strings.Fields(lines[i])
		if len(fields) < minXferlogFields {
			continue
		}
		username := fields[len(fields)-5]
		if _, dup := seen[username]; dup {
			continue
		}
		seen[username] = struct{}{}
		out = append(out, models.RecentTransfer{
			Username:     username,
			LastTransfer: strings.Join(fields[:4], " "),
			File:         fields[8],
			Status:       "active",
			HomeDir:      path.Join(homeBase, username),
		})
	}
	return out
}
