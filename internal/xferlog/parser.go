// Package xferlog reads the vsftpd activity log and derives per-user
// transfer aggregates, recency classification and ranked activity views.
package xferlog

import (
	"strings"
	"time"

	"vsftpd-manager/internal/models"
)

// The log line grammar, spelled out as a tokenizer instead of a pattern:
//
//	<month-abbrev> <day> <HH:MM:SS> ... [<pid>] <username> ... UPLOAD|DOWNLOAD ...
//
// The timestamp is anchored at the start of the line. The bracketed pid may
// appear anywhere after it; the username is the word token right after the
// bracket; the action literal appears anywhere after the username. The first
// candidate that satisfies all of it wins.

var monthsByAbbrev = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// Parse turns one raw log line into a TransferEvent. Lines that do not match
// the grammar, or that carry an impossible calendar date (Feb 30, hour 25),
// are reported as not matched; there is no error path. The log carries no
// year field, so the caller supplies one.
func Parse(line string, year int) (models.TransferEvent, bool) {
	var ev models.TransferEvent

	ts, rest, ok := parseTimestamp(line, year)
	if !ok {
		return ev, false
	}

	// Walk bracket candidates in order until one is followed by a username
	// and, later on the line, an action literal.
	for {
		pid, username, tail, ok := nextProcessID(rest)
		if !ok {
			return ev, false
		}
		if action, ok := firstAction(tail); ok {
			ev.Timestamp = ts
			ev.PID = pid
			ev.Username = username
			ev.Action = action
			return ev, true
		}
		rest = tail
	}
}

// parseTimestamp consumes "<month-abbrev> <day> <HH:MM:SS>" at the start of
// the line and returns the remainder. The date is validated, not normalized:
// a day-of-month that does not exist in the given month is a non-match.
func parseTimestamp(line string, year int) (time.Time, string, bool) {
	monthTok, rest, ok := takeWord(line)
	if !ok {
		return time.Time{}, "", false
	}
	month, ok := monthsByAbbrev[monthTok]
	if !ok {
		return time.Time{}, "", false
	}

	rest, ok = skipSpace(rest)
	if !ok {
		return time.Time{}, "", false
	}
	dayTok, rest, ok := takeDigits(rest)
	if !ok || len(dayTok) > 2 {
		return time.Time{}, "", false
	}
	day := atoi(dayTok)

	rest, ok = skipSpace(rest)
	if !ok {
		return time.Time{}, "", false
	}
	hour, minute, second, rest, ok := takeClock(rest)
	if !ok {
		return time.Time{}, "", false
	}

	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, "", false
	}
	ts := time.Date(year, month, day, hour, minute, second, 0, time.Local)
	if ts.Month() != month || ts.Day() != day {
		return time.Time{}, "", false
	}
	return ts, rest, true
}

// nextProcessID finds the next "[digits]" token followed by whitespace and a
// word token. It returns the pid, the username and the text after the
// username so the caller can resume scanning there.
func nextProcessID(s string) (pid, username, rest string, ok bool) {
	for i := 0; i < len(s); i++ {
		open := strings.IndexByte(s[i:], '[')
		if open < 0 {
			return "", "", "", false
		}
		i += open
		digits, after, found := takeDigits(s[i+1:])
		if !found || len(after) == 0 || after[0] != ']' {
			continue
		}
		after, found = skipSpace(after[1:])
		if !found {
			continue
		}
		name, tail, found := takeWord(after)
		if !found {
			continue
		}
		return digits, name, tail, true
	}
	return "", "", "", false
}

// firstAction reports the action literal that occurs earliest in s.
func firstAction(s string) (models.TransferAction, bool) {
	up := strings.Index(s, string(models.ActionUpload))
	down := strings.Index(s, string(models.ActionDownload))
	switch {
	case up < 0 && down < 0:
		return "", false
	case down < 0 || (up >= 0 && up < down):
		return models.ActionUpload, true
	default:
		return models.ActionDownload, true
	}
}

func isWordByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f' || c == '\r'
}

func takeWord(s string) (string, string, bool) {
	i := 0
	for i < len(s) && isWordByte(s[i]) {
		i++
	}
	if i == 0 {
		return "", s, false
	}
	return s[:i], s[i:], true
}

func takeDigits(s string) (string, string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return "", s, false
	}
	return s[:i], s[i:], true
}

func takeClock(s string) (hour, minute, second int, rest string, ok bool) {
	h, s1, ok := takeDigits(s)
	if !ok || len(h) > 2 || len(s1) == 0 || s1[0] != ':' {
		return 0, 0, 0, s, false
	}
	m, s2, ok := takeDigits(s1[1:])
	if !ok || len(m) > 2 || len(s2) == 0 || s2[0] != ':' {
		return 0, 0, 0, s, false
	}
	sec, s3, ok := takeDigits(s2[1:])
	if !ok || len(sec) > 2 {
		return 0, 0, 0, s, false
	}
	return atoi(h), atoi(m), atoi(sec), s3, true
}

func skipSpace(s string) (string, bool) {
	i := 0
	for i < len(s) && isSpaceByte(s[i]) {
		i++
	}
	if i == 0 {
		return s, false
	}
	return s[i:], true
}

// atoi converts a pre-validated digit string; bounded to 2 digits by callers.
func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
