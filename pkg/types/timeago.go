package domain

import (
	"strconv"
	"strings"
	"time"
)

// TimeFallback is returned for timestamps that cannot be bucketed.
const TimeFallback = "Recently"

// TimeAgo converts an absolute timestamp to a coarse relative bucket:
// under 24 hours "N hour(s) ago", under 7 days "N day(s) ago", otherwise
// "N week(s) ago". Zero or future timestamps degrade to TimeFallback.
func TimeAgo(t, now time.Time) string {
	if t.IsZero() || t.After(now) {
		return TimeFallback
	}

	hours := int(now.Sub(t).Hours())
	if hours < 24 {
		return relative(hours, "hour")
	}

	days := hours / 24
	if days < 7 {
		return relative(days, "day")
	}

	return relative(days/7, "week")
}

func relative(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return strconv.Itoa(n) + " " + unit + "s ago"
}

// Recency ranks for the recency-heuristic sort. Lower is newer.
const (
	rankHour         = 0
	rankDay          = 1
	rankWeek         = 2
	rankUnrecognized = 3
)

// RecencyRank maps a relative time string to a coarse bucket:
// hour-labeled, day-labeled, week-labeled, or unrecognized. Ordering
// between buckets is defined by LessRecent, not by comparing ranks.
func RecencyRank(timeStr string) int {
	s := strings.ToLower(timeStr)
	switch {
	case strings.Contains(s, "hour"):
		return rankHour
	case strings.Contains(s, "day"):
		return rankDay
	case strings.Contains(s, "week"):
		return rankWeek
	}
	return rankUnrecognized
}

// LessRecent reports whether time string a sorts before b under the
// recency heuristic. Hour listings come before everything else, days
// come before weeks, and unrecognized strings tie with day and week
// buckets so a stable sort keeps their relative position.
func LessRecent(a, b string) bool {
	ra, rb := RecencyRank(a), RecencyRank(b)
	if ra == rankHour || rb == rankHour {
		return ra == rankHour && rb != rankHour
	}
	if ra == rankUnrecognized || rb == rankUnrecognized {
		return false
	}
	return ra < rb
}
