package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// relativeTimeRe captures "N [units] ago", e.g. "2 years ago", "3 months ago".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day|hour)s?\s+ago$`)

// ParseSince converts a cutoff date string into a time.Time. Both absolute
// forms ("2023-06-01", RFC3339) and relative forms ("2 years ago") are
// accepted.
func ParseSince(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}

	matches := relativeTimeRe.FindStringSubmatch(strings.ToLower(s))
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid date format %q: use YYYY-MM-DD, RFC3339, or 'N units ago'", s)
	}

	value, _ := strconv.Atoi(matches[1])
	switch matches[2] {
	case "year":
		return now.AddDate(-value, 0, 0), nil
	case "month":
		return now.AddDate(0, -value, 0), nil
	case "week":
		return now.Add(time.Duration(-value) * 7 * 24 * time.Hour), nil
	case "day":
		return now.Add(time.Duration(-value) * 24 * time.Hour), nil
	case "hour":
		return now.Add(time.Duration(-value) * time.Hour), nil
	default:
		// Should be caught by the regex, but good for safety
		return time.Time{}, fmt.Errorf("unsupported time unit: %s", matches[2])
	}
}
