package domain

import (
	"fmt"
	"math"
	"time"
)

// RoundTo2 rounds v to two decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatETA formats t as zero-padded 24-hour "HH:MM".
func FormatETA(t time.Time) string {
	return t.Format("15:04")
}

// FormatDuration renders seconds the way turn-by-turn services do,
// e.g. "0 mins", "1 min", "12 mins", "1 hour 5 mins", "2 hours".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	if seconds == 0 {
		return "0 mins"
	}

	// Any nonzero leg shows at least a minute.
	mins := int(math.Round(float64(seconds) / 60))
	if mins == 0 {
		mins = 1
	}

	hours := mins / 60
	mins = mins % 60

	switch {
	case hours == 0:
		return plural(mins, "min")
	case mins == 0:
		return plural(hours, "hour")
	default:
		return plural(hours, "hour") + " " + plural(mins, "min")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
