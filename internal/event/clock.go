package event

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// PeriodLength is the regulation length of a period in seconds.
	PeriodLength = 1200
	// ShootoutPeriod is the first period number treated as a shootout.
	ShootoutPeriod = 5
	// ShootoutSeconds is the game second every shootout event is pinned to.
	ShootoutSeconds = 3900
)

// GameSeconds converts a period and elapsed period seconds into elapsed game
// seconds. Shootout periods collapse to ShootoutSeconds.
func GameSeconds(period, periodSeconds int) int {
	if period >= ShootoutPeriod {
		return ShootoutSeconds
	}
	return (period-1)*PeriodLength + periodSeconds
}

// ParseClock parses an "M:SS" or "MM:SS" clock reading into seconds.
// Stray dashes are ignored and an empty reading is 0:00.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "-", ""))
	if s == "" {
		return 0, nil
	}
	mins, secs, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("clock %q: missing colon", s)
	}
	m, err := strconv.Atoi(strings.TrimSpace(mins))
	if err != nil {
		return 0, fmt.Errorf("clock %q: minutes: %w", s, err)
	}
	sec, err := strconv.Atoi(strings.TrimSpace(secs))
	if err != nil {
		return 0, fmt.Errorf("clock %q: seconds: %w", s, err)
	}
	if m < 0 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("clock %q: out of range", s)
	}
	return m*60 + sec, nil
}

// FormatClock renders seconds as "M:SS" below ten minutes and "MM:SS" above.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// ParsePeriod parses a period cell. "OT" is the fourth period, "SO" the
// shootout and an empty cell is the first period.
func ParsePeriod(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "":
		return 1, nil
	case "OT":
		return 4, nil
	case "SO":
		return ShootoutPeriod, nil
	}
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("period %q: %w", s, err)
	}
	if p < 1 {
		return 0, fmt.Errorf("period %q: out of range", s)
	}
	return p, nil
}
