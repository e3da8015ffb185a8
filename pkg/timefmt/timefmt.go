// Package timefmt converts between seconds and the HH:MM:SS forms used in
// logs, CSV exports, and operator prompts.
package timefmt

import (
	"fmt"
	"strconv"
	"strings"
)

// SecondsToHMS renders a duration in seconds as HH:MM:SS.ss.
func SecondsToHMS(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := seconds - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%05.2f", hours, minutes, secs)
}

// ParseHMS parses an HH:MM:SS timestamp (seconds may carry a fraction) into
// seconds. All three fields are required.
func ParseHMS(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("timestamp %q is not in HH:MM:SS form", s)
	}

	hours, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("parse hours in %q: %w", s, err)
	}
	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parse minutes in %q: %w", s, err)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("parse seconds in %q: %w", s, err)
	}

	return hours*3600 + minutes*60 + seconds, nil
}
