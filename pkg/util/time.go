package util

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatSeconds converts fractional seconds to ffmpeg timestamp format
func FormatSeconds(seconds float64) string {
	hours := int(seconds / 3600)
	minutes := int((seconds - float64(hours*3600)) / 60)
	secs := seconds - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, secs)
}

// ParseTimestamp parses a timestamp string (HH:MM:SS.mmm, MM:SS or SS.mmm)
// into fractional seconds.
func ParseTimestamp(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")

	fields := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp format: %s", s)
		}
		fields = append(fields, v)
	}

	switch len(fields) {
	case 1:
		return fields[0], nil
	case 2:
		return fields[0]*60 + fields[1], nil
	case 3:
		return fields[0]*3600 + fields[1]*60 + fields[2], nil
	default:
		return 0, fmt.Errorf("invalid timestamp format: %s", s)
	}
}
