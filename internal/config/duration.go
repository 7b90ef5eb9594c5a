package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseDurationExtended parses Go-style duration strings and adds support for
// d (days) where 1d = 24h. Examples: "30s", "168h", "7d", "1.5d", "1d12h".
func parseDurationExtended(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("duration is required")
	}

	// Without a day unit, defer entirely to Go.
	if !strings.Contains(raw, "d") {
		return time.ParseDuration(raw)
	}

	var b strings.Builder
	s := raw
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		b.WriteByte(s[0])
		s = s[1:]
	}

	for len(s) > 0 {
		i := 0
		dotSeen := false
		for i < len(s) {
			c := s[i]
			if c >= '0' && c <= '9' || (c == '.' && !dotSeen) {
				dotSeen = dotSeen || c == '.'
				i++
				continue
			}
			break
		}
		if i == 0 || i == len(s) {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
		numStr := s[:i]
		s = s[i:]
		j := 0
		for j < len(s) && (s[j] < '0' || s[j] > '9') && s[j] != '.' {
			j++
		}
		unit := s[:j]
		s = s[j:]

		if unit == "d" {
			num, err := strconv.ParseFloat(numStr, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid duration %q", raw)
			}
			b.WriteString(strconv.FormatFloat(num*24, 'f', -1, 64))
			b.WriteByte('h')
			continue
		}
		b.WriteString(numStr)
		b.WriteString(unit)
	}

	return time.ParseDuration(b.String())
}
