// Package duration parses timeout settings.
package duration

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Day is the only unit accepted on top of time.ParseDuration's.
const Day = 24 * time.Hour

// ErrNegative is returned for durations below zero.
var ErrNegative = errors.New("duration must not be negative")

// dayPattern matches a leading day component like "2d" in "2d12h".
var dayPattern = regexp.MustCompile(`^(\d+)d`)

// disabled are the spellings of "no timeout".
var disabled = map[string]bool{
	"":      true,
	"0":     true,
	"none":  true,
	"off":   true,
	"never": true,
}

// Parse reads a timeout. It accepts Go durations ("90s", "1h30m") with an
// optional leading day component ("1d", "1d6h"). Empty, "0", "none", "off"
// and "never" all mean no timeout and return 0.
func Parse(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if disabled[strings.ToLower(s)] {
		return 0, nil
	}

	var total time.Duration
	rest := s
	if m := dayPattern.FindStringSubmatch(rest); m != nil {
		days, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		total = time.Duration(days) * Day
		rest = rest[len(m[0]):]
	}

	if rest != "" {
		d, err := time.ParseDuration(rest)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q (use Go units like 30s or 5m, or d for days)", s)
		}
		total += d
	}

	if total < 0 {
		return 0, fmt.Errorf("invalid duration %q: %w", s, ErrNegative)
	}

	return total, nil
}
