package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration lets config files write "30m", "1h30m" or a bare number of
// seconds. TOML and YAML both decode it through UnmarshalText.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty means zero.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	var (
		v   time.Duration
		err error
	)
	switch n, nerr := strconv.ParseInt(s, 10, 64); {
	case s == "":
	case nerr == nil:
		v = time.Duration(n) * time.Second
	default:
		v, err = time.ParseDuration(s)
	}
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if v < 0 {
		return fmt.Errorf("negative duration %q not allowed", s)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
