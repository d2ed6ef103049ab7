package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/ministry-site/core/internal/config"
	"go.uber.org/zap"
)

// applyRuntimeSettings warns about an insecure signing secret and switches
// the process time zone when one is configured.
func applyRuntimeSettings(cfg *config.AppConfig, logger *zap.Logger) error {
	if cfg.JWT.Insecure {
		logger.Warn("jwt secret is not set, using the built-in development secret")
	}
	if strings.TrimSpace(cfg.Timezone) == "" {
		return nil
	}
	loc, err := parseTimezoneLocation(cfg.Timezone)
	if err != nil {
		return err
	}
	time.Local = loc
	logger.Info("time zone applied", zap.String("zone", loc.String()))
	return nil
}

// parseTimezoneLocation accepts an IANA name or a fixed "±hh:mm" offset.
func parseTimezoneLocation(raw string) (*time.Location, error) {
	tz := strings.TrimSpace(raw)
	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}
	if t, err := time.Parse("-07:00", tz); err == nil {
		_, offset := t.Zone()
		return time.FixedZone("UTC"+tz, offset), nil
	}
	return nil, fmt.Errorf("invalid timezone %q: want an IANA zone such as America/Chicago or an offset such as -06:00", raw)
}

// humanizeDuration renders d as "2d 3h 4m", dropping leading zero units.
// Durations under a minute are shown in seconds.
func humanizeDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	days := int(d / (24 * time.Hour))
	hours := int(d/time.Hour) % 24
	minutes := int(d/time.Minute) % 60

	parts := make([]string, 0, 3)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if days > 0 || hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	parts = append(parts, fmt.Sprintf("%dm", minutes))
	return strings.Join(parts, " ")
}
