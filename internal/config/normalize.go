package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func normalizeAppConfig(cfg *AppConfig) {
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)
	cfg.Site.URL = strings.TrimRight(strings.TrimSpace(cfg.Site.URL), "/")
	cfg.Upload.URLPrefix = "/" + strings.Trim(strings.TrimSpace(cfg.Upload.URLPrefix), "/")
	cfg.Upload.S3.Prefix = strings.Trim(cfg.Upload.S3.Prefix, "/")
	cfg.Upload.S3.PublicURL = strings.TrimRight(cfg.Upload.S3.PublicURL, "/")
	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = defaultSMTPPort
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.User
	}
	if cfg.Mail.PrayerTeamEmail == "" {
		cfg.Mail.PrayerTeamEmail = cfg.Mail.AdminEmail
	}
}

func normalizeEnv(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "prod", "production":
		return "production"
	case "test", "testing":
		return "test"
	default:
		return defaultEnv
	}
}

// normalizeOrigins trims, strips trailing slashes and de-duplicates.
func normalizeOrigins(origins []string) []string {
	seen := make(map[string]struct{}, len(origins))
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}

// parseDuration accepts Go durations ("90m"), day suffixes ("7d") and bare
// seconds ("3600").
func parseDuration(raw string) (time.Duration, error) {
	v := strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	if strings.HasSuffix(v, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(v, "d"))
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", raw)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func copyStringMap(input map[string]string) map[string]string {
	out := make(map[string]string, len(input))
	for k, v := range input {
		out[k] = v
	}
	return out
}
