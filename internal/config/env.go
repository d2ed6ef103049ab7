package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// applyEnv layers process environment variables over the file config.
// Variable names follow the deployment's .env conventions.
func applyEnv(cfg *AppConfig, lookup lookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}
	var errs []string
	setInt := func(key string, dst *int) {
		if v, ok := get(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %q is not an integer", key, v))
				return
			}
			*dst = n
		}
	}
	setInt64 := func(key string, dst *int64) {
		if v, ok := get(key); ok {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %q is not an integer", key, v))
				return
			}
			*dst = n
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := get(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %q is not a boolean", key, v))
				return
			}
			*dst = b
		}
	}
	setString := func(key string, dst *string) {
		if v, ok := get(key); ok {
			*dst = v
		}
	}

	setInt("PORT", &cfg.Port)
	if v, ok := get("APP_ENV"); ok {
		cfg.Env = v
	} else if v, ok := get("NODE_ENV"); ok {
		cfg.Env = v
	}

	setString("DATABASE_DSN", &cfg.DSN)
	setString("DB_HOST", &cfg.Database.Host)
	setInt("DB_PORT", &cfg.Database.Port)
	setString("DB_USER", &cfg.Database.User)
	if v, ok := lookup("DB_PASSWORD"); ok {
		cfg.Database.Password = v
	}
	setString("DB_NAME", &cfg.Database.Name)
	setString("REDIS_URL", &cfg.RedisURL)
	setString("LOG_DIR", &cfg.LogDir)

	if v, ok := get("FRONTEND_URL"); ok {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, strings.Split(v, ",")...)
	}
	if v, ok := get("ALLOWED_ORIGINS"); ok {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, strings.Split(v, ",")...)
	}

	setString("JWT_SECRET", &cfg.JWT.Secret)
	if v, ok := get("JWT_EXPIRES_IN"); ok {
		d, err := parseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("JWT_EXPIRES_IN: %v", err))
		} else {
			cfg.JWT.ExpiresIn = d
		}
	}

	if v, ok := get("SMTP_HOST"); ok {
		cfg.Mail.Host = v
		cfg.Mail.Enable = true
	}
	setInt("SMTP_PORT", &cfg.Mail.Port)
	setString("SMTP_USER", &cfg.Mail.User)
	setString("SMTP_PASS", &cfg.Mail.Pass)
	setString("EMAIL_FROM", &cfg.Mail.From)
	setString("EMAIL_REPLY_TO", &cfg.Mail.ReplyTo)
	if v, ok := get("RESEND_API_KEY"); ok {
		cfg.Mail.ResendKey = v
		cfg.Mail.Enable = true
	}
	setString("ADMIN_EMAIL", &cfg.Mail.AdminEmail)
	setString("PRAYER_TEAM_EMAIL", &cfg.Mail.PrayerTeamEmail)
	setBool("MAIL_ENABLE", &cfg.Mail.Enable)

	setString("SITE_NAME", &cfg.Site.Name)
	setString("SITE_URL", &cfg.Site.URL)

	setString("UPLOAD_PATH", &cfg.Upload.Dir)
	setInt64("MAX_FILE_SIZE", &cfg.Upload.MaxFileSize)
	if v, ok := get("S3_BUCKET"); ok {
		cfg.Upload.S3.Bucket = v
		cfg.Upload.S3.Enable = true
	}
	setString("S3_REGION", &cfg.Upload.S3.Region)
	setString("S3_ENDPOINT", &cfg.Upload.S3.Endpoint)
	setString("S3_ACCESS_KEY", &cfg.Upload.S3.AccessKey)
	setString("S3_SECRET_KEY", &cfg.Upload.S3.SecretKey)
	setString("S3_PUBLIC_URL", &cfg.Upload.S3.PublicURL)
	setString("S3_PREFIX", &cfg.Upload.S3.Prefix)
	setBool("S3_PATH_STYLE", &cfg.Upload.S3.PathStyle)

	if v, ok := get("RATE_LIMIT_WINDOW_MS"); ok {
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("RATE_LIMIT_WINDOW_MS: %q is not an integer", v))
		} else {
			cfg.RateLimit.Window = time.Duration(ms) * time.Millisecond
		}
	}
	setInt("RATE_LIMIT_MAX_REQUESTS", &cfg.RateLimit.Max)
	setInt64("BODY_LIMIT", &cfg.BodyLimit)
	setString("TZ", &cfg.Timezone)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}
