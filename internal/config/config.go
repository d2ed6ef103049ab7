package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type lookupFunc func(key string) (string, bool)

// LoadDotEnv populates the process environment from a dotenv file.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %q: %w", path, err)
	}
	return nil
}

// Load reads the YAML config file (optional when configPath is empty) and
// applies environment overrides on top of it.
func Load(configPath string) (*AppConfig, error) {
	return load(configPath, os.LookupEnv)
}

func load(configPath string, lookup lookupFunc) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	cfg := defaultAppConfig()
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		decoder := yaml.NewDecoder(bytes.NewReader(content))
		decoder.KnownFields(true)
		raw := rawAppConfig{}
		if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config file %q: %w", path, err)
		}
		if err := applyRawAppConfig(&cfg, raw); err != nil {
			return nil, fmt.Errorf("config file %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// environment-only deployment
	default:
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return nil, err
	}
	normalizeAppConfig(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Database: DatabaseRuntimeConfig{
			Host:      defaultDBHost,
			Port:      defaultDBPort,
			User:      defaultDBUser,
			Name:      defaultDBName,
			Charset:   defaultDBCharset,
			ParseTime: true,
			Loc:       defaultDBLoc,
		},
		JWT: JWTConfig{ExpiresIn: defaultJWTExpiresIn},
		Mail: MailConfig{
			Port: defaultSMTPPort,
		},
		Site: SiteConfig{Name: defaultSiteName, URL: defaultSiteURL},
		Upload: UploadConfig{
			Dir:         defaultUploadDir,
			URLPrefix:   defaultUploadURLPrefix,
			MaxFileSize: defaultMaxFileSize,
			S3:          S3Config{Region: defaultS3Region},
		},
		RateLimit: RateLimitConfig{Window: defaultRateLimitWindow, Max: defaultRateLimitMax},
		BodyLimit: defaultBodyLimit,
		Queue:     QueueConfig{Workers: defaultQueueWorkers, Buffer: defaultQueueBuffer},
	}
}

func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) error {
	if raw.Port != 0 {
		cfg.Port = raw.Port
	}
	if v := firstNonEmpty(raw.Env, raw.NodeEnv); v != "" {
		cfg.Env = v
	}
	if v := strings.TrimSpace(raw.DSN); v != "" {
		cfg.DSN = v
	}
	applyRawDatabaseConfig(&cfg.Database, raw.Database)
	if v := strings.TrimSpace(raw.RedisURL); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		cfg.LogDir = v
	}

	origins := append([]string{}, raw.AllowedOrigins...)
	origins = append(origins, raw.CORSAllowedOrigins...)
	if raw.FrontendURL != "" {
		origins = append(origins, raw.FrontendURL)
	}
	if len(origins) > 0 {
		cfg.AllowedOrigins = origins
	}

	if v := firstNonEmpty(raw.JWT.Secret, raw.JWTSecretLegacy); v != "" {
		cfg.JWT.Secret = v
	}
	if v := strings.TrimSpace(raw.JWT.ExpiresIn); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid jwt.expires_in: %w", err)
		}
		cfg.JWT.ExpiresIn = d
	}

	applyRawMailConfig(&cfg.Mail, raw.Mail)

	if v := strings.TrimSpace(raw.Site.Name); v != "" {
		cfg.Site.Name = v
	}
	if v := strings.TrimSpace(raw.Site.URL); v != "" {
		cfg.Site.URL = v
	}

	applyRawUploadConfig(&cfg.Upload, raw.Upload)

	if v := strings.TrimSpace(raw.RateLimit.Window); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid rate_limit.window: %w", err)
		}
		cfg.RateLimit.Window = d
	}
	if raw.RateLimit.Max != 0 {
		cfg.RateLimit.Max = raw.RateLimit.Max
	}
	if raw.BodyLimit != 0 {
		cfg.BodyLimit = raw.BodyLimit
	}
	if raw.Queue.Workers != 0 {
		cfg.Queue.Workers = raw.Queue.Workers
	}
	if raw.Queue.Buffer != 0 {
		cfg.Queue.Buffer = raw.Queue.Buffer
	}
	if v := strings.TrimSpace(raw.Timezone); v != "" {
		cfg.Timezone = v
	}
	return nil
}

func applyRawDatabaseConfig(db *DatabaseRuntimeConfig, raw rawDatabaseConfig) {
	if v := strings.TrimSpace(raw.Host); v != "" {
		db.Host = v
	}
	if raw.Port != 0 {
		db.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.User); v != "" {
		db.User = v
	}
	if raw.Password != "" {
		db.Password = raw.Password
	}
	if v := strings.TrimSpace(raw.Name); v != "" {
		db.Name = v
	}
	if v := strings.TrimSpace(raw.Charset); v != "" {
		db.Charset = v
	}
	if raw.ParseTime != nil {
		db.ParseTime = *raw.ParseTime
	}
	if v := strings.TrimSpace(raw.Loc); v != "" {
		db.Loc = v
	}
	if len(raw.Params) > 0 {
		db.Params = copyStringMap(raw.Params)
	}
	if raw.MaxOpen != 0 {
		db.MaxOpen = raw.MaxOpen
	}
	if raw.MaxIdle != 0 {
		db.MaxIdle = raw.MaxIdle
	}
}

func applyRawMailConfig(m *MailConfig, raw rawMailConfig) {
	if v := strings.TrimSpace(raw.Host); v != "" {
		m.Host = v
		m.Enable = true
	}
	if raw.Port != 0 {
		m.Port = raw.Port
	}
	if v := strings.TrimSpace(raw.User); v != "" {
		m.User = v
	}
	if raw.Pass != "" {
		m.Pass = raw.Pass
	}
	if v := strings.TrimSpace(raw.From); v != "" {
		m.From = v
	}
	if v := strings.TrimSpace(raw.ReplyTo); v != "" {
		m.ReplyTo = v
	}
	if v := strings.TrimSpace(raw.ResendKey); v != "" {
		m.ResendKey = v
		m.Enable = true
	}
	if v := strings.TrimSpace(raw.AdminEmail); v != "" {
		m.AdminEmail = v
	}
	if v := strings.TrimSpace(raw.PrayerTeamEmail); v != "" {
		m.PrayerTeamEmail = v
	}
	if raw.Enable != nil {
		m.Enable = *raw.Enable
	}
}

func applyRawUploadConfig(u *UploadConfig, raw rawUploadConfig) {
	if v := strings.TrimSpace(raw.Dir); v != "" {
		u.Dir = v
	}
	if v := strings.TrimSpace(raw.URLPrefix); v != "" {
		u.URLPrefix = v
	}
	if raw.MaxFileSize != 0 {
		u.MaxFileSize = raw.MaxFileSize
	}
	s3 := raw.S3
	if v := strings.TrimSpace(s3.Bucket); v != "" {
		u.S3.Bucket = v
		u.S3.Enable = true
	}
	if v := strings.TrimSpace(s3.Region); v != "" {
		u.S3.Region = v
	}
	if v := strings.TrimSpace(s3.Endpoint); v != "" {
		u.S3.Endpoint = v
	}
	if v := strings.TrimSpace(s3.AccessKey); v != "" {
		u.S3.AccessKey = v
	}
	if s3.SecretKey != "" {
		u.S3.SecretKey = s3.SecretKey
	}
	if v := strings.TrimSpace(s3.PublicURL); v != "" {
		u.S3.PublicURL = v
	}
	if v := strings.TrimSpace(s3.Prefix); v != "" {
		u.S3.Prefix = v
	}
	if s3.PathStyle != nil {
		u.S3.PathStyle = *s3.PathStyle
	}
	if s3.Enable != nil {
		u.S3.Enable = *s3.Enable
	}
}

func validate(cfg *AppConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", cfg.Port)
	}
	if cfg.Database.Port < 1 || cfg.Database.Port > 65535 {
		return fmt.Errorf("invalid database.port %d, expected 1-65535", cfg.Database.Port)
	}
	if _, err := mysqldriver.ParseDSN(cfg.DSNValue()); err != nil {
		return fmt.Errorf("invalid database dsn: %w", err)
	}
	if cfg.JWT.ExpiresIn <= 0 {
		return fmt.Errorf("invalid jwt.expires_in %s, expected > 0", cfg.JWT.ExpiresIn)
	}
	if cfg.JWT.Secret == "" {
		if cfg.IsProduction() {
			return errors.New("jwt secret is required in production")
		}
		cfg.JWT.Secret = developmentJWTSecret
		cfg.JWT.Insecure = true
	} else if cfg.IsProduction() && len(cfg.JWT.Secret) < minProductionSecretSize {
		return fmt.Errorf("jwt secret must be at least %d characters in production", minProductionSecretSize)
	}
	if cfg.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("invalid upload.max_file_size %d, expected > 0", cfg.Upload.MaxFileSize)
	}
	if cfg.Upload.S3.Enable && cfg.Upload.S3.Bucket == "" {
		return errors.New("upload.s3.bucket is required when s3 upload is enabled")
	}
	if cfg.RateLimit.Window <= 0 || cfg.RateLimit.Max < 1 {
		return fmt.Errorf("invalid rate limit %d per %s", cfg.RateLimit.Max, cfg.RateLimit.Window)
	}
	if cfg.BodyLimit <= 0 {
		return fmt.Errorf("invalid body_limit %d, expected > 0", cfg.BodyLimit)
	}
	if cfg.Queue.Workers < 1 || cfg.Queue.Buffer < 1 {
		return fmt.Errorf("invalid queue settings workers=%d buffer=%d", cfg.Queue.Workers, cfg.Queue.Buffer)
	}
	return nil
}

// IsDev reports whether verbose diagnostics should be exposed.
func (c *AppConfig) IsDev() bool { return c.Env == "development" }

func (c *AppConfig) IsProduction() bool { return c.Env == "production" }

// UploadDir returns the absolute local upload directory.
func (c *AppConfig) UploadDir() string {
	return ResolveRuntimePath(c.Upload.Dir, defaultUploadDir)
}
