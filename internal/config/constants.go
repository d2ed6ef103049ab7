package config

import "time"

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	// DefaultEnvFile is loaded before the YAML file when present.
	DefaultEnvFile = ".env"

	defaultPort             = 5000
	defaultEnv              = "development"
	defaultDBHost           = "127.0.0.1"
	defaultDBPort           = 3306
	defaultDBUser           = "root"
	defaultDBName           = "ministry"
	defaultDBCharset        = "utf8mb4"
	defaultDBLoc            = "Local"
	defaultJWTExpiresIn     = 24 * time.Hour
	defaultSiteName         = "Ministry"
	defaultSiteURL          = "http://localhost:3000"
	defaultUploadDir        = "uploads"
	defaultUploadURLPrefix  = "/uploads"
	defaultMaxFileSize      = 20 << 20
	defaultBodyLimit        = 10 << 20
	defaultRateLimitWindow  = 15 * time.Minute
	defaultRateLimitMax     = 100
	defaultQueueWorkers     = 2
	defaultQueueBuffer      = 256
	defaultSMTPPort         = 587
	defaultS3Region         = "us-east-1"
	developmentJWTSecret    = "ministry-dev-secret-change-me"
	minProductionSecretSize = 16
)
