package config

import "time"

// AppConfig holds runtime startup configuration loaded from YAML and the environment.
type AppConfig struct {
	Port           int
	Env            string // "development" | "production" | "test"
	DSN            string // MySQL DSN, overrides Database when set
	Database       DatabaseRuntimeConfig
	RedisURL       string
	AllowedOrigins []string
	JWT            JWTConfig
	Mail           MailConfig
	Site           SiteConfig
	Upload         UploadConfig
	RateLimit      RateLimitConfig
	BodyLimit      int64
	Queue          QueueConfig
	Timezone       string
	LogDir         string // empty disables the daily log file
}

type DatabaseRuntimeConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	Name      string
	Charset   string
	ParseTime bool
	Loc       string
	Params    map[string]string
	MaxOpen   int
	MaxIdle   int
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
	// Insecure is set when the built-in development secret is in use.
	Insecure bool
}

type MailConfig struct {
	Enable          bool
	Host            string
	Port            int
	User            string
	Pass            string
	From            string
	ReplyTo         string
	ResendKey       string
	AdminEmail      string
	PrayerTeamEmail string
}

type SiteConfig struct {
	Name string
	URL  string
}

type UploadConfig struct {
	Dir         string
	URLPrefix   string
	MaxFileSize int64
	S3          S3Config
}

type S3Config struct {
	Enable    bool
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
	Prefix    string
	PathStyle bool
}

type RateLimitConfig struct {
	Window time.Duration
	Max    int
}

type QueueConfig struct {
	Workers int
	Buffer  int
}

type rawAppConfig struct {
	Port               int                `yaml:"port"`
	Env                string             `yaml:"env"`
	NodeEnv            string             `yaml:"node_env"`
	DSN                string             `yaml:"dsn"`
	Database           rawDatabaseConfig  `yaml:"database"`
	RedisURL           string             `yaml:"redis_url"`
	AllowedOrigins     []string           `yaml:"allowed_origins"`
	FrontendURL        string             `yaml:"frontend_url"`
	JWT                rawJWTConfig       `yaml:"jwt"`
	JWTSecretLegacy    string             `yaml:"jwt_secret"`
	Mail               rawMailConfig      `yaml:"mail"`
	Site               rawSiteConfig      `yaml:"site"`
	Upload             rawUploadConfig    `yaml:"upload"`
	RateLimit          rawRateLimitConfig `yaml:"rate_limit"`
	BodyLimit          int64              `yaml:"body_limit"`
	Queue              rawQueueConfig     `yaml:"queue"`
	Timezone           string             `yaml:"timezone"`
	LogDir             string             `yaml:"log_dir"`
	CORSAllowedOrigins []string           `yaml:"cors_allowed_origins"`
}

type rawDatabaseConfig struct {
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	User      string            `yaml:"user"`
	Password  string            `yaml:"password"`
	Name      string            `yaml:"name"`
	Charset   string            `yaml:"charset"`
	ParseTime *bool             `yaml:"parse_time"`
	Loc       string            `yaml:"loc"`
	Params    map[string]string `yaml:"params"`
	MaxOpen   int               `yaml:"max_open"`
	MaxIdle   int               `yaml:"max_idle"`
}

type rawJWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn string `yaml:"expires_in"`
}

type rawMailConfig struct {
	Enable          *bool  `yaml:"enable"`
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	User            string `yaml:"user"`
	Pass            string `yaml:"pass"`
	From            string `yaml:"from"`
	ReplyTo         string `yaml:"reply_to"`
	ResendKey       string `yaml:"resend_key"`
	AdminEmail      string `yaml:"admin_email"`
	PrayerTeamEmail string `yaml:"prayer_team_email"`
}

type rawSiteConfig struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type rawUploadConfig struct {
	Dir         string      `yaml:"dir"`
	URLPrefix   string      `yaml:"url_prefix"`
	MaxFileSize int64       `yaml:"max_file_size"`
	S3          rawS3Config `yaml:"s3"`
}

type rawS3Config struct {
	Enable    *bool  `yaml:"enable"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	PublicURL string `yaml:"public_url"`
	Prefix    string `yaml:"prefix"`
	PathStyle *bool  `yaml:"path_style"`
}

type rawRateLimitConfig struct {
	Window string `yaml:"window"`
	Max    int    `yaml:"max"`
}

type rawQueueConfig struct {
	Workers int `yaml:"workers"`
	Buffer  int `yaml:"buffer"`
}
