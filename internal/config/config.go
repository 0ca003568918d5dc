package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Log          LogConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Store        StoreConfig
	Airtable     AirtableConfig
	Gate         GateConfig
	JWT          JWTConfig
	SMTP         SMTPConfig
	Notification NotificationConfig
	Sync         SyncConfig
	Content      ContentConfig
	Storage      StorageConfig
	Dashboard    DashboardConfig
	Tracing      TracingConfig   `mapstructure:"tracing"`
	CORS         CORSConfig      `mapstructure:"cors"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	MigrateOnly bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type LogConfig struct {
	Level      string `mapstructure:"level"` // 为空时 debug 模式使用 debug，其余使用 info
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests     int `mapstructure:"max_requests"`
	WindowMinutes   int `mapstructure:"window_minutes"`
	GateMaxRequests int `mapstructure:"gate_max_requests"`
}

type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
	SSLMode   string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	// 本地快照缓存过期时间（小时），0 表示不过期
	TTLHours int `mapstructure:"ttl_hours"`
}

// StoreConfig 选择远端记录存储：airtable / sql / memory
type StoreConfig struct {
	Type           string        `mapstructure:"type"`
	TimeoutSeconds time.Duration `mapstructure:"timeout_seconds"`
}

type AirtableConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	APIKey          string `mapstructure:"api_key"`
	BaseID          string `mapstructure:"base_id"`
	ProgressTable   string `mapstructure:"progress_table"`
	SubmissionTable string `mapstructure:"submission_table"`
	ActivityTable   string `mapstructure:"activity_table"`
}

// GateConfig 共享口令门禁，口令以 bcrypt 哈希保存
type GateConfig struct {
	MasterPasswordHash string            `mapstructure:"master_password_hash"`
	TraineePasswords   map[string]string `mapstructure:"trainee_passwords"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type SMTPConfig struct {
	Host             string `mapstructure:"host"`
	ConnectionString string `mapstructure:"connection_string"`
	UserName         string `mapstructure:"user_name"`
	Password         string `mapstructure:"password"`
	FromName         string `mapstructure:"from_name"`
	FromAddress      string `mapstructure:"from_address"`
}

type NotificationConfig struct {
	Recipient      string        `mapstructure:"recipient"`
	DashboardURL   string        `mapstructure:"dashboard_url"`
	TimeoutSeconds time.Duration `mapstructure:"timeout_seconds"`
}

type SyncConfig struct {
	DebounceMillis time.Duration `mapstructure:"debounce_millis"`
	// 时间戳相同时的处理策略：remote（远端为准）或 merge（勾选项按 OR 合并）
	TiePolicy string `mapstructure:"tie_policy"`
}

type ContentConfig struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
	// 导出文件下载链接有效期（分钟）
	LinkExpiry time.Duration `mapstructure:"link_expiry_minutes"`
}

type DashboardConfig struct {
	RefreshSeconds time.Duration `mapstructure:"refresh_seconds"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("log.path", "logs/app.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 5)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("database.driver", "mysql")
	viper.SetDefault("database.charset", "utf8mb4")
	viper.SetDefault("database.parsetime", true)
	viper.SetDefault("store.type", "airtable")
	viper.SetDefault("store.timeout_seconds", 10)
	viper.SetDefault("airtable.base_url", "https://api.airtable.com/v0")
	viper.SetDefault("airtable.progress_table", "Progress")
	viper.SetDefault("airtable.submission_table", "ExamSubmissions")
	viper.SetDefault("airtable.activity_table", "DailyActivity")
	viper.SetDefault("jwt.expire_hours", 72)
	viper.SetDefault("notification.timeout_seconds", 15)
	viper.SetDefault("sync.debounce_millis", 1000)
	viper.SetDefault("sync.tie_policy", "remote")
	viper.SetDefault("content.path", "configs/content.yaml")
	viper.SetDefault("storage.type", "local")
	viper.SetDefault("storage.local_path", "uploads")
	viper.SetDefault("storage.link_expiry_minutes", 60)
	viper.SetDefault("dashboard.refresh_seconds", 60)
	viper.SetDefault("rate_limit.max_requests", 600)
	viper.SetDefault("rate_limit.window_minutes", 1)
	viper.SetDefault("rate_limit.gate_max_requests", 10)
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("TRAINING")
	viper.AutomaticEnv()
	setDefaults()

	// Database
	viper.BindEnv("database.driver", "DATABASE_DRIVER")
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Store / Airtable
	viper.BindEnv("store.type", "STORE_TYPE")
	viper.BindEnv("airtable.api_key", "AIRTABLE_API_KEY")
	viper.BindEnv("airtable.base_id", "AIRTABLE_BASE_ID")

	// Gate / JWT
	viper.BindEnv("gate.master_password_hash", "MASTER_PASSWORD_HASH")
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// SMTP / Notification
	viper.BindEnv("smtp.host", "SMTP_HOST")
	viper.BindEnv("smtp.connection_string", "SMTP_CONNECTION_STRING")
	viper.BindEnv("smtp.user_name", "SMTP_USER_NAME")
	viper.BindEnv("smtp.password", "SMTP_PASSWORD")
	viper.BindEnv("notification.recipient", "EXAM_NOTIFICATION_EMAIL")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")
	viper.BindEnv("server.port", "PORT")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")
	viper.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	viper.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	viper.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	viper.BindEnv("storage.oss_bucket", "OSS_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

// normalize 将配置文件中的整数换算为 time.Duration
func (c *Config) normalize() {
	c.JWT.ExpireTime = c.JWT.ExpireTime * time.Hour
	c.Store.TimeoutSeconds = c.Store.TimeoutSeconds * time.Second
	c.Notification.TimeoutSeconds = c.Notification.TimeoutSeconds * time.Second
	c.Sync.DebounceMillis = c.Sync.DebounceMillis * time.Millisecond
	c.Dashboard.RefreshSeconds = c.Dashboard.RefreshSeconds * time.Second
	c.Storage.LinkExpiry = c.Storage.LinkExpiry * time.Minute
}

func (c *Config) Validate() error {
	// 生产环境校验 JWT Secret 强度
	if c.Server.Mode == "release" && len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(c.JWT.Secret))
	}

	switch c.Store.Type {
	case "airtable":
		if c.Airtable.APIKey == "" || c.Airtable.BaseID == "" {
			return fmt.Errorf("airtable store requires api_key and base_id")
		}
	case "sql", "memory":
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}

	switch c.Sync.TiePolicy {
	case "remote", "merge":
	default:
		return fmt.Errorf("unknown sync tie_policy %q", c.Sync.TiePolicy)
	}

	return nil
}
