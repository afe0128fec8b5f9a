package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
	S3       S3Config       `mapstructure:"s3"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Slack    SlackConfig    `mapstructure:"slack"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type UploadsConfig struct {
	Backend  string `mapstructure:"backend"`
	Dir      string `mapstructure:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes"`
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	Prefix    string `mapstructure:"prefix"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// NATSConfig leaves notifications disabled when URL is empty.
type NATSConfig struct {
	URL string `mapstructure:"url"`
}

// SlackConfig leaves Slack notifications disabled when WebhookURL is empty.
type SlackConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	BaseURL    string `mapstructure:"base_url"`
}

// AdminConfig leaves admin routes unguarded when JWTSecret is empty.
type AdminConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"

	BackendLocal = "local"
	BackendS3    = "s3"
)

// Load reads defaults, an optional file named by CONFIG_FILE, and
// environment variables such as STORAGE_DRIVER or ADMIN_JWT_SECRET.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")

	v.SetDefault("storage.driver", DriverPostgres)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "hr_user")
	v.SetDefault("postgres.password", "hr_pass")
	v.SetDefault("postgres.dbname", "resume_db")
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("mongo.uri", "mongodb://localhost:27017/")
	v.SetDefault("mongo.database", "resume_db")
	v.SetDefault("mongo.collection", "hr_accounts")

	v.SetDefault("uploads.backend", BackendLocal)
	v.SetDefault("uploads.dir", "uploads/hr_verifications")
	v.SetDefault("uploads.max_bytes", 10<<20)

	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.prefix", "hr_verifications")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")

	v.SetDefault("nats.url", "")

	v.SetDefault("slack.webhook_url", "")
	v.SetDefault("slack.base_url", "")

	v.SetDefault("admin.jwt_secret", "")
	v.SetDefault("admin.token_ttl", 7*24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverPostgres, DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Uploads.Backend {
	case BackendLocal:
	case BackendS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required for the s3 uploads backend")
		}
	default:
		return fmt.Errorf("unknown uploads backend %q", c.Uploads.Backend)
	}
	if c.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("uploads.max_bytes must be positive")
	}
	return nil
}

func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host, c.Postgres.Port, c.Postgres.User, c.Postgres.Password,
		c.Postgres.DBName, c.Postgres.SSLMode)
}
