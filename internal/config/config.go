package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Remote    RemoteConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Local     LocalConfig
	Backup    BackupConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RemoteConfig selects the hosted database backend. Both URI and AccessKey
// must be set for the remote backend to be considered at all; absence of
// either forces local-only mode.
type RemoteConfig struct {
	URI       string
	AccessKey string
	Database  string
	Timeout   time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// LocalConfig locates the local persistent key-value area.
type LocalConfig struct {
	DataDir string
}

type BackupConfig struct {
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool
	MinIOBucket    string
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5002")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("REMOTE_DB_DATABASE", "aba_admin")
	viper.SetDefault("REMOTE_DB_TIMEOUT", 10)
	viper.SetDefault("DATA_DIR", "./data")
	viper.SetDefault("JWT_ACCESS_TOKEN_TTL", 15)
	viper.SetDefault("JWT_REFRESH_TOKEN_TTL", 10080)
	viper.SetDefault("RATE_LIMIT_RPS", 1.0)
	viper.SetDefault("RATE_LIMIT_BURST", 5)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("MINIO_BUCKET", "aba-backups")

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Remote: RemoteConfig{
			URI:       viper.GetString("REMOTE_DB_URI"),
			AccessKey: viper.GetString("REMOTE_DB_ACCESS_KEY"),
			Database:  viper.GetString("REMOTE_DB_DATABASE"),
			Timeout:   time.Duration(viper.GetInt("REMOTE_DB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       0,
		},
		JWT: JWTConfig{
			Secret:          viper.GetString("JWT_SECRET"),
			AccessTokenTTL:  time.Duration(viper.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
			RefreshTokenTTL: time.Duration(viper.GetInt("JWT_REFRESH_TOKEN_TTL")) * time.Minute,
		},
		Local: LocalConfig{
			DataDir: viper.GetString("DATA_DIR"),
		},
		Backup: BackupConfig{
			MinIOEndpoint:  viper.GetString("MINIO_ENDPOINT"),
			MinIOAccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			MinIOSecretKey: viper.GetString("MINIO_SECRET_KEY"),
			MinIOUseSSL:    viper.GetBool("MINIO_USE_SSL"),
			MinIOBucket:    viper.GetString("MINIO_BUCKET"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	return cfg, nil
}

// RemoteConfigured reports whether both remote selection values are present.
func (c *Config) RemoteConfigured() bool {
	return c.Remote.URI != "" && c.Remote.AccessKey != ""
}
