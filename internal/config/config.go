package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Cascade  CascadeConfig
	LogLevel string
}

type ServerConfig struct {
	Port           string
	Host           string
	Environment    string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type AuthConfig struct {
	BcryptCost int
}

// CascadeConfig controls how task deletion after a list delete is executed.
type CascadeConfig struct {
	Backend         string // "local" | "asynq"
	Timeout         time.Duration
	Concurrency     int
	RecordTTL       time.Duration
	InProcessWorker bool
}

const (
	CascadeBackendLocal = "local"
	CascadeBackendAsynq = "asynq"
)

var ErrMissingSecret = errors.New("JWT_SECRET is required")

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "3000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_REQUEST_TIMEOUT", 10)
	v.SetDefault("MONGODB_DATABASE", "tasklists")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", 15)
	v.SetDefault("JWT_REFRESH_TOKEN_TTL", 14400) // 10 days
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("CASCADE_BACKEND", CascadeBackendLocal)
	v.SetDefault("CASCADE_TIMEOUT", 30)
	v.SetDefault("CASCADE_CONCURRENCY", 4)
	v.SetDefault("CASCADE_RECORD_TTL", 60)
	v.SetDefault("CASCADE_INPROCESS_WORKER", false)
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Host:           v.GetString("SERVER_HOST"),
			Environment:    v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:    time.Duration(v.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout:   time.Duration(v.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
			RequestTimeout: time.Duration(v.GetInt("SERVER_REQUEST_TIMEOUT")) * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:          v.GetString("JWT_SECRET"),
			AccessTokenTTL:  time.Duration(v.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
			RefreshTokenTTL: time.Duration(v.GetInt("JWT_REFRESH_TOKEN_TTL")) * time.Minute,
		},
		Auth: AuthConfig{
			BcryptCost: v.GetInt("BCRYPT_COST"),
		},
		Cascade: CascadeConfig{
			Backend:         strings.ToLower(strings.TrimSpace(v.GetString("CASCADE_BACKEND"))),
			Timeout:         time.Duration(v.GetInt("CASCADE_TIMEOUT")) * time.Second,
			Concurrency:     v.GetInt("CASCADE_CONCURRENCY"),
			RecordTTL:       time.Duration(v.GetInt("CASCADE_RECORD_TTL")) * time.Minute,
			InProcessWorker: v.GetBool("CASCADE_INPROCESS_WORKER"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return ErrMissingSecret
	}
	if c.JWT.AccessTokenTTL <= 0 || c.JWT.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive (access=%s refresh=%s)", c.JWT.AccessTokenTTL, c.JWT.RefreshTokenTTL)
	}
	switch c.Cascade.Backend {
	case CascadeBackendLocal:
	case CascadeBackendAsynq:
		if c.Redis.Addr() == "" {
			return fmt.Errorf("CASCADE_BACKEND=asynq requires REDIS_HOST")
		}
		// the standalone worker reads lists from Mongo; with the in-memory
		// store only an in-process worker sees the tasks
		if c.MongoDB.URI == "" && !c.Cascade.InProcessWorker {
			return fmt.Errorf("CASCADE_BACKEND=asynq requires MONGODB_URI or CASCADE_INPROCESS_WORKER=true")
		}
	default:
		return fmt.Errorf("unknown CASCADE_BACKEND %q", c.Cascade.Backend)
	}
	return nil
}
