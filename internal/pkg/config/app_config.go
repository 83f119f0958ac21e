package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// RedisSettings holds connection settings for the task broker and result store
type RedisSettings struct {
	URL string `mapstructure:"url" validate:"required"`
}

// Validate checks that all fields in RedisSettings are valid
func (s *RedisSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for RedisSettings: %w", err)
	}

	return nil
}

// ClickHouseSettings holds connection settings for the analytics store
type ClickHouseSettings struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Database string `mapstructure:"database" validate:"required"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// Validate checks that all fields in ClickHouseSettings are valid
func (s *ClickHouseSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for ClickHouseSettings: %w", err)
	}

	return nil
}

// StagingSettings holds connection settings for the object store used to stage
// pipeline payloads between tasks
type StagingSettings struct {
	Endpoint  string `mapstructure:"endpoint" validate:"required"`
	AccessKey string `mapstructure:"access_key" validate:"required"`
	SecretKey string `mapstructure:"secret_key" validate:"required"`
	Bucket    string `mapstructure:"bucket" validate:"required"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// Validate checks that all fields in StagingSettings are valid
func (s *StagingSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for StagingSettings: %w", err)
	}

	return nil
}

// AppConfig aggregates all settings required by the REST API and the worker
type AppConfig struct {
	Port       string
	Database   DatabaseSettings
	Redis      RedisSettings
	ClickHouse ClickHouseSettings
	Staging    StagingSettings
	Logger     LoggerSettings
}

// Validate checks all nested settings
func (c *AppConfig) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Redis.Validate(); err != nil {
		return err
	}
	if err := c.ClickHouse.Validate(); err != nil {
		return err
	}
	if err := c.Staging.Validate(); err != nil {
		return err
	}
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	return nil
}

// LoadAppConfig reads configuration from the environment. When envFile is
// non-empty and the file exists, its variables are loaded first; real
// environment variables take precedence over file values.
func LoadAppConfig(envFile string) (*AppConfig, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
			}
		}
	}

	cfg := &AppConfig{
		Port: getEnv("PORT", "8000"),
		Database: DatabaseSettings{
			Type:   getEnv("DB_TYPE", PostgresDbType),
			DSN:    getEnv("DB_DSN", "host=localhost port=5432 user=postgres password=postgres sslmode=disable"),
			DBName: getEnv("DB_NAME", "backend_db"),
		},
		Redis: RedisSettings{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		ClickHouse: ClickHouseSettings{
			Host:     getEnv("CLICKHOUSE_HOST", "localhost"),
			Port:     getEnvInt("CLICKHOUSE_PORT", 9000),
			Database: getEnv("CLICKHOUSE_DB", "default"),
			User:     getEnv("CLICKHOUSE_USER", "default"),
			Password: getEnv("CLICKHOUSE_PASSWORD", ""),
		},
		Staging: StagingSettings{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "dw-mini-stages"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Logger: LoggerSettings{
			LogLevel:   getEnv("LOG_LEVEL", LogLevelInfo),
			LogType:    getEnv("LOG_TYPE", LogTypeConsole),
			FilePath:   getEnv("LOG_FILE_PATH", ""),
			MaxSize:    getEnvInt("LOG_MAX_SIZE", 10),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
			MaxAge:     getEnvInt("LOG_MAX_AGE", 28),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
