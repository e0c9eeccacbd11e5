package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"ehsaudit/database"
	"ehsaudit/logging"
)

// AppConfig holds application-wide system configuration.
type AppConfig struct {
	HTTPAddr    string
	HTTPLogPath string
	Database    *database.Config
	Logging     *logging.Config
	Sessions    *SessionConfig
	Exports     *ExportConfig
}

// SessionConfig controls how long review sessions stay in memory.
type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// ExportConfig controls where rendered documents are delivered.
type ExportConfig struct {
	Dir            string
	ArchiveEnabled bool
	FilePrefix     string
}

// LoadAppConfigFromEnv loads complete application configuration from environment variables.
func LoadAppConfigFromEnv() *AppConfig {
	return &AppConfig{
		HTTPAddr:    getEnvWithDefault("HTTP_ADDR", ":8080"),
		HTTPLogPath: getEnvWithDefault("HTTP_LOG_PATH", ""),
		Database:    LoadDatabaseConfigFromEnv(),
		Logging:     LoadLoggingConfigFromEnv(),
		Sessions:    LoadSessionConfigFromEnv(),
		Exports:     LoadExportConfigFromEnv(),
	}
}

// LoadDatabaseConfigFromEnv loads database configuration from environment variables.
func LoadDatabaseConfigFromEnv() *database.Config {
	return &database.Config{
		Path:              getEnvWithDefault("DB_PATH", "./ehsaudit.db"),
		MaxOpenConns:      getEnvIntWithDefault("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:      getEnvIntWithDefault("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:   getEnvDurationWithDefault("DB_CONN_MAX_LIFETIME", time.Hour),
		ConnMaxIdleTime:   getEnvDurationWithDefault("DB_CONN_MAX_IDLE_TIME", 15*time.Minute),
		BusyTimeoutMs:     getEnvIntWithDefault("DB_BUSY_TIMEOUT_MS", 5000),
		EnableForeignKeys: getEnvBoolWithDefault("DB_ENABLE_FOREIGN_KEYS", true),
		EnableWAL:         getEnvBoolWithDefault("DB_ENABLE_WAL", true),
	}
}

// LoadLoggingConfigFromEnv loads logging configuration from environment variables.
func LoadLoggingConfigFromEnv() *logging.Config {
	return &logging.Config{
		Level:  getEnvWithDefault("LOG_LEVEL", "info"),
		Format: getEnvWithDefault("LOG_FORMAT", "json"),
		Output: getEnvWithDefault("LOG_OUTPUT", "stdout"),
	}
}

// LoadSessionConfigFromEnv loads review session configuration from environment variables.
func LoadSessionConfigFromEnv() *SessionConfig {
	return &SessionConfig{
		TTL:             getEnvDurationWithDefault("SESSION_TTL", 8*time.Hour),
		CleanupInterval: getEnvDurationWithDefault("SESSION_CLEANUP_INTERVAL", 10*time.Minute),
	}
}

// LoadExportConfigFromEnv loads export delivery configuration from environment variables.
func LoadExportConfigFromEnv() *ExportConfig {
	return &ExportConfig{
		Dir:            getEnvWithDefault("EXPORT_DIR", "./exports"),
		ArchiveEnabled: getEnvBoolWithDefault("EXPORT_ARCHIVE_ENABLED", true),
		FilePrefix:     getEnvWithDefault("EXPORT_FILE_PREFIX", "ehs-register"),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(v string, def bool) bool {
	switch strings.TrimSpace(strings.ToLower(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return parseBool(value, defaultValue)
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
