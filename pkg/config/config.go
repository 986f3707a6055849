// Package config provides configuration management for the invoice
// auditor. It loads settings from environment variables and .env files,
// and detection thresholds from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ledgerguard/invoice-audit/pkg/detector"
)

// Config represents the application configuration.
type Config struct {
	History   HistoryConfig
	Audit     AuditConfig
	Server    ServerConfig
	Detection detector.Config
	Debug     bool
}

// HistoryConfig locates the persisted history state.
type HistoryConfig struct {
	// Path is the history state location. Paths ending in .db or .bolt
	// select the bbolt backend; anything else is a JSON file.
	Path string
}

// AuditConfig locates the SQLite audit log.
type AuditConfig struct {
	DBPath string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
}

// Load loads configuration from environment variables. It automatically
// loads a .env file from the current directory if available; a custom
// .env path can be passed instead.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	port, err := parseIntEnv("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	cfg := &Config{
		History: HistoryConfig{
			Path: getEnvOrDefault("HISTORY_PATH", "./data/history.json"),
		},
		Audit: AuditConfig{
			DBPath: getEnvOrDefault("AUDIT_DB_PATH", "./data/audit.db"),
		},
		Server: ServerConfig{
			Port: port,
		},
		Detection: detector.DefaultConfig(),
		Debug:     os.Getenv("DEBUG") == "true",
	}

	if path := os.Getenv("DETECTION_CONFIG"); path != "" {
		detection, err := LoadDetection(path)
		if err != nil {
			return nil, err
		}
		cfg.Detection = detection
	}

	return cfg, nil
}

// LoadDetection reads detection thresholds from a YAML file. The file
// is decoded over the defaults, so keys it leaves out keep their
// default values; out-of-range values are normalized away inside the
// detector.
func LoadDetection(path string) (detector.Config, error) {
	cfg := detector.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read detection config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse detection config: %w", err)
	}

	return cfg, nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv parses an int from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}

	return parsed, nil
}
