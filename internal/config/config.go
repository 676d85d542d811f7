package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultListenAddr      = ":5000"
	DefaultDatabasePath    = "consolidate.db"
	DefaultUploadDir       = "uploads"
	DefaultJanitorSchedule = "0 * * * *"
	DefaultRetentionHours  = 24
	DefaultLogLevel        = "info"
)

// Config carries every tunable the services need. It is built once in main
// and handed to the store, ingestor, janitor and HTTP layer explicitly, so
// tests can run against temporary paths.
type Config struct {
	ListenAddr      string   `yaml:"listen_addr"`
	DatabasePath    string   `yaml:"database_path"`
	UploadDir       string   `yaml:"upload_dir"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	JanitorSchedule string   `yaml:"janitor_schedule"`
	RetentionHours  int      `yaml:"retention_hours"`
	LogLevel        string   `yaml:"log_level"`
}

// Load reads an optional YAML config file and then applies environment
// variable overrides on top. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ListenAddr:      DefaultListenAddr,
		DatabasePath:    DefaultDatabasePath,
		UploadDir:       DefaultUploadDir,
		AllowedOrigins:  []string{"http://localhost:*", "http://127.0.0.1:*"},
		JanitorSchedule: DefaultJanitorSchedule,
		RetentionHours:  DefaultRetentionHours,
		LogLevel:        DefaultLogLevel,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.UploadDir = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("JANITOR_SCHEDULE"); v != "" {
		cfg.JanitorSchedule = v
	}
	if v := os.Getenv("RETENTION_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse RETENTION_HOURS %q: %w", v, err)
		}
		cfg.RetentionHours = hours
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
