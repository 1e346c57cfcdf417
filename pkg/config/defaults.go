package config

import (
	"strings"
	"time"

	"github.com/marmos91/dfcache/internal/bytesize"
)

// ApplyDefaults fills any zero-valued fields of cfg with sensible defaults.
// Explicit values set from file/env/flags are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyMetricsDefaults(&cfg.Metrics)
	applyServerDefaults(&cfg.Server)
	applyCacheDefaults(&cfg.Cache)

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stdout"
	}
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Enabled && cfg.Port == 0 {
		cfg.Port = 9090
	}
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == 0 {
		cfg.Port = 6380
	}
	if cfg.MaxConnections == 0 {
		cfg.MaxConnections = 8
	}
}

func applyCacheDefaults(cfg *CacheConfig) {
	if cfg.RootPath == "" {
		cfg.RootPath = "/var/lib/dfcache"
	}
	if cfg.MaxMemory == 0 {
		cfg.MaxMemory = bytesize.ByteSize(bytesize.GiB)
	}
}

// GetDefaultConfig returns a Config with all default values applied.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
