package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marmos91/dfcache/internal/bytesize"
)

func TestLoadMissingConfigReturnsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	cfg, err := Load(filepath.Join(tmpDir, "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.RootPath == "" {
		t.Fatal("expected default cache root_path to be set")
	}
	if cfg.Server.Port == 0 {
		t.Fatal("expected default server port to be set")
	}
}

func TestLoadParsesYAMLAndAppliesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
logging:
  level: DEBUG
  format: json
  output: stdout
cache:
  root_path: ` + filepath.ToSlash(tmpDir) + `/cache
  max_memory: 512Mi
server:
  host: 127.0.0.1
  port: 7000
shutdown_timeout: 5s
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Fatalf("expected level DEBUG, got %q", cfg.Logging.Level)
	}
	if cfg.Server.Port != 7000 {
		t.Fatalf("expected port 7000, got %d", cfg.Server.Port)
	}
	if cfg.Cache.MaxMemory != 512*bytesize.MiB {
		t.Fatalf("expected max_memory 512Mi, got %d", cfg.Cache.MaxMemory)
	}
	// Untouched field should still receive its default.
	if cfg.Server.MaxConnections == 0 {
		t.Fatal("expected default max_connections to be applied")
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
logging:
  level: NOTALEVEL
  format: json
  output: stdout
cache:
  root_path: ` + filepath.ToSlash(tmpDir) + `
  max_memory: 1Mi
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("expected validation error for invalid logging level")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Cache.RootPath = tmpDir
	cfg.Server.Port = 9001

	if err := SaveConfig(cfg, configPath); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	reloaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load after SaveConfig: %v", err)
	}
	if reloaded.Server.Port != 9001 {
		t.Fatalf("expected port 9001 after round trip, got %d", reloaded.Server.Port)
	}
}

func TestValidateRejectsMissingRootPath(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Cache.RootPath = ""

	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for empty root_path")
	}
}
