package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "test.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Chdir(dir)
}

func TestLoad(t *testing.T) {
	writeConfig(t, `
http:
  port: 23119
library:
  driver: file
  path: ./testdata/library.json
citation:
  default_style: apa
logging:
  level: debug
`)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 23119 {
		t.Errorf("port = %d", cfg.HTTP.Port)
	}
	if cfg.Library.Driver != "file" || cfg.Library.Path != "./testdata/library.json" {
		t.Errorf("library = %+v", cfg.Library)
	}
	if cfg.Citation.DefaultStyle != "apa" {
		t.Errorf("default style = %q", cfg.Citation.DefaultStyle)
	}
	// Unset fields pick up defaults.
	if cfg.HTTP.ReadTimeoutSec != 10 || cfg.Search.MaxResults != 100 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_LIBRARY_PATH", "/data/lib.json")
	writeConfig(t, `
http:
  port: ${TEST_HTTP_PORT:-8080}
library:
  driver: file
  path: ${TEST_LIBRARY_PATH:-./fallback.json}
`)

	cfg, err := Load("test")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("port = %d, want default 8080", cfg.HTTP.Port)
	}
	if cfg.Library.Path != "/data/lib.json" {
		t.Errorf("path = %q, want env value", cfg.Library.Path)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load("nope"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"file without path", func(c *Config) { c.Library.Path = "" }, "library.path"},
		{"redis without addrs", func(c *Config) {
			c.Library.Driver = "redis"
			c.Library.Addrs = nil
		}, "library.addrs"},
		{"unknown driver", func(c *Config) { c.Library.Driver = "dynamo" }, "library.driver"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{}
			cfg.HTTP.Port = 8080
			cfg.Library.Driver = "file"
			cfg.Library.Path = "lib.json"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Library.Driver != "file" {
		t.Errorf("driver = %q", cfg.Library.Driver)
	}
	if cfg.Library.KeyPrefix != "citedex:" {
		t.Errorf("key prefix = %q", cfg.Library.KeyPrefix)
	}
	if cfg.Citation.DefaultStyle != "chicago-author-date" {
		t.Errorf("default style = %q", cfg.Citation.DefaultStyle)
	}
	if cfg.Search.MaxResults != 100 {
		t.Errorf("max results = %d", cfg.Search.MaxResults)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv = %q, want prod", got)
	}
}
