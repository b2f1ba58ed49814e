package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yaml := `
server:
  base_url: "http://search.internal:8080"
  transport: websocket
  token: s3cret
  request_timeout: 3s
log:
  level: debug
history:
  enabled: false
  limit: 5
mock:
  port: 9090
  tick_interval: 50ms
  fail_keywords: [boom]
  files:
    - name: a.txt
      size: 1024
    - name: b.txt
      size: 2048
`
	if err := os.WriteFile(cfgPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.BaseURL != "http://search.internal:8080" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.Transport != "websocket" {
		t.Errorf("Transport = %q, want websocket", cfg.Server.Transport)
	}
	if cfg.Server.RequestTimeout != 3*time.Second {
		t.Errorf("RequestTimeout = %v, want 3s", cfg.Server.RequestTimeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled should be false")
	}
	if cfg.History.Limit != 5 {
		t.Errorf("History.Limit = %d, want 5", cfg.History.Limit)
	}
	if cfg.Mock.Port != 9090 || cfg.Mock.TickInterval != 50*time.Millisecond {
		t.Errorf("Mock = %+v", cfg.Mock)
	}
	if len(cfg.Mock.Files) != 2 || cfg.Mock.Files[1].Name != "b.txt" {
		t.Errorf("Mock.Files = %+v, want the two configured files", cfg.Mock.Files)
	}
	// Unset values keep their defaults.
	if cfg.Mock.Host != "127.0.0.1" {
		t.Errorf("Mock.Host = %q, want default", cfg.Mock.Host)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.BaseURL != "http://localhost:3001" {
		t.Errorf("BaseURL = %q, want default", cfg.Server.BaseURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if err := cfg.ValidateMock(); err != nil {
		t.Errorf("default mock config should validate: %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("server: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(cfgPath); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("history:\n  path: ~/ws/history.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := filepath.Join(home, "ws", "history.db"); cfg.History.Path != want {
		t.Errorf("History.Path = %q, want %q", cfg.History.Path, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"bad scheme", func(c *Config) { c.Server.BaseURL = "ftp://host" }, "scheme"},
		{"no host", func(c *Config) { c.Server.BaseURL = "http://" }, "missing host"},
		{"bad transport", func(c *Config) { c.Server.Transport = "grpc" }, "transport"},
		{"zero timeout", func(c *Config) { c.Server.RequestTimeout = 0 }, "request_timeout"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"history without path", func(c *Config) { c.History.Path = "" }, "history.path"},
		{"history path not needed when disabled", func(c *Config) { c.History.Enabled = false; c.History.Path = "" }, ""},
		{"zero limit", func(c *Config) { c.History.Limit = 0 }, "history.limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMock(t *testing.T) {
	cfg := Default()
	cfg.Mock.Port = 70000
	if err := cfg.ValidateMock(); err == nil {
		t.Error("expected port error")
	}

	cfg = Default()
	cfg.Mock.Files = append(cfg.Mock.Files, MockFile{Name: " "})
	if err := cfg.ValidateMock(); err == nil {
		t.Error("expected empty name error")
	}
}

func TestIsFailKeyword(t *testing.T) {
	m := MockConfig{FailKeywords: []string{"Boom"}}
	if !m.IsFailKeyword("boom") {
		t.Error("fail keywords should match case-insensitively")
	}
	if m.IsFailKeyword("cat") {
		t.Error("cat is not a fail keyword")
	}
}
