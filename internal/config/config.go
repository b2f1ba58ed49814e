// Package config loads the YAML configuration shared by the terminal
// client and the mock search server.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	History HistoryConfig `yaml:"history"`
	Mock    MockConfig    `yaml:"mock"`
}

// ServerConfig describes how the client reaches the search server.
type ServerConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Transport      string        `yaml:"transport"` // "sse" or "websocket"
	Token          string        `yaml:"token"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // empty: a timestamped file under ~/.wordsearch/logs
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	Limit   int    `yaml:"limit"`
}

// MockConfig drives the mock search server.
type MockConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	TickInterval time.Duration `yaml:"tick_interval"`
	Token        string        `yaml:"token"`
	FailKeywords []string      `yaml:"fail_keywords"`
	Files        []MockFile    `yaml:"files"`
}

// MockFile is one synthetic file the mock server pretends to search.
type MockFile struct {
	Name string `yaml:"name"`
	Size int64  `yaml:"size"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:3001",
			Transport:      "sse",
			RequestTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    defaultHistoryPath(),
			Limit:   20,
		},
		Mock: MockConfig{
			Host:         "127.0.0.1",
			Port:         3001,
			TickInterval: 300 * time.Millisecond,
			Files: []MockFile{
				{Name: "data_1.txt", Size: 52_428_800},
				{Name: "data_2.txt", Size: 104_857_600},
				{Name: "data_3.txt", Size: 78_643_200},
				{Name: "data_4.txt", Size: 26_214_400},
				{Name: "data_5.txt", Size: 157_286_400},
				{Name: "logs_2024.txt", Size: 9_437_184},
				{Name: "corpus_vi.txt", Size: 314_572_800},
				{Name: "corpus_en.txt", Size: 262_144_000},
			},
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.History.Path = expandHome(cfg.History.Path)
	cfg.Log.File = expandHome(cfg.Log.File)

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("server.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.base_url: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("server.base_url: missing host")
	}

	switch c.Server.Transport {
	case "sse", "websocket":
	default:
		return fmt.Errorf("server.transport: must be sse or websocket, got %q", c.Server.Transport)
	}
	if c.Server.RequestTimeout <= 0 {
		return errors.New("server.request_timeout must be positive")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.History.Enabled && c.History.Path == "" {
		return errors.New("history.path is required when history is enabled")
	}
	if c.History.Limit <= 0 {
		return errors.New("history.limit must be positive")
	}
	return nil
}

// ValidateMock checks the settings used by the mock server.
func (c *Config) ValidateMock() error {
	if c.Mock.Port <= 0 || c.Mock.Port > 65535 {
		return fmt.Errorf("mock.port out of range: %d", c.Mock.Port)
	}
	if c.Mock.TickInterval <= 0 {
		return errors.New("mock.tick_interval must be positive")
	}
	for i, f := range c.Mock.Files {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("mock.files[%d]: empty name", i)
		}
		if f.Size < 0 {
			return fmt.Errorf("mock.files[%d]: negative size", i)
		}
	}
	return nil
}

// IsFailKeyword reports whether the mock server should fail searches for kw.
func (m MockConfig) IsFailKeyword(kw string) bool {
	for _, f := range m.FailKeywords {
		if strings.EqualFold(f, kw) {
			return true
		}
	}
	return false
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "wordsearch-history.db"
	}
	return filepath.Join(home, ".wordsearch", "history.db")
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
