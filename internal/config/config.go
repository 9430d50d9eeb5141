package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/transcribeflow/tflow/internal/transcript"
)

// EnvPrefix is the prefix of environment variables that override file values.
const EnvPrefix = "TFLOW_"

// DefaultPath is the config file used when --config is not given.
const DefaultPath = ".tflow.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	dir := DataDir()
	return &Config{
		ServerURL:      "http://localhost:8000",
		Language:       "en",
		DownloadDir:    ".",
		PollInterval:   1500 * time.Millisecond,
		RequestTimeout: 60 * time.Second,
		HistoryDB:      filepath.Join(dir, "history.db"),
		SessionFile:    filepath.Join(dir, "session.json"),
	}
}

// DataDir is the per-user directory holding the session and history.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tflow"
	}
	return filepath.Join(home, ".tflow")
}

// LoadDotEnv loads KEY=value pairs from the given files into the process
// environment. Missing files are skipped and existing variables win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (TFLOW_*). A .env file next to the
// config file, or in the working directory, is loaded first.
func Load(path string) (*Config, error) {
	envFiles := []string{".env"}
	if dir := filepath.Dir(path); dir != "." {
		envFiles = append(envFiles, filepath.Join(dir, ".env"))
	}
	if err := LoadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: TFLOW_SERVER_URL -> server_url, etc.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.HistoryDB = expandHome(cfg.HistoryDB)
	cfg.SessionFile = expandHome(cfg.SessionFile)
	cfg.DownloadDir = expandHome(cfg.DownloadDir)

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(fileConfig{
		ServerURL:      c.ServerURL,
		Language:       c.Language,
		DownloadDir:    c.DownloadDir,
		PollInterval:   c.PollInterval.String(),
		RequestTimeout: c.RequestTimeout.String(),
		HistoryDB:      c.HistoryDB,
		SessionFile:    c.SessionFile,
		AutoScroll:     c.AutoScroll,
	})
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server_url %q: must be an http(s) URL", c.ServerURL)
	}

	if !transcript.ValidLanguage(c.Language) {
		return fmt.Errorf("invalid language %q: must be a language code such as en or es", c.Language)
	}

	if c.PollInterval < 100*time.Millisecond {
		return fmt.Errorf("poll_interval must be at least 100ms")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	if c.HistoryDB == "" {
		return fmt.Errorf("history_db is required")
	}

	if c.SessionFile == "" {
		return fmt.Errorf("session_file is required")
	}

	return nil
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
