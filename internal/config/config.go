package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/wahlandcase/attuned.audit/internal/models"
)

const (
	fileName              = "attaudit.toml"
	defaultTimeoutSeconds = 60
)

type Config struct {
	API     APIConfig     `toml:"api"`
	Logging LoggingConfig `toml:"logging"`
	Notes   NotesConfig   `toml:"notes"`
}

type APIConfig struct {
	// BaseURL includes the /api prefix
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	// File is the log file; empty uses the cache dir, "-" is stderr
	File string `toml:"file"`
}

type NotesConfig struct {
	// DefaultSection is the notes section opened with a new audit
	DefaultSection string `toml:"default_section"`
}

func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8080/api",
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "structured",
		},
		Notes: NotesConfig{
			DefaultSection: string(models.SectionSummary),
		},
	}
}

// Path returns <UserConfigDir>/attaudit.toml
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, fileName), nil
}

func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path. A missing file yields the defaults,
// which are written back best effort.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			_ = cfg.SaveTo(path) // Best effort save
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url must not be empty")
	}
	if c.API.TimeoutSeconds < 0 {
		return fmt.Errorf("invalid api.timeout_seconds %d", c.API.TimeoutSeconds)
	}
	if _, ok := models.ParseSection(c.Notes.DefaultSection); !ok {
		return fmt.Errorf("invalid notes.default_section %q", c.Notes.DefaultSection)
	}
	return nil
}

func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

func (c *Config) SaveTo(path string) error {
	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Timeout returns the per-request timeout; zero means the default
func (c *Config) Timeout() time.Duration {
	if c.API.TimeoutSeconds == 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// LogFile returns the configured log file with ~ expanded
func (c *Config) LogFile() string {
	return expandTilde(c.Logging.File)
}

// DefaultSection returns the configured notes section
func (c *Config) DefaultSection() models.Section {
	section, ok := models.ParseSection(c.Notes.DefaultSection)
	if !ok {
		return models.SectionSummary
	}
	return section
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
