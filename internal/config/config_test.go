package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wahlandcase/attuned.audit/internal/config"
	"github.com/wahlandcase/attuned.audit/internal/models"
)

func TestLoadMissingWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "attaudit.toml")

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig(), cfg)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "base_url")

	reloaded, err := config.LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, cfg, reloaded)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attaudit.toml")
	content := `
[api]
base_url = "https://audit.example.com/api"
timeout_seconds = 5

[notes]
default_section = "faults"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, "https://audit.example.com/api", cfg.API.BaseURL)
	require.Equal(t, 5*time.Second, cfg.Timeout())
	require.Equal(t, models.SectionFaults, cfg.DefaultSection())
	// untouched sections keep their defaults
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"bad_toml", "[api\nbase_url ="},
		{"empty_base_url", "[api]\nbase_url = \"\""},
		{"negative_timeout", "[api]\ntimeout_seconds = -1"},
		{"unknown_section", "[notes]\ndefault_section = \"misc\""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "attaudit.toml")
			require.NoError(t, os.WriteFile(path, []byte(testCase.content), 0644))

			_, err := config.LoadFrom(path)
			require.Error(t, err)
		})
	}
}

func TestTimeoutDefault(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.API.TimeoutSeconds = 0
	require.Equal(t, 60*time.Second, cfg.Timeout())
}

func TestLogFileExpandsTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.Logging.File = "~/logs/attaudit.log"
	require.Equal(t, filepath.Join(home, "logs", "attaudit.log"), cfg.LogFile())

	cfg.Logging.File = "-"
	require.Equal(t, "-", cfg.LogFile())
}
