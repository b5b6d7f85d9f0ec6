package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wahlandcase/attuned.audit/internal/logging"
)

const testLogMessage = "logger_factory_test_message"

func TestCreateLogger(t *testing.T) {
	testCases := []struct {
		name           string
		level          logging.Level
		format         logging.Format
		expectError    bool
		expectJSON     bool
		expectMessages bool
	}{
		{name: "debug_structured", level: logging.LevelDebug, format: logging.FormatStructured, expectJSON: true, expectMessages: true},
		{name: "info_console", level: logging.LevelInfo, format: logging.FormatConsole, expectMessages: true},
		{name: "error_filters_info", level: logging.LevelError, format: logging.FormatStructured},
		{name: "unsupported_level", level: logging.Level("loud"), format: logging.FormatConsole, expectError: true},
		{name: "unsupported_format", level: logging.LevelInfo, format: logging.Format("xml"), expectError: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "attaudit.log")

			logger, err := logging.NewFactory().CreateLogger(testCase.level, testCase.format, path)
			if testCase.expectError {
				require.Error(t, err)
				require.Nil(t, logger)
				return
			}
			require.NoError(t, err)

			logger.Info(testLogMessage)
			_ = logger.Sync()

			output, err := os.ReadFile(path)
			require.NoError(t, err)
			output = bytes.TrimSpace(output)

			if !testCase.expectMessages {
				require.Empty(t, output)
				return
			}
			require.Contains(t, string(output), testLogMessage)
			require.Equal(t, testCase.expectJSON, json.Valid(output))
		})
	}
}

func TestDefaultPath(t *testing.T) {
	require.Equal(t, "attaudit.log", filepath.Base(logging.DefaultPath()))
}
