package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "default config",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "console output",
			config: &Config{
				Level:  "info",
				Format: "console",
				Output: "console",
			},
			wantErr: false,
		},
		{
			name: "invalid level",
			config: &Config{
				Level:  "verbose",
				Format: "json",
				Output: "console",
			},
			wantErr: true,
		},
		{
			name: "file output without filename",
			config: &Config{
				Level:  "info",
				Format: "json",
				Output: "file",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, logger)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, logger)
			}
		})
	}
}

func TestFileOutput(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "test.log")

	logger, err := New(&Config{
		Level:  "debug",
		Format: "json",
		Output: "file",
		File: FileConfig{
			Filename:   filename,
			MaxSize:    10,
			MaxAge:     7,
			MaxBackups: 3,
		},
	})
	require.NoError(t, err)

	logger.Info("hello")
	require.NoError(t, logger.Sync())

	assert.FileExists(t, filename)
}

func TestCallerOptions(t *testing.T) {
	tests := []struct {
		name         string
		enableCaller bool
	}{
		{name: "caller enabled", enableCaller: true},
		{name: "caller disabled", enableCaller: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filename := filepath.Join(t.TempDir(), "test.log")

			logger, err := New(&Config{
				Level:            "info",
				Format:           "json",
				Output:           "file",
				EnableCaller:     tt.enableCaller,
				EnableStacktrace: true,
				File: FileConfig{
					Filename: filename,
					MaxSize:  10,
				},
			})
			require.NoError(t, err)

			logger.Info("hello")
			require.NoError(t, logger.Sync())

			content, err := os.ReadFile(filename)
			require.NoError(t, err)

			if tt.enableCaller {
				assert.Contains(t, string(content), `"caller"`)
			} else {
				assert.NotContains(t, string(content), `"caller"`)
			}
		})
	}
}

func TestGlobalLogger(t *testing.T) {
	require.NoError(t, InitGlobal(DefaultConfig()))
	assert.NotNil(t, L())
}
