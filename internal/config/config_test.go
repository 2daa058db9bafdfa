package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/floatnote/pkg/core"
	"github.com/aretw0/floatnote/pkg/palette"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		env               map[string]string
		wantErr           bool
		want              *Config
		wantErrorContains []string
	}{
		{
			name: "valid config file with custom values",
			configContent: `store:
  path: /tmp/notes/custom.json
  lock_timeout: 2s
notes:
  debounce: 250ms
  default_color: pink
  default_geometry: "10,20,400,500"
retry:
  attempts: 3
  delay: 50ms
logging:
  level: debug
`,
			want: &Config{
				Store:   StoreConfig{Path: "/tmp/notes/custom.json", LockTimeout: 2 * time.Second},
				Notes:   NotesConfig{Debounce: 250 * time.Millisecond, DefaultColor: "pink", DefaultGeometry: "10,20,400,500"},
				Retry:   RetryConfig{Attempts: 3, Delay: 50 * time.Millisecond},
				Logging: LoggingConfig{Level: "debug"},
			},
		},
		{
			name: "partial config keeps defaults",
			configContent: `store:
  path: notes.json
`,
			want: &Config{
				Store:   StoreConfig{Path: "notes.json", LockTimeout: 5 * time.Second},
				Notes:   NotesConfig{Debounce: 500 * time.Millisecond, DefaultColor: palette.Default, DefaultGeometry: "100,100,300,350"},
				Retry:   RetryConfig{Attempts: 1, Delay: 200 * time.Millisecond},
				Logging: LoggingConfig{Level: "info"},
			},
		},
		{
			name: "environment overrides file",
			configContent: `store:
  path: from-file.json
`,
			env: map[string]string{
				"FLOATNOTE_STORE_PATH":     "from-env.json",
				"FLOATNOTE_NOTES_DEBOUNCE": "1s",
				"FLOATNOTE_RETRY_ATTEMPTS": "4",
			},
			want: &Config{
				Store:   StoreConfig{Path: "from-env.json", LockTimeout: 5 * time.Second},
				Notes:   NotesConfig{Debounce: time.Second, DefaultColor: palette.Default, DefaultGeometry: "100,100,300,350"},
				Retry:   RetryConfig{Attempts: 4, Delay: 200 * time.Millisecond},
				Logging: LoggingConfig{Level: "info"},
			},
		},
		{
			name: "invalid YAML format",
			configContent: `store:
  path: x.json
  invalid yaml format here [[[
`,
			wantErr: true,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "validation errors are translated",
			configContent: `store:
  path: x.json
notes:
  debounce: 0s
  default_color: chartreuse
  default_geometry: "1,2,3"
retry:
  attempts: 0
logging:
  level: loud
`,
			wantErr: true,
			wantErrorContains: []string{
				"invalid configuration",
				"debounce must be greater than",
				"must be a palette name or a #RRGGBB color",
				"must be four integers x,y,width,height",
				"attempts must be 1 or greater",
				"level must be one of [debug info warn error]",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := writeConfig(t, tt.configContent)

			got, err := Load(path)
			if tt.wantErr {
				require.Error(t, err)
				for _, s := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), s)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	got, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, got.Store.Path)
	assert.Equal(t, 500*time.Millisecond, got.Notes.Debounce)
	assert.Equal(t, uint(1), got.Retry.Attempts)
}

func TestConfig_Helpers(t *testing.T) {
	cfg := &Config{
		Notes:   NotesConfig{DefaultGeometry: "1,2,3,4"},
		Logging: LoggingConfig{Level: "warn"},
	}
	assert.Equal(t, core.Geometry{X: 1, Y: 2, Width: 3, Height: 4}, cfg.Geometry())
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())

	cfg.Notes.DefaultGeometry = "bogus"
	assert.Equal(t, core.Geometry{X: 100, Y: 100, Width: 300, Height: 350}, cfg.Geometry())
}

func TestValidate_HexColor(t *testing.T) {
	cfg := &Config{
		Store:   StoreConfig{Path: "n.json"},
		Notes:   NotesConfig{Debounce: time.Millisecond, DefaultColor: "#ABCDEF", DefaultGeometry: "0,0,1,1"},
		Retry:   RetryConfig{Attempts: 1},
		Logging: LoggingConfig{Level: "error"},
	}
	assert.NoError(t, cfg.Validate())
}
