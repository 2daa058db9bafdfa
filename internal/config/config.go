package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/aretw0/floatnote/pkg/core"
	"github.com/aretw0/floatnote/pkg/palette"
)

type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Notes   NotesConfig   `mapstructure:"notes"`
	Retry   RetryConfig   `mapstructure:"retry"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type StoreConfig struct {
	Path        string        `mapstructure:"path" validate:"required"`
	LockTimeout time.Duration `mapstructure:"lock_timeout" validate:"gte=0"`
}

type NotesConfig struct {
	Debounce        time.Duration `mapstructure:"debounce" validate:"gt=0"`
	DefaultColor    string        `mapstructure:"default_color" validate:"required,color"`
	DefaultGeometry string        `mapstructure:"default_geometry" validate:"required,geometry"`
}

type RetryConfig struct {
	Attempts uint          `mapstructure:"attempts" validate:"gte=1,lte=10"`
	Delay    time.Duration `mapstructure:"delay" validate:"gte=0"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// DefaultStorePath is where notes live when nothing else is configured.
func DefaultStorePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "notes.json"
	}
	return filepath.Join(dir, "floatnote", "notes.json")
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/floatnote")
	}

	v.SetDefault("store.path", DefaultStorePath())
	v.SetDefault("store.lock_timeout", 5*time.Second)
	v.SetDefault("notes.debounce", 500*time.Millisecond)
	v.SetDefault("notes.default_color", palette.Default)
	v.SetDefault("notes.default_geometry", "100,100,300,350")
	v.SetDefault("retry.attempts", 1)
	v.SetDefault("retry.delay", 200*time.Millisecond)
	v.SetDefault("logging.level", "info")

	// FLOATNOTE_STORE_PATH, FLOATNOTE_NOTES_DEBOUNCE, ...
	v.SetEnvPrefix("floatnote")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field and reports all violations in one error.
func (c *Config) Validate() error {
	validate, trans, err := newValidator()
	if err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Translate(trans))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// Geometry returns the parsed default geometry. Validate guarantees it parses.
func (c *Config) Geometry() core.Geometry {
	g, err := core.ParseGeometry(c.Notes.DefaultGeometry)
	if err != nil {
		return core.Geometry{X: 100, Y: 100, Width: 300, Height: 350}
	}
	return g
}

// SlogLevel maps logging.level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.Logging.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
