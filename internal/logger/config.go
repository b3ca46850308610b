package logger

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

var (
	ErrUnknownLevel  = errors.New("logger: unknown level")
	ErrUnknownFormat = errors.New("logger: unknown format")
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds logging configuration. It is embedded in the main config
// file under the logging key.
type Config struct {
	Level   string        `yaml:"level"`
	Console ConsoleConfig `yaml:"console"`
	File    FileConfig    `yaml:"file"`
}

// ConsoleConfig controls the stdout handler.
type ConsoleConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"`
}

// FileConfig controls the rotating file handler.
type FileConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path"`
	Format     string `yaml:"format"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// DefaultConfig logs INFO as text to stdout only.
func DefaultConfig() Config {
	return Config{
		Level: "INFO",
		Console: ConsoleConfig{
			Enabled: true,
			Format:  FormatText,
		},
		File: FileConfig{
			Enabled:    false,
			Path:       "logs/getlost.log",
			Format:     FormatJSON,
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}

// ApplyEnv overrides fields from GETLOST_LOG_* environment variables.
// Unparseable booleans are ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GETLOST_LOG_LEVEL"); v != "" {
		c.Level = v
	}
	if v := os.Getenv("GETLOST_LOG_FORMAT"); v != "" {
		c.Console.Format = v
	}
	if v := os.Getenv("GETLOST_LOG_FILE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.File.Enabled = enabled
		}
	}
	if v := os.Getenv("GETLOST_LOG_FILE"); v != "" {
		c.File.Path = v
	}
}

// Validate checks the level and both formats.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	for _, f := range []string{c.Console.Format, c.File.Format} {
		if f != "" && f != FormatText && f != FormatJSON {
			return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
		}
	}
	return nil
}

// ParseLevel accepts DEBUG, INFO, WARN/WARNING and ERROR in any case. An
// empty string means INFO.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARNING", "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
}
