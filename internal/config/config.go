package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gosuhiman/get-lost/internal/logger"
	"github.com/gosuhiman/get-lost/internal/maze"
)

var ErrInvalid = errors.New("config: invalid")

// Config is the top level configuration file.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Maze    MazeConfig    `yaml:"maze"`
	Logging logger.Config `yaml:"logging"`
}

// ServerConfig holds HTTP and websocket settings.
type ServerConfig struct {
	Address string `yaml:"address"`

	// AllowedOrigins lists origins allowed for CORS and websocket upgrades.
	// Empty means same-origin only. "*" allows every origin.
	AllowedOrigins []string `yaml:"allowed_origins"`

	Connections ConnectionsConfig `yaml:"connections"`

	// MaxMessageSize caps a websocket event in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ConnectionsConfig holds websocket connection limits.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent sessions from one address.
	// 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum concurrent sessions. 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// MazeConfig holds generation defaults and the size presets. Sizes listed
// in a file are added to the built in S, M, L and XL presets, replacing any
// with the same name.
type MazeConfig struct {
	DefaultSize    string                     `yaml:"default_size"`
	DefaultPortals int                        `yaml:"default_portals"`
	MaxPortalPairs int                        `yaml:"max_portal_pairs"`
	Sizes          map[string]maze.Dimensions `yaml:"sizes"`
}

// DefaultConfig returns the built in configuration.
func DefaultConfig() *Config {
	sizes := make(map[string]maze.Dimensions)
	for name, d := range maze.DefaultSizes() {
		sizes[string(name)] = d
	}

	return &Config{
		Server: ServerConfig{
			Address:        ":8080",
			AllowedOrigins: []string{},
			Connections: ConnectionsConfig{
				MaxPerIP: 4,
				MaxTotal: 200,
			},
			MaxMessageSize:  1024,
			ShutdownTimeout: 10 * time.Second,
		},
		Maze: MazeConfig{
			DefaultSize:    string(maze.Medium),
			DefaultPortals: 0,
			MaxPortalPairs: maze.DefaultMaxPortalPairs,
			Sizes:          sizes,
		},
		Logging: logger.DefaultConfig(),
	}
}

// LoadConfig reads a YAML file over the defaults. A missing file yields the
// defaults. Environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv applies GETLOST_* overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("GETLOST_ADDR"); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv("GETLOST_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}
	c.Logging.ApplyEnv()
}

// Validate checks the maze section and the logging settings.
func (c *Config) Validate() error {
	if len(c.Maze.Sizes) == 0 {
		return fmt.Errorf("%w: no maze sizes", ErrInvalid)
	}
	for name, d := range c.Maze.Sizes {
		if d.Width < 1 || d.Height < 1 {
			return fmt.Errorf("%w: size %s is %dx%d", ErrInvalid, name, d.Width, d.Height)
		}
	}
	sizes := c.SizeTable()
	if _, err := sizes.ParseSize(c.Maze.DefaultSize); err != nil {
		return fmt.Errorf("%w: default_size: %v", ErrInvalid, err)
	}
	if c.Maze.MaxPortalPairs < 0 {
		return fmt.Errorf("%w: max_portal_pairs is negative", ErrInvalid)
	}
	if c.Maze.DefaultPortals < 0 || c.Maze.DefaultPortals > c.Maze.MaxPortalPairs {
		return fmt.Errorf("%w: default_portals must be within 0..%d", ErrInvalid, c.Maze.MaxPortalPairs)
	}
	return c.Logging.Validate()
}

// SizeTable converts the size presets. Names are upper-cased so lookups
// stay case-insensitive.
func (c *Config) SizeTable() maze.SizeTable {
	table := make(maze.SizeTable, len(c.Maze.Sizes))
	for name, d := range c.Maze.Sizes {
		table[maze.Size(strings.ToUpper(name))] = d
	}
	return table
}

// IsOriginAllowed reports whether origin may connect to a server reached
// as requestHost.
func (c *ServerConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// isSameOrigin compares the origin's host with the request host. A missing
// origin comes from a non-browser client and is allowed.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true
	}

	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
