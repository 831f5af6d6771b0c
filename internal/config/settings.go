package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/NicabarNimble/go-gitdesk/internal/errors"
)

// AppName names the per-user configuration directory
const AppName = "gitdesk"

// GitSettings configures how git is invoked
type GitSettings struct {
	Path string `toml:"path"`
}

// ServerSettings configures the HTTP API
type ServerSettings struct {
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
	// EventBuffer is the number of undelivered results held per event
	// stream before new ones are dropped
	EventBuffer int `toml:"event_buffer"`
}

// LogSettings configures the logger. GITDESK_LOG_* variables take
// precedence.
type LogSettings struct {
	Level   string `toml:"level"`
	Format  string `toml:"format"`
	NoColor bool   `toml:"no_color"`
}

// Settings is the gitdesk configuration file
type Settings struct {
	Git    GitSettings    `toml:"git"`
	Server ServerSettings `toml:"server"`
	Log    LogSettings    `toml:"log"`
}

// DefaultSettings provides default configuration values
func DefaultSettings() *Settings {
	return &Settings{
		Git: GitSettings{
			Path: "git",
		},
		Server: ServerSettings{
			Addr:        "127.0.0.1:7420",
			CorsOrigins: []string{"http://localhost:1420"},
			EventBuffer: 64,
		},
		Log: LogSettings{
			Level:  "info",
			Format: "console",
		},
	}
}

// Dir returns the per-user configuration directory
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		home, herr := homedir.Dir()
		if herr != nil {
			return "", errors.NewKind("config", errors.KindConfig, "cannot locate config directory", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName), nil
}

// DefaultSettingsPath returns Dir()/config.toml
func DefaultSettingsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadSettings loads settings from a TOML file. A missing file yields the
// defaults.
func LoadSettings(path string) (*Settings, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.NewKind("config", errors.KindConfig, "failed to expand path", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, errors.NewKind("config", errors.KindConfig, "failed to read config file", err)
	}

	cfg := &Settings{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewKind("config", errors.KindConfig, "failed to parse config file", err)
	}

	cfg.MergeDefaults()
	return cfg, nil
}

// SaveSettings saves settings to a TOML file, creating its directory
func SaveSettings(cfg *Settings, path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return errors.NewKind("config", errors.KindConfig, "failed to expand path", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.NewKind("config", errors.KindConfig, "failed to marshal config", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewKind("config", errors.KindConfig, "failed to create config directory", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewKind("config", errors.KindConfig, "failed to write config file", err)
	}

	return nil
}

// MergeDefaults merges default values for unset fields
func (c *Settings) MergeDefaults() {
	def := DefaultSettings()
	if c.Git.Path == "" {
		c.Git.Path = def.Git.Path
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.CorsOrigins == nil {
		c.Server.CorsOrigins = def.Server.CorsOrigins
	}
	if c.Server.EventBuffer == 0 {
		c.Server.EventBuffer = def.Server.EventBuffer
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}

// Validate checks if the configuration is valid
func (c *Settings) Validate() error {
	if strings.TrimSpace(c.Git.Path) == "" {
		return errors.NewKind("config", errors.KindConfig, "git path cannot be empty", nil)
	}
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return errors.NewKind("config", errors.KindConfig, fmt.Sprintf("invalid server address %q", c.Server.Addr), err)
	}
	if c.Server.EventBuffer < 1 {
		return errors.NewKind("config", errors.KindConfig, "event buffer must be positive", nil)
	}
	for _, origin := range c.Server.CorsOrigins {
		if strings.TrimSpace(origin) == "" {
			return errors.NewKind("config", errors.KindConfig, "cors origin cannot be empty", nil)
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return errors.NewKind("config", errors.KindConfig, fmt.Sprintf("invalid log format %q", c.Log.Format), nil)
	}
	return nil
}
