// Package config loads careerquest settings: built-in defaults, then an
// optional YAML file, then CAREERQUEST_* environment variables. Command-line
// flags are applied last by the cmd package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DBPath      string    `yaml:"db"`
	UserID      string    `yaml:"user"`
	CatalogPath string    `yaml:"catalog"`
	Log         LogConfig `yaml:"log"`
	LLM         LLMConfig `yaml:"llm"`
}

type LogConfig struct {
	Mode  string `yaml:"mode"`  // dev, prod or quiet
	Level string `yaml:"level"` // overrides the mode's level when set
	File  string `yaml:"file"`  // log file used while the terminal UI runs
	Salt  string `yaml:"salt"`  // mixed into hashed user ids
}

type LLMConfig struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Log: LogConfig{Mode: "quiet"},
		LLM: LLMConfig{Timeout: 30 * time.Second},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/careerquest/config.yaml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "careerquest", "config.yaml"), nil
}

// Load reads path on top of the defaults and applies the environment. A
// missing file is not an error when optional is true.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && optional:
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from CAREERQUEST_* environment variables.
func (c *Config) ApplyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.DBPath, "CAREERQUEST_DB")
	set(&c.UserID, "CAREERQUEST_USER")
	set(&c.CatalogPath, "CAREERQUEST_CATALOG")
	set(&c.Log.Mode, "CAREERQUEST_LOG_MODE")
	set(&c.Log.Level, "CAREERQUEST_LOG_LEVEL")
	set(&c.LLM.Provider, "CAREERQUEST_LLM_PROVIDER")
	set(&c.LLM.Model, "CAREERQUEST_LLM_MODEL")
}

// ResolveUserID returns the configured user id, or a stable id derived from
// the local account so progress survives across runs without setup.
func (c *Config) ResolveUserID() string {
	if c.UserID != "" {
		return c.UserID
	}
	name := "player"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	host, _ := os.Hostname()
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("careerquest://"+host+"/"+name)).String()
}
