package mcp

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// config holds all settings for the MCP server. Values come from
// BEEMINDER_-prefixed environment variables, optionally backfilled from a
// YAML config file, with flags overriding both for the common knobs.
type config struct {
	AuthToken  string `envconfig:"AUTH_TOKEN"`
	APIBaseURL string `envconfig:"API_BASE_URL" default:"https://www.beeminder.com/api/v1"`
	Username   string `envconfig:"USERNAME" default:"me"`

	// DayStart anchors urgency buckets to the user's day boundary.
	DayStart string `envconfig:"DAY_START" default:"7:00"`

	PollInterval    time.Duration `envconfig:"POLL_INTERVAL" default:"2s"`
	PollMaxAttempts int           `envconfig:"POLL_MAX_ATTEMPTS" default:"30"`
	FullFetchPolicy string        `envconfig:"FULL_FETCH_POLICY" default:"lazy"`

	HTTPTimeout     time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ServerName      string        `envconfig:"MCP_SERVER_NAME" default:"beeminder-mcp-server"`
	ServerVersion   string        `envconfig:"MCP_SERVER_VERSION" default:"0.1.0"`
	ListenAddr      string        `envconfig:"LISTEN_ADDR" default:":11647"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	HTTPReadTimeout time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"5s"`
	HTTPIdleTimeout time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"120s"`

	ConfigFile string `envconfig:"CONFIG_FILE"`
}

// fileConfig is the subset of settings a YAML config file may supply.
type fileConfig struct {
	AuthToken string `yaml:"auth_token"`
	Username  string `yaml:"username"`
	DayStart  string `yaml:"day_start"`
}

// loadConfig loads configuration from environment variables, flags, and an
// optional YAML file.
func loadConfig() (*config, error) {
	var cfg config
	if err := envconfig.Process("BEEMINDER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	// Command line flags (will override env vars)
	var rawLogLevel string
	flag.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Path to YAML config file")
	flag.StringVar(&rawLogLevel, "log-level", cfg.LogLevel, "Log level: debug|info|warn|error")
	flag.Parse()
	if rawLogLevel != "" {
		cfg.LogLevel = rawLogLevel
	}

	if err := cfg.applyFile(); err != nil {
		return nil, err
	}

	if cfg.AuthToken == "" {
		return nil, fmt.Errorf("auth token required: set BEEMINDER_AUTH_TOKEN or auth_token in the config file")
	}
	switch cfg.FullFetchPolicy {
	case "lazy", "eager":
	default:
		log.Warn().Str("full_fetch_policy", cfg.FullFetchPolicy).Msg("unknown full-fetch policy, using lazy")
		cfg.FullFetchPolicy = "lazy"
	}

	return &cfg, nil
}

// applyFile backfills settings from the YAML config file. Environment
// variables win; the file only supplies values the environment left unset.
func (c *config) applyFile() error {
	path := c.ConfigFile
	if path == "" {
		path = defaultConfigPath()
		if path == "" {
			return nil
		}
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if c.AuthToken == "" && fc.AuthToken != "" {
		c.AuthToken = fc.AuthToken
	}
	if os.Getenv("BEEMINDER_USERNAME") == "" && fc.Username != "" {
		c.Username = fc.Username
	}
	if os.Getenv("BEEMINDER_DAY_START") == "" && fc.DayStart != "" {
		c.DayStart = fc.DayStart
	}
	return nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "beeminder-mcp", "config.yaml")
}

// initLogger initializes the global logger with the configured level.
func (c *config) initLogger() {
	zerolog.SetGlobalLevel(parseLogLevel(c.LogLevel))
	log.Logger = log.With().Caller().Logger()
}

func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
