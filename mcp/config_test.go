package mcp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

func processEnv(t *testing.T) *config {
	t.Helper()
	var cfg config
	if err := envconfig.Process("BEEMINDER", &cfg); err != nil {
		t.Fatalf("envconfig: %v", err)
	}
	return &cfg
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestConfigDefaults(t *testing.T) {
	cfg := processEnv(t)
	if cfg.APIBaseURL != "https://www.beeminder.com/api/v1" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.DayStart != "7:00" || cfg.Username != "me" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.PollInterval.String() != "2s" || cfg.PollMaxAttempts != 30 {
		t.Fatalf("unexpected poll defaults: %+v", cfg)
	}
	if cfg.FullFetchPolicy != "lazy" {
		t.Fatalf("FullFetchPolicy = %q", cfg.FullFetchPolicy)
	}
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("BEEMINDER_DAY_START", "9:30")
	t.Setenv("BEEMINDER_POLL_INTERVAL", "500ms")
	t.Setenv("BEEMINDER_POLL_MAX_ATTEMPTS", "5")

	cfg := processEnv(t)
	if cfg.DayStart != "9:30" {
		t.Fatalf("DayStart = %q", cfg.DayStart)
	}
	if cfg.PollInterval.String() != "500ms" || cfg.PollMaxAttempts != 5 {
		t.Fatalf("unexpected poll settings: %+v", cfg)
	}
}

func TestApplyFile_BackfillsUnsetValues(t *testing.T) {
	cfg := processEnv(t)
	cfg.ConfigFile = writeConfigFile(t, "auth_token: file-token\nusername: alice\nday_start: \"8:15\"\n")

	if err := cfg.applyFile(); err != nil {
		t.Fatalf("applyFile: %v", err)
	}
	if cfg.AuthToken != "file-token" || cfg.Username != "alice" || cfg.DayStart != "8:15" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestApplyFile_EnvWins(t *testing.T) {
	t.Setenv("BEEMINDER_AUTH_TOKEN", "env-token")
	t.Setenv("BEEMINDER_DAY_START", "6:00")

	cfg := processEnv(t)
	cfg.ConfigFile = writeConfigFile(t, "auth_token: file-token\nday_start: \"8:15\"\n")

	if err := cfg.applyFile(); err != nil {
		t.Fatalf("applyFile: %v", err)
	}
	if cfg.AuthToken != "env-token" {
		t.Fatalf("env auth token overridden: %q", cfg.AuthToken)
	}
	if cfg.DayStart != "6:00" {
		t.Fatalf("env day start overridden: %q", cfg.DayStart)
	}
}

func TestApplyFile_BadYAML(t *testing.T) {
	cfg := processEnv(t)
	cfg.ConfigFile = writeConfigFile(t, "auth_token: [unclosed\n")

	if err := cfg.applyFile(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"WARN":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"bogus": zerolog.InfoLevel,
		"":      zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Fatalf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
