package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points the user config dir at a temp dir so tests never read a
// real config file.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("AppData", dir)
	for _, k := range []string{"STUDYPLAN_DB_PATH", "STUDYPLAN_LOG_FILE", "STUDYPLAN_LOG_LEVEL"} {
		// viper ignores empty env values
		t.Setenv(k, "")
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(cfg.DBPath, filepath.Join("studyplan", "studyplan.db")) {
		t.Fatalf("DBPath = %q", cfg.DBPath)
	}
	if !strings.HasSuffix(cfg.LogFile, filepath.Join("studyplan", "studyplan.log")) {
		t.Fatalf("LogFile = %q", cfg.LogFile)
	}
	if cfg.LogLevel != "info" || cfg.Level() != slog.LevelInfo {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.ConfigFile != "" {
		t.Fatalf("no config file expected, got %q", cfg.ConfigFile)
	}
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	content := "db_path: /tmp/plan.db\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/plan.db" || cfg.Level() != slog.LevelDebug {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.ConfigFile != path {
		t.Fatalf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("STUDYPLAN_DB_PATH", "/var/tmp/env.db")
	t.Setenv("STUDYPLAN_LOG_LEVEL", "warn")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/var/tmp/env.db" || cfg.Level() != slog.LevelWarn {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestLoadInvalidLevel(t *testing.T) {
	isolate(t)
	t.Setenv("STUDYPLAN_LOG_LEVEL", "loud")

	_, err := Load("")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	dir := isolate(t)
	if got := expandHome("~/x.db"); got != filepath.Join(dir, "x.db") {
		t.Fatalf("expandHome = %q", got)
	}
	if got := expandHome("/abs/x.db"); got != "/abs/x.db" {
		t.Fatalf("absolute path changed: %q", got)
	}
}

func TestSaveThenLoad(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "out", "config.yaml")

	want := &Config{DBPath: "/tmp/saved.db", LogFile: "/tmp/saved.log", LogLevel: "error"}
	if err := Save(want, path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.DBPath != want.DBPath || got.LogFile != want.LogFile || got.LogLevel != want.LogLevel {
		t.Fatalf("round trip = %+v", got)
	}
}
