package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if cfg.Planner.MinSamples != 5 {
		t.Fatalf("min samples = %d, want 5", cfg.Planner.MinSamples)
	}
	if want := filepath.Join(dir, "brio.db"); cfg.Database.Path != want {
		t.Fatalf("db path = %q, want %q", cfg.Database.Path, want)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	want := Default()
	want.Database.Path = filepath.Join(dir, "custom.db")
	want.Planner.MinSamples = 8
	want.Context.Commuting = true
	want.Notifications.Desktop = true
	if err := Save(want, path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	partial := "[planner]\nmin_samples = 3\n\n[database]\npath = \"/tmp/x.db\"\n"
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatalf("write partial config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Planner.MinSamples != 3 {
		t.Fatalf("min samples = %d, want 3", cfg.Planner.MinSamples)
	}
	if cfg.Planner.ConfidenceThreshold != 0.6 {
		t.Fatalf("confidence threshold = %v, want default 0.6", cfg.Planner.ConfidenceThreshold)
	}
	if cfg.Context.ProbeTimeoutMillis != 750 {
		t.Fatalf("probe timeout = %d, want default 750", cfg.Context.ProbeTimeoutMillis)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	bad := "[context]\nbattery_level = 1.5\n"
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatalf("write bad config: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "battery_level") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Database.Path = ""
	cfg.Planner.MinSamples = 0
	cfg.Context.ProbeTimeoutMillis = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"database path", "min_samples", "probe_timeout_ms"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error missing %q: %v", want, err)
		}
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("BRIO_DB_PATH", "/tmp/env.db")
	t.Setenv("BRIO_MIN_SAMPLES", "9")
	t.Setenv("BRIO_CONFIDENCE_THRESHOLD", "0.8")
	t.Setenv("BRIO_CONTEXT_TIMEOUT_MS", "250")
	t.Setenv("BRIO_DESKTOP_NOTIFICATIONS", "yes")
	t.Setenv("BRIO_SCHEDULER_BUFFER", "128")

	cfg := FromEnv(Default())
	if cfg.Database.Path != "/tmp/env.db" {
		t.Fatalf("db path = %q", cfg.Database.Path)
	}
	if cfg.Planner.MinSamples != 9 {
		t.Fatalf("min samples = %d, want 9", cfg.Planner.MinSamples)
	}
	if cfg.Planner.ConfidenceThreshold != 0.8 {
		t.Fatalf("confidence threshold = %v, want 0.8", cfg.Planner.ConfidenceThreshold)
	}
	if cfg.Context.ProbeTimeoutMillis != 250 {
		t.Fatalf("probe timeout = %d, want 250", cfg.Context.ProbeTimeoutMillis)
	}
	if !cfg.Notifications.Desktop {
		t.Fatal("desktop notifications should be enabled")
	}
	if cfg.Notifications.Buffer != 128 {
		t.Fatalf("scheduler buffer = %d, want 128", cfg.Notifications.Buffer)
	}
}

func TestFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("BRIO_MIN_SAMPLES", "0")
	t.Setenv("BRIO_LEARNING_RATE", "banana")
	t.Setenv("BRIO_DESKTOP_NOTIFICATIONS", "maybe")

	cfg := FromEnv(Default())
	if cfg.Planner.MinSamples != 5 {
		t.Fatalf("min samples = %d, want default 5", cfg.Planner.MinSamples)
	}
	if cfg.Planner.LearningRate != 0.3 {
		t.Fatalf("learning rate = %v, want default 0.3", cfg.Planner.LearningRate)
	}
	if cfg.Notifications.Desktop {
		t.Fatal("desktop notifications should stay disabled")
	}
}
