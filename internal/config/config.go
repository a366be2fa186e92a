// Package config loads and validates the application configuration.
//
// Configuration lives in a TOML file under the user config directory.
// A missing file is not an error: Load writes the defaults and returns
// them, so a first run needs no setup. Environment variables prefixed
// BRIO_ override individual fields after the file is read.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	appDirName     = "brio"
	configFileName = "config.toml"
	dbFileName     = "brio.db"
)

type Config struct {
	Database      DatabaseConfig     `toml:"database"`
	Planner       PlannerConfig      `toml:"planner"`
	Context       ContextConfig      `toml:"context"`
	Notifications NotificationConfig `toml:"notifications"`
	UI            UIConfig           `toml:"ui"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type PlannerConfig struct {
	MinSamples          int     `toml:"min_samples"`
	LearningRate        float64 `toml:"learning_rate"`
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
}

// ContextConfig seeds the device context used by the planner. The
// battery probe overrides battery fields when sysfs is readable; the
// rest stay as configured.
type ContextConfig struct {
	ProbeTimeoutMillis int     `toml:"probe_timeout_ms"`
	DeepWorkPossible   bool    `toml:"deep_work_possible"`
	BatteryLevel       float64 `toml:"battery_level"`
	Charging           bool    `toml:"charging"`
	Commuting          bool    `toml:"commuting"`
}

type NotificationConfig struct {
	Desktop bool `toml:"desktop"`
	Buffer  int  `toml:"buffer"`
}

type UIConfig struct {
	AltScreen bool `toml:"alt_screen"`
	ShowHints bool `toml:"show_hints"`
}

func Default() Config {
	return Config{
		Database: DatabaseConfig{Path: dbFileName},
		Planner: PlannerConfig{
			MinSamples:          5,
			LearningRate:        0.3,
			ConfidenceThreshold: 0.6,
		},
		Context: ContextConfig{
			ProbeTimeoutMillis: 750,
			DeepWorkPossible:   false,
			BatteryLevel:       1.0,
			Charging:           true,
			Commuting:          false,
		},
		Notifications: NotificationConfig{
			Desktop: false,
			Buffer:  64,
		},
		UI: UIConfig{
			AltScreen: true,
			ShowHints: true,
		},
	}
}

// DefaultDir returns the per-user directory holding the config file,
// database, and log.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// Load reads the config at path, or from the default location when path
// is empty. A missing file is written out with defaults first, with the
// database placed next to it.
func Load(path string) (Config, error) {
	if path == "" {
		dir, err := DefaultDir()
		if err != nil {
			return Config{}, err
		}
		path = filepath.Join(dir, configFileName)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		cfg.Database.Path = filepath.Join(filepath.Dir(path), dbFileName)
		if err := Save(cfg, path); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	var problems []string

	if c.Database.Path == "" {
		problems = append(problems, "database path cannot be empty")
	}
	if c.Planner.MinSamples < 1 {
		problems = append(problems, "planner min_samples must be at least 1")
	}
	if c.Planner.LearningRate <= 0 || c.Planner.LearningRate > 1 {
		problems = append(problems, "planner learning_rate must be in (0, 1]")
	}
	if c.Planner.ConfidenceThreshold < 0 || c.Planner.ConfidenceThreshold > 1 {
		problems = append(problems, "planner confidence_threshold must be in [0, 1]")
	}
	if c.Context.ProbeTimeoutMillis <= 0 {
		problems = append(problems, "context probe_timeout_ms must be greater than 0")
	}
	if c.Context.BatteryLevel < 0 || c.Context.BatteryLevel > 1 {
		problems = append(problems, "context battery_level must be in [0, 1]")
	}
	if c.Notifications.Buffer <= 0 {
		problems = append(problems, "notifications buffer must be greater than 0")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// FromEnv applies BRIO_* environment overrides on top of base.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("BRIO_DB_PATH"); ok {
		cfg.Database.Path = v
	}
	if v, ok := getEnvInt("BRIO_MIN_SAMPLES"); ok && v >= 1 {
		cfg.Planner.MinSamples = v
	}
	if v, ok := getEnvFloat("BRIO_LEARNING_RATE"); ok && v > 0 && v <= 1 {
		cfg.Planner.LearningRate = v
	}
	if v, ok := getEnvFloat("BRIO_CONFIDENCE_THRESHOLD"); ok && v >= 0 && v <= 1 {
		cfg.Planner.ConfidenceThreshold = v
	}
	if v, ok := getEnvInt("BRIO_CONTEXT_TIMEOUT_MS"); ok && v > 0 {
		cfg.Context.ProbeTimeoutMillis = v
	}
	if v, ok := getEnvBool("BRIO_DESKTOP_NOTIFICATIONS"); ok {
		cfg.Notifications.Desktop = v
	}
	if v, ok := getEnvInt("BRIO_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.Notifications.Buffer = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvFloat(name string) (float64, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
