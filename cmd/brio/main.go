package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Chepman32/Brio-sub001/internal/achievements"
	"github.com/Chepman32/Brio-sub001/internal/config"
	"github.com/Chepman32/Brio-sub001/internal/device"
	"github.com/Chepman32/Brio-sub001/internal/model"
	"github.com/Chepman32/Brio-sub001/internal/planner"
	"github.com/Chepman32/Brio-sub001/internal/scheduler"
	"github.com/Chepman32/Brio-sub001/internal/storage"
	"github.com/Chepman32/Brio-sub001/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "brio failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("BRIO_CONFIG"))
	if err != nil {
		return err
	}
	cfg = config.FromEnv(cfg)

	// Stdout belongs to the TUI, so logs go to a file next to the config.
	logger, closeLog, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	repo, err := storage.OpenSQLite(cfg.Database.Path, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	sched := scheduler.NewEngine(cfg.Notifications.Buffer)
	sched.Start()
	defer sched.Stop()

	provider := device.Guard{
		Inner:   device.BatteryProbe{Base: snapshotFromConfig(cfg.Context)},
		Timeout: time.Duration(cfg.Context.ProbeTimeoutMillis) * time.Millisecond,
		Logger:  logger,
	}

	plan := planner.New(repo, repo, provider,
		planner.WithConfig(planner.Config{
			MinSamples:          cfg.Planner.MinSamples,
			LearningRate:        cfg.Planner.LearningRate,
			ConfidenceThreshold: cfg.Planner.ConfidenceThreshold,
		}),
		planner.WithLogger(logger),
	)
	awards := achievements.NewEvaluator(repo, repo, repo, achievements.WithLogger(logger))

	services := update.Services{
		Repo:      repo,
		Planner:   plan,
		Awards:    awards,
		Scheduler: sched,
	}
	var notifier update.DesktopNotifier
	if cfg.Notifications.Desktop {
		notifier = update.ExecDesktopNotifier{}
	}

	var opts []tea.ProgramOption
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	logger.Info("starting",
		slog.String("db", cfg.Database.Path),
		slog.Int("scheduler_buffer", cfg.Notifications.Buffer))

	program := tea.NewProgram(update.NewModelWithConfig(services, notifier, update.FromAppConfig(cfg)), opts...)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func openLogger() (*slog.Logger, func(), error) {
	dir, err := config.DefaultDir()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, "brio.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log %s: %w", path, err)
	}
	logger := slog.New(slog.NewTextHandler(file, nil))
	return logger, func() { _ = file.Close() }, nil
}

func snapshotFromConfig(c config.ContextConfig) model.ContextSnapshot {
	return model.ContextSnapshot{
		DeepWorkPossible: c.DeepWorkPossible,
		BatteryLevel:     c.BatteryLevel,
		Charging:         c.Charging,
		Commuting:        c.Commuting,
	}
}
