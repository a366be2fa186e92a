package achievements

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Chepman32/Brio-sub001/internal/model"
)

// StatsSource provides the completion aggregates the unlock rules read.
type StatsSource interface {
	Stats(ctx context.Context) (model.CompletionStats, error)
}

// PatternSource provides the hourly histogram the time-of-day specials
// read.
type PatternSource interface {
	Hourly(ctx context.Context) (model.HourlyPattern, error)
}

// Store persists achievement state between evaluations.
type Store interface {
	Achievements(ctx context.Context) ([]model.AchievementState, error)
	SaveAchievement(ctx context.Context, in model.AchievementState) error
}

// Evaluator recomputes progress for every catalog entry against current
// stats. Unlocks are monotonic: once an achievement is stored unlocked
// it never reverts, whatever the stats now say.
type Evaluator struct {
	stats    StatsSource
	patterns PatternSource
	store    Store
	catalog  []Definition
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Evaluator)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithNow(now func() time.Time) Option {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

func WithCatalog(catalog []Definition) Option {
	return func(e *Evaluator) {
		if len(catalog) > 0 {
			e.catalog = catalog
		}
	}
}

func NewEvaluator(stats StatsSource, patterns PatternSource, store Store, opts ...Option) *Evaluator {
	e := &Evaluator{
		stats:    stats,
		patterns: patterns,
		store:    store,
		catalog:  Catalog(),
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate recomputes the whole catalog and persists any state that
// changed. It returns the definitions that transitioned locked to
// unlocked during this call; running it again with unchanged stats
// returns an empty slice.
func (e *Evaluator) Evaluate(ctx context.Context) ([]Definition, error) {
	stats, err := e.stats.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("read stats: %w", err)
	}
	hourly, err := e.patterns.Hourly(ctx)
	if err != nil {
		return nil, fmt.Errorf("read hourly pattern: %w", err)
	}
	saved, err := e.store.Achievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("read achievement state: %w", err)
	}
	states := make(map[string]model.AchievementState, len(saved))
	for _, s := range saved {
		states[s.ID] = s
	}

	var unlocked []Definition
	for _, def := range e.catalog {
		prev := states[def.ID]
		if prev.Unlocked {
			continue
		}

		progress, met := e.measure(def, stats, hourly)
		next := model.AchievementState{ID: def.ID, Progress: progress}
		if met {
			at := e.now()
			next.Progress = 1
			next.Unlocked = true
			next.UnlockedAt = &at
			unlocked = append(unlocked, def)
			e.logger.Info("achievement unlocked",
				slog.String("id", def.ID), slog.String("name", def.Name))
		}

		if next.Progress == prev.Progress && next.Unlocked == prev.Unlocked && prev.ID != "" {
			continue
		}
		if err := e.store.SaveAchievement(ctx, next); err != nil {
			return nil, fmt.Errorf("save achievement %s: %w", def.ID, err)
		}
	}
	return unlocked, nil
}

func (e *Evaluator) measure(def Definition, stats model.CompletionStats, hourly model.HourlyPattern) (float64, bool) {
	switch def.Kind {
	case KindStreak:
		return ratio(stats.CurrentStreak, def.Target), stats.CurrentStreak >= def.Target
	case KindMilestone:
		return ratio(stats.TotalCompleted, def.Target), stats.TotalCompleted >= def.Target
	case KindSpecial:
		met := specialMet(def.ID, stats, hourly)
		if met {
			return 1, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func specialMet(id string, stats model.CompletionStats, hourly model.HourlyPattern) bool {
	switch id {
	case FirstCompletion:
		return stats.TotalCompleted >= 1
	case EarlyBird:
		return hourly[5]+hourly[6]+hourly[7] > 0
	case NightOwl:
		return hourly[22]+hourly[23] > 0
	default:
		return false
	}
}

func ratio(value, target int) float64 {
	if target <= 0 {
		return 0
	}
	if value >= target {
		return 1
	}
	return float64(value) / float64(target)
}
