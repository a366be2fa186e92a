package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/Chepman32/Brio-sub001/internal/model"
)

var ErrMissingCompletionTime = errors.New("planner: missing completion time")

const (
	defaultHour = 9

	deepWorkLead   = 15 * time.Minute
	highUrgentLead = 4 * time.Hour
	nowWindow      = 30 * time.Minute

	hourWeight = 0.6
	dayWeight  = 0.4

	neutralProbability = 0.5
	minProbability     = 0.1
	maxProbability     = 0.9

	deepWorkBoost    = 1.2
	lowBatteryFactor = 0.7
	commutingFactor  = 0.5
	lowBatteryLevel  = 0.15
)

// Config carries the tunable constants of the suggestion algorithm.
// LearningRate is reserved for adaptive blending and not consumed by the
// current scoring path; it stays here so callers can already configure it.
type Config struct {
	MinSamples          int
	LearningRate        float64
	ConfidenceThreshold float64
}

func DefaultConfig() Config {
	return Config{
		MinSamples:          5,
		LearningRate:        0.3,
		ConfidenceThreshold: 0.6,
	}
}

// StatsStore provides the completion aggregates the engine reads and the
// two mutations it issues per completion event.
type StatsStore interface {
	Stats(ctx context.Context) (model.CompletionStats, error)
	IncrementCompleted(ctx context.Context) error
	UpdateStreak(ctx context.Context, at time.Time) (model.CompletionStats, error)
}

// PatternStore provides the hour-of-day and day-of-week histograms.
// RecordCompletionAt must update both maps for one event atomically.
type PatternStore interface {
	Hourly(ctx context.Context) (model.HourlyPattern, error)
	Weekly(ctx context.Context) (model.WeeklyPattern, error)
	RecordCompletionAt(ctx context.Context, at time.Time) error
}

// ContextProvider supplies a fresh device snapshot per call. Providers
// that talk to hardware should bound their own latency; the engine
// treats any error as a neutral snapshot.
type ContextProvider interface {
	Snapshot(ctx context.Context) (model.ContextSnapshot, error)
}

// Engine turns completion history plus a task draft and device context
// into time suggestions with confidence scores. It holds no state of its
// own; every public operation reads its collaborators fresh.
type Engine struct {
	stats    StatsStore
	patterns PatternStore
	device   ContextProvider
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Engine)

func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

func WithNow(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func New(stats StatsStore, patterns PatternStore, device ContextProvider, opts ...Option) *Engine {
	e := &Engine{
		stats:    stats,
		patterns: patterns,
		device:   device,
		cfg:      DefaultConfig(),
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RecordCompletion feeds one completion event into the stores: the total
// counter, the calendar streak, and both pattern buckets. Calling it
// twice for the same completion double-counts; callers own that
// contract. Write failures are returned, not absorbed.
func (e *Engine) RecordCompletion(ctx context.Context, at time.Time) error {
	if at.IsZero() {
		return ErrMissingCompletionTime
	}
	if err := e.stats.IncrementCompleted(ctx); err != nil {
		return fmt.Errorf("increment completed: %w", err)
	}
	if _, err := e.stats.UpdateStreak(ctx, at); err != nil {
		return fmt.Errorf("update streak: %w", err)
	}
	if err := e.patterns.RecordCompletionAt(ctx, at); err != nil {
		return fmt.Errorf("record completion pattern: %w", err)
	}
	return nil
}

// SuggestTime returns the single best time for the draft. It only fails
// on an invalid draft; unreadable history or context degrades to the
// priority-based defaults.
func (e *Engine) SuggestTime(ctx context.Context, draft model.TaskDraft) (time.Time, error) {
	if err := draft.Validate(); err != nil {
		return time.Time{}, err
	}
	now := e.now()
	snap := e.currentContext(ctx, "suggest_time")
	hist := e.loadHistory(ctx, "suggest_time")
	return e.pick(draft, snap, hist, now), nil
}

// PredictProbability scores how likely a completion at the candidate
// time is, based on historical patterns and, for near-term candidates,
// the device context. The result is always within [0.1, 0.9] except for
// the exact 0.5 neutral prior under MinSamples.
func (e *Engine) PredictProbability(ctx context.Context, candidate time.Time) float64 {
	snap := e.currentContext(ctx, "predict_probability")
	hist := e.loadHistory(ctx, "predict_probability")
	return e.score(candidate, snap, hist, e.now())
}

// Suggest produces the primary suggestion with a rationale and up to two
// ranked alternatives. One context snapshot is taken at entry and shared
// by every probability computation in the call.
func (e *Engine) Suggest(ctx context.Context, draft model.TaskDraft) (model.Suggestion, error) {
	if err := draft.Validate(); err != nil {
		return model.Suggestion{}, err
	}
	now := e.now()
	snap := e.currentContext(ctx, "suggest")
	hist := e.loadHistory(ctx, "suggest")

	suggested := e.pick(draft, snap, hist, now)

	candidates := make([]model.Alternative, 0, 3)
	if earlier := suggested.Add(-3 * time.Hour); earlier.After(now) {
		candidates = append(candidates, model.Alternative{
			Time:       earlier,
			Confidence: e.score(earlier, snap, hist, now),
			Reason:     "Earlier time slot",
		})
	}
	later := suggested.Add(3 * time.Hour)
	candidates = append(candidates, model.Alternative{
		Time:       later,
		Confidence: e.score(later, snap, hist, now),
		Reason:     "Later time slot",
	})
	nextDay := suggested.Add(24 * time.Hour)
	candidates = append(candidates, model.Alternative{
		Time:       nextDay,
		Confidence: e.score(nextDay, snap, hist, now),
		Reason:     "Next day",
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	if len(candidates) > 2 {
		candidates = candidates[:2]
	}

	return model.Suggestion{
		Time:         suggested,
		Confidence:   e.score(suggested, snap, hist, now),
		Reason:       e.reason(draft.Priority, suggested, hist),
		Alternatives: candidates,
	}, nil
}

// history bundles one consistent read of the persisted aggregates so a
// single public call never mixes two generations of data.
type history struct {
	stats  model.CompletionStats
	hourly model.HourlyPattern
	weekly model.WeeklyPattern
}

func (e *Engine) loadHistory(ctx context.Context, op string) history {
	var hist history
	stats, err := e.stats.Stats(ctx)
	if err != nil {
		e.logger.Warn("completion stats unavailable, using defaults",
			slog.String("operation", op), slog.Any("error", err))
	} else {
		hist.stats = stats
	}
	hourly, err := e.patterns.Hourly(ctx)
	if err != nil {
		e.logger.Warn("hourly pattern unavailable, using defaults",
			slog.String("operation", op), slog.Any("error", err))
	} else {
		hist.hourly = hourly
	}
	weekly, err := e.patterns.Weekly(ctx)
	if err != nil {
		e.logger.Warn("weekly pattern unavailable, using defaults",
			slog.String("operation", op), slog.Any("error", err))
	} else {
		hist.weekly = weekly
	}
	return hist
}

func (e *Engine) currentContext(ctx context.Context, op string) model.ContextSnapshot {
	snap, err := e.device.Snapshot(ctx)
	if err != nil {
		e.logger.Warn("context snapshot unavailable, assuming neutral",
			slog.String("operation", op), slog.Any("error", err))
		return model.NeutralContext()
	}
	if err := snap.Validate(); err != nil {
		e.logger.Warn("context snapshot invalid, assuming neutral",
			slog.String("operation", op), slog.Any("error", err))
		return model.NeutralContext()
	}
	return snap
}

// pick implements the suggestion decision tree: deep-work short-circuit,
// priority defaults while history is thin, then pattern-driven hour and
// day selection with the priority adjustment on top.
func (e *Engine) pick(draft model.TaskDraft, snap model.ContextSnapshot, hist history, now time.Time) time.Time {
	if snap.DeepWorkPossible && draft.Priority == model.PriorityHigh {
		return now.Add(deepWorkLead)
	}
	if hist.stats.TotalCompleted < e.cfg.MinSamples {
		return defaultSuggestion(draft.Priority, now)
	}

	hour, ok := hist.hourly.Top()
	if !ok {
		hour = defaultHour
	}
	offset := dayOffset(draft.Priority, hist.weekly, now)
	suggested := time.Date(now.Year(), now.Month(), now.Day()+offset, hour, 0, 0, 0, now.Location())

	switch draft.Priority {
	case model.PriorityHigh:
		if suggested.Sub(now) > 24*time.Hour {
			suggested = now.Add(highUrgentLead)
		}
	case model.PriorityLow:
		if suggested.Sub(now) < 24*time.Hour {
			suggested = suggested.AddDate(0, 0, 2)
		}
	}
	return suggested
}

func defaultSuggestion(priority model.Priority, now time.Time) time.Time {
	switch priority {
	case model.PriorityHigh:
		return now.Add(2 * time.Hour)
	case model.PriorityMedium:
		day := now.AddDate(0, 0, 1)
		return time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, now.Location())
	default:
		day := now.AddDate(0, 0, 2)
		return time.Date(day.Year(), day.Month(), day.Day(), 14, 0, 0, 0, now.Location())
	}
}

// dayOffset selects how many days ahead the suggestion lands. High
// priority takes the earliest of the top three productive weekdays not
// yet past this week, falling back to today. Medium and low take the
// single most productive weekday and never land today; an offset of
// zero rolls to the same weekday next week. An empty histogram treats
// today as the top day.
func dayOffset(priority model.Priority, weekly model.WeeklyPattern, now time.Time) int {
	today := int(now.Weekday())
	ranked := weekly.Rank()

	if priority == model.PriorityHigh {
		top := ranked
		if len(top) > 3 {
			top = top[:3]
		}
		best := -1
		for _, day := range top {
			if day >= today && (best == -1 || day < best) {
				best = day
			}
		}
		if best == -1 {
			return 0
		}
		return best - today
	}

	top := today
	if len(ranked) > 0 {
		top = ranked[0]
	}
	offset := (top - today + 7) % 7
	if offset == 0 {
		offset = 7
	}
	return offset
}

// score is the probability model. Pattern scores are the candidate's
// bucket count relative to the busiest bucket; context multipliers only
// apply when the candidate is within half an hour of now.
func (e *Engine) score(candidate time.Time, snap model.ContextSnapshot, hist history, now time.Time) float64 {
	if hist.stats.TotalCompleted < e.cfg.MinSamples {
		return neutralProbability
	}

	hourScore := bucketScore(hist.hourly[candidate.Hour()], hist.hourly.Max(), len(hist.hourly))
	dayScore := bucketScore(hist.weekly[int(candidate.Weekday())], hist.weekly.Max(), len(hist.weekly))

	multiplier := 1.0
	if candidate.Sub(now).Abs() < nowWindow {
		if snap.DeepWorkPossible {
			multiplier *= deepWorkBoost
		}
		if snap.BatteryLevel < lowBatteryLevel && !snap.Charging {
			multiplier *= lowBatteryFactor
		}
		if snap.Commuting {
			multiplier *= commutingFactor
		}
	}

	probability := (hourScore*hourWeight + dayScore*dayWeight) * multiplier
	return clamp(probability, minProbability, maxProbability)
}

func bucketScore(count, max, buckets int) float64 {
	if buckets == 0 || max == 0 {
		return neutralProbability
	}
	return float64(count) / float64(max)
}

func (e *Engine) reason(priority model.Priority, suggested time.Time, hist history) string {
	if hist.stats.TotalCompleted < e.cfg.MinSamples {
		return fmt.Sprintf("Based on %s priority", priority)
	}
	return fmt.Sprintf("You're most productive in the %s based on your completion history", dayPeriod(suggested.Hour()))
}

func dayPeriod(hour int) string {
	switch {
	case hour < 12:
		return "morning"
	case hour < 17:
		return "afternoon"
	default:
		return "evening"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
