package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Chepman32/Brio-sub001/internal/model"
)

var ErrNotFound = errors.New("storage: not found")

// Repository is the full persistence contract. Completion stats and
// pattern histograms are returned as model aggregates directly since
// they have no storage-specific shape of their own.
type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)

	Stats(ctx context.Context) (model.CompletionStats, error)
	IncrementCompleted(ctx context.Context) error
	UpdateStreak(ctx context.Context, at time.Time) (model.CompletionStats, error)

	Hourly(ctx context.Context) (model.HourlyPattern, error)
	Weekly(ctx context.Context) (model.WeeklyPattern, error)
	RecordCompletionAt(ctx context.Context, at time.Time) error

	Achievements(ctx context.Context) ([]model.AchievementState, error)
	SaveAchievement(ctx context.Context, in model.AchievementState) error
}
