package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Chepman32/Brio-sub001/internal/model"
)

const (
	sqliteTimeLayout = time.RFC3339Nano
	sqliteDayLayout  = "2006-01-02"
)

// SQLiteRepository implements Repository on a single SQLite database.
// Read-modify-write sequences on the aggregate tables are serialized
// with mu; plain task CRUD relies on database/sql alone.
type SQLiteRepository struct {
	db     *sql.DB
	logger *slog.Logger
	mu     sync.Mutex
}

func NewSQLiteRepository(db *sql.DB, logger *slog.Logger) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db, logger: logger}, nil
}

// OpenSQLite opens (or creates) the database at path, applies pending
// migrations, and returns a ready repository.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, notes, due_date, due_time, category, priority, repeat_kind, repeat_days, reminder_at, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.Title, in.Notes, mustTime(in.DueDate), nullTime(in.DueTime), in.Category, in.Priority,
		in.RepeatKind, joinDays(in.RepeatDays), nullTime(in.ReminderAt), mustTime(in.CreatedAt), nullTime(in.CompletedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, notes, due_date, due_time, category, priority, repeat_kind, repeat_days, reminder_at, created_at, completed_at
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, notes = ?, due_date = ?, due_time = ?, category = ?, priority = ?, repeat_kind = ?, repeat_days = ?, reminder_at = ?, completed_at = ?
		WHERE id = ?`,
		in.Title, in.Notes, mustTime(in.DueDate), nullTime(in.DueTime), in.Category, in.Priority,
		in.RepeatKind, joinDays(in.RepeatDays), nullTime(in.ReminderAt), nullTime(in.CompletedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error) {
	query := `SELECT id, title, notes, due_date, due_time, category, priority, repeat_kind, repeat_days, reminder_at, created_at, completed_at FROM tasks`
	clauses := make([]string, 0, 4)
	args := make([]any, 0, 6)
	if filter.Done != nil {
		if *filter.Done {
			clauses = append(clauses, "completed_at IS NOT NULL")
		} else {
			clauses = append(clauses, "completed_at IS NULL")
		}
	}
	if filter.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Priority != "" {
		clauses = append(clauses, "priority = ?")
		args = append(args, filter.Priority)
	}
	if filter.DueBefore != nil {
		clauses = append(clauses, "due_date <= ?")
		args = append(args, mustTime(*filter.DueBefore))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY due_date ASC, created_at ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

// Stats reads the singleton aggregate row. A missing row reads as the
// zero value so a fresh install behaves like one with no history.
func (r *SQLiteRepository) Stats(ctx context.Context) (model.CompletionStats, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT total_completed, current_streak, longest_streak, last_completion_day
		FROM completion_stats WHERE id = 1`)
	stats, err := scanStats(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.CompletionStats{}, nil
		}
		return model.CompletionStats{}, err
	}
	return stats, nil
}

func (r *SQLiteRepository) IncrementCompleted(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.db.ExecContext(ctx, `
		UPDATE completion_stats SET total_completed = total_completed + 1 WHERE id = 1`)
	return err
}

// UpdateStreak advances the calendar streak for a completion at the
// given time and persists the result. A stored row where longest ran
// below current is clamped up before advancing.
func (r *SQLiteRepository) UpdateStreak(ctx context.Context, at time.Time) (model.CompletionStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, err := r.Stats(ctx)
	if err != nil {
		return model.CompletionStats{}, err
	}
	if fixed, ok := stats.CheckInvariant(); !ok {
		r.logger.Warn("longest streak below current, clamping",
			"current", stats.CurrentStreak, "longest", stats.LongestStreak)
		stats = fixed
	}
	next := stats.AdvanceStreak(at)

	_, err = r.db.ExecContext(ctx, `
		UPDATE completion_stats
		SET current_streak = ?, longest_streak = ?, last_completion_day = ?
		WHERE id = 1`,
		next.CurrentStreak, next.LongestStreak, dayString(next.LastCompletionDay),
	)
	if err != nil {
		return model.CompletionStats{}, err
	}
	return next, nil
}

func (r *SQLiteRepository) Hourly(ctx context.Context) (model.HourlyPattern, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT hour, count FROM hourly_patterns`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(model.HourlyPattern)
	for rows.Next() {
		var hour, count int
		if err := rows.Scan(&hour, &count); err != nil {
			return nil, err
		}
		out[hour] = count
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) Weekly(ctx context.Context) (model.WeeklyPattern, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT weekday, count FROM weekly_patterns`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(model.WeeklyPattern)
	for rows.Next() {
		var weekday, count int
		if err := rows.Scan(&weekday, &count); err != nil {
			return nil, err
		}
		out[weekday] = count
	}
	return out, rows.Err()
}

// RecordCompletionAt bumps the hour-of-day and day-of-week buckets for
// one completion in a single transaction so the two histograms cannot
// drift apart.
func (r *SQLiteRepository) RecordCompletionAt(ctx context.Context, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin pattern update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO hourly_patterns (hour, count) VALUES (?, 1)
		ON CONFLICT(hour) DO UPDATE SET count = count + 1`, at.Hour()); err != nil {
		return fmt.Errorf("bump hourly bucket: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO weekly_patterns (weekday, count) VALUES (?, 1)
		ON CONFLICT(weekday) DO UPDATE SET count = count + 1`, int(at.Weekday())); err != nil {
		return fmt.Errorf("bump weekday bucket: %w", err)
	}
	return tx.Commit()
}

func (r *SQLiteRepository) Achievements(ctx context.Context) ([]model.AchievementState, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, progress, unlocked, unlocked_at FROM achievements ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.AchievementState, 0)
	for rows.Next() {
		item, scanErr := scanAchievement(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) SaveAchievement(ctx context.Context, in model.AchievementState) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO achievements (id, progress, unlocked, unlocked_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE
		SET progress = excluded.progress, unlocked = excluded.unlocked, unlocked_at = excluded.unlocked_at`,
		in.ID, in.Progress, boolInt(in.Unlocked), nullTime(in.UnlockedAt),
	)
	return err
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func dayString(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.Format(sqliteDayLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func joinDays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, 0, len(days))
	for _, d := range days {
		parts = append(parts, strconv.Itoa(d))
	}
	return strings.Join(parts, ",")
}

func splitDays(v string) ([]int, error) {
	if v == "" {
		return nil, nil
	}
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("parse repeat days %q: %w", v, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var due string
	var dueTime sql.NullString
	var repeatDays string
	var reminder sql.NullString
	var created string
	var completed sql.NullString
	if err := s.Scan(&out.ID, &out.Title, &out.Notes, &due, &dueTime, &out.Category, &out.Priority,
		&out.RepeatKind, &repeatDays, &reminder, &created, &completed); err != nil {
		return Task{}, err
	}
	dueDate, err := parseRequiredTime(due)
	if err != nil {
		return Task{}, err
	}
	dueAt, err := parseNullableTime(dueTime)
	if err != nil {
		return Task{}, err
	}
	days, err := splitDays(repeatDays)
	if err != nil {
		return Task{}, err
	}
	reminderAt, err := parseNullableTime(reminder)
	if err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	completedAt, err := parseNullableTime(completed)
	if err != nil {
		return Task{}, err
	}
	out.DueDate = dueDate
	out.DueTime = dueAt
	out.RepeatDays = days
	out.ReminderAt = reminderAt
	out.CreatedAt = createdAt
	out.CompletedAt = completedAt
	return out, nil
}

func scanStats(s scanner) (model.CompletionStats, error) {
	var out model.CompletionStats
	var day sql.NullString
	if err := s.Scan(&out.TotalCompleted, &out.CurrentStreak, &out.LongestStreak, &day); err != nil {
		return model.CompletionStats{}, err
	}
	if day.Valid && day.String != "" {
		parsed, err := time.ParseInLocation(sqliteDayLayout, day.String, time.Local)
		if err != nil {
			return model.CompletionStats{}, fmt.Errorf("parse streak anchor %q: %w", day.String, err)
		}
		out.LastCompletionDay = parsed
	}
	return out, nil
}

func scanAchievement(s scanner) (model.AchievementState, error) {
	var out model.AchievementState
	var unlocked int
	var unlockedAt sql.NullString
	if err := s.Scan(&out.ID, &out.Progress, &unlocked, &unlockedAt); err != nil {
		return model.AchievementState{}, err
	}
	at, err := parseNullableTime(unlockedAt)
	if err != nil {
		return model.AchievementState{}, err
	}
	out.Unlocked = unlocked == 1
	out.UnlockedAt = at
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
