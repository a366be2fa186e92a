package update

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/Chepman32/Brio-sub001/internal/achievements"
	"github.com/Chepman32/Brio-sub001/internal/export"
	"github.com/Chepman32/Brio-sub001/internal/model"
	"github.com/Chepman32/Brio-sub001/internal/scheduler"
	"github.com/Chepman32/Brio-sub001/internal/storage"
)

// The tea.Cmd factories below capture the services they need before the
// closure runs so a later model copy cannot change what they see. Every
// factory returns nil when its backend is absent.

func (m Model) loadTasksCmd() tea.Cmd {
	repo := m.Services.Repo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		pending := false
		rows, err := repo.ListTasks(context.Background(), storage.TaskListFilter{Done: &pending})
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return TasksLoadedMsg{Tasks: rows}
	}
}

func (m Model) saveTaskCmd(row storage.Task, suggestedFor *time.Time) tea.Cmd {
	repo := m.Services.Repo
	sched := m.Services.Scheduler
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		if err := repo.CreateTask(ctx, row); err != nil {
			return AppErrorMsg{Err: err}
		}
		if sched != nil && suggestedFor != nil {
			ev := scheduler.PlanEvent{
				ID:        uuid.NewString(),
				TaskID:    row.ID,
				Title:     row.Title,
				Kind:      scheduler.KindSuggested,
				TriggerAt: *suggestedFor,
			}
			if err := sched.Schedule(ev); err != nil {
				return AppErrorMsg{Err: fmt.Errorf("schedule suggested slot: %w", err)}
			}
		}
		return TaskSavedMsg{Task: row}
	}
}

func (m Model) completeTaskCmd(id string) tea.Cmd {
	repo := m.Services.Repo
	plan := m.Services.Planner
	awards := m.Services.Awards
	sched := m.Services.Scheduler
	now := m.now
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		row, err := repo.GetTask(ctx, id)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		if row.CompletedAt != nil {
			return SetStatusMsg{Text: fmt.Sprintf("already done: %s", row.Title)}
		}

		at := now()
		row.CompletedAt = &at
		if err := repo.UpdateTask(ctx, row); err != nil {
			return AppErrorMsg{Err: err}
		}
		if plan != nil {
			if err := plan.RecordCompletion(ctx, at); err != nil {
				return AppErrorMsg{Err: err}
			}
		}

		out := TaskCompletedMsg{Task: row}
		if stats, err := repo.Stats(ctx); err == nil {
			out.Stats = stats
		}
		if awards != nil {
			unlocked, err := awards.Evaluate(ctx)
			if err != nil {
				return AppErrorMsg{Err: err}
			}
			out.Unlocked = unlocked
		}
		if sched != nil {
			out.Cancelled = sched.CancelTask(row.ID)
			for _, def := range out.Unlocked {
				_ = sched.Schedule(scheduler.PlanEvent{
					ID:        uuid.NewString(),
					Title:     def.Name,
					Kind:      scheduler.KindAchievement,
					TriggerAt: at,
				})
			}
		}

		next, ok := nextOccurrence(row, at)
		if ok {
			if err := repo.CreateTask(ctx, next); err != nil {
				return AppErrorMsg{Err: err}
			}
			if sched != nil {
				_ = sched.Schedule(scheduler.PlanEvent{
					ID:        uuid.NewString(),
					TaskID:    next.ID,
					Title:     next.Title,
					Kind:      scheduler.KindDue,
					TriggerAt: dueMoment(next),
				})
			}
			out.NextDue = &next
		}
		return out
	}
}

func (m Model) deleteTaskCmd(id string) tea.Cmd {
	repo := m.Services.Repo
	sched := m.Services.Scheduler
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		row, err := repo.GetTask(ctx, id)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		if err := repo.DeleteTask(ctx, id); err != nil {
			return AppErrorMsg{Err: err}
		}
		out := TaskDeletedMsg{ID: id, Title: row.Title}
		if sched != nil {
			out.Cancelled = sched.CancelTask(id)
		}
		return out
	}
}

func (m Model) suggestCmd(draft model.TaskDraft) tea.Cmd {
	plan := m.Services.Planner
	if plan == nil {
		return nil
	}
	return func() tea.Msg {
		suggestion, err := plan.Suggest(context.Background(), draft)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return SuggestionReadyMsg{Title: draft.Title, Suggestion: suggestion}
	}
}

func (m Model) loadStatsCmd() tea.Cmd {
	repo := m.Services.Repo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		stats, err := repo.Stats(ctx)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		hourly, err := repo.Hourly(ctx)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		weekly, err := repo.Weekly(ctx)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return StatsLoadedMsg{Stats: stats, Hourly: hourly, Weekly: weekly}
	}
}

func (m Model) loadAwardsCmd() tea.Cmd {
	repo := m.Services.Repo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		states, err := repo.Achievements(context.Background())
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return AwardsLoadedMsg{States: states}
	}
}

func (m Model) exportCmd(format, path string) tea.Cmd {
	repo := m.Services.Repo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		snap := export.Snapshot{}
		var err error
		if snap.Stats, err = repo.Stats(ctx); err != nil {
			return AppErrorMsg{Err: err}
		}
		if snap.Hourly, err = repo.Hourly(ctx); err != nil {
			return AppErrorMsg{Err: err}
		}
		if snap.Weekly, err = repo.Weekly(ctx); err != nil {
			return AppErrorMsg{Err: err}
		}
		if snap.Achievements, err = repo.Achievements(ctx); err != nil {
			return AppErrorMsg{Err: err}
		}

		switch format {
		case "csv":
			err = export.ToCSV(snap, path)
		default:
			names := make(map[string]string)
			for _, def := range achievements.Catalog() {
				names[def.ID] = def.Name
			}
			err = export.ToJSON(snap, names, path)
		}
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return ExportDoneMsg{Format: format, Path: path}
	}
}

func waitForPlanEventCmd(ch <-chan scheduler.PlanEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return PlanEventMsg{Event: ev}
	}
}

// nextOccurrence builds the follow-up row for a just-completed repeating
// task. The repeat clock anchors on the due moment, not the completion
// moment, so habitual slots stay put.
func nextOccurrence(row storage.Task, completedAt time.Time) (storage.Task, bool) {
	rule := repeatRuleOf(row)
	if !rule.Repeats() {
		return storage.Task{}, false
	}
	anchor := dueMoment(row)
	nextAt, ok := rule.NextAfter(anchor)
	if !ok {
		return storage.Task{}, false
	}
	for !nextAt.After(completedAt) {
		step, stepOK := rule.NextAfter(nextAt)
		if !stepOK || !step.After(nextAt) {
			break
		}
		nextAt = step
	}

	next := row
	next.ID = uuid.NewString()
	next.DueDate = model.DayOf(nextAt)
	next.CompletedAt = nil
	next.CreatedAt = completedAt
	if row.DueTime != nil {
		t := nextAt
		next.DueTime = &t
	} else {
		next.DueTime = nil
	}
	if row.ReminderAt != nil {
		lead := dueMoment(row).Sub(*row.ReminderAt)
		r := nextAt.Add(-lead)
		next.ReminderAt = &r
	}
	return next, true
}

func repeatRuleOf(row storage.Task) model.RepeatRule {
	kind := model.RepeatKind(row.RepeatKind)
	if !kind.IsValid() {
		kind = model.RepeatNone
	}
	days := make([]time.Weekday, 0, len(row.RepeatDays))
	for _, d := range row.RepeatDays {
		days = append(days, time.Weekday(d))
	}
	return model.RepeatRule{Kind: kind, Weekdays: days}
}

// dueMoment is the instant a task is due: the explicit due time when one
// is set, otherwise end of the due day.
func dueMoment(row storage.Task) time.Time {
	if row.DueTime != nil {
		return *row.DueTime
	}
	y, mo, d := row.DueDate.Date()
	return time.Date(y, mo, d, 23, 59, 0, 0, row.DueDate.Location())
}
