package update

import (
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Chepman32/Brio-sub001/internal/model"
	"github.com/Chepman32/Brio-sub001/internal/storage"
)

func (m Model) handleTodayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.Today.Cursor++
		m.clampTodayCursor()
		m.syncSelectedTaskToTodayCursor()
		return m, nil
	case "k", "up":
		m.Today.Cursor--
		m.clampTodayCursor()
		m.syncSelectedTaskToTodayCursor()
		return m, nil
	case "x", "enter":
		row, ok := m.currentTodayRow()
		if !ok {
			return m, nil
		}
		cmd := m.completeTaskCmd(row.ID)
		if cmd == nil {
			m.Status = StatusBar{Text: "no storage attached", IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: fmt.Sprintf("completing: %s", row.Title)}
		return m, cmd
	case "D":
		row, ok := m.currentTodayRow()
		if !ok {
			return m, nil
		}
		cmd := m.deleteTaskCmd(row.ID)
		if cmd == nil {
			m.Status = StatusBar{Text: "no storage attached", IsError: true}
			return m, nil
		}
		return m, cmd
	case "p":
		row, ok := m.currentTodayRow()
		if !ok {
			m = m.enterPlanView()
			return m, nil
		}
		m = m.enterPlanViewWithDraft(draftFromRow(row))
		return m, nil
	case "r":
		return m, m.loadTasksCmd()
	}
	return m, nil
}

func (m *Model) ensureTodayState() {
	if m.Today.Cursor < 0 {
		m.Today.Cursor = 0
	}
	if m.Today.Cursor >= len(m.Today.Rows) && len(m.Today.Rows) > 0 {
		m.Today.Cursor = len(m.Today.Rows) - 1
	}
}

func (m *Model) clampTodayCursor() {
	if m.Today.Cursor < 0 {
		m.Today.Cursor = 0
	}
	if len(m.Today.Rows) == 0 {
		m.Today.Cursor = 0
		return
	}
	if m.Today.Cursor >= len(m.Today.Rows) {
		m.Today.Cursor = len(m.Today.Rows) - 1
	}
}

func (m *Model) syncSelectedTaskToTodayCursor() {
	if row, ok := m.currentTodayRow(); ok {
		m.SelectedTaskID = row.ID
		return
	}
	m.SelectedTaskID = ""
}

func (m Model) currentTodayRow() (storage.Task, bool) {
	if len(m.Today.Rows) == 0 || m.Today.Cursor < 0 || m.Today.Cursor >= len(m.Today.Rows) {
		return storage.Task{}, false
	}
	return m.Today.Rows[m.Today.Cursor], true
}

func todayBucketOf(row storage.Task, now time.Time) TodayBucket {
	due := dueMoment(row)
	if due.Before(now) {
		return TodayBucketOverdue
	}
	if model.DayOf(due).Equal(model.DayOf(now)) {
		return TodayBucketDueToday
	}
	return TodayBucketUpcoming
}

// sortTasksForToday orders rows the way the list shows them: overdue
// first, then due today, then upcoming; ties break on due moment and
// title so the ordering is stable across reloads.
func sortTasksForToday(rows []storage.Task, now time.Time) []storage.Task {
	out := make([]storage.Task, len(rows))
	copy(out, rows)
	rank := map[TodayBucket]int{
		TodayBucketOverdue:  0,
		TodayBucketDueToday: 1,
		TodayBucketUpcoming: 2,
	}
	sort.SliceStable(out, func(i, j int) bool {
		bi, bj := rank[todayBucketOf(out[i], now)], rank[todayBucketOf(out[j], now)]
		if bi != bj {
			return bi < bj
		}
		di, dj := dueMoment(out[i]), dueMoment(out[j])
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return out[i].Title < out[j].Title
	})
	return out
}

func draftFromRow(row storage.Task) model.TaskDraft {
	priority := model.Priority(row.Priority)
	if !priority.IsValid() {
		priority = model.PriorityMedium
	}
	return model.TaskDraft{
		Title:    row.Title,
		Notes:    row.Notes,
		DueDate:  row.DueDate,
		DueTime:  row.DueTime,
		Category: row.Category,
		Priority: priority,
	}
}
