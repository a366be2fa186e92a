package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/Chepman32/Brio-sub001/internal/storage"
	"github.com/Chepman32/Brio-sub001/internal/views"
)

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

func (m Model) renderTodayView() string {
	if !m.Today.Loaded && m.Services.Repo != nil {
		return "today:\n(loading tasks...)"
	}
	now := m.now()
	rows := make([]views.TaskRowData, 0, len(m.Today.Rows))
	for _, row := range m.Today.Rows {
		rows = append(rows, views.TaskRowData{
			ID:       row.ID,
			Title:    row.Title,
			Priority: row.Priority,
			Category: row.Category,
			Due:      formatDue(row, now),
			Bucket:   string(todayBucketOf(row, now)),
		})
	}
	return views.RenderTodayPanel(views.TodayPanelData{
		ListView:   m.todayList.View(),
		Rows:       rows,
		SelectedID: m.SelectedTaskID,
	})
}

func (m Model) renderTaskDetailPane() string {
	row, ok := m.currentTodayRow()
	if !ok {
		return "detail:\n(no selection)"
	}
	return views.RenderTaskDetailPane(views.TaskDetailData{
		SelectedID:   row.ID,
		Priority:     row.Priority,
		Category:     row.Category,
		RepeatKind:   row.RepeatKind,
		Due:          formatDue(row, m.now()),
		NotesView:    m.notesArea.View(),
		MarkdownView: m.detailView.View(),
	})
}

func (m Model) renderPlanView() string {
	data := views.PlanPanelData{
		Stage:       string(m.Plan.Stage),
		Title:       m.Plan.Draft.Title,
		SpinnerView: m.planSpinner.View(),
		AltCursor:   m.Plan.AltCursor,
	}
	if m.Plan.Stage == PlanStageForm {
		data.Title = strings.TrimSpace(m.titleInput.Value())
		data.FormView = m.renderPlanForm()
	}
	if m.Plan.Stage == PlanStageResult {
		s := m.Plan.Suggestion
		result := views.SuggestionViewData{
			When:       s.Time.Format("Mon Jan 2 15:04"),
			Confidence: percentOf(s.Confidence),
			Reason:     s.Reason,
		}
		for _, alt := range s.Alternatives {
			result.Alternatives = append(result.Alternatives, views.AlternativeData{
				When:       alt.Time.Format("Mon Jan 2 15:04"),
				Confidence: percentOf(alt.Confidence),
				Reason:     alt.Reason,
			})
		}
		data.Result = &result
	}
	return views.RenderPlanPanel(data)
}

func (m Model) renderPlanForm() string {
	marker := func(field int) string {
		if m.Plan.Focus == field {
			return ">"
		}
		return " "
	}
	lines := []string{
		fmt.Sprintf("%s title:    %s", marker(planFieldTitle), m.titleInput.View()),
		fmt.Sprintf("%s notes:    %s", marker(planFieldNotes), m.notesInput.View()),
		fmt.Sprintf("%s category: %s", marker(planFieldCategory), m.categoryInput.View()),
		fmt.Sprintf("%s due:      %s", marker(planFieldDue), m.dueInput.View()),
		fmt.Sprintf("%s priority: %s (j/k to change)", marker(planFieldPriority), m.Plan.Priority),
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatsView() string {
	return views.RenderStatsPanel(views.StatsPanelData{
		Loaded:            m.Stats.Loaded,
		TotalCompleted:    m.Stats.Stats.TotalCompleted,
		CurrentStreak:     m.Stats.Stats.CurrentStreak,
		LongestStreak:     m.Stats.Stats.LongestStreak,
		LastCompletionDay: formatDay(m.Stats.Stats.LastCompletionDay),
		HourlyChart:       m.Stats.HourlyChart,
		WeeklyChart:       m.Stats.WeeklyChart,
		TopHoursView:      m.topHoursTable.View(),
	})
}

func (m Model) renderAwardsView() string {
	rows := make([]views.AwardRowData, 0, len(m.Awards.Rows))
	for _, row := range m.Awards.Rows {
		data := views.AwardRowData{
			Name:        row.Definition.Name,
			Description: row.Definition.Description,
			Bar:         m.awardProgress.ViewAs(row.State.Progress),
			Pct:         percentOf(row.State.Progress),
			Unlocked:    row.State.Unlocked,
		}
		if row.State.UnlockedAt != nil {
			data.UnlockedAt = row.State.UnlockedAt.Format("2006-01-02")
		}
		rows = append(rows, data)
	}
	return views.RenderAwardsPanel(views.AwardsPanelData{
		Loaded: m.Awards.Loaded,
		Rows:   rows,
		Cursor: m.Awards.Cursor,
	})
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		_ = m.notifier.Send(n)
	}
}

func formatDue(row storage.Task, now time.Time) string {
	if row.DueTime != nil {
		if sameDay(*row.DueTime, now) {
			return row.DueTime.Format("15:04")
		}
		return row.DueTime.Format("Jan 2 15:04")
	}
	if row.DueDate.IsZero() {
		return ""
	}
	if sameDay(row.DueDate, now) {
		return "today"
	}
	return row.DueDate.Format("Jan 2")
}

func formatDay(day time.Time) string {
	if day.IsZero() {
		return ""
	}
	return day.Format("2006-01-02")
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func percentOf(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 100
	}
	return int(v*100 + 0.5)
}
