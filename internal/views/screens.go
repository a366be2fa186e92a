package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	ID       string
	Title    string
	Priority string
	Category string
	Due      string
	Bucket   string
}

type TodayPanelData struct {
	ListView   string
	Rows       []TaskRowData
	SelectedID string
}

type AlternativeData struct {
	When       string
	Confidence int
	Reason     string
}

type SuggestionViewData struct {
	When         string
	Confidence   int
	Reason       string
	Alternatives []AlternativeData
}

type PlanPanelData struct {
	Stage       string
	Title       string
	FormView    string
	SpinnerView string
	Result      *SuggestionViewData
	AltCursor   int
}

type StatsPanelData struct {
	Loaded            bool
	TotalCompleted    int
	CurrentStreak     int
	LongestStreak     int
	LastCompletionDay string
	HourlyChart       string
	WeeklyChart       string
	TopHoursView      string
}

type AwardRowData struct {
	Name        string
	Description string
	Bar         string
	Pct         int
	Unlocked    bool
	UnlockedAt  string
}

type AwardsPanelData struct {
	Loaded bool
	Rows   []AwardRowData
	Cursor int
}

type TaskDetailData struct {
	SelectedID   string
	Priority     string
	Category     string
	RepeatKind   string
	Due          string
	NotesView    string
	MarkdownView string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderTodayPanel(data TodayPanelData) string {
	overdue := make([]TaskRowData, 0)
	today := make([]TaskRowData, 0)
	upcoming := make([]TaskRowData, 0)
	for _, row := range data.Rows {
		switch row.Bucket {
		case "Overdue":
			overdue = append(overdue, row)
		case "Today":
			today = append(today, row)
		default:
			upcoming = append(upcoming, row)
		}
	}

	var b strings.Builder
	b.WriteString("today:\n")
	b.WriteString("actions: [j/k]move [x]done [p]plan [D]delete [r]refresh\n")
	if data.ListView != "" {
		b.WriteString(data.ListView + "\n")
	}
	renderTaskSection(&b, "Overdue", overdue, data.SelectedID)
	renderTaskSection(&b, "Today", today, data.SelectedID)
	renderTaskSection(&b, "Upcoming", upcoming, data.SelectedID)
	return strings.TrimSpace(b.String())
}

func renderTaskSection(b *strings.Builder, title string, rows []TaskRowData, selectedID string) {
	b.WriteString(fmt.Sprintf("\n%s:\n", title))
	if len(rows) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, row := range rows {
		cursor := " "
		if selectedID == row.ID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s", cursor, priorityBadge(row.Priority), row.Title))
		if row.Due != "" {
			b.WriteString(fmt.Sprintf(" due:%s", row.Due))
		}
		if row.Category != "" {
			b.WriteString(fmt.Sprintf(" #%s", row.Category))
		}
		b.WriteString("\n")
	}
}

func priorityBadge(priority string) string {
	switch strings.ToLower(priority) {
	case "high":
		return "[HIGH]"
	case "low":
		return "[LOW]"
	default:
		return "[MED]"
	}
}

func RenderPlanPanel(data PlanPanelData) string {
	var b strings.Builder
	b.WriteString("plan:\n")
	switch data.Stage {
	case "loading":
		b.WriteString(fmt.Sprintf("suggesting a time for %q...\n", data.Title))
		b.WriteString(data.SpinnerView)
	case "result":
		b.WriteString(fmt.Sprintf("task: %s\n", data.Title))
		if data.Result != nil {
			cursor := " "
			if data.AltCursor == 0 {
				cursor = ">"
			}
			b.WriteString(fmt.Sprintf("%s suggested: %s (%d%% likely)\n", cursor, data.Result.When, data.Result.Confidence))
			b.WriteString(fmt.Sprintf("  why: %s\n", data.Result.Reason))
			if len(data.Result.Alternatives) > 0 {
				b.WriteString("alternatives:\n")
				for i, alt := range data.Result.Alternatives {
					cursor := " "
					if data.AltCursor == i+1 {
						cursor = ">"
					}
					b.WriteString(fmt.Sprintf("%s %d. %s (%d%%) %s\n", cursor, i+1, alt.When, alt.Confidence, alt.Reason))
				}
			}
		}
		b.WriteString("actions: [enter]accept [j/k]choose [r]retry [esc]edit")
	default:
		b.WriteString("actions: [tab]next field [enter]suggest [esc]leave form\n")
		b.WriteString(data.FormView)
	}
	return strings.TrimSpace(b.String())
}

func RenderStatsPanel(data StatsPanelData) string {
	if !data.Loaded {
		return "stats:\n(loading history...)"
	}
	var b strings.Builder
	b.WriteString("stats:\n")
	b.WriteString(fmt.Sprintf("completed: %d total\n", data.TotalCompleted))
	b.WriteString(fmt.Sprintf("streak: %d days (best %d)\n", data.CurrentStreak, data.LongestStreak))
	if data.LastCompletionDay != "" {
		b.WriteString(fmt.Sprintf("last completion: %s\n", data.LastCompletionDay))
	}
	if data.HourlyChart != "" {
		b.WriteString("\nby hour:\n")
		b.WriteString(data.HourlyChart + "\n")
	}
	if data.WeeklyChart != "" {
		b.WriteString("\nby weekday:\n")
		b.WriteString(data.WeeklyChart + "\n")
	}
	if data.TopHoursView != "" {
		b.WriteString("\ntop hours:\n")
		b.WriteString(data.TopHoursView)
	}
	return strings.TrimSpace(b.String())
}

func RenderAwardsPanel(data AwardsPanelData) string {
	if !data.Loaded {
		return "awards:\n(loading achievements...)"
	}
	var b strings.Builder
	b.WriteString("awards:\n")
	if len(data.Rows) == 0 {
		b.WriteString("(none)")
		return b.String()
	}
	for i, row := range data.Rows {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		if row.Unlocked {
			b.WriteString(fmt.Sprintf("%s * %s - %s", cursor, row.Name, row.Description))
			if row.UnlockedAt != "" {
				b.WriteString(fmt.Sprintf(" (unlocked %s)", row.UnlockedAt))
			}
			b.WriteString("\n")
			continue
		}
		b.WriteString(fmt.Sprintf("%s   %s %s %d%%\n", cursor, row.Name, row.Bar, row.Pct))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderTaskDetailPane(data TaskDetailData) string {
	var b strings.Builder
	b.WriteString("detail:\n")
	b.WriteString(fmt.Sprintf("id: %s\n", data.SelectedID))
	b.WriteString(fmt.Sprintf("priority: %s", data.Priority))
	if data.Category != "" {
		b.WriteString(fmt.Sprintf(" #%s", data.Category))
	}
	if data.Due != "" {
		b.WriteString(fmt.Sprintf(" due:%s", data.Due))
	}
	b.WriteString("\n")
	if data.RepeatKind != "" && data.RepeatKind != "none" {
		b.WriteString(fmt.Sprintf("repeats: %s\n", data.RepeatKind))
	}
	b.WriteString("notes:\n")
	b.WriteString(data.NotesView + "\n")
	b.WriteString("preview:\n")
	b.WriteString(data.MarkdownView)
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	var b strings.Builder
	b.WriteString("help:\n")
	b.WriteString(fmt.Sprintf("view: %s\n", strings.ToLower(data.CurrentView)))
	for _, binding := range data.Bindings {
		b.WriteString("  " + binding + "\n")
	}
	if data.HelpView != "" {
		b.WriteString(data.HelpView)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
