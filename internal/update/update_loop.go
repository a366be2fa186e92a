package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Chepman32/Brio-sub001/internal/scheduler"
	"github.com/Chepman32/Brio-sub001/internal/views"
)

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.Services.Scheduler != nil {
		cmds = append(cmds, waitForPlanEventCmd(m.Services.Scheduler.C()))
	}
	if cmd := m.loadTasksCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		m.ensureTodayState()

		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}

		keyStr := typed.String()
		if m.planFormCapturing() && keyStr != "ctrl+c" {
			return m.handlePlanKey(typed)
		}

		switch keyStr {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Today:
			m.CurrentView = ViewToday
			return m, m.loadTasksCmd()
		case m.Keys.Plan:
			m = m.enterPlanView()
			return m, nil
		case m.Keys.Stats:
			m.CurrentView = ViewStats
			return m, m.loadStatsCmd()
		case m.Keys.Awards:
			m.CurrentView = ViewAwards
			return m, m.loadAwardsCmd()
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		switch m.CurrentView {
		case ViewToday:
			return m.handleTodayKey(typed)
		case ViewPlan:
			return m.handlePlanKey(typed)
		case ViewStats:
			return m.handleStatsKey(typed)
		case ViewAwards:
			return m.handleAwardsKey(typed)
		}
	case spinner.TickMsg:
		if m.Plan.Stage == PlanStageLoading {
			var cmd tea.Cmd
			m.planSpinner, cmd = m.planSpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if !isKnownView(typed.View) {
			return m, nil
		}
		switch typed.View {
		case ViewPlan:
			m = m.enterPlanView()
			return m, nil
		case ViewStats:
			m.CurrentView = ViewStats
			return m, m.loadStatsCmd()
		case ViewAwards:
			m.CurrentView = ViewAwards
			return m, m.loadAwardsCmd()
		default:
			m.CurrentView = typed.View
			return m, m.loadTasksCmd()
		}
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		if m.Plan.Stage == PlanStageLoading {
			m.Plan.Stage = PlanStageForm
		}
		return m, nil
	case TasksLoadedMsg:
		m.Today.Rows = sortTasksForToday(typed.Tasks, m.now())
		m.Today.Loaded = true
		m.clampTodayCursor()
		m.syncSelectedTaskToTodayCursor()
		return m, nil
	case TaskSavedMsg:
		m.Status = StatusBar{Text: fmt.Sprintf("task saved: %s", typed.Task.Title)}
		m.notify("Task", m.Status.Text, "info")
		m.CurrentView = ViewToday
		return m, m.loadTasksCmd()
	case TaskCompletedMsg:
		m.Status = StatusBar{Text: completionStatusText(typed)}
		m.notify("Done", m.Status.Text, "info")
		m.Stats.Loaded = false
		m.Awards.Loaded = false
		return m, m.loadTasksCmd()
	case TaskDeletedMsg:
		m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", typed.Title)}
		m.notify("Task", m.Status.Text, "info")
		return m, m.loadTasksCmd()
	case SuggestionReadyMsg:
		m.Plan.Stage = PlanStageResult
		m.Plan.Suggestion = typed.Suggestion
		m.Plan.AltCursor = 0
		m.Status = StatusBar{Text: fmt.Sprintf("suggestion ready for %q", typed.Title)}
		return m, nil
	case StatsLoadedMsg:
		m.applyStats(typed)
		return m, nil
	case AwardsLoadedMsg:
		m.applyAwards(typed.States)
		return m, nil
	case ExportDoneMsg:
		m.Status = StatusBar{Text: fmt.Sprintf("exported %s to %s", typed.Format, typed.Path)}
		m.notify("Export", m.Status.Text, "info")
		return m, nil
	case PlanEventMsg:
		m.EventLog = append(m.EventLog, typed.Event)
		if len(m.EventLog) > 20 {
			m.EventLog = m.EventLog[len(m.EventLog)-20:]
		}
		m.notifyForPlanEvent(typed.Event)
		if m.Services.Scheduler != nil {
			return m, waitForPlanEventCmd(m.Services.Scheduler.C())
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	m.syncBubbleData()

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewToday:
		leftPane = m.renderTodayView()
		rightPane = m.renderTaskDetailPane() + m.renderHelpIfVisible()
	case ViewPlan:
		leftPane = m.renderPlanView()
		rightPane = m.renderCommandPalette() + m.renderHelpIfVisible()
	case ViewStats:
		leftPane = m.renderStatsView()
		rightPane = m.renderHelpIfVisible()
	case ViewAwards:
		leftPane = m.renderAwardsView()
		rightPane = m.renderHelpIfVisible()
	}

	notificationView := ""
	if len(m.EventLog) > 0 {
		last := m.EventLog[len(m.EventLog)-1]
		notificationView = fmt.Sprintf("last-event: %s %s @ %s", last.Kind, last.Title, last.TriggerAt.Format("15:04:05"))
	}
	if m.Plan.Stage == PlanStageLoading {
		notificationView = strings.TrimSpace(strings.Join([]string{notificationView, "planner: " + m.planSpinner.View() + " thinking"}, "\n"))
	}
	notificationView = strings.TrimSpace(strings.Join([]string{
		notificationView,
		strings.TrimSpace(m.renderNotificationsView()),
	}, "\n"))

	footer := ""
	if m.showHints {
		footer = fmt.Sprintf("keys: %s today | %s plan | %s stats | %s awards | / cmd | %s help | %s quit",
			m.Keys.Today, m.Keys.Plan, m.Keys.Stats, m.Keys.Awards, m.Keys.Help, m.Keys.Quit)
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("brio | view: %s | selected: %s", m.CurrentView, m.SelectedTaskID),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		Notification: notificationView,
		Footer:       footer,
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewToday, ViewPlan, ViewStats, ViewAwards:
		return true
	default:
		return false
	}
}

func completionStatusText(msg TaskCompletedMsg) string {
	text := fmt.Sprintf("completed: %s (streak %d)", msg.Task.Title, msg.Stats.CurrentStreak)
	if msg.NextDue != nil {
		text += fmt.Sprintf(", next on %s", msg.NextDue.DueDate.Format("2006-01-02"))
	}
	return text
}

func (m *Model) notifyForPlanEvent(ev scheduler.PlanEvent) {
	switch ev.Kind {
	case scheduler.KindAchievement:
		m.notify("Achievement", fmt.Sprintf("achievement unlocked: %s", ev.Title), "info")
	case scheduler.KindSuggested:
		m.notify("Plan", fmt.Sprintf("suggested slot: %s", ev.Title), "info")
	default:
		m.notify("Due", fmt.Sprintf("due now: %s", ev.Title), "info")
	}
}
