package update

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/Chepman32/Brio-sub001/internal/achievements"
	"github.com/Chepman32/Brio-sub001/internal/model"
	"github.com/Chepman32/Brio-sub001/internal/planner"
	"github.com/Chepman32/Brio-sub001/internal/scheduler"
	"github.com/Chepman32/Brio-sub001/internal/storage"
)

type View string

const (
	ViewToday  View = "Today"
	ViewPlan   View = "Plan"
	ViewStats  View = "Stats"
	ViewAwards View = "Awards"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Today  string
	Plan   string
	Stats  string
	Awards string
	Help   string
	Quit   string
}

// Services are the backends the UI drives. A zero Services value leaves
// the model in a detached mode where every data command becomes a no-op;
// tests and the demo path rely on that.
type Services struct {
	Repo      storage.Repository
	Planner   *planner.Engine
	Awards    *achievements.Evaluator
	Scheduler *scheduler.Engine
}

type Model struct {
	CurrentView    View
	SelectedTaskID string
	Services       Services
	Today          TodayState
	Plan           PlanState
	Stats          StatsState
	Awards         AwardsState
	Palette        CommandPaletteState
	HelpVisible    bool
	Notifications  []Notification
	DesktopEnabled bool
	notifier       DesktopNotifier
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error
	EventLog       []scheduler.PlanEvent
	now            func() time.Time
	showHints      bool
	// Bubble components used for rich TUI controls
	todayList     list.Model
	topHoursTable table.Model
	commandInput  textinput.Model
	titleInput    textinput.Model
	notesInput    textinput.Model
	categoryInput textinput.Model
	dueInput      textinput.Model
	notesArea     textarea.Model
	detailView    viewport.Model
	helpViewport  viewport.Model
	awardProgress progress.Model
	planSpinner   spinner.Model
	helpModel     help.Model
}

type TodayBucket string

const (
	TodayBucketOverdue  TodayBucket = "Overdue"
	TodayBucketDueToday TodayBucket = "Today"
	TodayBucketUpcoming TodayBucket = "Upcoming"
)

type TodayState struct {
	Rows   []storage.Task
	Cursor int
	Loaded bool
}

type PlanStage string

const (
	PlanStageForm    PlanStage = "form"
	PlanStageLoading PlanStage = "loading"
	PlanStageResult  PlanStage = "result"
)

// Focus slots of the plan form, in tab order. The priority slot is not a
// text input; it cycles low/medium/high in place.
const (
	planFieldTitle = iota
	planFieldNotes
	planFieldCategory
	planFieldDue
	planFieldPriority
	planFieldCount
)

type PlanState struct {
	Stage      PlanStage
	Focus      int
	Priority   model.Priority
	Draft      model.TaskDraft
	Suggestion model.Suggestion
	AltCursor  int
}

type StatsState struct {
	Loaded      bool
	Stats       model.CompletionStats
	Hourly      model.HourlyPattern
	Weekly      model.WeeklyPattern
	HourlyChart string
	WeeklyChart string
}

type AwardRow struct {
	Definition achievements.Definition
	State      model.AchievementState
}

type AwardsState struct {
	Loaded bool
	Rows   []AwardRow
	Cursor int
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type TasksLoadedMsg struct {
	Tasks []storage.Task
}

type TaskSavedMsg struct {
	Task storage.Task
}

type TaskCompletedMsg struct {
	Task      storage.Task
	Stats     model.CompletionStats
	Unlocked  []achievements.Definition
	Cancelled int
	NextDue   *storage.Task
}

type TaskDeletedMsg struct {
	ID        string
	Title     string
	Cancelled int
}

type SuggestionReadyMsg struct {
	Title      string
	Suggestion model.Suggestion
}

type StatsLoadedMsg struct {
	Stats  model.CompletionStats
	Hourly model.HourlyPattern
	Weekly model.WeeklyPattern
}

type AwardsLoadedMsg struct {
	States []model.AchievementState
}

type ExportDoneMsg struct {
	Format string
	Path   string
}

type PlanEventMsg struct {
	Event scheduler.PlanEvent
}

func NewModel() Model {
	m := Model{
		CurrentView: ViewToday,
		Plan: PlanState{
			Stage:    PlanStageForm,
			Priority: model.PriorityMedium,
		},
		DesktopEnabled: false,
		notifier:       NoopDesktopNotifier{},
		now:            time.Now,
		showHints:      true,
		Keys: GlobalKeyMap{
			Today:  "1",
			Plan:   "2",
			Stats:  "3",
			Awards: "4",
			Help:   "?",
			Quit:   "q",
		},
	}
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func NewModelWithServices(svc Services) Model {
	return NewModelWithConfig(svc, nil, DefaultRuntimeConfig())
}

func NewModelWithConfig(svc Services, notifier DesktopNotifier, cfg RuntimeConfig) Model {
	m := NewModel()
	m.Services = svc
	m.DesktopEnabled = cfg.DesktopNotifications
	m.showHints = cfg.ShowHints
	if notifier != nil {
		m.notifier = notifier
	}
	return m
}
