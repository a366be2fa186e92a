package update

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Chepman32/Brio-sub001/internal/achievements"
	"github.com/Chepman32/Brio-sub001/internal/device"
	"github.com/Chepman32/Brio-sub001/internal/model"
	"github.com/Chepman32/Brio-sub001/internal/planner"
	"github.com/Chepman32/Brio-sub001/internal/scheduler"
	"github.com/Chepman32/Brio-sub001/internal/storage"
)

type fakeRepo struct {
	tasks  map[string]storage.Task
	stats  model.CompletionStats
	hourly model.HourlyPattern
	weekly model.WeeklyPattern
	awards map[string]model.AchievementState
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tasks:  make(map[string]storage.Task),
		hourly: make(model.HourlyPattern),
		weekly: make(model.WeeklyPattern),
		awards: make(map[string]model.AchievementState),
	}
}

func (r *fakeRepo) CreateTask(ctx context.Context, in storage.Task) error {
	r.tasks[in.ID] = in
	return nil
}

func (r *fakeRepo) GetTask(ctx context.Context, id string) (storage.Task, error) {
	row, ok := r.tasks[id]
	if !ok {
		return storage.Task{}, storage.ErrNotFound
	}
	return row, nil
}

func (r *fakeRepo) UpdateTask(ctx context.Context, in storage.Task) error {
	if _, ok := r.tasks[in.ID]; !ok {
		return storage.ErrNotFound
	}
	r.tasks[in.ID] = in
	return nil
}

func (r *fakeRepo) DeleteTask(ctx context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeRepo) ListTasks(ctx context.Context, filter storage.TaskListFilter) ([]storage.Task, error) {
	out := make([]storage.Task, 0, len(r.tasks))
	for _, row := range r.tasks {
		if filter.Done != nil && (row.CompletedAt != nil) != *filter.Done {
			continue
		}
		if filter.Category != "" && row.Category != filter.Category {
			continue
		}
		if filter.Priority != "" && row.Priority != filter.Priority {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeRepo) Stats(ctx context.Context) (model.CompletionStats, error) {
	return r.stats, nil
}

func (r *fakeRepo) IncrementCompleted(ctx context.Context) error {
	r.stats.TotalCompleted++
	return nil
}

func (r *fakeRepo) UpdateStreak(ctx context.Context, at time.Time) (model.CompletionStats, error) {
	r.stats = r.stats.AdvanceStreak(at)
	return r.stats, nil
}

func (r *fakeRepo) Hourly(ctx context.Context) (model.HourlyPattern, error) {
	return r.hourly, nil
}

func (r *fakeRepo) Weekly(ctx context.Context) (model.WeeklyPattern, error) {
	return r.weekly, nil
}

func (r *fakeRepo) RecordCompletionAt(ctx context.Context, at time.Time) error {
	r.hourly[at.Hour()]++
	r.weekly[int(at.Weekday())]++
	return nil
}

func (r *fakeRepo) Achievements(ctx context.Context) ([]model.AchievementState, error) {
	out := make([]model.AchievementState, 0, len(r.awards))
	for _, st := range r.awards {
		out = append(out, st)
	}
	return out, nil
}

func (r *fakeRepo) SaveAchievement(ctx context.Context, in model.AchievementState) error {
	r.awards[in.ID] = in
	return nil
}

var fixedNow = time.Date(2026, 3, 4, 10, 0, 0, 0, time.Local)

func testNow() time.Time { return fixedNow }

func testServices(repo *fakeRepo) Services {
	return Services{
		Repo:      repo,
		Planner:   planner.New(repo, repo, device.Static{Context: model.NeutralContext()}, planner.WithNow(testNow)),
		Awards:    achievements.NewEvaluator(repo, repo, repo, achievements.WithNow(testNow)),
		Scheduler: scheduler.NewEngine(16),
	}
}

func testModel(repo *fakeRepo) Model {
	m := NewModelWithServices(testServices(repo))
	m.now = testNow
	return m
}

func seedTask(repo *fakeRepo, id, title string, due time.Time, priority string) storage.Task {
	row := storage.Task{
		ID:         id,
		Title:      title,
		DueDate:    model.DayOf(due),
		Priority:   priority,
		RepeatKind: string(model.RepeatNone),
		CreatedAt:  due.AddDate(0, 0, -1),
	}
	if due.Hour() != 0 || due.Minute() != 0 {
		t := due
		row.DueTime = &t
	}
	repo.tasks[id] = row
	return row
}

func loadTasks(t *testing.T, m Model) Model {
	t.Helper()
	cmd := m.loadTasksCmd()
	if cmd == nil {
		t.Fatal("expected load command")
	}
	updated, _ := m.Update(cmd())
	return updated.(Model)
}

func TestNewModelDefaults(t *testing.T) {
	m := NewModel()
	if m.CurrentView != ViewToday {
		t.Fatalf("expected default view %q, got %q", ViewToday, m.CurrentView)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.Plan.Priority != model.PriorityMedium {
		t.Fatalf("expected medium default priority, got %q", m.Plan.Priority)
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m := NewModel()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	next := updated.(Model)
	if next.CurrentView != ViewStats {
		t.Fatalf("expected stats view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'4'}})
	next = updated.(Model)
	if next.CurrentView != ViewAwards {
		t.Fatalf("expected awards view, got %q", next.CurrentView)
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m := NewModel()
	updated, _ := m.Update(SwitchViewMsg{View: ViewAwards})
	next := updated.(Model)
	if next.CurrentView != ViewAwards {
		t.Fatalf("expected awards view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(SwitchViewMsg{View: View("Unknown")})
	next = updated.(Model)
	if next.CurrentView != ViewAwards {
		t.Fatalf("expected view unchanged for unknown view, got %q", next.CurrentView)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := NewModel()
	updated, _ := m.Update(SetStatusMsg{Text: "ready"})
	next := updated.(Model)
	if next.Status.Text != "ready" || next.Status.IsError {
		t.Fatalf("unexpected status: %+v", next.Status)
	}

	updated, _ = next.Update(AppErrorMsg{Err: errors.New("boom")})
	next = updated.(Model)
	if next.LastError == nil || next.LastError.Error() != "boom" {
		t.Fatalf("expected last error boom, got: %v", next.LastError)
	}
	if !next.Status.IsError || next.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", next.Status)
	}

	updated, _ = next.Update(ClearStatusMsg{})
	next = updated.(Model)
	if next.Status.Text != "" || next.Status.IsError {
		t.Fatalf("expected cleared status, got: %+v", next.Status)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m := NewModel()
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	next := updated.(Model)
	if !next.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m := NewModel()
	m.SelectedTaskID = "task-42"
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	if !strings.Contains(out, "view: Today") {
		t.Fatalf("expected view text in output: %q", out)
	}
	if !strings.Contains(out, "selected: task-42") {
		t.Fatalf("expected selected task in output: %q", out)
	}
	if !strings.Contains(out, "status: all good") {
		t.Fatalf("expected status in output: %q", out)
	}
}

func TestTasksLoadedSortsIntoBuckets(t *testing.T) {
	repo := newFakeRepo()
	seedTask(repo, "t-up", "upcoming task", fixedNow.AddDate(0, 0, 2), "low")
	seedTask(repo, "t-over", "overdue task", fixedNow.Add(-26*time.Hour), "high")
	seedTask(repo, "t-today", "today task", fixedNow.Add(4*time.Hour), "medium")

	m := loadTasks(t, testModel(repo))
	if len(m.Today.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(m.Today.Rows))
	}
	if m.Today.Rows[0].ID != "t-over" || m.Today.Rows[1].ID != "t-today" || m.Today.Rows[2].ID != "t-up" {
		t.Fatalf("unexpected row order: %s %s %s", m.Today.Rows[0].ID, m.Today.Rows[1].ID, m.Today.Rows[2].ID)
	}
	if m.SelectedTaskID != "t-over" {
		t.Fatalf("expected cursor on first row, got %q", m.SelectedTaskID)
	}

	out := m.View()
	for _, want := range []string{"Overdue:", "[HIGH] overdue task", "[MED] today task", "[LOW] upcoming task"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view output: %q", want, out)
		}
	}
}

func TestPlanFormCapturesDigits(t *testing.T) {
	m := NewModel()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	next := updated.(Model)
	if next.CurrentView != ViewPlan {
		t.Fatalf("expected plan view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	next = updated.(Model)
	if next.CurrentView != ViewPlan {
		t.Fatalf("expected digit to type into the form, view is %q", next.CurrentView)
	}
	if got := next.titleInput.Value(); got != "1" {
		t.Fatalf("expected title input to capture digit, got %q", got)
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEsc})
	next = updated.(Model)
	if next.CurrentView != ViewToday {
		t.Fatalf("expected esc to leave the form, view is %q", next.CurrentView)
	}
}

func TestPlanFormRejectsBadDueDate(t *testing.T) {
	m := testModel(newFakeRepo())
	m = m.enterPlanView()
	m.titleInput.SetValue("write report")
	m.dueInput.SetValue("04-03-2026")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next := updated.(Model)
	if cmd != nil {
		t.Fatal("expected no command for invalid due date")
	}
	if !next.Status.IsError || !strings.Contains(next.Status.Text, "YYYY-MM-DD") {
		t.Fatalf("expected due date error, got: %+v", next.Status)
	}
	if next.Plan.Stage != PlanStageForm {
		t.Fatalf("expected form stage, got %q", next.Plan.Stage)
	}
}

func TestPlanSuggestionFlow(t *testing.T) {
	repo := newFakeRepo()
	m := testModel(repo)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	next := updated.(Model)
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ship it")})
	next = updated.(Model)

	updated, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if next.Plan.Stage != PlanStageLoading {
		t.Fatalf("expected loading stage, got %q", next.Plan.Stage)
	}
	if cmd == nil {
		t.Fatal("expected suggestion command batch")
	}
	if next.Plan.Draft.Title != "ship it" {
		t.Fatalf("unexpected draft title: %q", next.Plan.Draft.Title)
	}

	msg := next.suggestCmd(next.Plan.Draft)()
	ready, ok := msg.(SuggestionReadyMsg)
	if !ok {
		t.Fatalf("expected SuggestionReadyMsg, got %T", msg)
	}
	if ready.Suggestion.Time.IsZero() {
		t.Fatal("expected a non-zero suggested time")
	}

	updated, _ = next.Update(msg)
	next = updated.(Model)
	if next.Plan.Stage != PlanStageResult {
		t.Fatalf("expected result stage, got %q", next.Plan.Stage)
	}
	out := next.View()
	if !strings.Contains(out, "% likely") {
		t.Fatalf("expected confidence in view: %q", out)
	}

	updated, cmd = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if cmd == nil {
		t.Fatal("expected save command")
	}
	saved, ok := cmd().(TaskSavedMsg)
	if !ok {
		t.Fatal("expected TaskSavedMsg from save command")
	}
	if saved.Task.Title != "ship it" {
		t.Fatalf("unexpected saved title: %q", saved.Task.Title)
	}
	stored, err := repo.GetTask(context.Background(), saved.Task.ID)
	if err != nil {
		t.Fatalf("expected task persisted: %v", err)
	}
	if stored.DueTime == nil || !stored.DueTime.Equal(ready.Suggestion.Time) {
		t.Fatalf("expected due time %v, got %v", ready.Suggestion.Time, stored.DueTime)
	}

	updated, _ = next.Update(saved)
	next = updated.(Model)
	if next.CurrentView != ViewToday {
		t.Fatalf("expected return to today view, got %q", next.CurrentView)
	}
	if !strings.Contains(next.Status.Text, "task saved: ship it") {
		t.Fatalf("unexpected status: %q", next.Status.Text)
	}
}

func TestCompleteTaskFlow(t *testing.T) {
	repo := newFakeRepo()
	seedTask(repo, "t-1", "pay rent", fixedNow.Add(2*time.Hour), "high")

	m := loadTasks(t, testModel(repo))
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	next := updated.(Model)
	if cmd == nil {
		t.Fatal("expected completion command")
	}

	msg := cmd()
	done, ok := msg.(TaskCompletedMsg)
	if !ok {
		t.Fatalf("expected TaskCompletedMsg, got %T", msg)
	}
	if done.Task.CompletedAt == nil || !done.Task.CompletedAt.Equal(fixedNow) {
		t.Fatalf("expected completion at %v, got %v", fixedNow, done.Task.CompletedAt)
	}
	if done.Stats.TotalCompleted != 1 || done.Stats.CurrentStreak != 1 {
		t.Fatalf("unexpected stats: %+v", done.Stats)
	}
	if len(done.Unlocked) != 2 {
		t.Fatalf("expected 2 unlocks on first completion, got %d", len(done.Unlocked))
	}
	unlockedIDs := make(map[string]bool)
	for _, def := range done.Unlocked {
		unlockedIDs[def.ID] = true
	}
	if !unlockedIDs["milestone_1"] || !unlockedIDs[achievements.FirstCompletion] {
		t.Fatalf("unexpected unlock set: %v", unlockedIDs)
	}

	stored := repo.tasks["t-1"]
	if stored.CompletedAt == nil {
		t.Fatal("expected task stored as completed")
	}
	if repo.hourly[fixedNow.Hour()] != 1 {
		t.Fatalf("expected hourly bucket recorded, got %v", repo.hourly)
	}

	updated, _ = next.Update(msg)
	next = updated.(Model)
	if !strings.Contains(next.Status.Text, "completed: pay rent") {
		t.Fatalf("unexpected status: %q", next.Status.Text)
	}
}

func TestCompleteRepeatingTaskSpawnsNext(t *testing.T) {
	repo := newFakeRepo()
	row := seedTask(repo, "t-daily", "morning stretch", fixedNow.Add(-time.Hour), "medium")
	row.RepeatKind = string(model.RepeatDaily)
	repo.tasks[row.ID] = row

	m := loadTasks(t, testModel(repo))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if cmd == nil {
		t.Fatal("expected completion command")
	}
	done, ok := cmd().(TaskCompletedMsg)
	if !ok {
		t.Fatal("expected TaskCompletedMsg")
	}
	if done.NextDue == nil {
		t.Fatal("expected a spawned follow-up task")
	}

	wantDay := model.DayOf(fixedNow).AddDate(0, 0, 1)
	if !done.NextDue.DueDate.Equal(wantDay) {
		t.Fatalf("expected next due on %v, got %v", wantDay, done.NextDue.DueDate)
	}
	if done.NextDue.DueTime == nil || done.NextDue.DueTime.Hour() != 9 {
		t.Fatalf("expected 09:00 slot preserved, got %v", done.NextDue.DueTime)
	}
	if done.NextDue.CompletedAt != nil {
		t.Fatal("expected spawned task to be pending")
	}
	if len(repo.tasks) != 2 {
		t.Fatalf("expected 2 stored tasks, got %d", len(repo.tasks))
	}
	if removed := m.Services.Scheduler.CancelTask(done.NextDue.ID); removed != 1 {
		t.Fatalf("expected 1 scheduled due event for spawned task, got %d", removed)
	}
}

func TestDeleteTask(t *testing.T) {
	repo := newFakeRepo()
	seedTask(repo, "t-del", "old chore", fixedNow.Add(3*time.Hour), "low")

	m := loadTasks(t, testModel(repo))
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'D'}})
	next := updated.(Model)
	if cmd == nil {
		t.Fatal("expected delete command")
	}
	msg := cmd()
	deleted, ok := msg.(TaskDeletedMsg)
	if !ok {
		t.Fatalf("expected TaskDeletedMsg, got %T", msg)
	}
	if deleted.Title != "old chore" {
		t.Fatalf("unexpected deleted title: %q", deleted.Title)
	}
	if len(repo.tasks) != 0 {
		t.Fatalf("expected repo emptied, got %d tasks", len(repo.tasks))
	}

	updated, _ = next.Update(msg)
	next = updated.(Model)
	if !strings.Contains(next.Status.Text, "deleted: old chore") {
		t.Fatalf("unexpected status: %q", next.Status.Text)
	}
}

func TestPaletteAddCommand(t *testing.T) {
	repo := newFakeRepo()
	m := testModel(repo)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	next := updated.(Model)
	if !next.Palette.Active {
		t.Fatal("expected palette active")
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("add pay rent !high")})
	next = updated.(Model)
	updated, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if next.Palette.Active {
		t.Fatal("expected palette closed after execute")
	}
	if !strings.Contains(next.Status.Text, "adding task: pay rent") {
		t.Fatalf("unexpected status: %q", next.Status.Text)
	}
	if cmd == nil {
		t.Fatal("expected follow-up save command")
	}

	saved, ok := cmd().(TaskSavedMsg)
	if !ok {
		t.Fatal("expected TaskSavedMsg")
	}
	if saved.Task.Priority != "high" {
		t.Fatalf("expected high priority, got %q", saved.Task.Priority)
	}
	if !saved.Task.DueDate.Equal(model.DayOf(fixedNow).AddDate(0, 0, 1)) {
		t.Fatalf("expected due tomorrow, got %v", saved.Task.DueDate)
	}
	if len(repo.tasks) != 1 {
		t.Fatalf("expected 1 stored task, got %d", len(repo.tasks))
	}
}

func TestPaletteDoneResolvesTitleFragment(t *testing.T) {
	repo := newFakeRepo()
	seedTask(repo, "t-rent", "pay rent", fixedNow.Add(2*time.Hour), "high")

	m := loadTasks(t, testModel(repo))
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	next := updated.(Model)
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("done RENT")})
	next = updated.(Model)
	updated, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if !strings.Contains(next.Status.Text, "completing: pay rent") {
		t.Fatalf("unexpected status: %q", next.Status.Text)
	}
	if cmd == nil {
		t.Fatal("expected completion follow-up")
	}
	if _, ok := cmd().(TaskCompletedMsg); !ok {
		t.Fatal("expected TaskCompletedMsg")
	}
}

func TestPaletteRejectsUnknownCommand(t *testing.T) {
	m := NewModel()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	next := updated.(Model)
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("frobnicate now")})
	next = updated.(Model)
	updated, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if cmd != nil {
		t.Fatal("expected no follow-up for unknown command")
	}
	if !next.Status.IsError || !strings.Contains(next.Status.Text, "unsupported command") {
		t.Fatalf("expected unsupported command error, got: %+v", next.Status)
	}
}

func TestPaletteShowAwards(t *testing.T) {
	repo := newFakeRepo()
	m := testModel(repo)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	next := updated.(Model)
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("show awards")})
	next = updated.(Model)
	updated, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if next.CurrentView != ViewAwards {
		t.Fatalf("expected awards view, got %q", next.CurrentView)
	}
	if cmd == nil {
		t.Fatal("expected awards load follow-up")
	}

	updated, _ = next.Update(cmd())
	next = updated.(Model)
	if !next.Awards.Loaded {
		t.Fatal("expected awards loaded")
	}
	if len(next.Awards.Rows) != len(achievements.Catalog()) {
		t.Fatalf("expected full catalog, got %d rows", len(next.Awards.Rows))
	}
}

func TestStatsLoadedBuildsCharts(t *testing.T) {
	m := NewModel()
	updated, _ := m.Update(StatsLoadedMsg{
		Stats:  model.CompletionStats{TotalCompleted: 12, CurrentStreak: 3, LongestStreak: 5, LastCompletionDay: model.DayOf(fixedNow)},
		Hourly: model.HourlyPattern{9: 5, 14: 3, 20: 2},
		Weekly: model.WeeklyPattern{1: 6, 3: 4},
	})
	next := updated.(Model)
	if !next.Stats.Loaded {
		t.Fatal("expected stats loaded")
	}
	if next.Stats.HourlyChart == "" || next.Stats.WeeklyChart == "" {
		t.Fatal("expected charts rendered")
	}

	next.CurrentView = ViewStats
	out := next.View()
	for _, want := range []string{"completed: 12 total", "streak: 3 days (best 5)", "by hour:", "by weekday:", "top hours:", "09:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in stats view: %q", want, out)
		}
	}
}

func TestAwardsLoadedJoinsCatalog(t *testing.T) {
	m := NewModel()
	unlockedAt := fixedNow.Add(-48 * time.Hour)
	updated, _ := m.Update(AwardsLoadedMsg{States: []model.AchievementState{
		{ID: "milestone_1", Progress: 1, Unlocked: true, UnlockedAt: &unlockedAt},
		{ID: "milestone_10", Progress: 0.4},
	}})
	next := updated.(Model)
	if len(next.Awards.Rows) != len(achievements.Catalog()) {
		t.Fatalf("expected full catalog, got %d rows", len(next.Awards.Rows))
	}

	next.CurrentView = ViewAwards
	out := next.View()
	if !strings.Contains(out, "First Step") || !strings.Contains(out, unlockedAt.Format("2006-01-02")) {
		t.Fatalf("expected unlocked milestone in view: %q", out)
	}
	if !strings.Contains(out, "Getting Things Done") || !strings.Contains(out, "40%") {
		t.Fatalf("expected partial progress in view: %q", out)
	}
}

func TestExportCommandWritesFile(t *testing.T) {
	repo := newFakeRepo()
	repo.stats = model.CompletionStats{TotalCompleted: 3, CurrentStreak: 1, LongestStreak: 2}
	repo.hourly[9] = 3
	path := filepath.Join(t.TempDir(), "brio.json")

	m := testModel(repo)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	next := updated.(Model)
	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("export json " + path)})
	next = updated.(Model)
	updated, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if cmd == nil {
		t.Fatal("expected export follow-up")
	}

	msg := cmd()
	if _, ok := msg.(ExportDoneMsg); !ok {
		t.Fatalf("expected ExportDoneMsg, got %T", msg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected export file: %v", err)
	}

	updated, _ = next.Update(msg)
	next = updated.(Model)
	if !strings.Contains(next.Status.Text, "exported json") {
		t.Fatalf("unexpected status: %q", next.Status.Text)
	}
}

func TestPlanEventNotifiesAndRearms(t *testing.T) {
	m := testModel(newFakeRepo())
	ev := scheduler.PlanEvent{ID: "ev-1", Title: "Early Bird", Kind: scheduler.KindAchievement, TriggerAt: fixedNow}

	updated, cmd := m.Update(PlanEventMsg{Event: ev})
	next := updated.(Model)
	if cmd == nil {
		t.Fatal("expected rearm command while scheduler is attached")
	}
	if len(next.EventLog) != 1 {
		t.Fatalf("expected 1 logged event, got %d", len(next.EventLog))
	}
	last := next.Notifications[len(next.Notifications)-1]
	if !strings.Contains(last.Body, "achievement unlocked: Early Bird") {
		t.Fatalf("unexpected notification: %q", last.Body)
	}

	detached := NewModel()
	_, cmd = detached.Update(PlanEventMsg{Event: ev})
	if cmd != nil {
		t.Fatal("expected no rearm without a scheduler")
	}
}
