package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/Chepman32/Brio-sub001/internal/model"
	"github.com/Chepman32/Brio-sub001/internal/storage"
)

func (m Model) enterPlanView() Model {
	return m.enterPlanViewWithDraft(model.TaskDraft{Priority: model.PriorityMedium})
}

func (m Model) enterPlanViewWithDraft(draft model.TaskDraft) Model {
	m.CurrentView = ViewPlan
	m.Plan.Stage = PlanStageForm
	m.Plan.Focus = planFieldTitle
	m.Plan.AltCursor = 0
	m.Plan.Priority = draft.Priority
	if !m.Plan.Priority.IsValid() {
		m.Plan.Priority = model.PriorityMedium
	}

	m.titleInput.SetValue(draft.Title)
	m.notesInput.SetValue(draft.Notes)
	m.categoryInput.SetValue(draft.Category)
	if draft.DueDate.IsZero() {
		m.dueInput.SetValue("")
	} else {
		m.dueInput.SetValue(draft.DueDate.Format("2006-01-02"))
	}
	m.focusPlanField()
	return m
}

// planFormCapturing reports whether the plan form owns the keyboard.
// While it does, only ctrl+c bypasses it; view-switch digits and quit
// keys type into the fields instead of firing.
func (m Model) planFormCapturing() bool {
	return m.CurrentView == ViewPlan && m.Plan.Stage == PlanStageForm
}

func (m Model) handlePlanKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Plan.Stage {
	case PlanStageForm:
		return m.handlePlanFormKey(msg)
	case PlanStageLoading:
		if msg.String() == "esc" {
			m.Plan.Stage = PlanStageForm
			m.focusPlanField()
			m.Status = StatusBar{Text: "suggestion cancelled"}
		}
		return m, nil
	case PlanStageResult:
		return m.handlePlanResultKey(msg)
	}
	return m, nil
}

func (m Model) handlePlanFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.CurrentView = ViewToday
		m.blurPlanInputs()
		return m, nil
	case "tab", "down":
		m.Plan.Focus = (m.Plan.Focus + 1) % planFieldCount
		m.focusPlanField()
		return m, nil
	case "shift+tab", "up":
		m.Plan.Focus = (m.Plan.Focus + planFieldCount - 1) % planFieldCount
		m.focusPlanField()
		return m, nil
	case "enter":
		draft, err := m.draftFromForm()
		if err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
		cmd := m.suggestCmd(draft)
		if cmd == nil {
			m.Status = StatusBar{Text: "no planner attached", IsError: true}
			return m, nil
		}
		m.Plan.Stage = PlanStageLoading
		m.Plan.Draft = draft
		m.blurPlanInputs()
		m.Status = StatusBar{Text: fmt.Sprintf("planning %q", draft.Title)}
		return m, tea.Batch(cmd, m.planSpinner.Tick)
	}

	if m.Plan.Focus == planFieldPriority {
		switch msg.String() {
		case "j", "k", "left", "right", " ":
			m.Plan.Priority = cyclePriority(m.Plan.Priority, msg.String() != "k" && msg.String() != "left")
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.Plan.Focus {
	case planFieldTitle:
		m.titleInput, cmd = m.titleInput.Update(msg)
	case planFieldNotes:
		m.notesInput, cmd = m.notesInput.Update(msg)
	case planFieldCategory:
		m.categoryInput, cmd = m.categoryInput.Update(msg)
	case planFieldDue:
		m.dueInput, cmd = m.dueInput.Update(msg)
	}
	return m, cmd
}

func (m Model) handlePlanResultKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.Plan.AltCursor < len(m.Plan.Suggestion.Alternatives) {
			m.Plan.AltCursor++
		}
		return m, nil
	case "k", "up":
		if m.Plan.AltCursor > 0 {
			m.Plan.AltCursor--
		}
		return m, nil
	case "enter":
		return m.acceptSuggestion()
	case "r":
		cmd := m.suggestCmd(m.Plan.Draft)
		if cmd == nil {
			return m, nil
		}
		m.Plan.Stage = PlanStageLoading
		m.Status = StatusBar{Text: fmt.Sprintf("replanning %q", m.Plan.Draft.Title)}
		return m, tea.Batch(cmd, m.planSpinner.Tick)
	case "esc":
		m.Plan.Stage = PlanStageForm
		m.focusPlanField()
		return m, nil
	}
	return m, nil
}

func (m Model) acceptSuggestion() (tea.Model, tea.Cmd) {
	chosen := m.Plan.Suggestion.Time
	if m.Plan.AltCursor > 0 && m.Plan.AltCursor <= len(m.Plan.Suggestion.Alternatives) {
		chosen = m.Plan.Suggestion.Alternatives[m.Plan.AltCursor-1].Time
	}
	if chosen.IsZero() {
		m.Status = StatusBar{Text: "no suggestion to accept", IsError: true}
		return m, nil
	}

	due := chosen
	row := storage.Task{
		ID:         uuid.NewString(),
		Title:      m.Plan.Draft.Title,
		Notes:      m.Plan.Draft.Notes,
		DueDate:    model.DayOf(chosen),
		DueTime:    &due,
		Category:   m.Plan.Draft.Category,
		Priority:   string(m.Plan.Draft.Priority),
		RepeatKind: string(model.RepeatNone),
		CreatedAt:  m.now(),
	}
	cmd := m.saveTaskCmd(row, &due)
	if cmd == nil {
		m.Status = StatusBar{Text: "no storage attached", IsError: true}
		return m, nil
	}
	m.Status = StatusBar{Text: fmt.Sprintf("scheduling %q for %s", row.Title, chosen.Format("Mon 15:04"))}
	return m, cmd
}

func (m Model) draftFromForm() (model.TaskDraft, error) {
	draft := model.TaskDraft{
		Title:    strings.TrimSpace(m.titleInput.Value()),
		Notes:    strings.TrimSpace(m.notesInput.Value()),
		Category: strings.TrimSpace(m.categoryInput.Value()),
		Priority: m.Plan.Priority,
	}

	rawDue := strings.TrimSpace(m.dueInput.Value())
	if rawDue == "" {
		draft.DueDate = model.DayOf(m.now()).AddDate(0, 0, 1)
	} else {
		due, err := time.ParseInLocation("2006-01-02", rawDue, time.Local)
		if err != nil {
			return model.TaskDraft{}, fmt.Errorf("due date must be YYYY-MM-DD: %q", rawDue)
		}
		draft.DueDate = due
	}

	if err := draft.Validate(); err != nil {
		return model.TaskDraft{}, err
	}
	return draft, nil
}

func (m *Model) focusPlanField() {
	m.blurPlanInputs()
	switch m.Plan.Focus {
	case planFieldTitle:
		m.titleInput.Focus()
	case planFieldNotes:
		m.notesInput.Focus()
	case planFieldCategory:
		m.categoryInput.Focus()
	case planFieldDue:
		m.dueInput.Focus()
	}
}

func (m *Model) blurPlanInputs() {
	m.titleInput.Blur()
	m.notesInput.Blur()
	m.categoryInput.Blur()
	m.dueInput.Blur()
}

func cyclePriority(p model.Priority, forward bool) model.Priority {
	order := []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh}
	idx := 1
	for i, candidate := range order {
		if candidate == p {
			idx = i
			break
		}
	}
	if forward {
		idx = (idx + 1) % len(order)
	} else {
		idx = (idx + len(order) - 1) % len(order)
	}
	return order[idx]
}
