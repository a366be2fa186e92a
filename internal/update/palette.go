package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/Chepman32/Brio-sub001/internal/commands"
	"github.com/Chepman32/Brio-sub001/internal/model"
	"github.com/Chepman32/Brio-sub001/internal/storage"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		m.commandInput, _ = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m, nil
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.Palette.Active = false
		m.Palette.Input = ""
		return m, nil
	}

	var followUp tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			row := storage.Task{
				ID:         uuid.NewString(),
				Title:      a.Title,
				DueDate:    model.DayOf(m.now()).AddDate(0, 0, 1),
				Priority:   string(a.Priority),
				RepeatKind: string(model.RepeatNone),
				CreatedAt:  m.now(),
			}
			save := m.saveTaskCmd(row, nil)
			if save == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no storage attached"}
			}
			followUp = save
			return commands.Result{Message: fmt.Sprintf("adding task: %s", a.Title)}, nil
		},
		Done: func(a commands.DoneArgs) (commands.Result, error) {
			row, ok := m.resolveTaskTarget(a.Target)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no pending task matches %q", a.Target)}
			}
			complete := m.completeTaskCmd(row.ID)
			if complete == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no storage attached"}
			}
			followUp = complete
			return commands.Result{Message: fmt.Sprintf("completing: %s", row.Title)}, nil
		},
		Plan: func(a commands.PlanArgs) (commands.Result, error) {
			row, ok := m.resolveTaskTarget(a.Target)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no pending task matches %q", a.Target)}
			}
			m = m.enterPlanViewWithDraft(draftFromRow(row))
			return commands.Result{Message: fmt.Sprintf("planning: %s", row.Title)}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			if s.Subject == commands.SubjectAwards {
				m.CurrentView = ViewAwards
				followUp = m.loadAwardsCmd()
			} else {
				m.CurrentView = ViewStats
				followUp = m.loadStatsCmd()
			}
			return commands.Result{Message: fmt.Sprintf("show %s", s.Subject)}, nil
		},
		Export: func(e commands.ExportArgs) (commands.Result, error) {
			run := m.exportCmd(e.Format, e.Path)
			if run == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no storage attached"}
			}
			followUp = run
			return commands.Result{Message: fmt.Sprintf("exporting %s to %s", e.Format, e.Path)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		followUp = nil
	} else {
		m.Status = StatusBar{Text: res.Message}
		m.notify("Command", res.Message, "info")
	}

	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	return m, followUp
}

// resolveTaskTarget matches a palette target against the loaded rows,
// first as an exact ID, then as a case-insensitive title fragment.
func (m Model) resolveTaskTarget(target string) (storage.Task, bool) {
	target = strings.TrimSpace(target)
	if target == "" {
		return storage.Task{}, false
	}
	for _, row := range m.Today.Rows {
		if row.ID == target {
			return row, true
		}
	}
	needle := strings.ToLower(target)
	for _, row := range m.Today.Rows {
		if strings.Contains(strings.ToLower(row.Title), needle) {
			return row, true
		}
	}
	return storage.Task{}, false
}
