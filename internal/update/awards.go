package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Chepman32/Brio-sub001/internal/achievements"
	"github.com/Chepman32/Brio-sub001/internal/model"
)

func (m Model) handleAwardsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.Awards.Cursor < len(m.Awards.Rows)-1 {
			m.Awards.Cursor++
		}
		return m, nil
	case "k", "up":
		if m.Awards.Cursor > 0 {
			m.Awards.Cursor--
		}
		return m, nil
	case "r":
		m.Awards.Loaded = false
		return m, m.loadAwardsCmd()
	}
	return m, nil
}

// applyAwards joins the fixed catalog with whatever states storage has.
// Catalog entries without a stored row show as locked at zero progress.
func (m *Model) applyAwards(states []model.AchievementState) {
	byID := make(map[string]model.AchievementState, len(states))
	for _, st := range states {
		byID[st.ID] = st
	}
	catalog := achievements.Catalog()
	rows := make([]AwardRow, 0, len(catalog))
	for _, def := range catalog {
		rows = append(rows, AwardRow{Definition: def, State: byID[def.ID]})
	}
	m.Awards.Rows = rows
	if m.Awards.Cursor >= len(rows) {
		m.Awards.Cursor = 0
	}
	m.Awards.Loaded = true
}
