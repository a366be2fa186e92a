package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/Chepman32/Brio-sub001/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()

	var md strings.Builder
	md.WriteString("## Keys\n\n")
	for _, kb := range m.globalBindings() {
		fmt.Fprintf(&md, "- `%s` %s\n", kb.Key, kb.Action)
	}
	fmt.Fprintf(&md, "\n### %s\n\n", m.CurrentView)
	for _, kb := range m.viewBindings() {
		fmt.Fprintf(&md, "- `%s` %s\n", kb.Key, kb.Action)
	}
	m.helpViewport.SetContent(views.RenderMarkdown(md.String()))

	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}) + "\n" + m.helpViewport.View(),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Today, Action: "switch to Today"},
		{Key: m.Keys.Plan, Action: "switch to Plan"},
		{Key: m.Keys.Stats, Action: "switch to Stats"},
		{Key: m.Keys.Awards, Action: "switch to Awards"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewToday:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "x", Action: "complete selected task"},
			{Key: "p", Action: "plan selected task"},
			{Key: "D", Action: "delete selected task"},
			{Key: "r", Action: "reload tasks"},
		}
	case ViewPlan:
		return []KeyBinding{
			{Key: "tab", Action: "next form field"},
			{Key: "enter", Action: "ask for a time / accept slot"},
			{Key: "j/k", Action: "choose alternative slot"},
			{Key: "r", Action: "ask again"},
			{Key: "esc", Action: "back"},
		}
	case ViewStats:
		return []KeyBinding{
			{Key: "r", Action: "reload stats"},
		}
	case ViewAwards:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "r", Action: "reload achievements"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
