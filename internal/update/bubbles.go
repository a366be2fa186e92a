package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/Chepman32/Brio-sub001/internal/views"
)

func (m *Model) initBubbleComponents() {
	m.todayList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.todayList.Title = "Today (list)"
	m.todayList.SetShowHelp(false)
	m.todayList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "Hour", Width: 8},
		{Title: "Count", Width: 7},
		{Title: "Share", Width: 7},
	}
	m.topHoursTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(false), table.WithHeight(6))

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.titleInput = textinput.New()
	m.titleInput.Prompt = ""
	m.titleInput.Placeholder = "what needs doing"
	m.titleInput.CharLimit = 256
	m.titleInput.Width = 40

	m.notesInput = textinput.New()
	m.notesInput.Prompt = ""
	m.notesInput.Placeholder = "notes (markdown)"
	m.notesInput.CharLimit = 512
	m.notesInput.Width = 40

	m.categoryInput = textinput.New()
	m.categoryInput.Prompt = ""
	m.categoryInput.Placeholder = "work, home, errands"
	m.categoryInput.CharLimit = 64
	m.categoryInput.Width = 24

	m.dueInput = textinput.New()
	m.dueInput.Prompt = ""
	m.dueInput.Placeholder = "YYYY-MM-DD (default tomorrow)"
	m.dueInput.CharLimit = 10
	m.dueInput.Width = 24

	m.notesArea = textarea.New()
	m.notesArea.SetWidth(48)
	m.notesArea.SetHeight(6)
	m.notesArea.ShowLineNumbers = false
	m.notesArea.Placeholder = "Task notes (markdown)"

	m.detailView = viewport.New(48, 10)
	m.helpViewport = viewport.New(48, 12)

	m.awardProgress = progress.New(progress.WithDefaultGradient())
	m.awardProgress.Width = 24

	m.planSpinner = spinner.New()
	m.planSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}

func (m *Model) syncBubbleData() {
	now := m.now()
	items := make([]list.Item, 0, len(m.Today.Rows))
	for _, row := range m.Today.Rows {
		desc := fmt.Sprintf("%s | %s", todayBucketOf(row, now), row.Priority)
		items = append(items, listItem{title: row.Title, description: desc})
	}
	m.todayList.SetItems(items)
	if len(items) > 0 {
		m.todayList.Select(m.Today.Cursor)
	}

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	}

	if row, ok := m.currentTodayRow(); ok {
		md := row.Notes
		if strings.TrimSpace(md) == "" {
			md = "_No notes_"
		}
		m.notesArea.SetValue(md)
		m.detailView.SetContent(views.RenderMarkdown(md))
	}
}
