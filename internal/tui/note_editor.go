package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/redjax/notedash/internal/controller"
	"github.com/redjax/notedash/internal/services"
)

type editorField int

const (
	fieldTitle editorField = iota
	fieldContent
	fieldTags
	fieldCount
)

var editorLabelStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("99")).
	Bold(true)

// NoteEditorModel is the add/edit form. Saving and closing are driven by
// the home view, which owns the controller.
type NoteEditorModel struct {
	mode    controller.EditorMode
	title   textinput.Model
	content textarea.Model
	tags    textinput.Model
	focus   editorField
	err     string
	saving  bool
}

func NewNoteEditor(ed controller.Editor, width int) NoteEditorModel {
	if width <= 0 || width > 80 {
		width = 80
	}

	title := textinput.New()
	title.Placeholder = "Wake up at 6 a.m."
	title.CharLimit = 200
	title.Width = width - 10

	content := textarea.New()
	content.Placeholder = "Content"
	content.ShowLineNumbers = false
	content.CharLimit = 20000
	content.SetWidth(width - 8)
	content.SetHeight(8)

	tags := textinput.New()
	tags.Placeholder = "work, ideas"
	tags.CharLimit = 400
	tags.Width = width - 10

	if ed.Mode == controller.EditorEdit && ed.Seed != nil {
		title.SetValue(ed.Seed.Title)
		content.SetValue(ed.Seed.Content)
		tags.SetValue(strings.Join(ed.Seed.Tags, ", "))
	}

	m := NoteEditorModel{
		mode:    ed.Mode,
		title:   title,
		content: content,
		tags:    tags,
	}
	m.setFocus(fieldTitle)
	return m
}

// Draft collects the form into a draft. Tags are comma separated.
func (m NoteEditorModel) Draft() services.NoteDraft {
	return services.NoteDraft{
		Title:   m.title.Value(),
		Content: m.content.Value(),
		Tags:    services.NormalizeTags(strings.Split(m.tags.Value(), ",")),
	}
}

func (m *NoteEditorModel) setFocus(f editorField) {
	m.focus = f
	m.title.Blur()
	m.content.Blur()
	m.tags.Blur()

	switch f {
	case fieldTitle:
		m.title.Focus()
	case fieldContent:
		m.content.Focus()
	case fieldTags:
		m.tags.Focus()
	}
}

func (m NoteEditorModel) Update(msg tea.Msg) (NoteEditorModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, textinput.Blink
		case "shift+tab":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	case fieldContent:
		m.content, cmd = m.content.Update(msg)
	case fieldTags:
		m.tags, cmd = m.tags.Update(msg)
	}
	return m, cmd
}

func (m NoteEditorModel) View() string {
	heading := "Add Note"
	if m.mode == controller.EditorEdit {
		heading = "Edit Note"
	}

	s := confirmTextStyle.Foreground(lipgloss.Color("170")).Render(heading) + "\n\n"
	s += editorLabelStyle.Render("TITLE") + "\n" + m.title.View() + "\n\n"
	s += editorLabelStyle.Render("CONTENT") + "\n" + m.content.View() + "\n\n"
	s += editorLabelStyle.Render("TAGS") + "\n" + m.tags.View() + "\n"

	if m.err != "" {
		s += "\n" + errorTextStyle.Render(m.err) + "\n"
	}
	if m.saving {
		s += "\n" + mutedStyle.Render("Saving...") + "\n"
	}

	action := "add"
	if m.mode == controller.EditorEdit {
		action = "update"
	}
	s += "\n" + mutedStyle.Render("tab: next field • ctrl+s: "+action+" • esc: close")

	return modalStyle.Render(s)
}
