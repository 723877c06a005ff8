package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/redjax/notedash/internal/services"
)

// NoteMarkdown renders a note as a Markdown document.
func NoteMarkdown(note services.Note) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", note.Title)
	if date := FormatCardDate(note.CreatedOn); date != "" {
		fmt.Fprintf(&b, "*%s*", date)
		if note.IsFavorite {
			b.WriteString(" · ♥")
		}
		b.WriteString("\n\n")
	}
	if note.Content != "" {
		b.WriteString(note.Content)
		b.WriteString("\n\n")
	}
	if len(note.Tags) > 0 {
		fmt.Fprintf(&b, "`%s`\n", TagLine(note.Tags))
	}
	return b.String()
}

// renderMarkdown styles md for the terminal, falling back to plain text.
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// NotePreviewModel is a read-only, scrollable rendering of one note.
type NotePreviewModel struct {
	note     services.Note
	viewport viewport.Model
}

func NewNotePreview(note services.Note, width, height int) NotePreviewModel {
	if width <= 0 {
		width = 80
	}
	if height <= 4 {
		height = 24
	}

	vp := viewport.New(width, height-4)
	vp.SetContent(renderMarkdown(NoteMarkdown(note), width-4))

	return NotePreviewModel{note: note, viewport: vp}
}

func (m NotePreviewModel) Update(msg tea.Msg) (NotePreviewModel, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.viewport.Width = size.Width
		m.viewport.Height = size.Height - 4
		m.viewport.SetContent(renderMarkdown(NoteMarkdown(m.note), size.Width-4))
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m NotePreviewModel) View() string {
	return m.viewport.View() + "\n" + helpStyle.Render("↑/↓: scroll • e: edit • esc/q: back")
}
