package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/redjax/notedash/internal/controller"
	"github.com/redjax/notedash/internal/services"
	"github.com/redjax/notedash/internal/utils"
)

// homeChrome is the number of lines around the card grid (header, search
// bar, toasts, help).
const homeChrome = 14

// HomeModel is the dashboard: a grid of note cards over a
// controller.Controller.
type HomeModel struct {
	ctrl         *controller.Controller
	nav          *redirectFlag
	toasts       *Toasts
	view         controller.View
	cursor       int
	offset       int
	width        int
	height       int
	searchInput  textinput.Model
	editor       NoteEditorModel
	editorOpen   bool
	preview      NotePreviewModel
	previewing   bool
	deleting     bool
	initialQuery string
}

type controllerSyncedMsg struct {
	err error
}

type editorSavedMsg struct {
	err error
}

// RedirectToLoginMsg asks the app shell to show the login view.
type RedirectToLoginMsg struct{}

func NewHome(svc controller.NoteService, sess controller.Session, toasts *Toasts, width, height int, query string) HomeModel {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search notes..."
	searchInput.CharLimit = 100
	searchInput.Prompt = "🔍 "
	searchInput.SetValue(query)

	nav := &redirectFlag{}
	if toasts == nil {
		toasts = NewToasts()
	}

	return HomeModel{
		ctrl:         controller.New(svc, sess, nav, toasts),
		nav:          nav,
		toasts:       toasts,
		width:        width,
		height:       height,
		searchInput:  searchInput,
		initialQuery: strings.TrimSpace(query),
	}
}

func (m HomeModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.run(m.ctrl.FetchAll), toastTick()}
	if q := m.initialQuery; q != "" {
		cmds = append(cmds, m.run(func(ctx context.Context) error {
			return m.ctrl.Search(ctx, q)
		}))
	}
	return tea.Batch(cmds...)
}

// run executes a controller operation off the update loop.
func (m HomeModel) run(op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return controllerSyncedMsg{err: op(context.Background())}
	}
}

func (m *HomeModel) sync() {
	m.view = m.ctrl.Snapshot()
	if m.cursor >= len(m.view.Notes) {
		m.cursor = len(m.view.Notes) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

func (m HomeModel) selected() (services.Note, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Notes) {
		return services.Note{}, false
	}
	return m.view.Notes[m.cursor], true
}

func (m HomeModel) columns() int {
	if m.width <= 0 {
		return 1
	}
	cols := m.width / (cardWidth + 1)
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (m HomeModel) visibleRows() int {
	if m.height <= 0 {
		return 3
	}
	rows := (m.height - homeChrome) / cardHeight
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *HomeModel) ensureVisible() {
	row := m.cursor / m.columns()
	if row < m.offset {
		m.offset = row
	}
	if rows := m.visibleRows(); row >= m.offset+rows {
		m.offset = row - rows + 1
	}
}

func (m *HomeModel) redirectCmd() tea.Cmd {
	if !m.nav.Take() {
		return nil
	}
	return func() tea.Msg { return RedirectToLoginMsg{} }
}

func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureVisible()
		if m.previewing {
			m.preview, _ = m.preview.Update(msg)
		}
		return m, nil

	case toastTickMsg:
		m.toasts.Prune()
		return m, toastTick()

	case controllerSyncedMsg:
		m.deleting = false
		m.sync()
		return m, m.redirectCmd()

	case editorSavedMsg:
		m.sync()
		m.editor.saving = false
		m.editor.err = ""
		var verr *controller.ValidationError
		if errors.As(msg.err, &verr) {
			m.editor.err = verr.Message
		}
		if !m.view.Editor.Open {
			m.editorOpen = false
		}
		return m, m.redirectCmd()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.editorOpen:
			return m.updateEditor(msg)
		case m.view.PendingDeletion != nil && !m.deleting:
			return m.updateConfirm(msg)
		case m.previewing:
			return m.updatePreview(msg)
		case m.searchInput.Focused():
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}

	if m.editorOpen {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	if m.searchInput.Focused() {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m HomeModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctrl.CloseEditor()
		m.editorOpen = false
		m.sync()
		return m, nil

	case "ctrl+s":
		if m.editor.saving {
			return m, nil
		}
		draft := m.editor.Draft()
		m.editor.saving = true
		m.editor.err = ""
		ctrl := m.ctrl
		return m, func() tea.Msg {
			return editorSavedMsg{err: ctrl.SaveNote(context.Background(), draft)}
		}
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m HomeModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.deleting = true
		return m, m.run(m.ctrl.ConfirmDelete)
	case "n", "N", "esc":
		m.ctrl.CancelDelete()
		m.sync()
	}
	return m, nil
}

func (m HomeModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "h", "left":
		m.previewing = false
		return m, nil
	case "e":
		m.previewing = false
		return m.openEditor(&m.preview.note)
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m HomeModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchInput.Blur()
		if m.view.Mode == controller.Searching {
			m.searchInput.SetValue(m.view.Query)
		} else {
			m.searchInput.SetValue("")
		}
		return m, nil

	case "enter":
		m.searchInput.Blur()
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" {
			return m, nil
		}
		m.cursor, m.offset = 0, 0
		return m, m.run(func(ctx context.Context) error {
			return m.ctrl.Search(ctx, query)
		})
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m HomeModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.columns()

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < len(m.view.Notes)-1 {
			m.cursor++
		}
	case "up", "k":
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case "down", "j":
		if m.cursor+cols < len(m.view.Notes) {
			m.cursor += cols
		}

	case "/":
		m.searchInput.Focus()
		return m, textinput.Blink

	case "c", "esc":
		if m.view.Mode == controller.Searching {
			m.searchInput.SetValue("")
			m.cursor, m.offset = 0, 0
			return m, m.run(m.ctrl.ClearSearch)
		}

	case "r":
		return m, m.run(m.ctrl.FetchAll)

	case "a", "n":
		return m.openEditor(nil)

	case "e":
		if note, ok := m.selected(); ok {
			return m.openEditor(&note)
		}

	case "enter", "v":
		if note, ok := m.selected(); ok {
			m.preview = NewNotePreview(note, m.width, m.height)
			m.previewing = true
		}

	case "d", "x", "delete":
		if note, ok := m.selected(); ok {
			m.ctrl.RequestDelete(note)
			m.sync()
		}

	case "f", " ":
		if note, ok := m.selected(); ok {
			return m, m.run(func(ctx context.Context) error {
				return m.ctrl.ToggleFavorite(ctx, note)
			})
		}

	case "y":
		if note, ok := m.selected(); ok {
			if err := utils.CopyToClipboard(note.Content); err != nil {
				m.toasts.Notify(controller.VariantError, "Could not copy to clipboard")
			} else {
				m.toasts.Notify(controller.VariantInfo, "Copied note content to clipboard")
			}
		}

	case "L":
		m.ctrl.Logout()
		return m, m.redirectCmd()
	}

	m.ensureVisible()
	return m, nil
}

func (m HomeModel) openEditor(note *services.Note) (tea.Model, tea.Cmd) {
	if note != nil {
		m.ctrl.Edit(*note)
	} else {
		m.ctrl.Add()
	}
	m.sync()
	m.editor = NewNoteEditor(m.view.Editor, m.width-4)
	m.editorOpen = true
	return m, textinput.Blink
}

func (m HomeModel) View() string {
	if m.previewing {
		return m.preview.View()
	}

	s := m.renderNavbar() + "\n"

	switch {
	case m.editorOpen:
		s += m.editor.View() + "\n"
	case m.view.PendingDeletion != nil && !m.deleting:
		s += m.renderConfirm() + "\n"
	default:
		s += m.renderNotes() + "\n"
	}

	if m.toasts.Len() > 0 {
		s += "\n" + m.toasts.View() + "\n"
	}

	s += m.renderHelp()

	if m.width > 0 && m.height > 0 {
		return lipgloss.NewStyle().Width(m.width).MaxHeight(m.height).Render(s)
	}
	return s
}

func (m HomeModel) renderNavbar() string {
	left := titleStyle.Render("📝 Notes")

	right := ""
	if u := m.view.User; u != nil {
		right = avatarStyle.Render(u.Initials()) + " " + u.FullName
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 2 {
		gap = 2
	}
	bar := left + strings.Repeat(" ", gap) + right + "\n"

	search := searchBarStyle.Render(m.searchInput.View())
	if m.view.Mode == controller.Searching {
		search += "  " + mutedStyle.Render(fmt.Sprintf("%d result(s) for %q • c: clear", len(m.view.Notes), m.view.Query))
	}
	return bar + search + "\n"
}

func (m HomeModel) renderNotes() string {
	switch m.view.Empty {
	case controller.EmptyNoMatch:
		return emptyStateStyle.Render("☹\n\nNo Match Found\n\n" + mutedStyle.Render("Please try a different search term."))
	case controller.EmptyNoNotes:
		return emptyStateStyle.Render("No Notes Available\n\n" + mutedStyle.Render("Press 'a' to add your first note!"))
	}
	if !m.view.Loaded && len(m.view.Notes) == 0 {
		return mutedStyle.Render("  Loading notes...")
	}

	cols := m.columns()
	first := m.offset * cols
	last := first + m.visibleRows()*cols
	if last > len(m.view.Notes) {
		last = len(m.view.Notes)
	}

	var rows []string
	for start := first; start < last; start += cols {
		end := start + cols
		if end > last {
			end = last
		}
		cards := make([]string, 0, cols)
		for i := start; i < end; i++ {
			cards = append(cards, RenderNoteCard(m.view.Notes[i], cardWidth, i == m.cursor, false), " ")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	out := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if total := len(m.view.Notes); last < total || first > 0 {
		out += "\n" + mutedStyle.Render(fmt.Sprintf("  %d-%d of %d", first+1, last, total))
	}
	return out
}

func (m HomeModel) renderConfirm() string {
	note := m.view.PendingDeletion
	text := confirmTextStyle.Render("Confirm Deletion") + "\n\n"
	text += "Are you sure you want to delete this note?\n\n"
	text += RenderNoteCard(*note, cardWidth, false, true) + "\n\n"
	text += "  y/enter: delete   n/esc: cancel"
	return confirmDialogStyle.Render(text)
}

func (m HomeModel) renderHelp() string {
	switch {
	case m.editorOpen:
		return ""
	case m.view.PendingDeletion != nil && !m.deleting:
		return helpStyle.Render("y: delete • n: cancel")
	case m.searchInput.Focused():
		return helpStyle.Render("enter: search • esc: cancel")
	}
	return helpStyle.Render("←↑↓→/hjkl: move • enter: view • a: add • e: edit • f: favorite • d: delete • y: copy • /: search • c: clear search • r: refresh • L: logout • q: quit")
}
