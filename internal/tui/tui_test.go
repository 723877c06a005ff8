package tui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redjax/notedash/internal/controller"
	"github.com/redjax/notedash/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCardDate(t *testing.T) {
	assert.Equal(t, "", FormatCardDate(time.Time{}))

	d := time.Date(2024, 3, 5, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "5th Mar 2024", FormatCardDate(d))

	d = time.Date(2023, 11, 22, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "22nd Nov 2023", FormatCardDate(d))
}

func TestContentPreview(t *testing.T) {
	assert.Equal(t, "No content available", ContentPreview("   \n "))
	assert.Equal(t, "short note", ContentPreview("short\n  note"))

	long := strings.Repeat("a", 61)
	assert.Equal(t, strings.Repeat("a", 60)+"...", ContentPreview(long))
	assert.Equal(t, strings.Repeat("é", 60), ContentPreview(strings.Repeat("é", 60)))
}

func TestTagLine(t *testing.T) {
	assert.Equal(t, "No tags", TagLine(nil))
	assert.Equal(t, "#work #ideas", TagLine([]string{"work", "ideas"}))
}

func TestRenderNoteCard(t *testing.T) {
	card := RenderNoteCard(services.Note{Title: "Groceries", Content: "milk", IsFavorite: true}, cardWidth, true, false)

	assert.Contains(t, card, "Groceries")
	assert.Contains(t, card, "milk")
	assert.Contains(t, card, favoriteMark)
	assert.Contains(t, card, "No tags")
	assert.Equal(t, cardHeight, len(strings.Split(card, "\n")))
}

func TestToasts(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	toasts := NewToasts()
	toasts.now = func() time.Time { return now }

	for _, msg := range []string{"one", "two", "three", "four"} {
		toasts.Notify(controller.VariantInfo, msg)
	}
	assert.Equal(t, maxToasts, toasts.Len())
	assert.NotContains(t, toasts.View(), "one")
	assert.Contains(t, toasts.View(), "four")

	now = now.Add(toastLifetime / 2)
	toasts.Notify(controller.VariantError, "late")
	assert.True(t, toasts.Prune())

	now = now.Add(toastLifetime/2 + time.Millisecond)
	assert.True(t, toasts.Prune())
	assert.Equal(t, 1, toasts.Len())
	assert.Contains(t, toasts.View(), "late")

	now = now.Add(toastLifetime)
	assert.False(t, toasts.Prune())
}

func TestRedirectFlag(t *testing.T) {
	var r redirectFlag
	assert.False(t, r.Take())

	r.RedirectToLogin()
	assert.True(t, r.Take())
	assert.False(t, r.Take())
}

func TestNoteEditorDraft(t *testing.T) {
	seed := services.Note{ID: "n1", Title: "Old", Content: "body", Tags: []string{"a", "b"}}
	ed := NewNoteEditor(controller.Editor{Open: true, Mode: controller.EditorEdit, Seed: &seed}, 80)

	draft := ed.Draft()
	assert.Equal(t, "Old", draft.Title)
	assert.Equal(t, "body", draft.Content)
	assert.Equal(t, []string{"a", "b"}, draft.Tags)

	ed.tags.SetValue(" #x, y,, x ")
	assert.Equal(t, []string{"x", "y"}, ed.Draft().Tags)
	assert.Contains(t, ed.View(), "Edit Note")
}

func TestNoteMarkdown(t *testing.T) {
	md := NoteMarkdown(services.Note{
		Title:      "Plan",
		Content:    "- one",
		Tags:       []string{"x"},
		IsFavorite: true,
		CreatedOn:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local),
	})

	assert.True(t, strings.HasPrefix(md, "# Plan\n"))
	assert.Contains(t, md, "1st Mar 2024")
	assert.Contains(t, md, "♥")
	assert.Contains(t, md, "- one")
	assert.Contains(t, md, "#x")
}

type stubService struct {
	mu      sync.Mutex
	notes   []services.Note
	fetches int
	getErr  error
	added   []services.NoteDraft
	deleted []string
}

func (s *stubService) GetUser(context.Context) (*services.User, error) {
	return &services.User{FullName: "Ada Lovelace"}, nil
}

func (s *stubService) GetAllNotes(context.Context) ([]services.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return append([]services.Note(nil), s.notes...), nil
}

func (s *stubService) SearchNotes(_ context.Context, query string) ([]services.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []services.Note
	for _, n := range s.notes {
		if strings.Contains(strings.ToLower(n.Title), strings.ToLower(query)) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *stubService) AddNote(_ context.Context, draft services.NoteDraft) (*services.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.added = append(s.added, draft)
	n := services.Note{ID: draft.Title, Title: draft.Title, Content: draft.Content, Tags: draft.Tags}
	s.notes = append(s.notes, n)
	return &n, nil
}

func (s *stubService) UpdateNote(_ context.Context, note services.Note) (*services.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == note.ID {
			s.notes[i] = note
		}
	}
	return &note, nil
}

func (s *stubService) DeleteNote(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	kept := s.notes[:0]
	for _, n := range s.notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.notes = kept
	return nil
}

type stubSession struct{ cleared bool }

func (s *stubSession) Clear() error {
	s.cleared = true
	return nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg and runs any returned command once, feeding its message
// back into the model.
func press(t *testing.T, m HomeModel, msg tea.Msg) (HomeModel, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(HomeModel)
	if cmd == nil {
		return m, nil
	}
	out := cmd()
	switch out.(type) {
	case controllerSyncedMsg, editorSavedMsg:
		return press(t, m, out)
	}
	return m, out
}

// typeText feeds s into the focused input. Returned commands are cursor
// blinks and are not run.
func typeText(m HomeModel, s string) HomeModel {
	next, _ := m.Update(key(s))
	return next.(HomeModel)
}

func loadedHome(t *testing.T, svc *stubService) (HomeModel, *stubSession) {
	t.Helper()
	sess := &stubSession{}
	m := NewHome(svc, sess, nil, 120, 60, "")
	m, _ = press(t, m, m.run(m.ctrl.FetchAll)())
	return m, sess
}

func TestHomeListsNotes(t *testing.T) {
	svc := &stubService{notes: []services.Note{{ID: "1", Title: "First"}, {ID: "2", Title: "Second"}}}
	m, _ := loadedHome(t, svc)

	view := m.View()
	assert.Contains(t, view, "First")
	assert.Contains(t, view, "Second")
	assert.Contains(t, view, "AL")
	assert.Contains(t, view, "Ada Lovelace")
}

func TestHomeEmptyState(t *testing.T) {
	m, _ := loadedHome(t, &stubService{})
	assert.Contains(t, m.View(), "No Notes Available")
}

func TestHomeDeleteFlow(t *testing.T) {
	svc := &stubService{notes: []services.Note{{ID: "1", Title: "First"}, {ID: "2", Title: "Second"}}}
	m, _ := loadedHome(t, svc)

	m, _ = press(t, m, key("d"))
	assert.Contains(t, m.View(), "Confirm Deletion")

	m, _ = press(t, m, key("n"))
	assert.NotContains(t, m.View(), "Confirm Deletion")
	assert.Empty(t, svc.deleted)

	m, _ = press(t, m, key("d"))
	m, _ = press(t, m, key("y"))
	assert.Equal(t, []string{"1"}, svc.deleted)
	assert.NotContains(t, m.View(), "First")
	assert.Contains(t, m.View(), "Note deleted successfully!")
}

func TestHomeAddNote(t *testing.T) {
	svc := &stubService{}
	m, _ := loadedHome(t, svc)

	m, _ = press(t, m, key("a"))
	require.True(t, m.editorOpen)

	m, _ = press(t, m, key("ctrl+s"))
	assert.True(t, m.editorOpen)
	assert.Equal(t, "Please enter the title", m.editor.err)
	assert.Empty(t, svc.added)

	m = typeText(m, "Standup")
	m, _ = press(t, m, key("ctrl+s"))
	assert.False(t, m.editorOpen)
	require.Len(t, svc.added, 1)
	assert.Equal(t, "Standup", svc.added[0].Title)
	assert.Contains(t, m.View(), "Note added successfully!")
	assert.Contains(t, m.View(), "Standup")
}

func TestHomeSearch(t *testing.T) {
	svc := &stubService{notes: []services.Note{{ID: "1", Title: "Apples"}, {ID: "2", Title: "Pears"}}}
	m, _ := loadedHome(t, svc)

	m, _ = press(t, m, key("/"))
	require.True(t, m.searchInput.Focused())
	m = typeText(m, "pear")
	m, _ = press(t, m, key("enter"))

	assert.Equal(t, controller.Searching, m.view.Mode)
	assert.NotContains(t, m.View(), "Apples")
	assert.Contains(t, m.View(), "Pears")

	m, _ = press(t, m, key("/"))
	m = typeText(m, "zzz")
	m, _ = press(t, m, key("enter"))
	assert.Contains(t, m.View(), "No Match Found")

	m, _ = press(t, m, key("c"))
	assert.Equal(t, controller.Listing, m.view.Mode)
	assert.Contains(t, m.View(), "Apples")
}

func TestHomeRedirectsOnExpiredSession(t *testing.T) {
	svc := &stubService{getErr: services.ErrUnauthorized}
	sess := &stubSession{}
	m := NewHome(svc, sess, nil, 120, 60, "")

	_, out := press(t, m, m.run(m.ctrl.FetchAll)())
	assert.IsType(t, RedirectToLoginMsg{}, out)
	assert.True(t, sess.cleared)
}

func TestHomeLogout(t *testing.T) {
	m, sess := loadedHome(t, &stubService{})

	_, out := press(t, m, key("L"))
	assert.IsType(t, RedirectToLoginMsg{}, out)
	assert.True(t, sess.cleared)
}
