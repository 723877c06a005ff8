package controller

import (
	"errors"
	"strings"
	"testing"

	"github.com/redjax/notedash/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOpensEmptyEditorAndSaveCreates(t *testing.T) {
	h := newHarness(noteA)
	require.NoError(t, h.c.FetchAll(ctx))

	h.c.Add()
	ed := h.c.Snapshot().Editor
	assert.True(t, ed.Open)
	assert.Equal(t, EditorAdd, ed.Mode)
	assert.Nil(t, ed.Seed)

	fetches := h.svc.count("GetAllNotes")
	require.NoError(t, h.c.SaveNote(ctx, services.NoteDraft{Title: "  New  ", Tags: []string{"#work", "work"}}))

	require.Len(t, h.svc.adds, 1)
	assert.Equal(t, "New", h.svc.adds[0].Title)
	assert.Equal(t, []string{"work"}, h.svc.adds[0].Tags)
	assert.Equal(t, fetches+1, h.svc.count("GetAllNotes"))

	v := h.c.Snapshot()
	assert.False(t, v.Editor.Open)
	assert.Len(t, v.Notes, 2)
	assert.Equal(t, []notification{{VariantSuccess, "Note added successfully!"}}, h.notify.sent)
}

func TestEditSeedsEditorAndSaveUpdates(t *testing.T) {
	h := newHarness(noteA)
	require.NoError(t, h.c.FetchAll(ctx))

	h.c.Edit(noteA)
	ed := h.c.Snapshot().Editor
	require.True(t, ed.Open)
	assert.Equal(t, EditorEdit, ed.Mode)
	require.NotNil(t, ed.Seed)
	assert.Equal(t, "1", ed.Seed.ID)

	require.NoError(t, h.c.SaveNote(ctx, services.NoteDraft{Title: "A2", Content: "beta", Tags: []string{"y"}}))

	require.Len(t, h.svc.updates, 1)
	sent := h.svc.updates[0]
	assert.Equal(t, "1", sent.ID)
	assert.Equal(t, "A2", sent.Title)
	assert.Equal(t, "beta", sent.Content)
	assert.Equal(t, []string{"y"}, sent.Tags)
	assert.Equal(t, noteA.CreatedOn, sent.CreatedOn)
	assert.Equal(t, noteA.IsFavorite, sent.IsFavorite)
	assert.False(t, h.c.Snapshot().Editor.Open)
}

func TestSaveValidationKeepsEditorOpen(t *testing.T) {
	h := newHarness()
	h.c.Add()

	err := h.c.SaveNote(ctx, services.NoteDraft{Title: "   ", Content: "body"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "title", verr.Field)
	assert.Equal(t, "Please enter the title", verr.Message)

	assert.Zero(t, h.svc.total())
	assert.True(t, h.c.Snapshot().Editor.Open)
}

func TestSaveFailureKeepsEditorOpen(t *testing.T) {
	h := newHarness()
	h.svc.setErr("AddNote", apiError)
	h.c.Add()

	assert.Error(t, h.c.SaveNote(ctx, services.NoteDraft{Title: "t"}))
	assert.True(t, h.c.Snapshot().Editor.Open)
	assert.Empty(t, h.notify.sent)
	assert.Equal(t, 0, h.svc.count("GetAllNotes"))
}

func TestSaveWithoutOpenEditor(t *testing.T) {
	h := newHarness()
	assert.ErrorIs(t, h.c.SaveNote(ctx, services.NoteDraft{Title: "t"}), ErrEditorClosed)

	h.c.Add()
	h.c.CloseEditor()
	assert.ErrorIs(t, h.c.SaveNote(ctx, services.NoteDraft{Title: "t"}), ErrEditorClosed)
	assert.Zero(t, h.svc.total())
}

func TestValidateDraft(t *testing.T) {
	assert.NoError(t, ValidateDraft(services.NoteDraft{Title: "ok"}))

	tests := []struct {
		name  string
		draft services.NoteDraft
		field string
	}{
		{"missing title", services.NoteDraft{}, "title"},
		{"long title", services.NoteDraft{Title: strings.Repeat("x", 201)}, "title"},
		{"long tag", services.NoteDraft{Title: "t", Tags: []string{strings.Repeat("t", 41)}}, "tags"},
		{"too many tags", services.NoteDraft{Title: "t", Tags: make([]string, 21)}, "tags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDraft(tt.draft)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
			assert.NotEmpty(t, verr.Message)
		})
	}
}
