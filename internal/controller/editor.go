package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/redjax/notedash/internal/services"
)

// EditorMode distinguishes creating a note from editing one.
type EditorMode string

const (
	EditorAdd  EditorMode = "add"
	EditorEdit EditorMode = "edit"
)

// Editor is the state of the add/edit surface. Seed is set only in edit
// mode.
type Editor struct {
	Open bool
	Mode EditorMode
	Seed *services.Note
}

func (e Editor) clone() Editor {
	if e.Seed != nil {
		s := cloneNote(*e.Seed)
		e.Seed = &s
	}
	return e
}

// ErrEditorClosed is returned by SaveNote when no editor is open.
var ErrEditorClosed = errors.New("editor is not open")

// ValidationError is a draft that failed validation. Message is suitable
// for showing next to the form.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate = validator.New()

// Add opens the editor for a new note.
func (c *Controller) Add() {
	c.mu.Lock()
	c.editor = Editor{Open: true, Mode: EditorAdd}
	c.mu.Unlock()
}

// Edit opens the editor seeded with note.
func (c *Controller) Edit(note services.Note) {
	n := cloneNote(note)

	c.mu.Lock()
	c.editor = Editor{Open: true, Mode: EditorEdit, Seed: &n}
	c.mu.Unlock()
}

// CloseEditor dismisses the editor without saving.
func (c *Controller) CloseEditor() {
	c.mu.Lock()
	c.editor = Editor{Mode: EditorAdd}
	c.mu.Unlock()
}

// SaveNote completes the open editor: the draft is validated, sent as an
// add or an update, and on success the editor closes and the list is
// refetched. On failure the editor stays open.
func (c *Controller) SaveNote(ctx context.Context, draft services.NoteDraft) error {
	c.mu.Lock()
	editor := c.editor.clone()
	c.mu.Unlock()

	if !editor.Open {
		return ErrEditorClosed
	}

	draft.Title = strings.TrimSpace(draft.Title)
	draft.Tags = services.NormalizeTags(draft.Tags)
	if err := ValidateDraft(draft); err != nil {
		return err
	}

	var (
		err     error
		message string
	)
	if editor.Mode == EditorEdit && editor.Seed != nil {
		_, err = c.svc.UpdateNote(ctx, draft.Apply(*editor.Seed))
		message = "Note updated successfully!"
	} else {
		_, err = c.svc.AddNote(ctx, draft)
		message = "Note added successfully!"
	}
	if err != nil {
		c.handleError(fmt.Sprintf("%s note", editor.Mode), err)
		return err
	}

	c.CloseEditor()
	c.notify.Notify(VariantSuccess, message)
	return c.afterMutation(ctx)
}

// ValidateDraft checks a draft before it is sent.
func ValidateDraft(draft services.NoteDraft) error {
	err := validate.Struct(draft)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := strings.ToLower(fe.StructField())
	if strings.HasPrefix(fe.Namespace(), "NoteDraft.Tags[") {
		field = "tags"
	}

	var msg string
	switch {
	case fe.Tag() == "required" && field == "title":
		msg = "Please enter the title"
	case field == "tags" && fe.Field() == "Tags":
		msg = fmt.Sprintf("Too many tags (max %s)", fe.Param())
	case field == "tags":
		msg = "Tags must be between 1 and 40 characters"
	case fe.Tag() == "max":
		msg = fmt.Sprintf("The %s is too long (max %s characters)", field, fe.Param())
	default:
		msg = fmt.Sprintf("Invalid %s", field)
	}
	return &ValidationError{Field: field, Message: msg}
}
