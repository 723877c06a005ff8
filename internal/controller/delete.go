package controller

import (
	"context"
	"errors"

	"github.com/redjax/notedash/internal/services"
)

// ErrNothingPending is returned by ConfirmDelete outside the Confirming state.
var ErrNothingPending = errors.New("no note is pending deletion")

// RequestDelete stages note for deletion and moves to Confirming. It
// reports false, and changes nothing, if the note is not currently known.
func (c *Controller) RequestDelete(note services.Note) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.contains(note.ID) {
		return false
	}
	n := cloneNote(note)
	c.pending = &n
	return true
}

// CancelDelete drops the pending deletion without any remote call.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

// ConfirmDelete deletes the staged note and returns to Idle. The pending
// note is cleared before the call so a second confirm cannot repeat it.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	note := c.pending
	c.pending = nil
	c.mu.Unlock()

	if note == nil {
		return ErrNothingPending
	}

	if err := c.svc.DeleteNote(ctx, note.ID); err != nil {
		c.handleError("delete note", err)
		if !services.IsUnauthorized(err) {
			c.notify.Notify(VariantError, "Failed to delete note. Please try again.")
		}
		return err
	}

	c.notify.Notify(VariantSuccess, "Note deleted successfully!")
	return c.afterMutation(ctx)
}
