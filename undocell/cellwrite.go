package undocell

import (
	"fmt"

	"github.com/halden-systems/undoengine/undo"
)

// CellWrite is the Action that records a single (possibly coalesced)
// write to a Cell.
type CellWrite[T comparable] struct {
	cell     *Cell[T]
	old, new T
}

// Apply writes new to the cell and notifies subscribers. If a subscriber
// returns an error, the cell's value is restored to what it was before
// this call and the error is propagated.
func (w *CellWrite[T]) Apply() error {
	return w.set(w.new)
}

// Revert writes old back to the cell and notifies subscribers, with the
// same crash-rollback guarantee as Apply.
func (w *CellWrite[T]) Revert() error {
	return w.set(w.old)
}

func (w *CellWrite[T]) Description() string {
	return fmt.Sprintf("set %v -> %v", w.old, w.new)
}

// set is the shared apply/revert/coalesce mechanics: swap the cell's
// value, notify, and roll the swap back if a subscriber rejects it.
func (w *CellWrite[T]) set(v T) error {
	c := w.cell
	c.mu.Lock()
	prev := c.value
	c.value = v
	c.mu.Unlock()

	if err := c.notify(prev, v); err != nil {
		c.mu.Lock()
		c.value = prev
		c.mu.Unlock()
		return &undo.ObserverError{Event: "cell-write", Err: err}
	}
	return nil
}

// coalesce folds a further write into this already-recorded action. If
// the cell's live value no longer matches what this action last wrote —
// because something applied outside the command in progress, most
// commonly a fire-and-forget write made while the history was suspended —
// the action's old value is re-anchored to that live value first. Without
// this, reverting the coalesced action would erase the suspended write
// instead of leaving it in place.
func (w *CellWrite[T]) coalesce(v T) error {
	if w.cell.Get() != w.new {
		w.old = w.cell.Get()
	}
	w.new = v
	return w.Apply()
}
