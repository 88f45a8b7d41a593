package undocell_test

import (
	"errors"
	"testing"

	"github.com/halden-systems/undoengine/undo"
	"github.com/halden-systems/undoengine/undocell"
)

func TestCellBasicUndoRedo(t *testing.T) {
	h := undo.New()
	c := undocell.New(0, 0)

	if err := h.BeginCommand("a"); err != nil {
		t.Fatalf("BeginCommand: %v", err)
	}
	if err := c.Set(1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := h.EndCommand(false); err != nil {
		t.Fatalf("EndCommand: %v", err)
	}
	if got := c.Get(); got != 1 {
		t.Fatalf("after end: got %d, want 1", got)
	}
	if h.Position() != 0 {
		t.Fatalf("cursor = %d, want 0", h.Position())
	}

	if err := h.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := c.Get(); got != 0 {
		t.Fatalf("after undo: got %d, want 0", got)
	}
	if h.Position() != -1 {
		t.Fatalf("cursor = %d, want -1", h.Position())
	}

	if err := h.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := c.Get(); got != 1 {
		t.Fatalf("after redo: got %d, want 1", got)
	}
}

// Repeated writes inside one command should coalesce into a single
// undoable step.
func TestCellCoalescing(t *testing.T) {
	h := undo.New()
	c := undocell.New(0, 0)

	if err := h.BeginCommand("a"); err != nil {
		t.Fatalf("BeginCommand: %v", err)
	}
	for _, v := range []int{1, 2, 3} {
		if err := c.Set(v); err != nil {
			t.Fatalf("Set(%d): %v", v, err)
		}
	}
	if err := h.EndCommand(false); err != nil {
		t.Fatalf("EndCommand: %v", err)
	}
	if h.Count() != 1 {
		t.Fatalf("Count = %d, want 1 (writes should coalesce)", h.Count())
	}
	if err := h.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := c.Get(); got != 0 {
		t.Fatalf("after undo: got %d, want 0", got)
	}
	if err := h.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := c.Get(); got != 3 {
		t.Fatalf("after redo: got %d, want 3", got)
	}
}

// Mergeable commands with matching identifiers should combine into one
// undoable entry.
func TestCellMerge(t *testing.T) {
	h := undo.New()
	c := undocell.New(0, 0)

	if err := h.BeginCommand("edit"); err != nil {
		t.Fatalf("BeginCommand: %v", err)
	}
	if err := c.Set(1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := h.EndCommand(true); err != nil {
		t.Fatalf("EndCommand: %v", err)
	}

	if err := h.BeginCommand("edit"); err != nil {
		t.Fatalf("BeginCommand: %v", err)
	}
	if err := c.Set(2); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := h.EndCommand(true); err != nil {
		t.Fatalf("EndCommand: %v", err)
	}

	if h.Count() != 1 {
		t.Fatalf("Count = %d, want 1 (mergeable commands should merge)", h.Count())
	}
	if err := h.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := c.Get(); got != 0 {
		t.Fatalf("after undo: got %d, want 0", got)
	}
	if err := h.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := c.Get(); got != 2 {
		t.Fatalf("after redo: got %d, want 2", got)
	}
}

// A fire-and-forget write made while suspended must survive a subsequent
// undo of the whole command.
func TestCellSuspendSurvivesUndo(t *testing.T) {
	h := undo.New()
	c := undocell.New(0, 0)

	if err := h.BeginCommand("a"); err != nil {
		t.Fatalf("BeginCommand: %v", err)
	}
	if err := c.Set(1); err != nil {
		t.Fatalf("Set(1): %v", err)
	}
	h.SuspendCommand()
	if err := c.Set(2); err != nil {
		t.Fatalf("Set(2): %v", err)
	}
	h.ResumeCommand()
	if err := c.Set(3); err != nil {
		t.Fatalf("Set(3): %v", err)
	}
	if err := h.EndCommand(false); err != nil {
		t.Fatalf("EndCommand: %v", err)
	}
	if got := c.Get(); got != 3 {
		t.Fatalf("before undo: got %d, want 3", got)
	}

	if err := h.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := c.Get(); got != 2 {
		t.Fatalf("after undo: got %d, want 2 (suspended write must survive)", got)
	}
}

func TestCellCancelRestoresPreCommandValue(t *testing.T) {
	h := undo.New()
	c := undocell.New(5, 0)

	if err := h.BeginCommand("a"); err != nil {
		t.Fatalf("BeginCommand: %v", err)
	}
	if err := c.Set(6); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Set(7); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := h.CancelCommand(); err != nil {
		t.Fatalf("CancelCommand: %v", err)
	}
	if got := c.Get(); got != 5 {
		t.Fatalf("after cancel: got %d, want 5", got)
	}
	if h.Count() != 0 {
		t.Fatalf("Count = %d, want 0 after cancel", h.Count())
	}
}

func TestCellPersistValueFlag(t *testing.T) {
	c := undocell.New("draft", undocell.FlagDoNotPersistCurrentValue)
	h := undo.New()

	if err := h.BeginCommand("a"); err != nil {
		t.Fatalf("BeginCommand: %v", err)
	}
	if err := c.Set("edited"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := h.EndCommand(false); err != nil {
		t.Fatalf("EndCommand: %v", err)
	}

	if got := c.Get(); got != "edited" {
		t.Fatalf("Get() = %q, want %q", got, "edited")
	}
	if got := c.PersistValue(); got != "draft" {
		t.Fatalf("PersistValue() = %q, want %q (flag should suppress live value)", got, "draft")
	}
}

func TestCellObserverFailureRollsBack(t *testing.T) {
	h := undo.New()
	c := undocell.New(0, 0)
	boom := errors.New("boom")

	c.Subscribe(func(ch undocell.Change[int]) error {
		if ch.New == 9 {
			return boom
		}
		return nil
	})

	if err := h.BeginCommand("a"); err != nil {
		t.Fatalf("BeginCommand: %v", err)
	}
	err := c.Set(9)
	if !errors.Is(err, boom) {
		t.Fatalf("Set error = %v, want %v", err, boom)
	}
	if !errors.Is(err, undo.ErrObserverFailure) {
		t.Fatalf("Set error = %v, want it to match undo.ErrObserverFailure", err)
	}
	var observerErr *undo.ObserverError
	if !errors.As(err, &observerErr) {
		t.Fatalf("Set error = %v, want an *undo.ObserverError in its chain", err)
	}
	if got := c.Get(); got != 0 {
		t.Fatalf("after failed apply: got %d, want 0 (value must be rolled back)", got)
	}
	// The failed action is terminal for the command per AddAction's
	// contract; cancel to release the ambient binding for later tests.
	if err := h.CancelCommand(); err != nil {
		t.Fatalf("CancelCommand: %v", err)
	}
}
