package undo

// Position is an opaque cursor snapshot returned by History.Snapshot,
// suitable only for a later History.GoToSnapshot call on the same History.
type Position int

// Snapshot captures the current cursor position: a lightweight bookmark a
// caller can return to later with GoToSnapshot, without introducing a
// second history primitive.
func (h *History) Snapshot() Position {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Position(h.cursor)
}

// GoToSnapshot moves the cursor to a previously captured Position, via the
// same traversal SetPosition uses (so it executes/rolls back every command
// crossed, and fails with ErrBusyHistory if a command is in progress).
func (h *History) GoToSnapshot(p Position) error {
	return h.SetPosition(int(p))
}

// Transaction runs fn inside a BeginCommand/EndCommand pair identified by
// id: if fn returns an error, the command is cancelled (every action it
// added is rolled back) and the error is returned; otherwise the command is
// ended with the given mergeable flag. This is sugar over
// BeginCommand/AddAction/EndCommand/CancelCommand for the common
// "run a closure, cancel on error" shape — it adds no new engine primitive.
func (h *History) Transaction(id any, mergeable bool, fn func() error) error {
	if err := h.BeginCommand(id); err != nil {
		return err
	}
	if err := fn(); err != nil {
		if cancelErr := h.CancelCommand(); cancelErr != nil {
			return cancelErr
		}
		return err
	}
	return h.EndCommand(mergeable)
}
