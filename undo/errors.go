package undo

import "errors"

// Sentinel errors returned by History operations. Use errors.Is to test
// for them; operations that wrap them do so with fmt.Errorf("...: %w", ...).
var (
	// ErrBusyHistory is returned when a command is already in progress
	// (or the ambient slot is occupied) and a mutually exclusive operation
	// is attempted: a second BeginCommand, or a cursor change while a
	// command is being built or another traversal is in flight.
	ErrBusyHistory = errors.New("undo: history is busy (command in progress)")

	// ErrNoCurrentCommand is returned by EndCommand/CancelCommand when no
	// command is in progress.
	ErrNoCurrentCommand = errors.New("undo: no current command")

	// ErrNothingToUndo is returned by Undo when the cursor is already at
	// the beginning of the history (cursor < 0).
	ErrNothingToUndo = errors.New("undo: nothing to undo")

	// ErrNothingToRedo is returned by Redo when the cursor is already at
	// the end of the history.
	ErrNothingToRedo = errors.New("undo: nothing to redo")

	// ErrReadOnly is returned by Sequence mutators when the sequence was
	// constructed read-only.
	ErrReadOnly = errors.New("undo: sequence is read-only")

	// ErrOutOfRange is returned when an index argument falls outside a
	// Sequence's valid range.
	ErrOutOfRange = errors.New("undo: index out of range")

	// ErrObserverFailure is the sentinel matched by errors.Is against any
	// error returned from ObserverError.Unwrap chains. The observer's
	// actual error is available via errors.As(err, &observerErr) or plain
	// errors.Unwrap.
	ErrObserverFailure = errors.New("undo: observer failed")
)

// ObserverError wraps an error returned by a notification observer. Actions
// that receive an observer error during apply/revert return one of these
// after restoring pre-mutation state, per the crash-rollback contract.
type ObserverError struct {
	// Event names the notification that failed (e.g. "cell-write",
	// "items-added").
	Event string
	Err   error
}

func (e *ObserverError) Error() string {
	return "undo: observer failed on " + e.Event + ": " + e.Err.Error()
}

func (e *ObserverError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrObserverFailure, so callers can write
// errors.Is(err, undo.ErrObserverFailure) without caring which event name
// failed.
func (e *ObserverError) Is(target error) bool {
	return target == ErrObserverFailure
}
