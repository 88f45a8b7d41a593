package undo

import (
	"fmt"
	"sync"
	"time"
)

// savePointPoison is a cursor value that can never equal a legal cursor
// (legal range is [-1, len(commands)-1]), used to mark "the command that
// was current when SetSavePoint was called has since been evicted".
// HasUnsavedChanges then trivially stays true forever for that History,
// which is the intended semantics.
const savePointPoison = -2

// History is the undo/redo engine: a bounded, cursor-addressed sequence of
// committed [Command]s plus the command currently being built.
//
// A History is not safe for concurrent use by multiple goroutines that
// might each try to drive it at the same time; the internal mutex exists
// to keep bookkeeping consistent under the ambient binding's
// single-active-history model, not to offer a concurrency guarantee.
type History struct {
	mu sync.Mutex

	commands  []*Command
	cursor    int
	sizeLimit int
	savePoint int

	current      *Command
	suspendDepth int

	isUndoing bool
	isRedoing bool

	clock func() time.Time

	observers observerSet
}

// Option configures a History at construction using the functional
// options pattern.
type Option func(*History)

// WithSizeLimit bounds the number of committed commands the History
// retains; when exceeded, the oldest command is evicted. Zero (the
// default) means unbounded.
func WithSizeLimit(n int) Option {
	return func(h *History) {
		if n >= 0 {
			h.sizeLimit = n
		}
	}
}

// WithClock overrides the time source used to stamp Command.CommittedAt,
// for deterministic tests. Defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(h *History) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// New creates an empty History with cursor -1 and no save point set.
func New(opts ...Option) *History {
	h := &History{
		cursor:    -1,
		savePoint: -1,
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// BeginCommand starts a new command with the given opaque identifier and
// installs the ambient binding. It fails with ErrBusyHistory if this
// History (or any other, since the ambient slot is process-wide — see
// DESIGN.md) already has a command in progress.
func (h *History) BeginCommand(id any) error {
	h.mu.Lock()
	if h.current != nil {
		h.mu.Unlock()
		return fmt.Errorf("undo: begin command %v: %w", id, ErrBusyHistory)
	}
	h.mu.Unlock()

	if Current() != nil {
		return fmt.Errorf("undo: begin command %v: %w", id, ErrBusyHistory)
	}
	ambientBind(h)

	h.mu.Lock()
	h.current = &Command{identifier: id}
	cmd := h.current
	h.mu.Unlock()

	h.observers.publish(Event{Kind: CommandStarted, History: h, Command: cmd})
	return nil
}

// AddAction records a in the current command (if any) and applies it. If
// there is no current command, or the History is suspended, a is applied
// but not recorded: it executes exactly once and cannot later be undone.
//
// a is recorded before it is applied: a failed Apply leaves a in the
// command's action list, which the engine treats as terminal for that
// command — the expected recovery is an immediate CancelCommand.
func (h *History) AddAction(a Action) error {
	h.mu.Lock()
	if h.current == nil || h.suspendDepth > 0 {
		h.mu.Unlock()
		return a.Apply()
	}
	h.current.addAction(a)
	h.mu.Unlock()
	return a.Apply()
}

// LastAction returns the current command's most recently added action, or
// nil if there is no current command or the History is suspended.
func (h *History) LastAction() Action {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil || h.suspendDepth > 0 {
		return nil
	}
	return h.current.lastAction()
}

// EndCommand finalizes the current command. If it has no actions it is
// discarded silently. If mergeable is true and the command on top of the
// cursor has the same identifier, the current command's actions are
// appended onto it instead of creating a new entry. Otherwise the redo
// tail is discarded and the command is appended as a new entry, evicting
// the oldest command if this pushes the history past its size limit.
//
// CommandEnded fires before any of the above bookkeeping, while the
// command is still only h.current, so observers may still add actions to
// it via AddAction/undo.AddAction. CommandExecuted fires last, after the
// command has been committed (or dropped).
func (h *History) EndCommand(mergeable bool) error {
	h.mu.Lock()
	cur := h.current
	h.mu.Unlock()
	if cur == nil {
		return fmt.Errorf("undo: end command: %w", ErrNoCurrentCommand)
	}

	h.observers.publish(Event{Kind: CommandEnded, History: h, Command: cur})

	h.mu.Lock()
	cur.CommittedAt = h.clock()

	switch {
	case cur.Len() == 0:
		// Dropped silently; no CommandExecuted-adjacent side effects.
	case mergeable && h.cursor >= 0 && h.commands[h.cursor].identifier == cur.identifier:
		h.commands[h.cursor].merge(cur)
	default:
		h.commands = append(h.commands[:h.cursor+1], cur)
		h.cursor = len(h.commands) - 1
		h.evictIfOverLimitLocked()
	}

	h.current = nil
	h.suspendDepth = 0
	h.mu.Unlock()

	ambientUnbind()

	h.observers.publish(Event{Kind: CommandExecuted, History: h, Command: cur})
	return nil
}

// CancelCommand rolls back everything done since BeginCommand and
// discards the current command. It fails with ErrNoCurrentCommand if no
// command is in progress.
func (h *History) CancelCommand() error {
	h.mu.Lock()
	cur := h.current
	h.mu.Unlock()
	if cur == nil {
		return fmt.Errorf("undo: cancel command: %w", ErrNoCurrentCommand)
	}

	h.observers.publish(Event{Kind: CommandCancelled, History: h, Command: cur})

	h.mu.Lock()
	h.current = nil
	h.mu.Unlock()

	err := cur.rollback()

	ambientUnbind()
	h.mu.Lock()
	h.suspendDepth = 0
	h.mu.Unlock()

	return err
}

// SuspendCommand increments the suspend depth. While suspended, actions
// added through AddAction execute irrevocably: they are not recorded, so
// undo/redo never sees them. A no-op if no command is in progress.
func (h *History) SuspendCommand() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return
	}
	h.suspendDepth++
}

// ResumeCommand decrements the suspend depth, saturating at zero. A no-op
// if no command is in progress.
func (h *History) ResumeCommand() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return
	}
	if h.suspendDepth > 0 {
		h.suspendDepth--
	}
}

// Undo moves the cursor one step backward, reverting the command it
// crosses. It fails with ErrNothingToUndo if the cursor is already at -1,
// or with ErrBusyHistory if a command is in progress.
func (h *History) Undo() error {
	h.mu.Lock()
	cursor := h.cursor
	h.mu.Unlock()
	if cursor < 0 {
		return ErrNothingToUndo
	}

	h.mu.Lock()
	h.isUndoing = true
	h.mu.Unlock()

	err := h.SetPosition(cursor - 1)

	h.mu.Lock()
	h.isUndoing = false
	h.mu.Unlock()
	return err
}

// Redo moves the cursor one step forward, applying the command it
// crosses. It fails with ErrNothingToRedo if the cursor is already at the
// end of the history, or with ErrBusyHistory if a command is in progress.
func (h *History) Redo() error {
	h.mu.Lock()
	cursor := h.cursor
	n := len(h.commands)
	h.mu.Unlock()
	if cursor >= n-1 {
		return ErrNothingToRedo
	}

	h.mu.Lock()
	h.isRedoing = true
	h.mu.Unlock()

	err := h.SetPosition(cursor + 1)

	h.mu.Lock()
	h.isRedoing = false
	h.mu.Unlock()
	return err
}

// SetPosition moves the cursor to target, clamped to [-1,
// len(commands)-1], executing or rolling back every command it crosses.
// It fails with ErrBusyHistory if a command is in progress or the ambient
// slot is already held (another traversal or command). If a crossed
// command's Execute/Rollback fails, traversal stops there: the cursor is
// left at the last successfully-crossed command and the error is
// returned. The ambient binding is installed for the duration of the
// traversal and always cleared on exit.
func (h *History) SetPosition(target int) error {
	h.mu.Lock()
	if h.current != nil {
		h.mu.Unlock()
		return fmt.Errorf("undo: set position: %w", ErrBusyHistory)
	}
	if target < -1 {
		target = -1
	}
	if target > len(h.commands)-1 {
		target = len(h.commands) - 1
	}
	cursor := h.cursor
	h.mu.Unlock()

	if Current() != nil {
		return fmt.Errorf("undo: set position: %w", ErrBusyHistory)
	}
	ambientBind(h)
	defer ambientUnbind()

	if target > cursor {
		for i := cursor + 1; i <= target; i++ {
			h.mu.Lock()
			cmd := h.commands[i]
			h.mu.Unlock()

			if err := cmd.execute(); err != nil {
				h.mu.Lock()
				h.cursor = i - 1
				h.mu.Unlock()
				return fmt.Errorf("undo: execute command %d: %w", i, err)
			}
			h.mu.Lock()
			h.cursor = i
			h.mu.Unlock()
			h.observers.publish(Event{Kind: CommandExecuted, History: h, Command: cmd})
		}
		return nil
	}

	for i := cursor; i >= target+1; i-- {
		h.mu.Lock()
		cmd := h.commands[i]
		h.mu.Unlock()

		if err := cmd.rollback(); err != nil {
			h.mu.Lock()
			h.cursor = i
			h.mu.Unlock()
			return fmt.Errorf("undo: rollback command %d: %w", i, err)
		}
		h.mu.Lock()
		h.cursor = i - 1
		h.mu.Unlock()
		h.observers.publish(Event{Kind: CommandRolledBack, History: h, Command: cmd})
	}
	return nil
}

// evictIfOverLimitLocked drops the oldest command while the history
// exceeds its size limit. Caller must hold h.mu.
func (h *History) evictIfOverLimitLocked() {
	if h.sizeLimit <= 0 {
		return
	}
	for len(h.commands) > h.sizeLimit {
		evicted := h.commands[0]
		h.dropFrontLocked(1)
		h.mu.Unlock()
		h.observers.publish(Event{Kind: CommandDiscarded, History: h, Command: evicted})
		h.mu.Lock()
	}
}

// dropFrontLocked removes the leading delta commands, adjusting the
// cursor and save point to match. Caller must hold h.mu.
func (h *History) dropFrontLocked(delta int) {
	if delta <= 0 || delta > len(h.commands) {
		return
	}
	h.commands = h.commands[delta:]

	if h.savePoint >= 0 && h.savePoint < delta {
		h.savePoint = savePointPoison
	} else if h.savePoint != savePointPoison {
		h.savePoint -= delta
	}

	appliedBefore := h.cursor + 1
	appliedAfter := appliedBefore - delta
	if appliedAfter < 0 {
		appliedAfter = 0
	}
	h.cursor = appliedAfter - 1
}

// SetSize sets the size limit. Negative values are ignored. If the new
// limit is positive and smaller than the current command count, the
// oldest commands are dropped to fit.
func (h *History) SetSize(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n < 0 {
		return
	}
	h.sizeLimit = n
	if n > 0 && len(h.commands) > n {
		h.dropFrontLocked(len(h.commands) - n)
	}
	if h.cursor > len(h.commands)-1 {
		h.cursor = len(h.commands) - 1
	}
}

// Clear empties the committed command list and resets the cursor and save
// point to -1. It does not affect a command currently in progress.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commands = nil
	h.cursor = -1
	h.savePoint = -1
}

// SetSavePoint records the current cursor as the position with no unsaved
// changes.
func (h *History) SetSavePoint() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.savePoint = h.cursor
}

// Count returns the number of committed commands.
func (h *History) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.commands)
}

// Position returns the current cursor value.
func (h *History) Position() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor
}

// Size returns the configured size limit (0 means unbounded).
func (h *History) Size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sizeLimit
}

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor >= 0
}

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor < len(h.commands)-1
}

// HasUnsavedChanges reports whether the cursor has moved since the last
// SetSavePoint (or if the save-point command was evicted).
func (h *History) HasUnsavedChanges() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.savePoint != h.cursor
}

// IsCommandStarted reports whether a command is currently in progress.
func (h *History) IsCommandStarted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current != nil
}

// IsCommandSuspended reports whether the current command is suspended.
func (h *History) IsCommandSuspended() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.suspendDepth > 0
}

// IsUndoing reports whether the History is currently inside an Undo call.
func (h *History) IsUndoing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.isUndoing
}

// IsRedoing reports whether the History is currently inside a Redo call.
func (h *History) IsRedoing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.isRedoing
}

// CurrentCommandID returns the identifier of the command in progress and
// true, or (nil, false) if no command is in progress.
func (h *History) CurrentCommandID() (any, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return nil, false
	}
	return h.current.identifier, true
}

// Commands returns the identifiers of committed commands, oldest first.
func (h *History) Commands() []any {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]any, len(h.commands))
	for i, c := range h.commands {
		ids[i] = c.identifier
	}
	return ids
}

// IdentifierAt returns the identifier of the committed command at index i.
func (h *History) IdentifierAt(i int) (any, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if i < 0 || i >= len(h.commands) {
		return nil, fmt.Errorf("undo: identifier at %d: %w", i, ErrOutOfRange)
	}
	return h.commands[i].identifier, nil
}

// CommandLabel returns a human-readable label for the committed command at
// index i (see Command.Label).
func (h *History) CommandLabel(i int) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if i < 0 || i >= len(h.commands) {
		return "", fmt.Errorf("undo: command label at %d: %w", i, ErrOutOfRange)
	}
	return h.commands[i].Label(), nil
}

// CommandAt returns the committed command at index i, for callers (such as
// undoinspect) that need more than the identifier/label.
func (h *History) CommandAt(i int) (*Command, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if i < 0 || i >= len(h.commands) {
		return nil, fmt.Errorf("undo: command at %d: %w", i, ErrOutOfRange)
	}
	return h.commands[i], nil
}

// Subscribe registers fn to receive History lifecycle events, invoked
// synchronously on the calling goroutine before the triggering call
// returns. The returned Subscription can be passed to Unsubscribe.
func (h *History) Subscribe(fn Observer) Subscription {
	return h.observers.subscribe(fn)
}

// Unsubscribe removes a previously registered observer.
func (h *History) Unsubscribe(sub Subscription) {
	h.observers.unsubscribe(sub)
}
