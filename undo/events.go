package undo

import "sync"

// EventKind identifies which History lifecycle notification fired.
type EventKind int

const (
	// CommandStarted fires when BeginCommand installs a new current
	// command.
	CommandStarted EventKind = iota
	// CommandEnded fires when EndCommand finalizes the current command,
	// before it is appended/merged into the committed command list. This
	// ordering is deliberate (see History.EndCommand): observers may still
	// add actions to the command via AddAction during this event.
	CommandEnded
	// CommandCancelled fires when CancelCommand rolls back and discards
	// the current command.
	CommandCancelled
	// CommandExecuted fires once per command that transitions from
	// reverted to applied: after EndCommand commits a new/merged command,
	// and once per command crossed forward during Redo or a position
	// increase.
	CommandExecuted
	// CommandRolledBack fires once per command that transitions from
	// applied to reverted: during Undo or a position decrease.
	CommandRolledBack
	// CommandDiscarded fires when size-limit eviction drops the oldest
	// committed command.
	CommandDiscarded
)

// String renders the EventKind in kebab case, for diagnostics.
func (k EventKind) String() string {
	switch k {
	case CommandStarted:
		return "command-started"
	case CommandEnded:
		return "command-ended"
	case CommandCancelled:
		return "command-cancelled"
	case CommandExecuted:
		return "command-executed"
	case CommandRolledBack:
		return "command-rolled-back"
	case CommandDiscarded:
		return "command-discarded"
	default:
		return "unknown"
	}
}

// Event is delivered to History observers synchronously, on the calling
// goroutine, before the triggering History call returns.
type Event struct {
	Kind    EventKind
	History *History
	Command *Command
}

// Observer receives History lifecycle events. Observers must not call
// BeginCommand, Undo, Redo, or SetPosition on the same History — doing so
// yields ErrBusyHistory. The exception is the CommandExecuted event that
// EndCommand fires last: by then the History is idle again and such calls
// are not rejected. Observers MAY call AddAction during the narrow
// CommandEnded window, per spec.
type Observer func(Event)

// Subscription identifies a registered Observer so it can be removed.
type Subscription struct {
	id int
}

type observerEntry struct {
	id int
	fn Observer
}

// observerSet is a small synchronous pub/sub registry, in the spirit of
// internal/event's bus but reduced to the closed set of events this engine
// emits: no topic matching, no async dispatch, no typed event registry —
// just a mutex-guarded slice of handlers invoked in registration order.
type observerSet struct {
	mu      sync.Mutex
	entries []observerEntry
	nextID  int
}

func (s *observerSet) subscribe(fn Observer) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.entries = append(s.entries, observerEntry{id: s.nextID, fn: fn})
	return Subscription{id: s.nextID}
}

func (s *observerSet) unsubscribe(sub Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.id == sub.id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

func (s *observerSet) publish(ev Event) {
	s.mu.Lock()
	entries := make([]observerEntry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()

	for _, e := range entries {
		e.fn(ev)
	}
}
