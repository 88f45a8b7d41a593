package undo

import "sync"

// ambient holds the ambient "current history" — the History whose
// BeginCommand/EndCommand/CancelCommand or cursor-traversal call is
// presently executing. It is a single global rather than a true
// goroutine-local slot: Go has no supported API for goroutine-local
// storage, so only one history may actively be building or traversing a
// command at a time (see DESIGN.md's ambient-binding entry).
var ambient struct {
	mu sync.Mutex
	h  *History
}

func ambientBind(h *History) {
	ambient.mu.Lock()
	ambient.h = h
	ambient.mu.Unlock()
}

func ambientUnbind() {
	ambient.mu.Lock()
	ambient.h = nil
	ambient.mu.Unlock()
}

// Current returns the ambient history, or nil if no History currently has
// a command in progress or a cursor move in flight.
func Current() *History {
	ambient.mu.Lock()
	defer ambient.mu.Unlock()
	return ambient.h
}

// AddAction submits a to the ambient history's current command and
// applies it. If there is no ambient history, the ambient history has no
// current command, or its suspend depth is greater than zero, a is simply
// applied and not recorded (fire-and-forget mode) — the action executes
// exactly once but cannot later be undone or redone.
//
// Free-standing helpers that mutate program state (such as undocell.Cell
// and undoseq.Sequence) call AddAction so they can contribute to whatever
// command is in progress without holding a reference to a History.
func AddAction(a Action) error {
	h := Current()
	if h == nil {
		return a.Apply()
	}
	return h.AddAction(a)
}

// LastAction returns the ambient history's current command's most
// recently added action, or nil if there is no ambient history, no
// current command, or the history is suspended.
func LastAction() Action {
	h := Current()
	if h == nil {
		return nil
	}
	return h.LastAction()
}
