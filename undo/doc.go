// Package undo provides a general-purpose undo/redo engine for interactive
// applications.
//
// The engine records reversible mutations ([Action]) to in-memory state,
// groups them into atomic user-visible [Command]s, and lets the caller
// traverse the resulting [History] linearly forward (redo) and backward
// (undo). Two adapter packages, undocell and undoseq, sit on top of
// History so that ordinary program state — scalar properties and ordered
// sequences — can participate in undo/redo transparently.
//
// # Actions
//
// An Action is the smallest reversible unit:
//
//	type Action interface {
//	    Apply() error
//	    Revert() error
//	}
//
// Concrete actions capture whatever inverse state they need at
// construction. The engine never calls Apply twice in a row on the same
// action without an intervening Revert, and vice versa.
//
// # Commands
//
// A Command is a named, ordered group of actions committed together.
// Commands execute their actions in insertion order on redo and in reverse
// order on undo, with crash-rollback semantics on partial failure.
//
// # History
//
// History owns a sequence of committed commands, a cursor into that
// sequence, a bounded size with oldest-first eviction, and a save-point
// used to answer "does this history have unsaved changes?". Typical use:
//
//	h := undo.New()
//	h.BeginCommand("edit")
//	// ... mutate program state through adapters, which call
//	// undo.AddAction under the hood ...
//	h.EndCommand(false)
//
//	h.Undo()
//	h.Redo()
//
// # Ambient binding
//
// Code that wants to contribute actions to "whatever command is in
// progress" without holding a reference to a specific History calls the
// package-level AddAction and LastAction functions (see ambient.go). The
// ambient binding lives in this same package, not a separate one:
// BeginCommand/EndCommand/CancelCommand and the cursor-traversal
// operations install and clear it around their own execution, which only
// a package-internal slot can do without an import cycle.
package undo
