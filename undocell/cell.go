package undocell

import (
	"sync"

	"github.com/halden-systems/undoengine/undo"
)

// Flag customizes how a Cell's value is treated outside the normal
// apply/revert path.
type Flag int

const (
	// FlagDoNotPersistCurrentValue marks a cell whose live value should
	// never be persisted or reported: PersistValue returns the cell's
	// initial value instead. Useful for
	// transient/derived cells that shouldn't be described as if they were
	// durable state.
	FlagDoNotPersistCurrentValue Flag = 1 << iota
)

// Change describes a Cell's value transition, delivered to subscribers on
// every Apply and Revert (including coalesced re-applies).
type Change[T comparable] struct {
	Old, New T
}

// Observer receives a Change whenever the cell's value is written. An
// error return aborts the write in progress; see CellWrite.Apply/Revert
// for the crash-rollback contract this enables.
type Observer[T comparable] func(Change[T]) error

// Cell is a scalar state slot whose writes are captured as reversible
// CellWrite actions on the ambient undo.History. T must be comparable so
// that a Cell can detect whether its own value has drifted since the last
// action it recorded (see CellWrite's staleness handling).
type Cell[T comparable] struct {
	mu      sync.Mutex
	value   T
	initial T
	flags   Flag

	obsMu sync.Mutex
	obs   []Observer[T]
}

// New constructs a Cell holding the given initial value.
func New[T comparable](initial T, flags Flag) *Cell[T] {
	return &Cell[T]{value: initial, initial: initial, flags: flags}
}

// Get returns the cell's current live value.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// PersistValue returns the value inspection tooling should report: the
// live value, unless FlagDoNotPersistCurrentValue is set, in which case
// the cell's original construction-time value is reported instead.
func (c *Cell[T]) PersistValue() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.flags&FlagDoNotPersistCurrentValue != 0 {
		return c.initial
	}
	return c.value
}

// Set writes v to the cell through the ambient undo.History. If the
// history's current command's last action is already a CellWrite
// targeting this cell, the write coalesces into it rather than growing
// the action list. Otherwise a new CellWrite is submitted via
// undo.AddAction.
func (c *Cell[T]) Set(v T) error {
	if last := undo.LastAction(); last != nil {
		if cw, ok := last.(*CellWrite[T]); ok && cw.cell == c {
			return cw.coalesce(v)
		}
	}
	cw := &CellWrite[T]{cell: c, old: c.Get(), new: v}
	return undo.AddAction(cw)
}

func (c *Cell[T]) subscribe(fn Observer[T]) {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	c.obs = append(c.obs, fn)
}

// Subscribe registers fn to be called with every value change (apply,
// revert, or coalesced re-apply).
func (c *Cell[T]) Subscribe(fn Observer[T]) {
	c.subscribe(fn)
}

func (c *Cell[T]) notify(old, new T) error {
	c.obsMu.Lock()
	obs := make([]Observer[T], len(c.obs))
	copy(obs, c.obs)
	c.obsMu.Unlock()
	change := Change[T]{Old: old, New: new}
	for _, fn := range obs {
		if err := fn(change); err != nil {
			return err
		}
	}
	return nil
}
