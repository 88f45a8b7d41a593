package undoseq

import (
	"fmt"

	"github.com/halden-systems/undoengine/undo"
)

// SequenceInsert is the Action backing Insert/InsertRange/Add/AddRange: it
// captures the index and the items inserted there.
type SequenceInsert[T comparable] struct {
	seq   *Sequence[T]
	index int
	items []T
}

func (a *SequenceInsert[T]) Apply() error {
	s := a.seq
	s.mu.Lock()
	before := append([]T(nil), s.items...)
	s.items = spliceIn(s.items, a.index, a.items)
	s.mu.Unlock()

	if err := s.notify(Change[T]{Kind: ItemsAdded, Index: a.index, New: a.items}); err != nil {
		s.mu.Lock()
		s.items = before
		s.mu.Unlock()
		return &undo.ObserverError{Event: "items-added", Err: err}
	}
	return nil
}

func (a *SequenceInsert[T]) Revert() error {
	s := a.seq
	s.mu.Lock()
	before := append([]T(nil), s.items...)
	s.items = spliceOut(s.items, a.index, len(a.items))
	s.mu.Unlock()

	if err := s.notify(Change[T]{Kind: ItemsRemoved, Index: a.index, Old: a.items}); err != nil {
		s.mu.Lock()
		s.items = before
		s.mu.Unlock()
		return &undo.ObserverError{Event: "items-removed", Err: err}
	}
	return nil
}

func (a *SequenceInsert[T]) Description() string {
	return fmt.Sprintf("insert %d item(s) at %d", len(a.items), a.index)
}

// SequenceRemove is the Action backing RemoveAt/RemoveRange/Remove: it
// captures the index and a snapshot of the removed items.
type SequenceRemove[T comparable] struct {
	seq     *Sequence[T]
	index   int
	removed []T
}

func (a *SequenceRemove[T]) Apply() error {
	s := a.seq
	s.mu.Lock()
	before := append([]T(nil), s.items...)
	s.items = spliceOut(s.items, a.index, len(a.removed))
	s.mu.Unlock()

	if err := s.notify(Change[T]{Kind: ItemsRemoved, Index: a.index, Old: a.removed}); err != nil {
		s.mu.Lock()
		s.items = before
		s.mu.Unlock()
		return &undo.ObserverError{Event: "items-removed", Err: err}
	}
	return nil
}

func (a *SequenceRemove[T]) Revert() error {
	s := a.seq
	s.mu.Lock()
	before := append([]T(nil), s.items...)
	s.items = spliceIn(s.items, a.index, a.removed)
	s.mu.Unlock()

	if err := s.notify(Change[T]{Kind: ItemsAdded, Index: a.index, New: a.removed}); err != nil {
		s.mu.Lock()
		s.items = before
		s.mu.Unlock()
		return &undo.ObserverError{Event: "items-added", Err: err}
	}
	return nil
}

func (a *SequenceRemove[T]) Description() string {
	return fmt.Sprintf("remove %d item(s) at %d", len(a.removed), a.index)
}

// SequenceReplaceItem is the Action backing Set: a single-index
// old/new replacement.
type SequenceReplaceItem[T comparable] struct {
	seq      *Sequence[T]
	index    int
	old, new T
}

func (a *SequenceReplaceItem[T]) Apply() error {
	return a.seq.writeAt(a.index, a.new, Change[T]{
		Kind: ItemsReplaced, Index: a.index,
		Old: []T{a.old}, New: []T{a.new},
	})
}

func (a *SequenceReplaceItem[T]) Revert() error {
	return a.seq.writeAt(a.index, a.old, Change[T]{
		Kind: ItemsReplaced, Index: a.index,
		Old: []T{a.new}, New: []T{a.old},
	})
}

func (a *SequenceReplaceItem[T]) Description() string {
	return fmt.Sprintf("replace item %d", a.index)
}

func (s *Sequence[T]) writeAt(i int, v T, ch Change[T]) error {
	s.mu.Lock()
	prev := s.items[i]
	s.items[i] = v
	s.mu.Unlock()

	if err := s.notify(ch); err != nil {
		s.mu.Lock()
		s.items[i] = prev
		s.mu.Unlock()
		return &undo.ObserverError{Event: ch.Kind.String(), Err: err}
	}
	return nil
}

// SequenceReplaceList is the Action backing ReplaceAll: a whole-sequence
// snapshot swap.
type SequenceReplaceList[T comparable] struct {
	seq      *Sequence[T]
	old, new []T
}

func (a *SequenceReplaceList[T]) Apply() error {
	return a.seq.writeAll(a.new, Change[T]{Kind: ItemsReplaced, Old: a.old, New: a.new})
}

func (a *SequenceReplaceList[T]) Revert() error {
	return a.seq.writeAll(a.old, Change[T]{Kind: ItemsReplaced, Old: a.new, New: a.old})
}

func (a *SequenceReplaceList[T]) Description() string {
	return fmt.Sprintf("replace all %d item(s)", len(a.new))
}

func (s *Sequence[T]) writeAll(v []T, ch Change[T]) error {
	s.mu.Lock()
	before := append([]T(nil), s.items...)
	s.items = append([]T(nil), v...)
	s.mu.Unlock()

	if err := s.notify(ch); err != nil {
		s.mu.Lock()
		s.items = before
		s.mu.Unlock()
		return &undo.ObserverError{Event: ch.Kind.String(), Err: err}
	}
	return nil
}

// SequenceClear is the Action backing Clear: a snapshot of everything
// removed.
type SequenceClear[T comparable] struct {
	seq *Sequence[T]
	old []T
}

func (a *SequenceClear[T]) Apply() error {
	return a.seq.writeAll(nil, Change[T]{Kind: ListCleared, Old: a.old})
}

func (a *SequenceClear[T]) Revert() error {
	return a.seq.writeAll(a.old, Change[T]{Kind: ItemsAdded, New: a.old})
}

func (a *SequenceClear[T]) Description() string {
	return fmt.Sprintf("clear %d item(s)", len(a.old))
}

// spliceIn returns a new slice with items inserted at index i.
func spliceIn[T any](items []T, i int, ins []T) []T {
	out := make([]T, 0, len(items)+len(ins))
	out = append(out, items[:i]...)
	out = append(out, ins...)
	out = append(out, items[i:]...)
	return out
}

// spliceOut returns a new slice with the n items starting at i removed.
func spliceOut[T any](items []T, i, n int) []T {
	out := make([]T, 0, len(items)-n)
	out = append(out, items[:i]...)
	out = append(out, items[i+n:]...)
	return out
}
