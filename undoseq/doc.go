// Package undoseq provides Sequence[T], an ordered-list state adapter
// whose structural mutations (insert, remove, replace, clear) are
// automatically captured as reversible actions on the ambient
// undo.History.
//
// Every mutator funnels through one of four action variants (Insert,
// Remove, ReplaceItem/ReplaceList, Clear) and is submitted via
// undo.AddAction, so the sequence gets undo/redo the same way undocell's
// Cell does. A Sequence constructed read-only rejects every mutator with
// ErrReadOnly; reads never touch the history.
package undoseq
