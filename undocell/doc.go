// Package undocell provides Cell[T], a scalar state adapter whose writes
// are automatically captured as reversible actions on the ambient
// undo.History.
//
// A Cell wraps a single value of type T. Setting it constructs (or, for a
// storm of writes inside one command, coalesces into) a CellWrite action
// and submits it through undo.AddAction, so application code can write
// cell.Set(v) the same way it would write a plain field assignment and
// get undo/redo for free.
package undocell
