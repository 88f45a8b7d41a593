// Package undolua lets host applications author reversible undo.Action
// implementations as Lua scripts instead of Go code, so user code can
// contribute its own actions without a Go build step.
//
// A Runtime wraps a sandboxed gopher-lua state (safe libraries only, no
// io/os/debug/package, a per-call execution timeout). LuaAction adapts a
// pair of global Lua functions ("apply"/"revert" by convention, but any
// global names work) operating on a Go-supplied state table into an
// undo.Action, converting values across the boundary with Bridge.
package undolua
