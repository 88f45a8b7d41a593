package undolua

import "fmt"

// LuaAction adapts a pair of global Lua functions into an undo.Action.
// ApplyFn is called with the captured state map on Apply; RevertFn is
// called with the same map on Revert. Either function may mutate and
// return a new state table, which becomes the map used for the next
// call — this lets scripted actions carry forward derived values (e.g. a
// computed diff) between apply and revert without recomputing them.
type LuaAction struct {
	rt       *Runtime
	applyFn  string
	revertFn string
	label    string
	state    map[string]any
}

// NewLuaAction constructs a LuaAction bound to rt, calling applyFn/
// revertFn (global Lua function names already defined via rt.Load) with
// the given initial state.
func NewLuaAction(rt *Runtime, applyFn, revertFn, label string, state map[string]any) *LuaAction {
	return &LuaAction{rt: rt, applyFn: applyFn, revertFn: revertFn, label: label, state: state}
}

// Apply calls the apply function with the action's current state.
func (a *LuaAction) Apply() error {
	return a.call(a.applyFn)
}

// Revert calls the revert function with the action's current state.
func (a *LuaAction) Revert() error {
	return a.call(a.revertFn)
}

// Description implements undo.Describer.
func (a *LuaAction) Description() string {
	if a.label != "" {
		return a.label
	}
	return fmt.Sprintf("lua(%s/%s)", a.applyFn, a.revertFn)
}

// State returns the action's current state map, for host code that wants
// to inspect what a scripted action last did.
func (a *LuaAction) State() map[string]any {
	return a.state
}

func (a *LuaAction) call(fn string) error {
	table := a.rt.Bridge().StateToTable(a.state)
	results, err := a.rt.Call(fn, table)
	if err != nil {
		return fmt.Errorf("undolua: %s: %w", fn, err)
	}
	if len(results) == 1 {
		if m, ok := results[0].(map[string]any); ok {
			a.state = m
			return nil
		}
	}
	// The script may have mutated the table in place instead of
	// returning a new one; re-read it either way.
	a.state = a.rt.Bridge().TableToState(table)
	return nil
}
