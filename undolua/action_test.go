package undolua_test

import (
	"testing"

	"github.com/halden-systems/undoengine/undo"
	"github.com/halden-systems/undoengine/undolua"
)

const counterScript = `
function apply(state)
    state.value = state.old + state.delta
    return state
end

function revert(state)
    state.value = state.old
    return state
end
`

func TestLuaActionUndoRedo(t *testing.T) {
	rt := undolua.NewRuntime()
	defer rt.Close()

	if err := rt.Load(counterScript); err != nil {
		t.Fatalf("Load: %v", err)
	}

	h := undo.New()
	if err := h.BeginCommand("script"); err != nil {
		t.Fatalf("BeginCommand: %v", err)
	}

	action := undolua.NewLuaAction(rt, "apply", "revert", "add 5", map[string]any{
		"old": float64(10), "delta": float64(5),
	})
	if err := undo.AddAction(action); err != nil {
		t.Fatalf("AddAction: %v", err)
	}
	if got := action.State()["value"]; got != float64(15) {
		t.Fatalf("state.value after apply = %v, want 15", got)
	}
	if err := h.EndCommand(false); err != nil {
		t.Fatalf("EndCommand: %v", err)
	}

	if err := h.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := action.State()["value"]; got != float64(10) {
		t.Fatalf("state.value after undo = %v, want 10", got)
	}

	if err := h.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := action.State()["value"]; got != float64(15) {
		t.Fatalf("state.value after redo = %v, want 15", got)
	}
}

func TestLuaActionDescription(t *testing.T) {
	rt := undolua.NewRuntime()
	defer rt.Close()
	if err := rt.Load(counterScript); err != nil {
		t.Fatalf("Load: %v", err)
	}
	a := undolua.NewLuaAction(rt, "apply", "revert", "", nil)
	if got := a.Description(); got != "lua(apply/revert)" {
		t.Fatalf("Description() = %q, want lua(apply/revert)", got)
	}
}
