package undolua

import (
	lua "github.com/yuin/gopher-lua"
)

// Bridge converts values between Go and Lua across the narrow interface
// LuaAction needs: JSON-ish scalars, string-keyed maps, and slices.
// Deliberately no reflection over arbitrary structs, since a reversible
// action's state bag is always plain data.
type Bridge struct {
	L *lua.LState
}

// NewBridge wraps L for value conversion.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// ToLuaValue converts a Go value into its Lua equivalent. Values that are
// already a lua.LValue (e.g. a table built by StateToTable) pass through
// unchanged.
func (b *Bridge) ToLuaValue(v any) lua.LValue {
	if lv, ok := v.(lua.LValue); ok {
		return lv
	}
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(x)
	case int:
		return lua.LNumber(x)
	case int64:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case string:
		return lua.LString(x)
	case []any:
		t := b.L.NewTable()
		for i, item := range x {
			t.RawSetInt(i+1, b.ToLuaValue(item))
		}
		return t
	case map[string]any:
		t := b.L.NewTable()
		for k, item := range x {
			t.RawSetString(k, b.ToLuaValue(item))
		}
		return t
	default:
		return lua.LNil
	}
}

// ToGoValue converts a Lua value into a plain Go value (bool, float64,
// string, []any, map[string]any, or nil).
func (b *Bridge) ToGoValue(lv lua.LValue) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LTable:
		return b.tableToGo(v)
	default:
		return nil
	}
}

func (b *Bridge) tableToGo(t *lua.LTable) any {
	// A table with no non-array keys and a contiguous 1..n integer range
	// converts to a slice; anything else converts to a map.
	n := t.Len()
	isArray := n > 0
	if isArray {
		t.ForEach(func(k, _ lua.LValue) {
			if _, ok := k.(lua.LNumber); !ok {
				isArray = false
			}
		})
	}
	if isArray {
		out := make([]any, 0, n)
		for i := 1; i <= n; i++ {
			out = append(out, b.ToGoValue(t.RawGetInt(i)))
		}
		return out
	}

	out := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		out[k.String()] = b.ToGoValue(v)
	})
	return out
}

// StateToTable converts a Go state map into a fresh Lua table.
func (b *Bridge) StateToTable(state map[string]any) *lua.LTable {
	t := b.L.NewTable()
	for k, v := range state {
		t.RawSetString(k, b.ToLuaValue(v))
	}
	return t
}

// TableToState converts a Lua table back into a Go state map.
func (b *Bridge) TableToState(t *lua.LTable) map[string]any {
	out := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		out[k.String()] = b.ToGoValue(v)
	})
	return out
}
