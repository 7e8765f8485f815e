package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/tasedit/internal/tas"
)

// Conversions from tas values to plain Lua tables. Tables are snapshots:
// writing to them does not change the document.

func stringList(L *lua.LState, items []string) *lua.LTable {
	t := L.CreateTable(len(items), 0)
	for _, s := range items {
		t.Append(lua.LString(s))
	}
	return t
}

func actionList(L *lua.LState, actions []tas.Action) *lua.LTable {
	t := L.CreateTable(len(actions), 0)
	for _, a := range actions {
		t.Append(lua.LString(a.String()))
	}
	return t
}

// lineTable describes one line. Every table has kind, line and text; the
// remaining fields depend on the kind.
func lineTable(L *lua.LState, line tas.Line, lineNumber int) *lua.LTable {
	t := L.CreateTable(0, 5)
	t.RawSetString("kind", lua.LString(line.Kind().String()))
	t.RawSetString("line", lua.LNumber(lineNumber))
	t.RawSetString("text", lua.LString(tas.FormatLine(line)))

	switch l := line.(type) {
	case *tas.FrameInput:
		t.RawSetString("frames", lua.LNumber(l.Count))
		t.RawSetString("actions", actionList(L, l.Actions))
	case *tas.Comment:
		t.RawSetString("comment", lua.LString(l.Text))
	case *tas.Property:
		t.RawSetString("key", lua.LString(l.Key))
		t.RawSetString("value", lua.LString(l.Value))
	case *tas.Call:
		t.RawSetString("method", lua.LString(l.Method))
		t.RawSetString("arguments", stringList(L, l.Arguments))
	case *tas.Breakpoint:
		if l.HasFactor {
			t.RawSetString("factor", lua.LNumber(l.Factor))
		}
	}
	return t
}

// cursorTable describes a cursor state. index is 1-based to match doc:line.
func cursorTable(L *lua.LState, state *tas.CursorState) *lua.LTable {
	released, pressed := state.ReleasedPressed()

	effects := L.CreateTable(len(state.SideEffects), 0)
	for _, line := range state.SideEffects {
		effects.Append(lineTable(L, line, 0))
	}

	t := L.CreateTable(0, 7)
	t.RawSetString("line", lua.LNumber(state.LineNumber))
	t.RawSetString("index", lua.LNumber(state.Index+1))
	t.RawSetString("offset", lua.LNumber(state.FrameInLine))
	t.RawSetString("active", lineTable(L, state.Active, state.LineNumber))
	t.RawSetString("released", actionList(L, released))
	t.RawSetString("pressed", actionList(L, pressed))
	t.RawSetString("side_effects", effects)
	return t
}

// layoutTable describes an action layout.
func layoutTable(L *lua.LState, layout tas.ActionLayout) *lua.LTable {
	exclusive := L.CreateTable(0, len(layout.Exclusive))
	for key, others := range layout.Exclusive {
		exclusive.RawSetString(key, stringList(L, others))
	}
	valued := L.CreateTable(0, len(layout.Valued))
	for key, n := range layout.Valued {
		valued.RawSetString(key, lua.LNumber(n))
	}

	t := L.CreateTable(0, 3)
	t.RawSetString("order", stringList(L, layout.Order))
	t.RawSetString("exclusive", exclusive)
	t.RawSetString("valued", valued)
	return t
}
