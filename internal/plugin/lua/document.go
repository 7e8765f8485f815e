package lua

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/tasedit/internal/tas"
)

const documentTypeName = "tas.document"

// registerModule installs the tas global and the document metatable.
func (s *State) registerModule() {
	L := s.L

	mt := L.NewTypeMetatable(documentTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"render":       s.docRender,
		"expand":       s.docExpand,
		"combine":      s.docCombine,
		"total_frames": s.docTotalFrames,
		"len":          s.docLen,
		"line":         s.docLine,
		"cursor":       s.docCursor,
		"held":         s.docHeld,
		"keys":         s.docKeys,
		"toggle":       s.docToggle,
		"insert":       s.docInsert,
		"remove":       s.docRemove,
	}))
	L.SetField(mt, "__tostring", L.NewFunction(s.docRender))

	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"parse":          s.tasParse,
		"layout":         s.tasLayout,
		"toggle_comment": s.tasToggleComment,
	})
	L.SetGlobal("tas", mod)
}

func (s *State) newDocument(doc *tas.Document) *lua.LUserData {
	ud := s.L.NewUserData()
	ud.Value = doc
	s.L.SetMetatable(ud, s.L.GetTypeMetatable(documentTypeName))
	return ud
}

func toDocument(v lua.LValue) (*tas.Document, bool) {
	ud, ok := v.(*lua.LUserData)
	if !ok {
		return nil, false
	}
	doc, ok := ud.Value.(*tas.Document)
	return doc, ok
}

func checkDocument(L *lua.LState) *tas.Document {
	doc, ok := toDocument(L.Get(1))
	if !ok {
		L.ArgError(1, "tas document expected")
		return nil
	}
	return doc
}

func (s *State) tasParse(L *lua.LState) int {
	doc, err := tas.Parse(L.CheckString(1))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(s.newDocument(doc))
	return 1
}

// tasLayout returns the configured action layout as a table.
func (s *State) tasLayout(L *lua.LState) int {
	L.Push(layoutTable(L, s.layout))
	return 1
}

func (s *State) tasToggleComment(L *lua.LState) int {
	L.Push(lua.LString(tas.ToggleComment(L.CheckString(1), L.CheckInt(2), L.CheckInt(3))))
	return 1
}

func (s *State) docRender(L *lua.LState) int {
	L.Push(lua.LString(tas.Render(checkDocument(L))))
	return 1
}

func (s *State) docExpand(L *lua.LState) int {
	checkDocument(L).Expand()
	return 0
}

func (s *State) docCombine(L *lua.LState) int {
	L.Push(lua.LBool(checkDocument(L).Combine()))
	return 1
}

func (s *State) docTotalFrames(L *lua.LState) int {
	L.Push(lua.LNumber(checkDocument(L).TotalFrames()))
	return 1
}

func (s *State) docLen(L *lua.LState) int {
	L.Push(lua.LNumber(checkDocument(L).Len()))
	return 1
}

func (s *State) docLine(L *lua.LState) int {
	doc := checkDocument(L)
	i := L.CheckInt(2)
	if i < 1 || i > doc.Len() {
		L.Push(lua.LNil)
		return 1
	}
	rec := doc.Lines[i-1]
	L.Push(lineTable(L, rec.Line, rec.LineNumber))
	return 1
}

func (s *State) docCursor(L *lua.LState) int {
	doc := checkDocument(L)
	state := doc.CursorAt(L.CheckInt(2))
	if state == nil {
		L.Push(lua.LNil)
		return 1
	}

	L.Push(cursorTable(L, state))
	return 1
}

// docHeld reports whether key is held at frame.
func (s *State) docHeld(L *lua.LState) int {
	doc := checkDocument(L)
	state := doc.CursorAt(L.CheckInt(2))
	key := L.CheckString(3)
	L.Push(lua.LBool(state != nil && state.Active.HasKey(key)))
	return 1
}

func (s *State) docKeys(L *lua.LState) int {
	L.Push(stringList(L, checkDocument(L).ActionKeys()))
	return 1
}

func (s *State) docToggle(L *lua.LState) int {
	doc := checkDocument(L)
	if err := doc.ToggleActionAt(L.CheckInt(2), L.CheckString(3), s.layout); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

func (s *State) docInsert(L *lua.LState) int {
	doc := checkDocument(L)
	i := L.CheckInt(2)
	if i < 1 || i > doc.Len()+1 {
		L.ArgError(2, "index out of range")
		return 0
	}
	parsed, err := tas.Parse(L.CheckString(3))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	// Inserted lines have no source line.
	for j := range parsed.Lines {
		parsed.Lines[j].LineNumber = 0
	}

	lines := make([]tas.LineRecord, 0, doc.Len()+parsed.Len())
	lines = append(lines, doc.Lines[:i-1]...)
	lines = append(lines, parsed.Lines...)
	lines = append(lines, doc.Lines[i-1:]...)
	doc.Lines = lines
	return 0
}

func (s *State) docRemove(L *lua.LState) int {
	doc := checkDocument(L)
	i := L.CheckInt(2)
	if i < 1 || i > doc.Len() {
		L.ArgError(2, "index out of range")
		return 0
	}
	doc.Lines = append(doc.Lines[:i-1], doc.Lines[i:]...)
	return 0
}
