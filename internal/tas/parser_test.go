package tas

import (
	"errors"
	"testing"
)

func mustParse(t *testing.T, text string) *Document {
	t.Helper()
	doc, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", text, err)
	}
	return doc
}

func TestParseLineKinds(t *testing.T) {
	text := "RecordCount: 500\n" +
		"console load 1\n" +
		"   1 # comment\n" +
		"\n" +
		"Set, Player.Speed.X, 100\n" +
		"\n" +
		"#Start\n" +
		"  88\n" +
		"***\n" +
		"   5,R,X\n"
	doc := mustParse(t, text)

	want := []struct {
		kind Kind
		line int
	}{
		{KindProperty, 1},
		{KindCall, 2},
		{KindFrameInput, 3},
		{KindCall, 5},
		{KindComment, 7},
		{KindFrameInput, 8},
		{KindBreakpoint, 9},
		{KindFrameInput, 10},
	}
	if doc.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", doc.Len(), len(want))
	}
	for i, w := range want {
		rec := doc.Lines[i]
		if rec.Line.Kind() != w.kind {
			t.Errorf("line %d kind = %v, want %v", i, rec.Line.Kind(), w.kind)
		}
		if rec.LineNumber != w.line {
			t.Errorf("line %d number = %d, want %d", i, rec.LineNumber, w.line)
		}
	}

	prop := doc.Lines[0].Line.(*Property)
	if prop.Key != "RecordCount" || prop.Value != "500" {
		t.Errorf("property = %+v", prop)
	}

	call := doc.Lines[1].Line.(*Call)
	if call.Method != "console load 1" || len(call.Arguments) != 0 {
		t.Errorf("call = %+v, want method only", call)
	}

	set := doc.Lines[3].Line.(*Call)
	if set.Method != "Set" || len(set.Arguments) != 2 || set.Arguments[0] != "Player.Speed.X" || set.Arguments[1] != "100" {
		t.Errorf("call = %+v", set)
	}

	if c := doc.Lines[4].Line.(*Comment); c.Text != "Start" {
		t.Errorf("comment text = %q, want %q", c.Text, "Start")
	}

	if in := doc.Lines[5].Line.(*FrameInput); in.Count != 88 || len(in.Actions) != 0 {
		t.Errorf("frame input = %+v, want 88 frames without actions", in)
	}
}

func TestParseTrailingCommentDropped(t *testing.T) {
	doc := mustParse(t, "   5,R,J # jump here")
	if doc.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", doc.Len())
	}
	in, ok := doc.Lines[0].Line.(*FrameInput)
	if !ok {
		t.Fatalf("line is %T, want *FrameInput", doc.Lines[0].Line)
	}
	if in.Count != 5 || !in.SameActions(NewFrameInput(0, NewAction("R"), NewAction("J"))) {
		t.Errorf("frame input = %+v", in)
	}
}

func TestParseIndentedComment(t *testing.T) {
	doc := mustParse(t, "   # lvl_1 ")
	c, ok := doc.Lines[0].Line.(*Comment)
	if !ok {
		t.Fatalf("line is %T, want *Comment", doc.Lines[0].Line)
	}
	if c.Text != " lvl_1 " {
		t.Errorf("Text = %q, want %q", c.Text, " lvl_1 ")
	}
}

func TestParseBlankLinesDropped(t *testing.T) {
	doc := mustParse(t, "\n   \n\t\n1,R\n\n")
	if doc.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", doc.Len())
	}
	if doc.Lines[0].LineNumber != 4 {
		t.Errorf("LineNumber = %d, want 4", doc.Lines[0].LineNumber)
	}
}

func TestParseCRLF(t *testing.T) {
	doc := mustParse(t, "#a\r\n2,R\r\n")
	if c := doc.Lines[0].Line.(*Comment); c.Text != "a" {
		t.Errorf("Text = %q, want %q", c.Text, "a")
	}
	if Render(doc) != "#a\n   2,R" {
		t.Errorf("Render() = %q", Render(doc))
	}
}

func TestParseBreakpoint(t *testing.T) {
	tests := []struct {
		input     string
		hasFactor bool
		factor    float64
	}{
		{"***", false, 0},
		{"  ***", false, 0},
		{"***,2", true, 2},
		{"*** 0.5", true, 0.5},
		{"***, 10", true, 10},
		{"***fast", false, 0},
	}
	for _, tt := range tests {
		doc := mustParse(t, tt.input)
		bp, ok := doc.Lines[0].Line.(*Breakpoint)
		if !ok {
			t.Errorf("Parse(%q) line is %T, want *Breakpoint", tt.input, doc.Lines[0].Line)
			continue
		}
		if bp.HasFactor != tt.hasFactor || bp.Factor != tt.factor {
			t.Errorf("Parse(%q) = %+v, want factor %v (%v)", tt.input, bp, tt.factor, tt.hasFactor)
		}
	}
}

func TestParseValuedAction(t *testing.T) {
	doc := mustParse(t, "1,M(10,20)")
	in := doc.Lines[0].Line.(*FrameInput)
	if len(in.Actions) != 1 {
		t.Fatalf("actions = %v, want 1", in.Actions)
	}
	if !in.Actions[0].Equal(NewAction("M", 10, 20)) {
		t.Errorf("action = %v, want M(10,20)", in.Actions[0])
	}
	if got := Render(doc); got != "   1,M(10,20)" {
		t.Errorf("Render() = %q, want %q", got, "   1,M(10,20)")
	}
}

func TestParseValuedActionWithSpaces(t *testing.T) {
	doc := mustParse(t, "3, R , M( 1.5 , -2 ),J")
	in := doc.Lines[0].Line.(*FrameInput)
	want := NewFrameInput(3, NewAction("R"), NewAction("M", 1.5, -2), NewAction("J"))
	if !LinesEqual(in, want) {
		t.Errorf("frame input = %+v, want %+v", in, want)
	}
}

func TestParseTrailingCommaSkipped(t *testing.T) {
	doc := mustParse(t, "2,R,,J,")
	in := doc.Lines[0].Line.(*FrameInput)
	if len(in.Actions) != 2 {
		t.Errorf("actions = %v, want [R J]", in.Actions)
	}
}

func TestParseDuplicateActionsCollapse(t *testing.T) {
	doc := mustParse(t, "2,R,R,M(1,2),M(1,2),M(2,1)")
	in := doc.Lines[0].Line.(*FrameInput)
	if len(in.Actions) != 3 {
		t.Errorf("actions = %v, want R, M(1,2), M(2,1)", in.Actions)
	}
}

func TestParseZeroFrameCount(t *testing.T) {
	doc := mustParse(t, "0,R")
	if in := doc.Lines[0].Line.(*FrameInput); in.Count != 0 {
		t.Errorf("Count = %d, want 0", in.Count)
	}
}

func TestParseNegativeCountIsNotFrameInput(t *testing.T) {
	doc := mustParse(t, "-1,R")
	call, ok := doc.Lines[0].Line.(*Call)
	if !ok {
		t.Fatalf("line is %T, want *Call", doc.Lines[0].Line)
	}
	if call.Method != "-1" {
		t.Errorf("Method = %q, want %q", call.Method, "-1")
	}
}

func TestParseCallArgumentsNotParenAware(t *testing.T) {
	doc := mustParse(t, "Read,5HC,Start,lvl(1,2)")
	call := doc.Lines[0].Line.(*Call)
	want := []string{"5HC", "Start", "lvl(1", "2)"}
	if len(call.Arguments) != len(want) {
		t.Fatalf("Arguments = %q, want %q", call.Arguments, want)
	}
	for i := range want {
		if call.Arguments[i] != want[i] {
			t.Errorf("Arguments[%d] = %q, want %q", i, call.Arguments[i], want[i])
		}
	}
}

func TestParseMalformedTokens(t *testing.T) {
	tests := []string{
		"1,Z1",
		"1,M(a,b)",
		"1,RJ",
		"1,M()",
		"1,M(1,2",
		"1,M (1)",
		"1,7",
		"1,M(NaN)",
		"1,R\n2,R,??",
	}
	for _, input := range tests {
		doc, err := Parse(input)
		if err == nil {
			t.Errorf("Parse(%q) = %v, want error", input, doc)
			continue
		}
		if doc != nil {
			t.Errorf("Parse(%q) returned a partial document", input)
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("Parse(%q) error = %T, want *ParseError", input, err)
		}
		if !errors.Is(err, ErrMalformedToken) {
			t.Errorf("Parse(%q) error does not match ErrMalformedToken", input)
		}
	}
}

func TestParseErrorDetails(t *testing.T) {
	_, err := Parse("#x\n 4,R, Q9 ,J")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if perr.Line != 2 {
		t.Errorf("Line = %d, want 2", perr.Line)
	}
	if perr.Token != "Q9" {
		t.Errorf("Token = %q, want %q", perr.Token, "Q9")
	}
	if perr.Context != "R, Q9 ,J" {
		t.Errorf("Context = %q, want %q", perr.Context, "R, Q9 ,J")
	}
}

func TestSplitBalanced(t *testing.T) {
	got := splitBalanced("R,M(1,2),J")
	want := []string{"R", "M(1,2)", "J"}
	if len(got) != len(want) {
		t.Fatalf("splitBalanced() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitBalanced()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseLongScript(t *testing.T) {
	text := `#21:28.209
#Start from Begin

Read,StartFullGameFile

Read,5HC,Start,lvl_b-17 (1)

#lvl_b-17
   3,R,D
   1,R,J
   1,R
  11,R,D,X
   2,R,J,G
  10,R
  40

Read,LoadAFromB,0,Summit
#Summit
  45
Add 29
   1,J
  32
 427
`
	doc := mustParse(t, text)
	if got := doc.TotalFrames(); got != 3+1+1+11+2+10+40+45+1+32+427 {
		t.Errorf("TotalFrames() = %d", got)
	}
}
