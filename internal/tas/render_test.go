package tas

import "testing"

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name string
		line Line
		want string
	}{
		{"frame without actions", NewFrameInput(88), "  88"},
		{"frame with actions", NewFrameInput(5, NewAction("R"), NewAction("X")), "   5,R,X"},
		{"wide frame count", NewFrameInput(12345, NewAction("J")), "12345,J"},
		{"valued action", NewFrameInput(1, NewAction("M", 0.5, -3)), "   1,M(0.5,-3)"},
		{"call", &Call{Method: "Set", Arguments: []string{"Player.Speed.X", "100"}}, "Set, Player.Speed.X, 100"},
		{"call without arguments", &Call{Method: "console load 1"}, "console load 1"},
		{"property", &Property{Key: "RecordCount", Value: "500"}, "RecordCount: 500"},
		{"comment", &Comment{Text: "lvl_1"}, "#lvl_1"},
		{"breakpoint", &Breakpoint{}, "***"},
		{"breakpoint with factor", &Breakpoint{Factor: 2.5, HasFactor: true}, "***,2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatLine(tt.line); got != tt.want {
				t.Errorf("FormatLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderNoTrailingNewline(t *testing.T) {
	doc := mustParse(t, "1,R\n2\n")
	if got := Render(doc); got != "   1,R\n   2" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Render(&Document{}); got != "" {
		t.Errorf("Render() = %q, want empty", got)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"RecordCount: 500\nconsole load 1\n   1 # comment\n\nSet, Player.Speed.X, 100\n#Start\n  88\n   5,R,X",
		"1,M(10,20),R\n***,0.25\n*** \n   2,S(0.125)",
		"Read,5HC,Start,lvl_b-17 (1)\nRead,,x,\n,R\nfoo,",
		"a,b: c\n:x\n  #  indented",
		"",
	}
	for _, input := range inputs {
		first := mustParse(t, input)
		second := mustParse(t, Render(first))
		if !first.Equal(second) {
			t.Errorf("round trip of %q changed structure:\n%s\n---\n%s", input, Render(first), Render(second))
		}
		if Render(first) != Render(second) {
			t.Errorf("render of %q is not stable: %q vs %q", input, Render(first), Render(second))
		}
	}
}
