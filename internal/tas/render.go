package tas

import (
	"fmt"
	"strings"
)

// frameCountWidth is the field width frame counts are right-aligned to.
const frameCountWidth = 4

// Render formats d as script text. Lines are joined with '\n' and there is
// no trailing newline.
func Render(d *Document) string {
	var sb strings.Builder
	for i, rec := range d.Lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(FormatLine(rec.Line))
	}
	return sb.String()
}

// FormatLine formats a single line in script form.
func FormatLine(line Line) string {
	switch l := line.(type) {
	case *FrameInput:
		s := fmt.Sprintf("%*d", frameCountWidth, l.Count)
		if len(l.Actions) == 0 {
			return s
		}
		tokens := make([]string, len(l.Actions))
		for i, a := range l.Actions {
			tokens[i] = a.String()
		}
		return s + "," + strings.Join(tokens, ",")
	case *Call:
		if len(l.Arguments) == 0 {
			return l.Method
		}
		return l.Method + ", " + strings.Join(l.Arguments, ", ")
	case *Property:
		return l.Key + ": " + l.Value
	case *Comment:
		return string(commentToken) + l.Text
	case *Breakpoint:
		if !l.HasFactor {
			return breakpointToken
		}
		return breakpointToken + "," + formatFloat(l.Factor)
	}
	panic(fmt.Sprintf("tas: unknown line type %T", line))
}
