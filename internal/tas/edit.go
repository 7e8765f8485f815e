package tas

import (
	"fmt"
	"strings"
)

// ToggleActionAt toggles key on the single playback frame without changing
// any other frame. The active line is split around the frame and the result
// is merged with identical neighbours.
func (d *Document) ToggleActionAt(frame int, key string, layout ActionLayout) error {
	if !ValidKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	state := d.CursorAt(frame)
	if state == nil {
		return fmt.Errorf("%w: frame %d of %d", ErrFrameOutOfRange, frame, d.TotalFrames())
	}

	active := state.Active
	lineNumber := state.LineNumber
	var split []LineRecord
	if before := state.FrameInLine; before > 0 {
		split = append(split, LineRecord{
			Line:       &FrameInput{Count: before, Actions: cloneActions(active.Actions)},
			LineNumber: lineNumber,
		})
	}
	toggled := &FrameInput{Count: 1, Actions: cloneActions(active.Actions)}
	toggled.Toggle(key, layout)
	split = append(split, LineRecord{Line: toggled, LineNumber: lineNumber})
	if after := active.Count - state.FrameInLine - 1; after > 0 {
		split = append(split, LineRecord{
			Line:       &FrameInput{Count: after, Actions: cloneActions(active.Actions)},
			LineNumber: lineNumber,
		})
	}

	idx := state.Index
	lines := make([]LineRecord, 0, len(d.Lines)+len(split)-1)
	lines = append(lines, d.Lines[:idx]...)
	lines = append(lines, split...)
	lines = append(lines, d.Lines[idx+1:]...)
	d.Lines = lines

	d.CombineRange(idx-1, idx+len(split))
	return nil
}

// ToggleComment comments or uncomments the 1-indexed physical lines first
// through last of text. Blank lines are skipped. If any line in the range
// already starts with '#', every such line loses the text up to and
// including that '#', indentation included; lines with only a trailing
// comment are left alone. Otherwise '#' is prepended to every line.
func ToggleComment(text string, first, last int) string {
	lines := strings.Split(text, "\n")
	first = max(first, 1)
	last = min(last, len(lines))
	if first > last {
		return text
	}

	anyCommented := false
	for _, line := range lines[first-1 : last] {
		if isBlank(line) {
			continue
		}
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), string(commentToken)) {
			anyCommented = true
			break
		}
	}

	for i := first - 1; i < last; i++ {
		line := lines[i]
		if isBlank(line) {
			continue
		}
		if !anyCommented {
			lines[i] = string(commentToken) + line
			continue
		}
		if trimmed := strings.TrimLeft(line, " \t"); strings.HasPrefix(trimmed, string(commentToken)) {
			lines[i] = trimmed[1:]
		}
	}
	return strings.Join(lines, "\n")
}
