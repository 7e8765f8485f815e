package tas

// LineRecord is a parsed line together with the 1-indexed physical line it
// came from.
type LineRecord struct {
	Line       Line
	LineNumber int
}

// Document is an ordered sequence of line records. Order defines the
// temporal sequence of frames and side effects.
type Document struct {
	Lines []LineRecord
}

// Len returns the number of line records.
func (d *Document) Len() int {
	return len(d.Lines)
}

// TotalFrames returns the sum of all FrameInput counts.
func (d *Document) TotalFrames() int {
	total := 0
	for _, rec := range d.Lines {
		if input, ok := rec.Line.(*FrameInput); ok {
			total += input.Count
		}
	}
	return total
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := &Document{Lines: make([]LineRecord, len(d.Lines))}
	for i, rec := range d.Lines {
		out.Lines[i] = LineRecord{Line: rec.Line.clone(), LineNumber: rec.LineNumber}
	}
	return out
}

// Equal reports whether d and other hold structurally equal lines in the same
// order. Line numbers are not compared.
func (d *Document) Equal(other *Document) bool {
	if len(d.Lines) != len(other.Lines) {
		return false
	}
	for i := range d.Lines {
		if !LinesEqual(d.Lines[i].Line, other.Lines[i].Line) {
			return false
		}
	}
	return true
}

// ActionKeys returns the distinct action keys used by FrameInput lines, in
// order of first appearance.
func (d *Document) ActionKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, rec := range d.Lines {
		input, ok := rec.Line.(*FrameInput)
		if !ok {
			continue
		}
		for _, a := range input.Actions {
			if !seen[a.Key] {
				seen[a.Key] = true
				keys = append(keys, a.Key)
			}
		}
	}
	return keys
}
