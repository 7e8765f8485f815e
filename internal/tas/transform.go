package tas

// Expand replaces every FrameInput with Count > 1 by Count single-frame
// lines carrying copies of its actions and its line number. Other lines are
// untouched.
func (d *Document) Expand() {
	extra := 0
	for _, rec := range d.Lines {
		if input, ok := rec.Line.(*FrameInput); ok && input.Count > 1 {
			extra += input.Count - 1
		}
	}
	if extra == 0 {
		return
	}

	out := make([]LineRecord, 0, len(d.Lines)+extra)
	for _, rec := range d.Lines {
		input, ok := rec.Line.(*FrameInput)
		if !ok || input.Count <= 1 {
			out = append(out, rec)
			continue
		}
		for i := 0; i < input.Count; i++ {
			single := &FrameInput{Count: 1, Actions: cloneActions(input.Actions)}
			out = append(out, LineRecord{Line: single, LineNumber: rec.LineNumber})
		}
	}
	d.Lines = out
}

// Combine merges runs of adjacent FrameInput lines with equal action sets
// into one line whose count is the sum of the run. A merged line keeps the
// line number of the first line in its run. Any non-FrameInput line ends a
// run. Combine reports whether any lines were merged.
func (d *Document) Combine() bool {
	var c combiner
	for _, rec := range d.Lines {
		c.push(rec)
	}
	c.flush()

	Logger().Debug("combined document", "before", len(d.Lines), "after", len(c.out), "changed", c.changed)
	d.Lines = c.out
	return c.changed
}

// combiner accumulates at most one pending FrameInput run.
type combiner struct {
	out     []LineRecord
	run     *FrameInput
	runLine int
	changed bool
}

func (c *combiner) push(rec LineRecord) {
	input, ok := rec.Line.(*FrameInput)
	if !ok {
		c.flush()
		c.out = append(c.out, rec)
		return
	}

	if c.run != nil && c.run.SameActions(input) {
		c.run.Count += input.Count
		c.changed = true
		return
	}

	c.flush()
	c.run = input.Clone()
	c.runLine = rec.LineNumber
}

func (c *combiner) flush() {
	if c.run == nil {
		return
	}
	if c.run.Count < 0 {
		panic("tas: combined run has a negative frame count")
	}
	c.out = append(c.out, LineRecord{Line: c.run, LineNumber: c.runLine})
	c.run = nil
}

// CombineRange combines like Combine, restricted to the records at indices
// first through last inclusive. Indices are clamped to the document.
func (d *Document) CombineRange(first, last int) bool {
	first = max(first, 0)
	last = min(last, len(d.Lines)-1)
	if first >= last {
		return false
	}

	var c combiner
	for _, rec := range d.Lines[first : last+1] {
		c.push(rec)
	}
	c.flush()
	if !c.changed {
		return false
	}

	out := make([]LineRecord, 0, len(d.Lines)-(last-first+1)+len(c.out))
	out = append(out, d.Lines[:first]...)
	out = append(out, c.out...)
	out = append(out, d.Lines[last+1:]...)
	d.Lines = out
	return true
}
