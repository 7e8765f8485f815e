package tas

// CursorState describes the document position for one playback frame.
type CursorState struct {
	// Active is the FrameInput line playing at the frame.
	Active *FrameInput
	// Previous is the FrameInput line before Active, or nil.
	Previous *FrameInput
	// SideEffects are the non-FrameInput lines between Previous and Active.
	// It is empty unless the frame is the first frame of Active.
	SideEffects []Line
	// LineNumber is the physical line number of Active.
	LineNumber int
	// FrameInLine is the offset of the frame within Active.
	FrameInLine int
	// Index is the position of Active within the Document.
	Index int
}

// CursorAt returns the cursor state for the 0-indexed frame, or nil if the
// frame is negative or not less than TotalFrames.
func (d *Document) CursorAt(frame int) *CursorState {
	if frame < 0 {
		return nil
	}

	skip := frame
	var (
		pending  []Line
		previous *FrameInput
	)
	for i, rec := range d.Lines {
		input, ok := rec.Line.(*FrameInput)
		if !ok {
			pending = append(pending, rec.Line)
			continue
		}

		if input.Count <= skip {
			skip -= input.Count
			pending = pending[:0]
			previous = input
			continue
		}

		state := &CursorState{
			Active:      input,
			Previous:    previous,
			SideEffects: []Line{},
			LineNumber:  rec.LineNumber,
			FrameInLine: skip,
			Index:       i,
		}
		if skip == 0 && len(pending) > 0 {
			state.SideEffects = append(state.SideEffects, pending...)
		}
		return state
	}
	return nil
}

// ReleasedPressed returns the actions of Previous missing from Active
// (released) and the actions of Active missing from Previous (pressed).
// Without a previous line nothing is released and every active action is
// pressed.
func (s *CursorState) ReleasedPressed() (released, pressed []Action) {
	if s.Previous == nil {
		return nil, cloneActions(s.Active.Actions)
	}
	return subtractActions(s.Previous.Actions, s.Active.Actions),
		subtractActions(s.Active.Actions, s.Previous.Actions)
}
