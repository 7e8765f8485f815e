// Package tas parses, transforms, and renders TAS scripts: line-oriented
// files that describe frame-accurate input sequences for tool-assisted
// playback.
//
// A script is a sequence of lines. Each non-blank line is one of:
//
//   - FrameInput: "   5,R,J" holds actions R and J for 5 frames
//   - Comment: "#lvl_1"
//   - Property: "RecordCount: 500"
//   - Call: "Read, 1A, Start"
//   - Breakpoint: "***" optionally followed by ",factor"
//
// Actions are single ASCII letters, optionally carrying an ordered list of
// numeric values: "M(10,20)".
//
// # Documents
//
// Parse turns text into a Document, Render turns it back:
//
//	doc, err := tas.Parse("4,R,U,X\n2,R")
//	if err != nil {
//	    // err is a *ParseError
//	}
//	doc.Expand()            // six single-frame lines
//	changed := doc.Combine() // back to two lines
//	text := tas.Render(doc)
//
// Expand and Combine are inverse run-length transforms: both preserve the
// frame-by-frame meaning of the script. Combine only merges adjacent
// FrameInput lines whose action sets are equal; any other line between them
// blocks the merge.
//
// # Cursor
//
// CursorAt maps an absolute playback frame to the FrameInput line active at
// that frame, the offset within it, and the line active before it:
//
//	state := doc.CursorAt(120)
//	if state != nil {
//	    released, pressed := state.ReleasedPressed()
//	}
//
// # Line numbers
//
// Every line record keeps the 1-indexed physical line it was parsed from,
// counting blank and dropped lines. Expand and Combine keep the original
// numbers; a combined run reports the number of its first line.
//
// # Thread Safety
//
// A Document is not safe for concurrent use. Callers that share one must
// serialize access. All operations are synchronous and perform no I/O.
package tas
