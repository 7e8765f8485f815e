package tas

// Kind identifies the kind of a Line.
type Kind int

const (
	// KindFrameInput is a line that holds a set of actions for some frames.
	KindFrameInput Kind = iota
	// KindComment is a "#" comment line.
	KindComment
	// KindProperty is a "key: value" line.
	KindProperty
	// KindCall is a "method, arg, ..." line.
	KindCall
	// KindBreakpoint is a "***" line.
	KindBreakpoint
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFrameInput:
		return "frame"
	case KindComment:
		return "comment"
	case KindProperty:
		return "property"
	case KindCall:
		return "call"
	case KindBreakpoint:
		return "breakpoint"
	default:
		return "unknown"
	}
}

// Line is one parsed script line. The set of implementations is closed:
// *FrameInput, *Comment, *Property, *Call and *Breakpoint.
type Line interface {
	Kind() Kind
	clone() Line
}

// FrameInput holds a set of actions for Count consecutive frames.
// Actions never contains two equal actions; their order is the declaration
// order and only matters for rendering.
type FrameInput struct {
	Count   int
	Actions []Action
}

// NewFrameInput creates a FrameInput, dropping duplicate actions.
func NewFrameInput(count int, actions ...Action) *FrameInput {
	f := &FrameInput{Count: count}
	for _, a := range actions {
		f.Add(a)
	}
	return f
}

// Kind implements Line.
func (*FrameInput) Kind() Kind { return KindFrameInput }

func (f *FrameInput) clone() Line { return f.Clone() }

// Clone returns a deep copy of f.
func (f *FrameInput) Clone() *FrameInput {
	return &FrameInput{Count: f.Count, Actions: cloneActions(f.Actions)}
}

// Add inserts a unless an equal action is already present.
// It returns true if the set changed.
func (f *FrameInput) Add(a Action) bool {
	if containsAction(f.Actions, a) {
		return false
	}
	f.Actions = append(f.Actions, a.Clone())
	return true
}

// Has reports whether f holds an action equal to a.
func (f *FrameInput) Has(a Action) bool {
	return containsAction(f.Actions, a)
}

// HasKey reports whether f holds any action with the given key.
func (f *FrameInput) HasKey(key string) bool {
	for _, a := range f.Actions {
		if a.Key == key {
			return true
		}
	}
	return false
}

// RemoveKey removes every action with the given key and reports whether
// any was removed.
func (f *FrameInput) RemoveKey(key string) bool {
	kept := f.Actions[:0]
	removed := false
	for _, a := range f.Actions {
		if a.Key == key {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	f.Actions = kept
	return removed
}

// SameActions reports whether f and other hold equal action sets.
// Declaration order and frame counts are ignored.
func (f *FrameInput) SameActions(other *FrameInput) bool {
	return sameActionSet(f.Actions, other.Actions)
}

// Comment is a line whose first non-blank character is '#'. Text is
// everything after the '#', untrimmed.
type Comment struct {
	Text string
}

// Kind implements Line.
func (*Comment) Kind() Kind { return KindComment }

func (c *Comment) clone() Line { cp := *c; return &cp }

// Property is a "key: value" line.
type Property struct {
	Key   string
	Value string
}

// Kind implements Line.
func (*Property) Kind() Kind { return KindProperty }

func (p *Property) clone() Line { cp := *p; return &cp }

// Call is a "method, arg, ..." line.
type Call struct {
	Method    string
	Arguments []string
}

// Kind implements Line.
func (*Call) Kind() Kind { return KindCall }

func (c *Call) clone() Line {
	return &Call{Method: c.Method, Arguments: append([]string(nil), c.Arguments...)}
}

// Breakpoint is a "***" line, optionally carrying a playback speed factor.
type Breakpoint struct {
	Factor    float64
	HasFactor bool
}

// Kind implements Line.
func (*Breakpoint) Kind() Kind { return KindBreakpoint }

func (b *Breakpoint) clone() Line { cp := *b; return &cp }

// LinesEqual reports whether a and b are structurally equal. FrameInput
// lines compare their counts and their action sets, ignoring order.
func LinesEqual(a, b Line) bool {
	switch x := a.(type) {
	case *FrameInput:
		y, ok := b.(*FrameInput)
		return ok && x.Count == y.Count && x.SameActions(y)
	case *Comment:
		y, ok := b.(*Comment)
		return ok && *x == *y
	case *Property:
		y, ok := b.(*Property)
		return ok && *x == *y
	case *Call:
		y, ok := b.(*Call)
		if !ok || x.Method != y.Method || len(x.Arguments) != len(y.Arguments) {
			return false
		}
		for i := range x.Arguments {
			if x.Arguments[i] != y.Arguments[i] {
				return false
			}
		}
		return true
	case *Breakpoint:
		y, ok := b.(*Breakpoint)
		return ok && *x == *y
	}
	panic("tas: unknown line type")
}
