package tas

import (
	"strconv"
	"strings"
)

// Action is a single keyed input. Values are ordered: M(1,2) and M(2,1) are
// different actions.
type Action struct {
	Key    string
	Values []float64
}

// NewAction creates an action with the given key and values.
func NewAction(key string, values ...float64) Action {
	return Action{Key: key, Values: values}
}

// Equal reports whether a and b have the same key and identical ordered values.
func (a Action) Equal(b Action) bool {
	if a.Key != b.Key || len(a.Values) != len(b.Values) {
		return false
	}
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of a that shares no memory with it.
func (a Action) Clone() Action {
	c := Action{Key: a.Key}
	if len(a.Values) > 0 {
		c.Values = append([]float64(nil), a.Values...)
	}
	return c
}

// String returns the action in script form: "R" or "M(10,20)".
func (a Action) String() string {
	if len(a.Values) == 0 {
		return a.Key
	}
	var sb strings.Builder
	sb.WriteString(a.Key)
	sb.WriteByte('(')
	for i, v := range a.Values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(formatFloat(v))
	}
	sb.WriteByte(')')
	return sb.String()
}

// ValidKey reports whether key is a single ASCII letter.
func ValidKey(key string) bool {
	return len(key) == 1 && isLetter(key[0])
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// containsAction reports whether set holds an action equal to a.
func containsAction(set []Action, a Action) bool {
	for _, b := range set {
		if a.Equal(b) {
			return true
		}
	}
	return false
}

// sameActionSet reports whether a and b hold the same actions, ignoring order.
// Both sets are duplicate-free.
func sameActionSet(a, b []Action) bool {
	if len(a) != len(b) {
		return false
	}
	for _, x := range a {
		if !containsAction(b, x) {
			return false
		}
	}
	return true
}

// subtractActions returns the actions of a that are not in b, in a's order.
func subtractActions(a, b []Action) []Action {
	var out []Action
	for _, x := range a {
		if !containsAction(b, x) {
			out = append(out, x.Clone())
		}
	}
	return out
}

func cloneActions(actions []Action) []Action {
	if actions == nil {
		return nil
	}
	out := make([]Action, len(actions))
	for i, a := range actions {
		out[i] = a.Clone()
	}
	return out
}
