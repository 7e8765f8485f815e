package tas

import "sort"

// ActionLayout controls how actions are toggled and ordered on a line.
type ActionLayout struct {
	// Order lists keys that sort first, in this order. Other keys follow in
	// byte order.
	Order []string
	// Exclusive maps a key to the keys it releases when pressed.
	Exclusive map[string][]string
	// Valued maps a key to the number of values it carries.
	Valued map[string]int
}

// DefaultActionLayout returns the layout used when none is configured:
// directions first, opposing directions exclusive, M with two values and S
// with one.
func DefaultActionLayout() ActionLayout {
	return ActionLayout{
		Order: []string{"L", "R", "U", "D", "J", "X"},
		Exclusive: map[string][]string{
			"L": {"R"},
			"R": {"L"},
			"U": {"D"},
			"D": {"U"},
		},
		Valued: map[string]int{
			"M": 2,
			"S": 1,
		},
	}
}

func (l ActionLayout) rank(key string) int {
	for i, k := range l.Order {
		if k == key {
			return i
		}
	}
	return -1
}

func (l ActionLayout) less(a, b string) bool {
	ra, rb := l.rank(a), l.rank(b)
	switch {
	case ra == -1 && rb == -1:
		return a < b
	case ra == -1:
		return false
	case rb == -1:
		return true
	default:
		return ra < rb
	}
}

// SortActions orders f's actions by layout. Actions sharing a key keep their
// relative order.
func (f *FrameInput) SortActions(layout ActionLayout) {
	sort.SliceStable(f.Actions, func(i, j int) bool {
		return layout.less(f.Actions[i].Key, f.Actions[j].Key)
	})
}

// Toggle removes every action with key if one is present, otherwise adds it.
// An added valued key gets zeroed values. Adding a key releases the keys the
// layout marks exclusive with it. The actions are then sorted. Toggle
// reports whether the key was added.
func (f *FrameInput) Toggle(key string, layout ActionLayout) bool {
	added := !f.RemoveKey(key)
	if added {
		var values []float64
		if n := layout.Valued[key]; n > 0 {
			values = make([]float64, n)
		}
		for _, excluded := range layout.Exclusive[key] {
			f.RemoveKey(excluded)
		}
		f.Add(Action{Key: key, Values: values})
	}
	f.SortActions(layout)
	return added
}
