package mock

// List is a directive a mock factory can return in place of a concrete
// list value. It carries a length specification (exact, or an inclusive
// [min, max] range) and an optional per-item synthesis function. A List is
// consumed during value completion and never appears in responses.
type List struct {
	min  int
	max  int
	item Fn
}

// NewList creates a List that always expands to exactly n items. The
// optional fn synthesizes each item; when omitted, the field's own default
// synthesis applies per item.
func NewList(n int, fn ...Fn) *List {
	return NewListRange(n, n, fn...)
}

// NewListRange creates a List whose length is sampled uniformly from the
// inclusive [min, max] range on each expansion.
func NewListRange(min, max int, fn ...Fn) *List {
	l := &List{min: min, max: max}
	if len(fn) > 0 {
		l.item = fn[0]
	}
	return l
}

// bounds returns the length range, validating the spec.
func (l *List) bounds() (int, int, error) {
	if l.min < 0 || l.max < l.min {
		return 0, 0, &InvalidListSpecError{Min: l.min, Max: l.max}
	}
	return l.min, l.max, nil
}
