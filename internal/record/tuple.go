package record

// Tuple is one stored row: an ordered value sequence positionally aligned
// with the owning table's schema. Tuples are never mutated after insertion;
// operators build new ones.
type Tuple []any

// Equal is value-wise equality at every position.
func (t Tuple) Equal(o Tuple) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if !EqualValues(t[i], o[i]) {
			return false
		}
	}
	return true
}

// Extract builds a smaller tuple from the values at the given positions.
// Positions past the end of a short tuple come back nil.
func (t Tuple) Extract(positions []int) Tuple {
	out := make(Tuple, len(positions))
	for i, p := range positions {
		if p < len(t) {
			out[i] = t[p]
		}
	}
	return out
}

// Covers reports whether the tuple holds a value at every given position.
func (t Tuple) Covers(positions []int) bool {
	for _, p := range positions {
		if p >= len(t) {
			return false
		}
	}
	return true
}

// KeyAt builds a composite key from the values at the given positions,
// with the same short-tuple padding as Extract.
func (t Tuple) KeyAt(positions []int) Key {
	return NewKey(t.Extract(positions)...)
}

func Concat(a, b Tuple) Tuple {
	out := make(Tuple, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
