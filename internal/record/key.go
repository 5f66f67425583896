package record

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// Key is a composite index key: an ordered, fixed-arity tuple of column
// values extracted from a row's primary-key attributes. Keys of different
// arity never meet inside one index.
type Key struct {
	vals []any
}

func NewKey(vals ...any) Key {
	return Key{vals: vals}
}

func (k Key) Values() []any { return k.vals }

func (k Key) Len() int { return len(k.vals) }

// Equal holds iff both keys have the same arity and are pairwise value-equal.
func (k Key) Equal(o Key) bool {
	if len(k.vals) != len(o.vals) {
		return false
	}
	for i := range k.vals {
		if !EqualValues(k.vals[i], o.vals[i]) {
			return false
		}
	}
	return true
}

// Compare is the lexicographic total order over the value sequence.
// Equal keys compare as 0, so ordering stays consistent with Equal.
func (k Key) Compare(o Key) int {
	n := min(len(k.vals), len(o.vals))
	for i := 0; i < n; i++ {
		if c := CompareValues(k.vals[i], o.vals[i]); c != 0 {
			return c
		}
	}
	return len(k.vals) - len(o.vals)
}

func (k Key) Less(o Key) bool { return k.Compare(o) < 0 }

// Id is a collision-free identity string for the key: each value rendered
// canonically and length-prefixed, so two keys share an id iff they are
// Equal. String is no good for this, its ", " separator can be forged by
// string values.
func (k Key) Id() string {
	var b strings.Builder
	for _, v := range k.vals {
		c := canonValue(v)
		b.WriteString(strconv.Itoa(len(c)))
		b.WriteByte(':')
		b.WriteString(c)
	}
	return b.String()
}

// Hash folds the canonical identity through FNV-1a. Canonical rendering
// widens numerics the way Compare does, so equal keys hash identically even
// across the float/double compatibility exception.
func (k Key) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(k.Id()))
	return h.Sum64()
}

func (k Key) String() string {
	parts := make([]string, len(k.vals))
	for i, v := range k.vals {
		parts[i] = FormatValue(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
