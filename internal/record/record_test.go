package record_test

import (
	"testing"

	. "github.com/mattzmyname/CSCI4370-Project3/internal/record"
	"gotest.tools/assert"
)

func TestKeyEqual(t *testing.T) {
	a := NewKey(1, "x")
	b := NewKey(1, "x")
	c := NewKey(1, "y")

	assert.Assert(t, a.Equal(b))
	assert.Assert(t, !a.Equal(c))
	assert.Assert(t, !a.Equal(NewKey(1)))
}

func TestKeyCompare(t *testing.T) {
	assert.Assert(t, NewKey(1, "a").Compare(NewKey(1, "b")) < 0)
	assert.Assert(t, NewKey(2, "a").Compare(NewKey(1, "z")) > 0)
	assert.Equal(t, NewKey(3, "q").Compare(NewKey(3, "q")), 0)
	assert.Assert(t, NewKey(10).Compare(NewKey(2)) > 0)
}

func TestKeyHashConsistentWithEqual(t *testing.T) {
	a := NewKey(7, "id")
	b := NewKey(7, "id")
	assert.Equal(t, a.Hash(), b.Hash())

	// float stored where a double is declared still hashes the same
	assert.Equal(t, NewKey(float32(1.5)).Hash(), NewKey(float64(1.5)).Hash())
}

func TestCompareValuesAcrossWidths(t *testing.T) {
	assert.Equal(t, CompareValues(1, int64(1)), 0)
	assert.Equal(t, CompareValues(float32(2.5), float64(2.5)), 0)
	assert.Assert(t, CompareValues(int16(3), 4) < 0)
	assert.Assert(t, CompareValues("b", "a") > 0)
}

func TestTupleEqual(t *testing.T) {
	a := Tuple{1, "Ann", 3.5}
	b := Tuple{1, "Ann", 3.5}
	c := Tuple{1, "Ann", 3.6}

	assert.Assert(t, a.Equal(b))
	assert.Assert(t, !a.Equal(c))
	assert.Assert(t, !a.Equal(a[:2]))
}

func TestTupleExtractAndKeyAt(t *testing.T) {
	tup := Tuple{7, "Bob", "Athens", "active"}

	assert.DeepEqual(t, tup.Extract([]int{1, 3}), Tuple{"Bob", "active"})
	assert.Assert(t, tup.KeyAt([]int{0}).Equal(NewKey(7)))
}

func TestConcat(t *testing.T) {
	got := Concat(Tuple{1, 2}, Tuple{"a"})
	assert.DeepEqual(t, got, Tuple{1, 2, "a"})
}

func TestKeyIdInjective(t *testing.T) {
	// both keys print as (x, y, z); their identities must still differ
	a := NewKey("x, y", "z")
	b := NewKey("x", "y, z")
	assert.Equal(t, a.String(), b.String())
	assert.Assert(t, a.Id() != b.Id())
	assert.Assert(t, a.Hash() != b.Hash())
}

func TestKeyIdAcrossFloatWidths(t *testing.T) {
	// float32(0.1) widens to a float64 that %v prints differently,
	// yet the two keys compare equal
	f := float32(0.1)
	a := NewKey(f)
	b := NewKey(float64(f))
	assert.Assert(t, a.Equal(b))
	assert.Equal(t, a.Id(), b.Id())
	assert.Equal(t, a.Hash(), b.Hash())
}
