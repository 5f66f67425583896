package index_test

import (
	"math/rand"
	"testing"

	. "github.com/mattzmyname/CSCI4370-Project3/internal/index"
	"github.com/mattzmyname/CSCI4370-Project3/internal/record"
	sorted "github.com/tobshub/go-sortedmap"
	"gotest.tools/assert"
)

func TestBpTreeAscendingInsert(t *testing.T) {
	m := NewBpTree()
	for k := 1; k <= 20; k++ {
		m.Put(record.NewKey(k), record.Tuple{k})
	}

	first, ok := m.FirstKey()
	assert.Assert(t, ok)
	assert.Assert(t, first.Equal(record.NewKey(1)))

	last, ok := m.LastKey()
	assert.Assert(t, ok)
	assert.Assert(t, last.Equal(record.NewKey(20)))

	want := 1
	m.Scan(func(e Entry) bool {
		assert.Assert(t, e.Key.Equal(record.NewKey(want)), "expected %d got %s", want, e.Key)
		want++
		return true
	})
	assert.Equal(t, want, 21)
	assert.NilError(t, m.Validate())
}

func TestBpTreeRandomInsert(t *testing.T) {
	m := NewBpTree()
	keys := rand.New(rand.NewSource(3)).Perm(300)
	for _, k := range keys {
		m.Put(record.NewKey(k), record.Tuple{k, k * 2})
		assert.NilError(t, m.Validate())
	}
	assert.Equal(t, m.Len(), 300)

	for _, k := range keys {
		tup, ok := m.Get(record.NewKey(k))
		assert.Assert(t, ok, "missing key %d", k)
		assert.Equal(t, tup[1], k*2)
	}
	_, ok := m.Get(record.NewKey(300))
	assert.Assert(t, !ok)
}

// The tree's ordered traversal must agree with an off-the-shelf sorted map
// fed the same pairs.
func TestBpTreeOrderAgainstSortedMap(t *testing.T) {
	m := NewBpTree()
	oracle := sorted.New[int, int](0, func(a, b int) bool { return a < b })

	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 150; i++ {
		k := rng.Intn(1000)
		m.Put(record.NewKey(k), record.Tuple{k})
		if !oracle.Insert(k, k) {
			oracle.Replace(k, k)
		}
	}

	got := []int{}
	m.Scan(func(e Entry) bool {
		got = append(got, e.Tup[0].(int))
		return true
	})

	want := []int{}
	iterCh, err := oracle.IterCh()
	assert.NilError(t, err)
	defer iterCh.Close()
	for rec := range iterCh.Records() {
		want = append(want, rec.Val)
	}

	assert.DeepEqual(t, got, want)
}

func TestBpTreeSubMap(t *testing.T) {
	m := NewBpTree()
	for k := 0; k < 100; k += 2 {
		m.Put(record.NewKey(k), record.Tuple{k})
	}

	sub := m.SubMap(record.NewKey(10), record.NewKey(30))
	assert.Equal(t, sub.Len(), 10)
	sub.Scan(func(e Entry) bool {
		k := e.Tup[0].(int)
		assert.Assert(t, k >= 10 && k < 30, "key %d outside [10,30)", k)
		return true
	})

	// bounds that fall between stored keys
	sub = m.SubMap(record.NewKey(11), record.NewKey(15))
	assert.Equal(t, sub.Len(), 2) // 12, 14

	head := m.HeadMap(record.NewKey(10))
	assert.Equal(t, head.Len(), 5) // 0..8

	tail := m.TailMap(record.NewKey(90))
	assert.Equal(t, tail.Len(), 5) // 90..98 including the last key
}

func TestBpTreeDuplicateOverwrites(t *testing.T) {
	m := NewBpTree()
	m.Put(record.NewKey(1), record.Tuple{"old"})
	prev, replaced := m.Put(record.NewKey(1), record.Tuple{"new"})

	assert.Assert(t, replaced)
	assert.DeepEqual(t, prev, record.Tuple{"old"})
	assert.Equal(t, m.Len(), 1)

	tup, ok := m.Get(record.NewKey(1))
	assert.Assert(t, ok)
	assert.Equal(t, tup[0], "new")
}

func TestBpTreeCompositeKeys(t *testing.T) {
	m := NewBpTree()
	for _, pair := range [][2]any{{2, "b"}, {1, "z"}, {2, "a"}, {1, "a"}} {
		m.Put(record.NewKey(pair[0], pair[1]), record.Tuple{pair[0], pair[1]})
	}

	got := []string{}
	m.Scan(func(e Entry) bool {
		got = append(got, e.Key.String())
		return true
	})
	assert.DeepEqual(t, got, []string{"(1, a)", "(1, z)", "(2, a)", "(2, b)"})
}

func TestIndexKinds(t *testing.T) {
	for _, kind := range []Kind{KindSortedMap, KindLinHash, KindBpTree} {
		t.Run(string(kind), func(t *testing.T) {
			ix := New(kind)
			assert.Equal(t, ix.Kind(), kind)
			for i := 0; i < 50; i++ {
				ix.Put(record.NewKey(i), record.Tuple{i})
			}
			assert.Equal(t, ix.Len(), 50)
			tup, ok := ix.Get(record.NewKey(25))
			assert.Assert(t, ok)
			assert.Equal(t, tup[0], 25)
		})
	}

	none := New(KindNone)
	none.Put(record.NewKey(1), record.Tuple{1})
	assert.Equal(t, none.Len(), 0)
	_, ok := none.Get(record.NewKey(1))
	assert.Assert(t, !ok)
}

func TestSortedIndexRanges(t *testing.T) {
	ix := NewSortedIndex()
	for k := 0; k < 10; k++ {
		ix.Put(record.NewKey(k), record.Tuple{k})
	}

	first, ok := ix.FirstKey()
	assert.Assert(t, ok)
	assert.Assert(t, first.Equal(record.NewKey(0)))

	last, ok := ix.LastKey()
	assert.Assert(t, ok)
	assert.Assert(t, last.Equal(record.NewKey(9)))

	sub := ix.SubMap(record.NewKey(3), record.NewKey(7))
	assert.Equal(t, sub.Len(), 4)
}

func TestSortedIndexCompositeStringKeys(t *testing.T) {
	ix := NewSortedIndex()
	// these two keys format identically; they are still distinct keys
	a := record.NewKey("x, y", "z")
	b := record.NewKey("x", "y, z")

	_, replaced := ix.Put(a, record.Tuple{1})
	assert.Assert(t, !replaced)
	_, replaced = ix.Put(b, record.Tuple{2})
	assert.Assert(t, !replaced)
	assert.Equal(t, ix.Len(), 2)

	got, ok := ix.Get(a)
	assert.Assert(t, ok)
	assert.DeepEqual(t, got, record.Tuple{1})
	got, ok = ix.Get(b)
	assert.Assert(t, ok)
	assert.DeepEqual(t, got, record.Tuple{2})
}
