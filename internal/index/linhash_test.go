package index_test

import (
	"math/rand"
	"testing"

	. "github.com/mattzmyname/CSCI4370-Project3/internal/index"
	"github.com/mattzmyname/CSCI4370-Project3/internal/record"
	"gotest.tools/assert"
)

func TestLinHashPutGet(t *testing.T) {
	m := NewLinHash[int](4)
	keys := rand.New(rand.NewSource(1)).Perm(200)

	for _, k := range keys {
		m.Put(record.NewKey(k), k*k)
	}
	assert.Equal(t, m.Len(), 200)

	for _, k := range keys {
		v, ok := m.Get(record.NewKey(k))
		assert.Assert(t, ok, "missing key %d", k)
		assert.Equal(t, v, k*k)
	}

	_, ok := m.Get(record.NewKey(1000))
	assert.Assert(t, !ok)
	_, ok = m.Get(record.NewKey("not even an int"))
	assert.Assert(t, !ok)
}

func TestLinHashGrowth(t *testing.T) {
	m := NewLinHash[string](4)
	for k := 0; k < 16; k++ {
		m.Put(record.NewKey(k), "v")
	}

	// 16 keys over 4-slot buckets forces the first generation to finish
	assert.Assert(t, m.Mod1() >= 8, "mod1 = %d, want at least one doubling", m.Mod1())
	for k := 0; k < 16; k++ {
		_, ok := m.Get(record.NewKey(k))
		assert.Assert(t, ok, "missing key %d", k)
	}
	assert.NilError(t, m.Validate())
}

func TestLinHashGenerationInvariant(t *testing.T) {
	m := NewLinHash[int](4)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		m.Put(record.NewKey(rng.Intn(10000), "suffix"), i)
		assert.NilError(t, m.Validate())
	}
}

func TestLinHashOverwrite(t *testing.T) {
	m := NewLinHash[string](4)
	k := record.NewKey(42)

	prev, replaced := m.Put(k, "old")
	assert.Assert(t, !replaced)
	assert.Equal(t, prev, "")

	prev, replaced = m.Put(k, "new")
	assert.Assert(t, replaced)
	assert.Equal(t, prev, "old")
	assert.Equal(t, m.Len(), 1)

	v, ok := m.Get(k)
	assert.Assert(t, ok)
	assert.Equal(t, v, "new")
}

func TestLinHashOverflowChains(t *testing.T) {
	// Composite keys that collide per bucket keep overflow chains honest.
	m := NewLinHash[int](4)
	for i := 0; i < 64; i++ {
		m.Put(record.NewKey(i, i%3), i)
	}
	for i := 0; i < 64; i++ {
		v, ok := m.Get(record.NewKey(i, i%3))
		assert.Assert(t, ok, "missing key %d", i)
		assert.Equal(t, v, i)
	}
	assert.NilError(t, m.Validate())
}

func TestLinHashIndexScan(t *testing.T) {
	ix := NewLinHashIndex()
	for i := 0; i < 20; i++ {
		ix.Put(record.NewKey(i), record.Tuple{i, "row"})
	}

	seen := map[string]bool{}
	ix.Scan(func(e Entry) bool {
		seen[e.Key.String()] = true
		return true
	})
	assert.Equal(t, len(seen), 20)
	assert.Equal(t, ix.Kind(), KindLinHash)
}
