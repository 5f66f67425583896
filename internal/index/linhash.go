package index

import (
	"fmt"

	"github.com/mattzmyname/CSCI4370-Project3/internal/record"
)

// Slots per bucket before an overflow bucket is chained on.
const lhSlots = 4

// DefaultLinHashSize is the initial number of home buckets (a power of 2).
const DefaultLinHashSize = 4

type lhBucket[V any] struct {
	nKeys int
	keys  [lhSlots]record.Key
	vals  [lhSlots]V
	next  *lhBucket[V]
}

// LinHash is a linear-hashing table: instead of a stop-the-world rehash it
// splits one home bucket per load-factor trigger, so insertion cost stays
// bounded while the table grows. Buckets below the split pointer have
// already been redistributed with the doubled modulus mod2; buckets at or
// above it are still addressed with mod1.
type LinHash[V any] struct {
	table []*lhBucket[V]
	mod1  int // home-bucket modulus for the current generation
	mod2  int // always 2*mod1
	split int // next home bucket scheduled to split
	nKeys int
}

func NewLinHash[V any](initSize int) *LinHash[V] {
	if initSize < 1 {
		initSize = DefaultLinHashSize
	}
	m := &LinHash[V]{mod1: initSize, mod2: 2 * initSize}
	for i := 0; i < initSize; i++ {
		m.table = append(m.table, &lhBucket[V]{})
	}
	return m
}

// home resolves the bucket chain for a key. A home slot below the split
// pointer has already been redistributed this generation, so the key is
// re-addressed with the high-resolution modulus.
func (m *LinHash[V]) home(k record.Key) int {
	i := int(k.Hash() % uint64(m.mod1))
	if i < m.split {
		i = int(k.Hash() % uint64(m.mod2))
	}
	return i
}

func (m *LinHash[V]) Get(k record.Key) (V, bool) {
	for b := m.table[m.home(k)]; b != nil; b = b.next {
		for s := 0; s < b.nKeys; s++ {
			if b.keys[s].Equal(k) {
				return b.vals[s], true
			}
		}
	}
	var zero V
	return zero, false
}

// Put stores the pair, overwriting in place when the key is already present
// and returning the displaced value. After a fresh insert it checks the load
// factor nKeys/(slots*mod1) and runs split steps while it sits at or above 1.
func (m *LinHash[V]) Put(k record.Key, v V) (V, bool) {
	var zero V
	head := m.table[m.home(k)]
	for b := head; b != nil; b = b.next {
		for s := 0; s < b.nKeys; s++ {
			if b.keys[s].Equal(k) {
				prev := b.vals[s]
				b.vals[s] = v
				return prev, true
			}
		}
	}

	chainPut(head, k, v)
	m.nKeys++

	// Split one bucket at a time until the load factor drops below 1.
	// The loop terminates because a finished generation doubles mod1.
	for float64(m.nKeys)/float64(lhSlots*m.mod1) >= 1 {
		m.splitStep()
	}
	return zero, false
}

// chainPut writes into the first free slot along the chain, appending an
// overflow bucket at the tail when every slot is taken.
func chainPut[V any](head *lhBucket[V], k record.Key, v V) {
	b := head
	for {
		if b.nKeys < lhSlots {
			b.keys[b.nKeys] = k
			b.vals[b.nKeys] = v
			b.nKeys++
			return
		}
		if b.next == nil {
			b.next = &lhBucket[V]{}
		}
		b = b.next
	}
}

// splitStep redistributes the chain at the split pointer between a fresh
// bucket staying in place and a fresh bucket materialized at split+mod1,
// using the high-resolution modulus to pick the destination. When the last
// home bucket of the generation has split, both moduli double and the
// pointer wraps to zero.
func (m *LinHash[V]) splitStep() {
	old := m.table[m.split]
	low := &lhBucket[V]{}
	high := &lhBucket[V]{}
	m.table[m.split] = low
	m.table = append(m.table, high) // lands at position split+mod1

	for b := old; b != nil; b = b.next {
		for s := 0; s < b.nKeys; s++ {
			if int(b.keys[s].Hash()%uint64(m.mod2)) == m.split {
				chainPut(low, b.keys[s], b.vals[s])
			} else {
				chainPut(high, b.keys[s], b.vals[s])
			}
		}
	}

	if m.split == m.mod1-1 {
		m.mod1 *= 2
		m.mod2 *= 2
		m.split = 0
	} else {
		m.split++
	}
}

func (m *LinHash[V]) Scan(f func(k record.Key, v V) bool) {
	for _, head := range m.table {
		for b := head; b != nil; b = b.next {
			for s := 0; s < b.nKeys; s++ {
				if !f(b.keys[s], b.vals[s]) {
					return
				}
			}
		}
	}
}

func (m *LinHash[V]) Len() int { return m.nKeys }

func (m *LinHash[V]) Mod1() int { return m.mod1 }

func (m *LinHash[V]) Split() int { return m.split }

func (m *LinHash[V]) NumBuckets() int { return len(m.table) }

// Validate re-derives the generation invariant: every key below the split
// pointer hashes to its position under mod2, every key at or above it under
// mod1, and the table holds exactly mod1+split home chains.
func (m *LinHash[V]) Validate() error {
	if m.mod2 != 2*m.mod1 {
		return fmt.Errorf("linhash: mod2 %d is not twice mod1 %d", m.mod2, m.mod1)
	}
	if len(m.table) != m.mod1+m.split {
		return fmt.Errorf("linhash: %d buckets, want %d", len(m.table), m.mod1+m.split)
	}
	for p, head := range m.table {
		for b := head; b != nil; b = b.next {
			for s := 0; s < b.nKeys; s++ {
				k := b.keys[s]
				var want int
				if p < m.split || p >= m.mod1 {
					want = int(k.Hash() % uint64(m.mod2))
				} else {
					want = int(k.Hash() % uint64(m.mod1))
				}
				if want != p {
					return fmt.Errorf("linhash: key %s in bucket %d, hashes to %d", k, p, want)
				}
			}
		}
	}
	return nil
}

// linHashIndex adapts LinHash[record.Tuple] to the Index capability.
type linHashIndex struct {
	*LinHash[record.Tuple]
}

func NewLinHashIndex() Index {
	return linHashIndex{NewLinHash[record.Tuple](DefaultLinHashSize)}
}

func (ix linHashIndex) Scan(f func(Entry) bool) {
	ix.LinHash.Scan(func(k record.Key, t record.Tuple) bool {
		return f(Entry{Key: k, Tup: t})
	})
}

func (linHashIndex) Kind() Kind { return KindLinHash }
