// Package index provides the pluggable key->tuple maps backing tables:
// a linear-hashing table, a B+Tree, an off-the-shelf sorted map, and a
// no-op placeholder. A table holds exactly one of them, chosen at
// construction time.
package index

import (
	"slices"

	"github.com/mattzmyname/CSCI4370-Project3/internal/record"
)

type Kind string

const (
	KindNone      Kind = "none"
	KindSortedMap Kind = "sortedmap"
	KindLinHash   Kind = "linhash"
	KindBpTree    Kind = "bptree"
)

var VALID_KINDS = []Kind{KindNone, KindSortedMap, KindLinHash, KindBpTree}

func (k Kind) IsValid() bool {
	return slices.Contains(VALID_KINDS, k)
}

type Entry struct {
	Key record.Key
	Tup record.Tuple
}

// Index is the capability a table needs from its index. Put overwrites an
// existing key in place and hands back the displaced tuple; there is no
// delete.
type Index interface {
	Get(k record.Key) (record.Tuple, bool)
	Put(k record.Key, t record.Tuple) (record.Tuple, bool)
	// Scan visits every entry until f returns false. Ordered indexes
	// scan in ascending key order; hashed ones in bucket order.
	Scan(f func(Entry) bool)
	Len() int
	Kind() Kind
}

// Ordered is the extra capability of key-ordered indexes. Range maps are
// half-open [from, to) except TailMap, which includes the last key.
type Ordered interface {
	Index
	FirstKey() (record.Key, bool)
	LastKey() (record.Key, bool)
	HeadMap(to record.Key) Ordered
	TailMap(from record.Key) Ordered
	SubMap(from, to record.Key) Ordered
}

func New(kind Kind) Index {
	switch kind {
	case KindSortedMap:
		return NewSortedIndex()
	case KindLinHash:
		return NewLinHashIndex()
	case KindBpTree:
		return NewBpTree()
	default:
		return NoIndex{}
	}
}

// NoIndex drops every insert and misses every lookup. Tables built with
// KindNone use it so the insert path needs no nil checks.
type NoIndex struct{}

func (NoIndex) Get(record.Key) (record.Tuple, bool) { return nil, false }

func (NoIndex) Put(record.Key, record.Tuple) (record.Tuple, bool) { return nil, false }

func (NoIndex) Scan(func(Entry) bool) {}

func (NoIndex) Len() int { return 0 }

func (NoIndex) Kind() Kind { return KindNone }
