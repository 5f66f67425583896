package index

import (
	"github.com/mattzmyname/CSCI4370-Project3/internal/record"
	sorted "github.com/tobshub/go-sortedmap"
)

// sortedIndex delegates ordering to an off-the-shelf sorted map instead of a
// hand-built structure. Entries are keyed by the key's identity string and
// ranked by comparing the stored keys themselves.
type sortedIndex struct {
	m *sorted.SortedMap[string, Entry]
}

func NewSortedIndex() Ordered {
	return &sortedIndex{m: sorted.New[string, Entry](0, func(a, b Entry) bool {
		return a.Key.Less(b.Key)
	})}
}

func (ix *sortedIndex) Get(k record.Key) (record.Tuple, bool) {
	e, ok := ix.m.Get(k.Id())
	if !ok {
		return nil, false
	}
	return e.Tup, true
}

func (ix *sortedIndex) Put(k record.Key, t record.Tuple) (record.Tuple, bool) {
	id := k.Id()
	entry := Entry{Key: k, Tup: t}
	if prev, ok := ix.m.Get(id); ok {
		ix.m.Replace(id, entry)
		return prev.Tup, true
	}
	ix.m.Insert(id, entry)
	return nil, false
}

func (ix *sortedIndex) Scan(f func(Entry) bool) {
	iterCh, err := ix.m.IterCh()
	if err != nil {
		// empty map
		return
	}
	defer iterCh.Close()
	for rec := range iterCh.Records() {
		if !f(rec.Val) {
			return
		}
	}
}

func (ix *sortedIndex) Len() int { return ix.m.Len() }

func (ix *sortedIndex) Kind() Kind { return KindSortedMap }

func (ix *sortedIndex) FirstKey() (record.Key, bool) {
	var first record.Key
	found := false
	ix.Scan(func(e Entry) bool {
		first = e.Key
		found = true
		return false
	})
	return first, found
}

func (ix *sortedIndex) LastKey() (record.Key, bool) {
	var last record.Key
	found := false
	ix.Scan(func(e Entry) bool {
		last = e.Key
		found = true
		return true
	})
	return last, found
}

func (ix *sortedIndex) HeadMap(to record.Key) Ordered {
	return ix.extract(nil, &to)
}

func (ix *sortedIndex) TailMap(from record.Key) Ordered {
	return ix.extract(&from, nil)
}

func (ix *sortedIndex) SubMap(from, to record.Key) Ordered {
	return ix.extract(&from, &to)
}

func (ix *sortedIndex) extract(from, to *record.Key) Ordered {
	out := NewSortedIndex()
	ix.Scan(func(e Entry) bool {
		if from != nil && e.Key.Compare(*from) < 0 {
			return true
		}
		if to != nil && e.Key.Compare(*to) >= 0 {
			return false
		}
		out.Put(e.Key, e.Tup)
		return true
	})
	return out
}
