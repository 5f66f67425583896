package relation

import (
	"fmt"

	"github.com/mattzmyname/CSCI4370-Project3/internal/index"
	"github.com/mattzmyname/CSCI4370-Project3/internal/record"
	"github.com/mattzmyname/CSCI4370-Project3/internal/types"
)

// Project keeps only the named attributes, preserving row order. The result
// keeps the original primary key when every key attribute survives the
// projection; otherwise the whole projected attribute list becomes the key.
func (t *Table) Project(attrs []string) (*Table, error) {
	cols, err := t.match(attrs)
	if err != nil {
		return nil, fmt.Errorf("project on %s: %w", t.Name, err)
	}

	domains := make([]types.Domain, len(cols))
	for i, c := range cols {
		domains[i] = t.Domains[c]
	}
	key := attrs
	if containsAll(attrs, t.Key) {
		key = t.Key
	}

	rows := make([]record.Tuple, 0, len(t.Tuples))
	for _, tup := range t.Tuples {
		rows = append(rows, tup.Extract(cols))
	}
	return t.derive(attrs, domains, key, rows)
}

// Select keeps the tuples satisfying the predicate (full scan).
func (t *Table) Select(predicate func(record.Tuple) bool) (*Table, error) {
	rows := []record.Tuple{}
	for _, tup := range t.Tuples {
		if predicate(tup) {
			rows = append(rows, tup)
		}
	}
	return t.derive(t.Attrs, t.Domains, t.Key, rows)
}

// SelectKey probes the index for the key and returns every stored tuple
// value-equal to the indexed one, so index-equal duplicates beyond the one
// the index holds still come back.
func (t *Table) SelectKey(key record.Key) (*Table, error) {
	rows := []record.Tuple{}
	if target, ok := t.idx.Get(key); ok {
		for _, tup := range t.Tuples {
			if tup.Equal(target) {
				rows = append(rows, tup)
			}
		}
	}
	return t.derive(t.Attrs, t.Domains, t.Key, rows)
}

// SelectRange returns the tuples whose key falls in the half-open range
// [from, to). An ordered index serves it with a leaf walk; a hashed one
// degrades to a filtered scan of its entries.
func (t *Table) SelectRange(from, to record.Key) (*Table, error) {
	rows := []record.Tuple{}
	if ordered, ok := t.idx.(index.Ordered); ok {
		ordered.SubMap(from, to).Scan(func(e index.Entry) bool {
			rows = append(rows, e.Tup)
			return true
		})
	} else {
		t.idx.Scan(func(e index.Entry) bool {
			if e.Key.Compare(from) >= 0 && e.Key.Compare(to) < 0 {
				rows = append(rows, e.Tup)
			}
			return true
		})
	}
	return t.derive(t.Attrs, t.Domains, t.Key, rows)
}

// Union returns this table's tuples plus every tuple of other without a
// value-equal counterpart already present. Tables must be compatible.
func (t *Table) Union(other *Table) (*Table, error) {
	if !t.compatible(other) {
		return nil, fmt.Errorf("%s union %s: tables are not compatible", t.Name, other.Name)
	}
	rows := make([]record.Tuple, len(t.Tuples))
	copy(rows, t.Tuples)
	for _, tup := range other.Tuples {
		duplicate := false
		for _, have := range rows {
			if have.Equal(tup) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			rows = append(rows, tup)
		}
	}
	return t.derive(t.Attrs, t.Domains, t.Key, rows)
}

// Minus returns this table's tuples with no value-equal counterpart in
// other. Tables must be compatible.
func (t *Table) Minus(other *Table) (*Table, error) {
	if !t.compatible(other) {
		return nil, fmt.Errorf("%s minus %s: tables are not compatible", t.Name, other.Name)
	}
	rows := []record.Tuple{}
	for _, tup := range t.Tuples {
		present := false
		for _, theirs := range other.Tuples {
			if tup.Equal(theirs) {
				present = true
				break
			}
		}
		if !present {
			rows = append(rows, tup)
		}
	}
	return t.derive(t.Attrs, t.Domains, t.Key, rows)
}
