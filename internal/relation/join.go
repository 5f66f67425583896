package relation

import (
	"fmt"
	"slices"

	"github.com/mattzmyname/CSCI4370-Project3/internal/index"
	"github.com/mattzmyname/CSCI4370-Project3/internal/record"
	"github.com/mattzmyname/CSCI4370-Project3/internal/types"
)

// joinSchema concatenates both schemas, suffixing a "2" onto any right-hand
// attribute name that collides with a left-hand one.
func (t *Table) joinSchema(other *Table) ([]string, []types.Domain) {
	attrs := make([]string, 0, len(t.Attrs)+len(other.Attrs))
	attrs = append(attrs, t.Attrs...)
	for _, a := range other.Attrs {
		if slices.Contains(t.Attrs, a) {
			a = a + "2"
		}
		attrs = append(attrs, a)
	}
	domains := make([]types.Domain, 0, len(t.Domains)+len(other.Domains))
	domains = append(domains, t.Domains...)
	domains = append(domains, other.Domains...)
	return attrs, domains
}

func (t *Table) joinCols(attrs1, attrs2 []string, other *Table) ([]int, []int, error) {
	if len(attrs1) != len(attrs2) {
		return nil, nil, fmt.Errorf("join %s with %s: attribute lists differ in length (%d vs %d)",
			t.Name, other.Name, len(attrs1), len(attrs2))
	}
	cols1, err := t.match(attrs1)
	if err != nil {
		return nil, nil, fmt.Errorf("join on %s: %w", t.Name, err)
	}
	cols2, err := other.match(attrs2)
	if err != nil {
		return nil, nil, fmt.Errorf("join on %s: %w", other.Name, err)
	}
	return cols1, cols2, nil
}

// Join is the nested-loop equi-join: every tuple pair whose values agree at
// the paired attribute positions yields the concatenation of the two rows.
func (t *Table) Join(attrs1, attrs2 []string, other *Table) (*Table, error) {
	cols1, cols2, err := t.joinCols(attrs1, attrs2, other)
	if err != nil {
		return nil, err
	}

	rows := []record.Tuple{}
	for _, ttup := range t.Tuples {
		for _, utup := range other.Tuples {
			if matchAt(ttup, utup, cols1, cols2) {
				rows = append(rows, record.Concat(ttup, utup))
			}
		}
	}

	attrs, domains := t.joinSchema(other)
	return t.derive(attrs, domains, t.Key, rows)
}

// IJoin is the index-assisted equi-join: instead of scanning other, each of
// this table's tuples probes other's index with its foreign-key projection.
// Other must be indexed by exactly the attributes named in attrs2.
func (t *Table) IJoin(attrs1, attrs2 []string, other *Table) (*Table, error) {
	cols1, _, err := t.joinCols(attrs1, attrs2, other)
	if err != nil {
		return nil, err
	}
	if other.kind == index.KindNone {
		return nil, fmt.Errorf("i_join: table %s has no index", other.Name)
	}
	if !slices.Equal(attrs2, other.Key) {
		return nil, fmt.Errorf("i_join: table %s is indexed by %v, not %v", other.Name, other.Key, attrs2)
	}

	rows := []record.Tuple{}
	for _, ttup := range t.Tuples {
		if !ttup.Covers(cols1) {
			continue
		}
		if utup, ok := other.idx.Get(ttup.KeyAt(cols1)); ok {
			rows = append(rows, record.Concat(ttup, utup))
		}
	}

	attrs, domains := t.joinSchema(other)
	return t.derive(attrs, domains, t.Key, rows)
}

// HJoin is the hash-assisted equi-join: a throwaway linear-hash table is
// built over the smaller operand keyed by its join attributes and probed
// once per tuple of the larger one. Hashing the smaller side bounds the
// extra memory by the smaller operand. Entries are tuple lists, so
// duplicate join keys lose nothing against the nested-loop result.
func (t *Table) HJoin(attrs1, attrs2 []string, other *Table) (*Table, error) {
	cols1, cols2, err := t.joinCols(attrs1, attrs2, other)
	if err != nil {
		return nil, err
	}

	hmap := index.NewLinHash[[]record.Tuple](index.DefaultLinHashSize)
	rows := []record.Tuple{}

	if len(t.Tuples) <= len(other.Tuples) {
		for _, ttup := range t.Tuples {
			if !ttup.Covers(cols1) {
				continue
			}
			k := ttup.KeyAt(cols1)
			have, _ := hmap.Get(k)
			hmap.Put(k, append(have, ttup))
		}
		for _, utup := range other.Tuples {
			if !utup.Covers(cols2) {
				continue
			}
			if matches, ok := hmap.Get(utup.KeyAt(cols2)); ok {
				for _, ttup := range matches {
					rows = append(rows, record.Concat(ttup, utup))
				}
			}
		}
	} else {
		for _, utup := range other.Tuples {
			if !utup.Covers(cols2) {
				continue
			}
			k := utup.KeyAt(cols2)
			have, _ := hmap.Get(k)
			hmap.Put(k, append(have, utup))
		}
		for _, ttup := range t.Tuples {
			if !ttup.Covers(cols1) {
				continue
			}
			if matches, ok := hmap.Get(ttup.KeyAt(cols1)); ok {
				for _, utup := range matches {
					rows = append(rows, record.Concat(ttup, utup))
				}
			}
		}
	}

	attrs, domains := t.joinSchema(other)
	return t.derive(attrs, domains, t.Key, rows)
}

// NaturalJoin equates on every attribute name the two schemas share and
// eliminates the duplicate columns from the right side. With no shared
// names it degenerates to the cross product.
func (t *Table) NaturalJoin(other *Table) (*Table, error) {
	common := []string{}
	for _, a := range t.Attrs {
		if slices.Contains(other.Attrs, a) {
			common = append(common, a)
		}
	}
	cols1, _ := t.match(common)
	cols2, _ := other.match(common)

	keep := []int{} // right-side columns that survive
	keptAttrs := []string{}
	keptDomains := []types.Domain{}
	for i, a := range other.Attrs {
		if !slices.Contains(common, a) {
			keep = append(keep, i)
			keptAttrs = append(keptAttrs, a)
			keptDomains = append(keptDomains, other.Domains[i])
		}
	}

	rows := []record.Tuple{}
	for _, ttup := range t.Tuples {
		for _, utup := range other.Tuples {
			if matchAt(ttup, utup, cols1, cols2) {
				rows = append(rows, record.Concat(ttup, utup.Extract(keep)))
			}
		}
	}

	attrs := append(append([]string{}, t.Attrs...), keptAttrs...)
	domains := append(append([]types.Domain{}, t.Domains...), keptDomains...)
	return t.derive(attrs, domains, t.Key, rows)
}

// matchAt holds when both tuples carry equal values at every paired
// position. A tuple too short to reach a position never matches.
func matchAt(a, b record.Tuple, colsA, colsB []int) bool {
	for i := range colsA {
		if colsA[i] >= len(a) || colsB[i] >= len(b) {
			return false
		}
		if !record.EqualValues(a[colsA[i]], b[colsB[i]]) {
			return false
		}
	}
	return true
}
