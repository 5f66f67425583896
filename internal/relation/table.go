// Package relation implements typed tables and the relational operators over
// them: project, select, union, minus and three equi-join strategies. Every
// operator builds a brand-new table; inputs are never mutated.
package relation

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/mattzmyname/CSCI4370-Project3/internal/index"
	"github.com/mattzmyname/CSCI4370-Project3/internal/record"
	"github.com/mattzmyname/CSCI4370-Project3/internal/types"
	"github.com/mattzmyname/CSCI4370-Project3/pkg"
)

// Counter for naming tables produced by relational operators.
var derivedCount atomic.Int64

// Table is a relation: attribute names with parallel domains, a primary key,
// the stored tuples, and one index over the primary key. The table owns its
// index exclusively; a single writer is assumed, and the embedded locker is
// for callers (like the conn layer) that share a table across goroutines.
type Table struct {
	locker sync.RWMutex

	Name    string
	Attrs   []string
	Domains []types.Domain
	Key     []string
	Tuples  []record.Tuple

	kind    index.Kind
	idx     index.Index
	keyCols []int
}

// New builds an empty table. The schema must carry one domain per attribute,
// and every primary-key attribute must name a schema attribute.
func New(name string, attrs []string, domains []types.Domain, key []string, kind index.Kind) (*Table, error) {
	if len(attrs) != len(domains) {
		return nil, fmt.Errorf("table %s: %d attributes but %d domains", name, len(attrs), len(domains))
	}
	for _, d := range domains {
		if !d.IsValid() {
			return nil, fmt.Errorf("table %s: invalid domain %q", name, d)
		}
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("table %s: invalid index kind %q", name, kind)
	}
	t := &Table{
		Name:    name,
		Attrs:   attrs,
		Domains: domains,
		Key:     key,
		kind:    kind,
		idx:     index.New(kind),
	}
	keyCols, err := t.match(key)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", name, err)
	}
	t.keyCols = keyCols
	return t, nil
}

// NewWithTuples builds a table pre-loaded with rows. The rows are trusted
// (they come from relational operators or a persisted table) so they skip
// domain checking, but each one still lands in the fresh index as if it had
// been inserted.
func NewWithTuples(name string, attrs []string, domains []types.Domain, key []string, kind index.Kind, tuples []record.Tuple) (*Table, error) {
	t, err := New(name, attrs, domains, key, kind)
	if err != nil {
		return nil, err
	}
	for _, tup := range tuples {
		t.Tuples = append(t.Tuples, tup)
		t.indexPut(tup)
	}
	return t, nil
}

func (t *Table) GetLocker() *sync.RWMutex { return &t.locker }

func (t *Table) GetName() string { return t.Name }

func (t *Table) Kind() index.Kind { return t.kind }

func (t *Table) Index() index.Index { return t.idx }

func (t *Table) Len() int { return len(t.Tuples) }

// Col returns the position of the named attribute, or -1 when absent.
func (t *Table) Col(attr string) int {
	for i, a := range t.Attrs {
		if a == attr {
			return i
		}
	}
	return -1
}

// Insert appends a tuple after checking it against the schema: the arity
// must not exceed the schema's, and every value must belong to its column's
// domain (Float and Double accepting each other). On success the tuple's
// primary-key projection goes into the index. Failures are logged and leave
// the table untouched.
func (t *Table) Insert(tup record.Tuple) bool {
	if len(tup) > len(t.Domains) {
		pkg.ErrorLog("insert into", t.Name, "rejected: tuple arity", len(tup), "exceeds schema arity", len(t.Domains))
		return false
	}
	for i, v := range tup {
		if !t.Domains[i].Check(v) {
			pkg.ErrorLog("insert into", t.Name, "rejected: value", v, "does not belong to domain", t.Domains[i], "at position", i)
			return false
		}
	}
	t.Tuples = append(t.Tuples, tup)
	t.indexPut(tup)
	return true
}

// indexPut inserts the tuple's primary-key projection. A tuple too short to
// cover every key attribute stays out of the index; a duplicate key
// displaces the previously indexed tuple.
func (t *Table) indexPut(tup record.Tuple) {
	if t.kind == index.KindNone {
		return
	}
	for _, c := range t.keyCols {
		if c >= len(tup) {
			pkg.WarnLog("table", t.Name, "tuple too short for key attribute", t.Attrs[c], "- not indexed")
			return
		}
	}
	if _, replaced := t.idx.Put(tup.KeyAt(t.keyCols), tup); replaced {
		pkg.WarnLog("table", t.Name, "duplicate key", tup.KeyAt(t.keyCols), "- index entry overwritten")
	}
}

// KeyOf builds the primary-key projection of a tuple of this table.
func (t *Table) KeyOf(tup record.Tuple) record.Key {
	return tup.KeyAt(t.keyCols)
}

// compatible reports whether both tables have the same arity with the same
// domain at every position, the precondition for union and minus.
func (t *Table) compatible(other *Table) bool {
	if len(t.Domains) != len(other.Domains) {
		pkg.ErrorLog("tables", t.Name, "and", other.Name, "have different arity")
		return false
	}
	for i := range t.Domains {
		if t.Domains[i] != other.Domains[i] {
			pkg.ErrorLog("tables", t.Name, "and", other.Name, "disagree on domain at position", i)
			return false
		}
	}
	return true
}

// match resolves attribute names to column positions.
func (t *Table) match(columns []string) ([]int, error) {
	positions := make([]int, len(columns))
	for i, c := range columns {
		p := t.Col(c)
		if p < 0 {
			return nil, fmt.Errorf("no attribute named %q", c)
		}
		positions[i] = p
	}
	return positions, nil
}

// derive builds an operator-result table: fresh name, same index kind,
// index populated from the rows.
func (t *Table) derive(attrs []string, domains []types.Domain, key []string, rows []record.Tuple) (*Table, error) {
	name := fmt.Sprintf("%s%d", t.Name, derivedCount.Add(1))
	return NewWithTuples(name, attrs, domains, key, t.kind, rows)
}

// containsAll reports whether every name in sub appears in super.
func containsAll(super, sub []string) bool {
	for _, s := range sub {
		if !slices.Contains(super, s) {
			return false
		}
	}
	return true
}
