package relation

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattzmyname/CSCI4370-Project3/internal/index"
	"github.com/mattzmyname/CSCI4370-Project3/pkg"
)

// Fprint writes the table in a boxed layout, one column per attribute.
func (t *Table) Fprint(w io.Writer) {
	pkg.RLockWrap(t, func() { t.fprint(w) })
}

func (t *Table) fprint(w io.Writer) {
	rule := "|-" + strings.Repeat("---------------", len(t.Attrs)) + "-|"

	fmt.Fprintf(w, "\n Table %s\n", t.Name)
	fmt.Fprintln(w, rule)
	fmt.Fprint(w, "| ")
	for _, a := range t.Attrs {
		fmt.Fprintf(w, "%15s", a)
	}
	fmt.Fprintln(w, " |")
	fmt.Fprintln(w, rule)
	for _, tup := range t.Tuples {
		fmt.Fprint(w, "| ")
		for _, v := range tup {
			fmt.Fprintf(w, "%15v", v)
		}
		fmt.Fprintln(w, " |")
	}
	fmt.Fprintln(w, rule)
}

func (t *Table) Print() { t.Fprint(os.Stdout) }

// FprintIndex dumps the index entries, in key order for ordered kinds.
func (t *Table) FprintIndex(w io.Writer) {
	fmt.Fprintf(w, "\n Index (%s) for %s\n", t.kind, t.Name)
	fmt.Fprintln(w, "-------------------")
	t.idx.Scan(func(e index.Entry) bool {
		fmt.Fprintf(w, "%s -> %v\n", e.Key, e.Tup)
		return true
	})
	fmt.Fprintln(w, "-------------------")
}

func (t *Table) PrintIndex() { t.FprintIndex(os.Stdout) }
