// Command reldb-bench loads randomly generated registrar tuples into tables
// under each index structure and times point lookups, range scans and the
// three join strategies against each other.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/mattzmyname/CSCI4370-Project3/internal/index"
	"github.com/mattzmyname/CSCI4370-Project3/internal/record"
	"github.com/mattzmyname/CSCI4370-Project3/internal/relation"
	"github.com/mattzmyname/CSCI4370-Project3/internal/types"
	"github.com/mattzmyname/CSCI4370-Project3/pkg"
)

var statuses = []string{"active", "inactive", "onleave"}

func randomWord(rng *rand.Rand, n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rng.Intn(len(letters))]
	}
	return string(b)
}

func buildStudent(kind index.Kind, n int, rng *rand.Rand) *relation.Table {
	t, err := relation.New("Student",
		[]string{"id", "name", "address", "status"},
		[]types.Domain{types.DomainInt, types.DomainString, types.DomainString, types.DomainString},
		[]string{"id"}, kind)
	if err != nil {
		pkg.FatalLog(err)
	}
	for _, id := range rng.Perm(n) {
		t.Insert(record.Tuple{id, randomWord(rng, 8), randomWord(rng, 12), statuses[rng.Intn(len(statuses))]})
	}
	return t
}

func buildTranscript(kind index.Kind, students, n int, rng *rand.Rand) *relation.Table {
	t, err := relation.New("Transcript",
		[]string{"studId", "crsCode", "grade"},
		[]types.Domain{types.DomainInt, types.DomainString, types.DomainString},
		[]string{"studId", "crsCode"}, kind)
	if err != nil {
		pkg.FatalLog(err)
	}
	for i := 0; i < n; i++ {
		t.Insert(record.Tuple{rng.Intn(students), fmt.Sprintf("CS%04d", rng.Intn(40)), randomWord(rng, 1)})
	}
	return t
}

func timed(label string, f func()) {
	start := time.Now()
	f()
	fmt.Printf("  %-28s %12s\n", label, time.Since(start).Round(time.Microsecond))
}

func main() {
	n := flag.Int("n", 10000, "tuples per table")
	probes := flag.Int("probes", 1000, "point lookups to run")
	seed := flag.Int64("seed", time.Now().UnixNano(), "rng seed")
	flag.Parse()

	pkg.SetLogLevel(pkg.LogLevelNone)
	rng := rand.New(rand.NewSource(*seed))

	for _, kind := range []index.Kind{index.KindSortedMap, index.KindLinHash, index.KindBpTree} {
		fmt.Printf("%s (%d tuples):\n", kind, *n)

		var student, transcript *relation.Table
		timed("insert", func() {
			student = buildStudent(kind, *n, rng)
			transcript = buildTranscript(index.KindNone, *n, *n, rng)
		})

		timed(fmt.Sprintf("find x%d", *probes), func() {
			for i := 0; i < *probes; i++ {
				if _, err := student.SelectKey(record.NewKey(rng.Intn(*n))); err != nil {
					pkg.FatalLog(err)
				}
			}
		})

		timed("range scan (10%)", func() {
			lo := rng.Intn(*n * 9 / 10)
			if _, err := student.SelectRange(record.NewKey(lo), record.NewKey(lo+*n/10)); err != nil {
				pkg.FatalLog(err)
			}
		})

		timed("join nested", func() {
			if _, err := transcript.Join([]string{"studId"}, []string{"id"}, student); err != nil {
				pkg.FatalLog(err)
			}
		})
		timed("join index", func() {
			if _, err := transcript.IJoin([]string{"studId"}, []string{"id"}, student); err != nil {
				pkg.FatalLog(err)
			}
		})
		timed("join hash", func() {
			if _, err := transcript.HJoin([]string{"studId"}, []string{"id"}, student); err != nil {
				pkg.FatalLog(err)
			}
		})
		fmt.Println()
	}
}
