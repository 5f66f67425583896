// Package store persists tables to disk. Whole tables travel through
// encoding/gob; individual tuples have a fixed-width binary form for
// block-oriented storage.
package store

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattzmyname/CSCI4370-Project3/internal/index"
	"github.com/mattzmyname/CSCI4370-Project3/internal/record"
	"github.com/mattzmyname/CSCI4370-Project3/internal/relation"
	"github.com/mattzmyname/CSCI4370-Project3/internal/types"
	"github.com/mattzmyname/CSCI4370-Project3/pkg"
)

const DirName = "dbdir"

func init() {
	// tuple slots are interface values; gob needs every concrete
	// domain type registered
	gob.Register(int(0))
	gob.Register(int8(0))
	gob.Register(int16(0))
	gob.Register(int32(0))
	gob.Register(int64(0))
	gob.Register(float32(0))
	gob.Register(float64(0))
	gob.Register("")
}

// tableData is the gob image of a table. The index is not persisted, it
// is rebuilt on load.
type tableData struct {
	Name    string
	Attrs   []string
	Domains []types.Domain
	Key     []string
	Kind    index.Kind
	Tuples  []record.Tuple
}

func tablePath(dir, name string) string {
	return filepath.Join(dir, name+".dbf")
}

// Save writes the table under dir, creating the directory if needed.
func Save(dir string, t *relation.Table) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save %s: %w", t.Name, err)
	}
	f, err := os.Create(tablePath(dir, t.Name))
	if err != nil {
		return fmt.Errorf("save %s: %w", t.Name, err)
	}
	defer f.Close()

	data := tableData{
		Name:    t.Name,
		Attrs:   t.Attrs,
		Domains: t.Domains,
		Key:     t.Key,
		Kind:    t.Kind(),
		Tuples:  t.Tuples,
	}
	if err := gob.NewEncoder(f).Encode(data); err != nil {
		return fmt.Errorf("save %s: %w", t.Name, err)
	}
	pkg.InfoLog("saved table", t.Name, "to", tablePath(dir, t.Name))
	return nil
}

// Load reads a table previously written by Save and rebuilds its index.
func Load(dir, name string) (*relation.Table, error) {
	f, err := os.Open(tablePath(dir, name))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	defer f.Close()

	var data tableData
	if err := gob.NewDecoder(f).Decode(&data); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	t, err := relation.NewWithTuples(data.Name, data.Attrs, data.Domains, data.Key, data.Kind, data.Tuples)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	pkg.InfoLog("loaded table", t.Name, "with", t.Len(), "tuples")
	return t, nil
}

// LoadAll reads every .dbf file in dir. A missing directory is an empty
// database, not an error.
func LoadAll(dir string) ([]*relation.Table, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	tables := []*relation.Table{}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".dbf" {
			continue
		}
		name := e.Name()[:len(e.Name())-len(".dbf")]
		t, err := Load(dir, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// Drop removes the table's file. Dropping an unsaved table is not an error.
func Drop(dir, name string) error {
	err := os.Remove(tablePath(dir, name))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
