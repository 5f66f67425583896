package parser

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/mattzmyname/CSCI4370-Project3/internal/index"
	"github.com/mattzmyname/CSCI4370-Project3/internal/relation"
	"github.com/mattzmyname/CSCI4370-Project3/internal/types"
)

// TableDef is a parsed table definition, ready to be built into a table.
type TableDef struct {
	Name    string
	Attrs   []string
	Domains []types.Domain
	Key     []string
	Kind    index.Kind
}

// Schema is an ordered set of table definitions.
type Schema struct {
	Tables []*TableDef
}

func ParseLineError(line_idx int, reason string) error {
	return fmt.Errorf("Error parsing line %d: %s", line_idx, reason)
}

// ParseSchema reads a complete schema document. Empty lines and //-comments
// are ignored. Every table needs at least one key(primary) field.
func ParseSchema(schema_data string) (*Schema, error) {
	schema := Schema{}
	seen := map[string]bool{}

	scanner := bufio.NewScanner(strings.NewReader(schema_data))
	line_idx := 0

	var current_table *TableDef

	for scanner.Scan() {
		line_idx++
		line := strings.TrimSpace(scanner.Text())

		if len(line) == 0 || strings.HasPrefix(line, "//") {
			continue
		}

		state, data, err := LineParser(line)
		if err != nil {
			return nil, ParseLineError(line_idx, err.Error())
		}

		switch state {
		case ParserStateTableStart:
			if current_table != nil {
				return nil, ParseLineError(line_idx, fmt.Sprintf("Table %s is not closed", current_table.Name))
			}
			if seen[data.Name] {
				return nil, ParseLineError(line_idx, fmt.Sprintf("Duplicate table %s", data.Name))
			}
			seen[data.Name] = true
			current_table = &TableDef{Name: data.Name, Kind: index.KindLinHash}
		case ParserStateTableEnd:
			if current_table == nil {
				return nil, ParseLineError(line_idx, "Unexpected }")
			}
			if len(current_table.Key) == 0 {
				return nil, ParseLineError(line_idx, fmt.Sprintf("Table %s has no key(primary) field", current_table.Name))
			}
			schema.Tables = append(schema.Tables, current_table)
			current_table = nil
		case ParserStateNewField:
			if current_table == nil {
				return nil, ParseLineError(line_idx, "Field outside a table block")
			}
			for _, a := range current_table.Attrs {
				if a == data.Name {
					return nil, ParseLineError(line_idx, fmt.Sprintf("Duplicate field %s", data.Name))
				}
			}
			current_table.Attrs = append(current_table.Attrs, data.Name)
			current_table.Domains = append(current_table.Domains, data.Domain)
			if data.Properties[FieldPropKey] == "primary" {
				current_table.Key = append(current_table.Key, data.Name)
			}
			if kind, ok := data.Properties[FieldPropIndex]; ok {
				k := index.Kind(kind)
				if !k.IsValid() {
					return nil, ParseLineError(line_idx, fmt.Sprintf("Invalid index kind %s", kind))
				}
				current_table.Kind = k
			}
		}
	}

	if current_table != nil {
		return nil, fmt.Errorf("Table %s is not closed", current_table.Name)
	}
	if len(schema.Tables) == 0 {
		return nil, fmt.Errorf("Schema defines no tables")
	}
	return &schema, nil
}

// Build turns a definition into an empty table.
func (d *TableDef) Build() (*relation.Table, error) {
	return relation.New(d.Name, d.Attrs, d.Domains, d.Key, d.Kind)
}
