// Package parser reads the schema definition language:
//
//	$TABLE Student {
//	    id Int key(primary)
//	    name String
//	    gpa Double
//	}
//
// Each field line is a name, a domain, and optional props. Fields carrying
// key(primary) form the composite primary key in declaration order. The
// index(kind) prop on any field line picks the table's index structure;
// without one the table gets a linear-hash index.
package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mattzmyname/CSCI4370-Project3/internal/types"
	"github.com/mattzmyname/CSCI4370-Project3/pkg"
)

type FieldProp string

const (
	FieldPropKey   FieldProp = "key"
	FieldPropIndex FieldProp = "index"
)

func (p FieldProp) IsValid() bool {
	return p == FieldPropKey || p == FieldPropIndex
}

type LineParserState int

const (
	ParserStateTableStart LineParserState = iota
	ParserStateTableEnd
	ParserStateNewField
	ParserStateIdle
)

type ParserData struct {
	Name       string
	Domain     types.Domain
	Properties map[FieldProp]string
}

const (
	table_prefix     = "$TABLE "
	table_prefix_len = len(table_prefix)
)

func LineParser(line string) (LineParserState, *ParserData, error) {
	if strings.HasPrefix(line, table_prefix) {
		line := line[table_prefix_len:]
		name_end := strings.Index(line, " ")

		if name_end > 0 {
			open_bracket := strings.TrimSpace(line[name_end:])
			if open_bracket != "{" {
				return ParserStateIdle, nil, errors.New("Table name cannot include space")
			}
			name := line[:name_end]
			return ParserStateTableStart, &ParserData{Name: name}, nil
		}
	} else if line == "}" {
		return ParserStateTableEnd, nil, nil
	} else {
		splits := strings.Split(line, " ")
		splits = pkg.Filter(splits, func(s string) bool { return len(s) > 0 })
		if len(splits) < 2 {
			return ParserStateIdle, nil, errors.New("Invalid line")
		}
		domain, err := types.Parse(splits[1])
		if err != nil {
			return ParserStateIdle, nil, err
		}

		raw_field_props := strings.Join(splits[2:], " ")
		field_props, err := parseRawFieldProps(raw_field_props)
		if err != nil {
			return ParserStateIdle, nil, err
		}

		return ParserStateNewField, &ParserData{
			Name:       splits[0],
			Domain:     domain,
			Properties: field_props,
		}, nil
	}
	return ParserStateIdle, nil, errors.New("Invalid line")
}

func parseRawFieldProps(raw string) (map[FieldProp]string, error) {
	field_props := make(map[FieldProp]string)

	r := regexp.MustCompile(`(?m)(\w+)\(([^)]+)\)`)

	for _, entry := range r.FindAllString(raw, -1) {
		split := strings.Split(entry, "(")
		prop, value := FieldProp(split[0]), strings.TrimRight(split[1], ")")
		if !prop.IsValid() {
			return nil, fmt.Errorf("Invalid field prop: %s", prop)
		}
		field_props[prop] = value
	}

	return field_props, nil
}
