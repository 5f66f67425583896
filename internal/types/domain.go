package types

import (
	"fmt"
	"slices"

	"github.com/mattzmyname/CSCI4370-Project3/pkg"
)

// Domain tags the value family of a column. Runtime values map to Go types:
// Int->int, Long->int64, Short->int16, Byte->int8, Float->float32,
// Double->float64, String->string, Char->rune.
type Domain string

const (
	DomainInt    Domain = "Int"
	DomainLong   Domain = "Long"
	DomainShort  Domain = "Short"
	DomainByte   Domain = "Byte"
	DomainFloat  Domain = "Float"
	DomainDouble Domain = "Double"
	DomainString Domain = "String"
	DomainChar   Domain = "Char"
)

var VALID_DOMAINS = []Domain{
	DomainInt, DomainLong, DomainShort, DomainByte,
	DomainFloat, DomainDouble, DomainString, DomainChar,
}

func (d Domain) IsValid() bool {
	return slices.Contains(VALID_DOMAINS, d)
}

func Parse(s string) (Domain, error) {
	d := Domain(s)
	if !d.IsValid() {
		return "", fmt.Errorf("Invalid domain type: %s", s)
	}
	return d, nil
}

func ParseAll(names []string) ([]Domain, error) {
	domains := make([]Domain, len(names))
	for i, name := range names {
		d, err := Parse(name)
		if err != nil {
			return nil, err
		}
		domains[i] = d
	}
	return domains, nil
}

// Check reports whether a runtime value belongs to the domain.
// Float and Double accept each other's values; this is the single
// domain-compatibility exception.
func (d Domain) Check(v any) bool {
	switch d {
	case DomainInt:
		_, ok := v.(int)
		return ok
	case DomainLong:
		_, ok := v.(int64)
		return ok
	case DomainShort:
		_, ok := v.(int16)
		return ok
	case DomainByte:
		_, ok := v.(int8)
		return ok
	case DomainFloat, DomainDouble:
		switch v.(type) {
		case float32, float64:
			return true
		}
		return false
	case DomainString:
		_, ok := v.(string)
		return ok
	case DomainChar:
		_, ok := v.(rune)
		return ok
	}
	return false
}

// Size is the fixed byte width of a packed value of this domain.
// Strings pack into a zero-padded 64-byte field, chars into 2 bytes.
func (d Domain) Size() int {
	switch d {
	case DomainByte:
		return 1
	case DomainShort, DomainChar:
		return 2
	case DomainInt, DomainFloat:
		return 4
	case DomainLong, DomainDouble:
		return 8
	case DomainString:
		return 64
	}
	return 0
}

// Coerce converts a JSON-decoded input (where every number is a float64 and
// every char is a one-rune string) to the domain's runtime type.
func (d Domain) Coerce(input any) (any, error) {
	switch d {
	case DomainInt:
		switch input.(type) {
		case int, int64, float64:
			return pkg.NumToInt(input), nil
		}
	case DomainLong:
		switch input := input.(type) {
		case int64:
			return input, nil
		case int:
			return int64(input), nil
		case float64:
			return int64(input), nil
		}
	case DomainShort:
		switch input := input.(type) {
		case int16:
			return input, nil
		case int:
			return int16(input), nil
		case float64:
			return int16(input), nil
		}
	case DomainByte:
		switch input := input.(type) {
		case int8:
			return input, nil
		case int:
			return int8(input), nil
		case float64:
			return int8(input), nil
		}
	case DomainFloat:
		switch input := input.(type) {
		case float32:
			return input, nil
		case float64:
			return float32(input), nil
		case int:
			return float32(input), nil
		}
	case DomainDouble:
		switch input := input.(type) {
		case float64:
			return input, nil
		case float32:
			return float64(input), nil
		case int:
			return float64(input), nil
		}
	case DomainString:
		if s, ok := input.(string); ok {
			return s, nil
		}
	case DomainChar:
		switch input := input.(type) {
		case rune:
			return input, nil
		case string:
			if len([]rune(input)) == 1 {
				return []rune(input)[0], nil
			}
		}
	}
	return nil, fmt.Errorf("invalid value %v for domain %s", input, d)
}
