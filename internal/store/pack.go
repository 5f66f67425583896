package store

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/mattzmyname/CSCI4370-Project3/internal/record"
	"github.com/mattzmyname/CSCI4370-Project3/internal/types"
)

// RecordSize is the byte width of a packed tuple of the given schema.
func RecordSize(domains []types.Domain) int {
	size := 0
	for _, d := range domains {
		size += d.Size()
	}
	return size
}

// Pack encodes a tuple into its fixed-width big-endian form. Each value
// occupies exactly its domain's width; strings are zero-padded out to 64
// bytes and longer ones are truncated.
func Pack(domains []types.Domain, tup record.Tuple) ([]byte, error) {
	if len(tup) != len(domains) {
		return nil, fmt.Errorf("pack: tuple arity %d does not match schema arity %d", len(tup), len(domains))
	}
	buf := make([]byte, 0, RecordSize(domains))
	for i, d := range domains {
		v := tup[i]
		if !d.Check(v) {
			return nil, fmt.Errorf("pack: value %v does not belong to domain %s at position %d", v, d, i)
		}
		switch d {
		case types.DomainByte:
			buf = append(buf, byte(v.(int8)))
		case types.DomainShort:
			buf = binary.BigEndian.AppendUint16(buf, uint16(v.(int16)))
		case types.DomainChar:
			buf = binary.BigEndian.AppendUint16(buf, uint16(v.(rune)))
		case types.DomainInt:
			buf = binary.BigEndian.AppendUint32(buf, uint32(v.(int)))
		case types.DomainLong:
			buf = binary.BigEndian.AppendUint64(buf, uint64(v.(int64)))
		case types.DomainFloat:
			buf = binary.BigEndian.AppendUint32(buf, math.Float32bits(asFloat32(v)))
		case types.DomainDouble:
			buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(asFloat64(v)))
		case types.DomainString:
			field := make([]byte, types.DomainString.Size())
			copy(field, v.(string))
			buf = append(buf, field...)
		default:
			return nil, fmt.Errorf("pack: unhandled domain %s", d)
		}
	}
	return buf, nil
}

// Unpack decodes a tuple packed by Pack.
func Unpack(domains []types.Domain, buf []byte) (record.Tuple, error) {
	if len(buf) != RecordSize(domains) {
		return nil, fmt.Errorf("unpack: record is %d bytes, schema needs %d", len(buf), RecordSize(domains))
	}
	tup := make(record.Tuple, 0, len(domains))
	off := 0
	for _, d := range domains {
		field := buf[off : off+d.Size()]
		off += d.Size()
		switch d {
		case types.DomainByte:
			tup = append(tup, int8(field[0]))
		case types.DomainShort:
			tup = append(tup, int16(binary.BigEndian.Uint16(field)))
		case types.DomainChar:
			tup = append(tup, rune(binary.BigEndian.Uint16(field)))
		case types.DomainInt:
			tup = append(tup, int(int32(binary.BigEndian.Uint32(field))))
		case types.DomainLong:
			tup = append(tup, int64(binary.BigEndian.Uint64(field)))
		case types.DomainFloat:
			tup = append(tup, math.Float32frombits(binary.BigEndian.Uint32(field)))
		case types.DomainDouble:
			tup = append(tup, math.Float64frombits(binary.BigEndian.Uint64(field)))
		case types.DomainString:
			end := len(field)
			for end > 0 && field[end-1] == 0 {
				end--
			}
			tup = append(tup, string(field[:end]))
		default:
			return nil, fmt.Errorf("unpack: unhandled domain %s", d)
		}
	}
	return tup, nil
}

// Float and Double each admit both float widths, so packing narrows or
// widens as needed.
func asFloat32(v any) float32 {
	switch x := v.(type) {
	case float32:
		return x
	case float64:
		return float32(x)
	}
	return 0
}

func asFloat64(v any) float64 {
	switch x := v.(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return 0
}
