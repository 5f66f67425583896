package record

import (
	"fmt"
	"strconv"
	"strings"
)

// CompareValues orders two column values of the same domain family.
// Integer-family values (int, int8, int16, int64, rune) compare as int64 and
// real-family values as float64, so a float32 stored in a Double column still
// compares correctly against its float64 neighbors.
func CompareValues(a, b any) int {
	if ai, aok := toInt64(a); aok {
		if bi, bok := toInt64(b); bok {
			switch {
			case ai < bi:
				return -1
			case ai > bi:
				return 1
			}
			return 0
		}
	}
	if af, aok := toFloat64(a); aok {
		if bf, bok := toFloat64(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			return strings.Compare(as, bs)
		}
	}
	// mixed families never come from a type-checked column
	return strings.Compare(FormatValue(a), FormatValue(b))
}

func EqualValues(a, b any) bool { return CompareValues(a, b) == 0 }

func FormatValue(v any) string { return fmt.Sprintf("%v", v) }

// canonValue renders a value so that any two values comparing equal under
// CompareValues render identically. Numeric values go through the same
// widening CompareValues uses; %v would not do, since a float32 and the
// float64 it widens to can print differently.
func canonValue(v any) string {
	if i, ok := toInt64(v); ok {
		return strconv.FormatInt(i, 10)
	}
	if f, ok := toFloat64(v); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return FormatValue(v)
}

func toInt64(v any) (int64, bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch v := v.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
