package pkg

func Filter[T any](items []T, predicate func(T) bool) []T {
	filtered := []T{}
	for _, item := range items {
		if predicate(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Converts a value suspected to be either an int or float64 to an int.
// JSON decoding hands every number over as a float64, so request handlers
// need this before touching integer columns.
func NumToInt(num any) int {
	switch num := num.(type) {
	case int:
		return num
	case int64:
		return int(num)
	case float64:
		return int(num)
	}
	return 0
}
