package util

// Maps the input slice using the provided mapping function.
func MappedSlice[V any, U any](values []V, f func(V) U) []U {
	result := make([]U, 0, len(values))
	for _, v := range values {
		result = append(result, f(v))
	}
	return result
}

// Returns the elements of the input slice for which keep returns true.
func FilteredSlice[V any](values []V, keep func(V) bool) []V {
	result := []V{}
	for _, v := range values {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}
