package utils

// Limit returns at most n leading items. n <= 0 yields an empty slice, never nil.
func Limit[T any](items []T, n int) []T {
	if n <= 0 {
		return make([]T, 0)
	}
	if items == nil {
		return make([]T, 0)
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}
