// Package utils contains small helpers that don't belong to a specific domain.
package utils

// EmptyIfNil returns s, or an empty slice when s is nil, so JSON
// responses carry [] instead of null.
func EmptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
