package common

// Unique returns items with duplicates removed, keeping the first
// occurrence of each value. A nil input yields an empty, non-nil slice.
func Unique[T comparable](items []T) []T {
	out := make([]T, 0, len(items))
	seen := make(map[T]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

// OrEmpty returns s, or an empty non-nil slice when s is nil.
func OrEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
