// Package set provides a minimal generic set.
package set

// Set is a set of comparable values.
type Set[T comparable] map[T]struct{}

// New creates an empty set.
func New[T comparable]() Set[T] {
	return make(Set[T])
}

// Add inserts value into the set.
func (s Set[T]) Add(value T) {
	s[value] = struct{}{}
}

// Contains reports whether value is in the set.
func (s Set[T]) Contains(value T) bool {
	_, found := s[value]
	return found
}

// Remove deletes value from the set.
func (s Set[T]) Remove(value T) {
	delete(s, value)
}

// Size returns the number of values in the set.
func (s Set[T]) Size() int {
	return len(s)
}
