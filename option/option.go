// Package option implements the variadic functional options pattern.
package option

// Option mutates an options struct of type T.
type Option[T any] func(opts *T)

// Build applies opts in order to the given defaults and returns the result.
func Build[T any](defaultOpts *T, opts ...Option[T]) *T {
	for _, opt := range opts {
		opt(defaultOpts)
	}
	return defaultOpts
}
