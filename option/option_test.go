package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type poolOptions struct {
	Size    int
	Name    string
	Verbose bool
}

func withSize(size int) Option[poolOptions] {
	return func(opts *poolOptions) {
		opts.Size = size
	}
}

func withName(name string) Option[poolOptions] {
	return func(opts *poolOptions) {
		opts.Name = name
	}
}

func TestBuild(t *testing.T) {
	t.Run("it should keep defaults when no option is given", func(t *testing.T) {
		// GIVEN / WHEN
		opts := Build(&poolOptions{Size: 4, Name: "default"})

		// THEN
		assert.Equal(t, 4, opts.Size)
		assert.Equal(t, "default", opts.Name)
	})

	t.Run("it should apply options in order, last one winning", func(t *testing.T) {
		// GIVEN / WHEN
		opts := Build(&poolOptions{Size: 4},
			withName("workers"),
			withSize(8),
			withSize(16),
		)

		// THEN
		assert.Equal(t, 16, opts.Size)
		assert.Equal(t, "workers", opts.Name)
		assert.False(t, opts.Verbose)
	})
}
