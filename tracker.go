package container

import (
	"fmt"
	"strings"

	"github.com/technically-php/cascade-container/set"
)

// tracker guards autowired construction against self-referential dependency
// graphs. Pushing a type name that is already on the stack fails instead of
// recursing until the stack is exhausted.
type tracker struct {
	visited set.Set[string]
	stack   []string
}

func newTracker() *tracker {
	return &tracker{
		visited: set.New[string](),
		stack:   make([]string, 0),
	}
}

func (t *tracker) push(name string) error {
	if t.visited.Contains(name) {
		return fmt.Errorf("%w: construction cycle: %s", ErrCannotAutowire, formatCycle(t.stack, name))
	}
	t.visited.Add(name)
	t.stack = append(t.stack, name)
	return nil
}

func (t *tracker) pop() {
	if len(t.stack) == 0 {
		panic("tracker: pop from empty stack")
	}
	name := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	t.visited.Remove(name)
}

func formatCycle(stack []string, repeated string) string {
	cycle := make([]string, 0, len(stack)+1)
	started := false
	for _, name := range stack {
		if name == repeated {
			started = true
		}
		if started {
			cycle = append(cycle, name)
		}
	}
	return strings.Join(append(cycle, repeated), " -> ")
}
