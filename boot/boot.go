// Package boot runs container-resolved services concurrently.
package boot

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	container "github.com/technically-php/cascade-container"
)

// Runnable is a long-running component driven by a context.
type Runnable interface {
	Run(ctx context.Context) error
}

// RunAll runs every runnable concurrently and blocks until all of them
// finish. The first error cancels the shared context and is returned.
func RunAll(parentCtx context.Context, runnables ...Runnable) error {
	group, ctx := errgroup.WithContext(parentCtx)

	for _, runnable := range runnables {
		runnable := runnable
		group.Go(func() error {
			return runnable.Run(ctx)
		})
	}

	return group.Wait()
}

// RunServices resolves each id from the container and runs the results with
// RunAll. Every id must resolve to a Runnable; ids without a binding fall
// back to autowired construction. Resolution happens up front, on the
// calling goroutine; the container is not touched after the services start.
func RunServices(ctx context.Context, c *container.Container, ids ...string) error {
	runnables := make([]Runnable, 0, len(ids))
	for _, id := range ids {
		runnable, err := container.ResolveAs[Runnable](c, id)
		if err != nil {
			return fmt.Errorf("service %q is not runnable: %w", id, err)
		}
		runnables = append(runnables, runnable)
	}

	return RunAll(ctx, runnables...)
}
