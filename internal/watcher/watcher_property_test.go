package watcher

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestDebouncerProperties checks that a burst of events produces one batch
// with exactly one event per distinct path, sorted by path.
func TestDebouncerProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(9876)
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	properties.Property("burst collapses to distinct sorted paths", prop.ForAll(
		func(ids []int) bool {
			if len(ids) == 0 {
				return true
			}

			d := NewDebouncer(50 * time.Millisecond)
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				d.run(ctx)
				close(done)
			}()
			defer func() {
				cancel()
				<-done
				d.stop()
			}()

			distinct := map[string]struct{}{}
			for _, id := range ids {
				path := fmt.Sprintf("content/en/page-%02d.md", id)
				distinct[path] = struct{}{}
				d.Add(ChangeEvent{Type: EventTypeModified, Path: path})
			}

			select {
			case batch := <-d.Output():
				if len(batch) != len(distinct) {
					return false
				}
				return sort.SliceIsSorted(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
			case <-time.After(2 * time.Second):
				return false
			}
		},
		gen.SliceOfN(40, gen.IntRange(0, 15)),
	))

	properties.TestingRun(t)
}
