// The paths package implements the Path Follower: a read-only walk over the
// forward edges of an EdgeStore, from a start node to the fixed target.
package paths

import (
	"context"
	"errors"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/vertex-lab/wikigraph/pkg/models"
)

/*
Follow() produces the ordered sequence of nodes visited by repeatedly applying
the store's successor function from start, until one of:

- the current node equals target (ReachedTarget; target is the final element)

- the current node already appeared earlier in this walk (Cycle; the repeated
node is appended so the loop is visible, and recorded in Repeated)

- the current node has no resolved successor (DeadEnd)

A start absent from the store is a DeadEnd of length one, not a fault. The walk
is bounded by the number of distinct nodes in the store, and deterministic for
a fixed store.
*/
func Follow(ctx context.Context, store models.EdgeStore, start, target string) (models.Path, error) {

	if err := store.Validate(); err != nil {
		return models.Path{}, err
	}

	path := models.Path{Nodes: []string{start}}
	visited := mapset.NewSet(start)

	current := start
	for {
		if current == target {
			path.Classification = models.ReachedTarget
			return path, nil
		}

		successor, err := store.Successor(ctx, current)
		if errors.Is(err, models.ErrUnknownNode) {
			path.Classification = models.DeadEnd
			return path, nil
		}
		if err != nil {
			return models.Path{}, err
		}

		if !successor.Resolved {
			path.Classification = models.DeadEnd
			return path, nil
		}

		next := successor.Title
		path.Nodes = append(path.Nodes, next)

		if visited.Contains(next) {
			path.Classification = models.Cycle
			path.Repeated = next
			return path, nil
		}

		visited.Add(next)
		current = next
	}
}
