/*
The distance package implements the Distance Engine: a layered breadth-first
expansion from the target over the Reverse Index, assigning every reachable
node its minimum number of forward hops to the target.

The expansion keeps two distinct structures: a transient, per-computation seen
set (what the BFS has already visited) and the persistent DistanceTable (what
callers query afterwards). Consuming the Reverse Index or the table during the
expansion would break the bidirectional navigation helpers, which need both to
survive the computation.
*/
package distance

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/vertex-lab/wikigraph/pkg/logger"
	"github.com/vertex-lab/wikigraph/pkg/models"
)

// Engine answers distance, navigation and sampling queries relative to a fixed
// target over an immutable EdgeStore.
type Engine struct {
	store  models.EdgeStore
	target string
	log    *logger.Aggregate
	rng    *rand.Rand

	// the persistent results of the last ComputeDistances call
	table    models.DistanceTable
	buckets  map[int][]string
	maxDist  int
	coverage float64
}

// New() returns an Engine for the specified target. The target must be a node
// of the store.
func New(store models.EdgeStore, target string, l *logger.Aggregate) (*Engine, error) {

	if err := store.Validate(); err != nil {
		return nil, err
	}

	if !store.ContainsNode(context.Background(), target) {
		return nil, fmt.Errorf("%w: %v", models.ErrUnknownNode, target)
	}

	return &Engine{
		store:   store,
		target:  target,
		log:     l,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		table:   models.NewDistanceTable(),
		buckets: make(map[int][]string),
	}, nil
}

// Target() returns the fixed target node of the engine.
func (e *Engine) Target() string {
	return e.target
}

// Table() returns the distance table populated by the last ComputeDistances.
func (e *Engine) Table() models.DistanceTable {
	return e.table
}

// Coverage() returns the fraction of store nodes that reach the target,
// as computed by the last ComputeDistances.
func (e *Engine) Coverage() float64 {
	return e.coverage
}

// MaxDistance() returns the highest distance assigned by the last ComputeDistances.
func (e *Engine) MaxDistance() int {
	return e.maxDist
}

/*
ComputeDistances() runs the layered expansion from the target over the Reverse
Index and returns the coverage ratio |table| / |store|.

Layer 0 is {target}; layer k+1 is the union of the predecessors of layer k,
excluding every node already seen in ANY prior layer. The seen set is global
and monotonically growing: the graph contains cycles, so a node can be a
predecessor of multiple nodes in the same or later layers, and purging only
the immediate frontier would make the expansion loop forever.

Each layer batches all its predecessor lookups in a single call. Between
layers the context is checked, so a caller can abandon a full-scale
recomputation; a cancelled run returns ctx.Err() and leaves the partial table
valid, just incomplete.

A node absent from the table after a completed run does not reach the target.
The target itself keeps a nonzero distance when a cycle through it exists (the
length of the shortest cycle back to itself); it is assigned 0 only when the
full expansion finds no such cycle.
*/
func (e *Engine) ComputeDistances(ctx context.Context) (float64, error) {

	table := models.NewDistanceTable()
	buckets := make(map[int][]string)
	seen := mapset.NewSet(e.target)

	var cycleThroughTarget bool
	var maxAssigned int
	frontier := []string{e.target}
	layer := 0

	start := time.Now()
	for len(frontier) > 0 {
		select {
		case <-ctx.Done():
			e.swap(table, buckets, maxAssigned)
			return e.coverage, ctx.Err()
		default:
		}

		predSlice, err := e.store.Predecessors(ctx, frontier...)
		if err != nil {
			return 0, fmt.Errorf("failed to expand layer %d: %w", layer+1, err)
		}

		next := make([]string, 0, len(frontier))
		for _, preds := range predSlice {
			for _, pred := range preds {

				if pred == e.target {
					if !cycleThroughTarget {
						// the target lies on a cycle through itself; record
						// the loop length instead of 0. Modeled, not an error.
						table.Store(e.target, layer+1)
						buckets[layer+1] = append(buckets[layer+1], e.target)
						cycleThroughTarget = true
						maxAssigned = layer + 1
					}
					continue
				}

				if seen.Contains(pred) {
					continue
				}

				seen.Add(pred)
				table.Store(pred, layer+1)
				buckets[layer+1] = append(buckets[layer+1], pred)
				next = append(next, pred)
				maxAssigned = layer + 1
			}
		}

		e.log.Info("layer %d: %d nodes discovered in %v", layer+1, len(next), time.Since(start))
		start = time.Now()

		frontier = next
		layer++
	}

	if !cycleThroughTarget {
		table.Store(e.target, 0)
		buckets[0] = []string{e.target}
	}

	e.swap(table, buckets, maxAssigned)
	e.log.Info("distance table holds %d of %d nodes (coverage %.4f)",
		table.Size(), e.store.Size(ctx), e.coverage)

	return e.coverage, nil
}

// swap() replaces the persistent results wholesale. Recomputation never
// mutates a table in place: readers of the old table keep a consistent view.
func (e *Engine) swap(table models.DistanceTable, buckets map[int][]string, maxDist int) {
	e.table = table
	e.buckets = buckets
	e.maxDist = maxDist

	size := e.store.Size(context.Background())
	if size > 0 {
		e.coverage = float64(table.Size()) / float64(size)
	}
}

// Persist() writes the computed distances to the store.
func (e *Engine) Persist(ctx context.Context) error {
	return e.store.SetDistances(ctx, models.ToMap(e.table))
}

// Distance() returns the distance of title to the target.
// A title absent from the table does not reach the target (or the table has
// not been computed yet), which is reported as ErrNotComputed.
func (e *Engine) Distance(title string) (int, error) {
	distance, exists := e.table.Load(title)
	if !exists {
		return 0, models.ErrNotComputed
	}

	return distance, nil
}

// StepToward() moves one hop toward the target, following the successor edge.
func (e *Engine) StepToward(ctx context.Context, title string) (string, error) {
	successor, err := e.store.Successor(ctx, title)
	if err != nil {
		return "", err
	}

	if !successor.Resolved {
		return "", models.ErrUnresolvedSuccessor
	}

	return successor.Title, nil
}

// StepAway() moves one hop away from the target, picking a random predecessor
// of title. It returns ErrNoPredecessors when nothing links to title.
func (e *Engine) StepAway(ctx context.Context, title string) (string, error) {
	predSlice, err := e.store.Predecessors(ctx, title)
	if err != nil {
		return "", err
	}

	preds := predSlice[0]
	if len(preds) == 0 {
		return "", models.ErrNoPredecessors
	}

	return preds[e.rng.Intn(len(preds))], nil
}

// SampleAtDistance() returns a uniformly random node among those at distance d
// from the target, or ErrEmptyBucket when no node has that distance.
func (e *Engine) SampleAtDistance(d int) (string, error) {
	bucket := e.buckets[d]
	if len(bucket) == 0 {
		return "", models.ErrEmptyBucket
	}

	return bucket[e.rng.Intn(len(bucket))], nil
}
