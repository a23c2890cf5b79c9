// The memstore package defines an in-memory edge store that fulfills the
// EdgeStore interface in models. The full mapping is assembled in memory
// (wholesale or by merging shards) before any query runs.
package memstore

import (
	"context"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/vertex-lab/wikigraph/pkg/models"
)

type NodeSet = mapset.Set[string]

// Store holds the forward edges and the Reverse Index derived from them.
type Store struct {

	// a map that associates each title with its single successor
	Edges map[string]models.Successor

	// the Reverse Index: a map that associates each title with the set of
	// titles whose successor it is. Built once by BuildReverseIndex.
	Pred map[string]NodeSet

	// the distances persisted by SetDistances
	Distances map[string]int
}

// NewStore() creates and returns a new Store instance.
func NewStore() *Store {
	return &Store{
		Edges:     make(map[string]models.Successor),
		Pred:      make(map[string]NodeSet),
		Distances: make(map[string]int),
	}
}

// Merge() adds the raw title --> successor pairs to the forward edges.
// An empty successor string means the upstream parser found no qualifying link,
// and is normalized to the unresolved variant. Titles repeated across shards
// keep the last value, matching the upstream shard merge order.
// The Reverse Index is NOT updated; rebuild it wholesale after the last shard.
func (s *Store) Merge(ctx context.Context, raw map[string]string) error {
	_ = ctx
	if s == nil {
		return models.ErrNilStore
	}

	for title, successor := range raw {
		if successor == "" {
			s.Edges[title] = models.Unresolved()
			continue
		}
		s.Edges[title] = models.Resolved(successor)
	}

	return nil
}

/*
BuildReverseIndex() derives the Reverse Index from the forward edges in one
full pass: for every resolved pair (title, successor), title is inserted into
Pred[successor]. Unresolved edges contribute nothing.

The pass can be partitioned across the specified number of workers; each worker
builds a partial reverse map over its share of the keys, and the partials are
merged at the end. Merging set-valued entries is commutative and associative,
so the partition is a pure throughput option.
*/
func (s *Store) BuildReverseIndex(workers int) error {
	if s == nil {
		return models.ErrNilStore
	}

	if workers < 1 {
		workers = 1
	}

	titles := make([]string, 0, len(s.Edges))
	for title := range s.Edges {
		titles = append(titles, title)
	}

	partials := make([]map[string][]string, workers)
	chunkSize := (len(titles) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		low := w * chunkSize
		if low >= len(titles) {
			partials[w] = map[string][]string{}
			continue
		}

		high := min(low+chunkSize, len(titles))

		wg.Add(1)
		go func(w int, chunk []string) {
			defer wg.Done()

			partial := make(map[string][]string, len(chunk))
			for _, title := range chunk {
				successor := s.Edges[title]
				if !successor.Resolved {
					continue
				}
				partial[successor.Title] = append(partial[successor.Title], title)
			}
			partials[w] = partial
		}(w, titles[low:high])
	}
	wg.Wait()

	s.Pred = make(map[string]NodeSet, len(s.Edges))
	for _, partial := range partials {
		for successor, preds := range partial {
			set, exists := s.Pred[successor]
			if !exists {
				set = mapset.NewSet[string]()
				s.Pred[successor] = set
			}
			set.Append(preds...)
		}
	}

	return nil
}

// Validate() returns an error if the store is nil or has no nodes
func (s *Store) Validate() error {
	if s == nil {
		return models.ErrNilStore
	}

	if len(s.Edges) == 0 {
		return models.ErrEmptyStore
	}

	return nil
}

// Size() returns the number of nodes in the store (ignores errors).
func (s *Store) Size(ctx context.Context) int {
	_ = ctx
	if s == nil {
		return 0
	}
	return len(s.Edges)
}

// ContainsNode() returns whether title is found in the store
func (s *Store) ContainsNode(ctx context.Context, title string) bool {
	_ = ctx
	if err := s.Validate(); err != nil {
		return false
	}

	_, exists := s.Edges[title]
	return exists
}

// Successor() returns the successor of title, or ErrUnknownNode if the store
// has no entry for it.
func (s *Store) Successor(ctx context.Context, title string) (models.Successor, error) {
	_ = ctx
	if err := s.Validate(); err != nil {
		return models.Unresolved(), err
	}

	successor, exists := s.Edges[title]
	if !exists {
		return models.Unresolved(), models.ErrUnknownNode
	}

	return successor, nil
}

// Predecessors() returns the slice of predecessors of each title.
// A title that nothing links to gets an empty slice.
func (s *Store) Predecessors(ctx context.Context, titles ...string) ([][]string, error) {
	_ = ctx
	if err := s.Validate(); err != nil {
		return nil, err
	}

	if len(titles) == 0 {
		return nil, nil
	}

	predSlice := make([][]string, len(titles))
	for i, title := range titles {
		preds, exists := s.Pred[title]
		if !exists {
			predSlice[i] = []string{}
			continue
		}

		predSlice[i] = preds.ToSlice()
	}

	return predSlice, nil
}

// PredecessorCount() returns the number of nodes whose successor is title.
func (s *Store) PredecessorCount(ctx context.Context, title string) (int, error) {
	_ = ctx
	if err := s.Validate(); err != nil {
		return 0, err
	}

	preds, exists := s.Pred[title]
	if !exists {
		return 0, nil
	}

	return preds.Cardinality(), nil
}

// AllNodes() returns a slice with the titles of all the nodes
func (s *Store) AllNodes(ctx context.Context) ([]string, error) {
	_ = ctx
	if err := s.Validate(); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(s.Edges))
	for title := range s.Edges {
		titles = append(titles, title)
	}

	return titles, nil
}

// ScanNodes() scans over the nodes and returns all of the titles, ignoring the limit.
func (s *Store) ScanNodes(ctx context.Context, cursor uint64, limit int) ([]string, uint64, error) {
	_ = limit

	// Cursor simulation: returning 0 as the cursor for simplicity
	titles, err := s.AllNodes(ctx)
	return titles, 0, err
}

// SetDistances() persists the distance of each title according to the distance map
func (s *Store) SetDistances(ctx context.Context, distances map[string]int) error {
	_ = ctx
	if err := s.Validate(); err != nil {
		return err
	}

	for title, distance := range distances {
		s.Distances[title] = distance
	}

	return nil
}
