// The redistore package defines a Redis edge store that fulfills the EdgeStore
// interface in models. Edges live in one hash (title --> successor, where the
// empty string encodes an unresolved successor, matching the upstream shard
// format); the Reverse Index lives in one set per linked-to title.
package redistore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vertex-lab/wikigraph/pkg/models"
	"github.com/vertex-lab/wikigraph/pkg/utils/redisutils"
)

const (
	KeyEdges      string = "edges"
	KeyDistances  string = "distances"
	KeyPredPrefix string = "predecessors:"

	// how many edges are written per pipeline when merging a shard
	mergeBatchSize int = 10000
)

// KeyPred() returns the Redis key for the predecessor set of title
func KeyPred(title string) string {
	return KeyPredPrefix + title
}

// Store fulfills the EdgeStore interface defined in models
type Store struct {
	client *redis.Client
}

// NewStore() creates and returns a new Store instance.
func NewStore(ctx context.Context, cl *redis.Client) (*Store, error) {
	_ = ctx
	if cl == nil {
		return nil, models.ErrNilClientPointer
	}

	return &Store{client: cl}, nil
}

// Validate() checks if the store and client are nil and returns the appropriate error
func (s *Store) Validate() error {
	if s == nil {
		return models.ErrNilStore
	}

	if s.client == nil {
		return models.ErrNilClientPointer
	}

	return nil
}

// Merge() writes the raw title --> successor pairs to the edges hash, and adds
// each title to the predecessor set of its resolved successor. Writes are
// batched in pipelines to keep round trips low at shard scale.
func (s *Store) Merge(ctx context.Context, raw map[string]string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	batched := 0
	for title, successor := range raw {
		pipe.HSet(ctx, KeyEdges, title, successor)
		if successor != "" {
			pipe.SAdd(ctx, KeyPred(successor), title)
		}

		batched++
		if batched >= mergeBatchSize {
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("failed to merge shard: %w", err)
			}
			pipe = s.client.TxPipeline()
			batched = 0
		}
	}

	if batched > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("failed to merge shard: %w", err)
		}
	}

	return nil
}

// Size() returns the number of nodes in the store. In case of errors, it returns 0.
func (s *Store) Size(ctx context.Context) int {
	if err := s.Validate(); err != nil {
		return 0
	}

	size, err := s.client.HLen(ctx, KeyEdges).Result()
	if err != nil {
		return 0
	}

	return int(size)
}

// ContainsNode() returns whether the store contains title. In case of errors returns false.
func (s *Store) ContainsNode(ctx context.Context, title string) bool {
	if err := s.Validate(); err != nil {
		return false
	}

	exists, err := s.client.HExists(ctx, KeyEdges, title).Result()
	if err != nil {
		return false
	}

	return exists
}

// Successor() returns the successor of title, or ErrUnknownNode if the edges
// hash has no field for it.
func (s *Store) Successor(ctx context.Context, title string) (models.Successor, error) {
	if err := s.Validate(); err != nil {
		return models.Unresolved(), err
	}

	successor, err := s.client.HGet(ctx, KeyEdges, title).Result()
	if err == redis.Nil {
		return models.Unresolved(), models.ErrUnknownNode
	}
	if err != nil {
		return models.Unresolved(), err
	}

	if successor == "" {
		return models.Unresolved(), nil
	}

	return models.Resolved(successor), nil
}

// Predecessors() returns the slice of predecessors of each title.
// A title that nothing links to gets an empty slice.
func (s *Store) Predecessors(ctx context.Context, titles ...string) ([][]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	if len(titles) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringSliceCmd, len(titles))
	for i, title := range titles {
		cmds[i] = pipe.SMembers(ctx, KeyPred(title))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	predSlice := make([][]string, len(titles))
	for i, cmd := range cmds {
		preds := cmd.Val()
		if preds == nil {
			preds = []string{}
		}

		predSlice[i] = preds
	}

	return predSlice, nil
}

// PredecessorCount() returns the number of nodes whose successor is title.
func (s *Store) PredecessorCount(ctx context.Context, title string) (int, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}

	count, err := s.client.SCard(ctx, KeyPred(title)).Result()
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// AllNodes() returns a slice with the titles of all nodes in the store
func (s *Store) AllNodes(ctx context.Context) ([]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	titles, err := s.client.HKeys(ctx, KeyEdges).Result()
	if err != nil {
		return nil, err
	}

	if len(titles) == 0 {
		return nil, models.ErrEmptyStore
	}

	return titles, nil
}

// ScanNodes() scans over the edges hash and returns a batch of titles of size
// roughly equal to limit. Limit controls how much "work" is invested in fetching
// the batch, hence it's not precise in determining the number of titles returned.
func (s *Store) ScanNodes(ctx context.Context, cursor uint64, limit int) ([]string, uint64, error) {
	if err := s.Validate(); err != nil {
		return []string{}, 0, err
	}

	pairs, newCursor, err := s.client.HScan(ctx, KeyEdges, cursor, "*", int64(limit)).Result()
	if err != nil {
		return []string{}, 0, err
	}

	// HScan returns alternating fields and values; keep the fields only
	titles := make([]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		titles = append(titles, pairs[i])
	}

	return titles, newCursor, nil
}

// SetDistances() writes the distance values to the distances hash.
// Before writing, it ensures all the titles exist in the edges hash. If that's
// not the case no writes occur and an error is returned.
func (s *Store) SetDistances(ctx context.Context, distances map[string]int) error {
	if err := s.Validate(); err != nil {
		return err
	}

	if len(distances) == 0 {
		return nil
	}

	titles := make([]string, 0, len(distances))
	vals := make([]int, 0, len(distances))
	for title, distance := range distances {
		titles = append(titles, title)
		vals = append(vals, distance)
	}

	// validate the existence of all the titles before writing.
	existsPipe := s.client.Pipeline()
	cmds := make([]*redis.BoolCmd, len(titles))
	for i, title := range titles {
		cmds[i] = existsPipe.HExists(ctx, KeyEdges, title)
	}
	if _, err := existsPipe.Exec(ctx); err != nil {
		return err
	}

	for i, cmd := range cmds {
		if !cmd.Val() {
			return fmt.Errorf("%w: %v", models.ErrUnknownNode, titles[i])
		}
	}

	// write the new distances
	writePipe := s.client.TxPipeline()
	for i, title := range titles {
		writePipe.HSet(ctx, KeyDistances, title, redisutils.FormatDistance(vals[i]))
	}
	if _, err := writePipe.Exec(ctx); err != nil {
		return err
	}

	return nil
}
