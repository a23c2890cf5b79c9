// The shards package loads the edge caches produced upstream, which are
// partitioned by the initial character of the title into files named
// edges_a.json ... edges_z.json, edges_num.json and edges_other.json.
// Each file holds a flat title --> successor mapping, where the empty string
// means the upstream parser found no qualifying link.
//
// The partitioning itself is opaque to the engine: this package only merges
// the shards back into a single loadable mapping.
package shards

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/vertex-lab/wikigraph/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Merger is the merge surface of an edge store. Both the in-memory and the
// Redis stores support incremental merge, one shard at a time.
type Merger interface {
	Merge(ctx context.Context, raw map[string]string) error
}

// Buckets() returns the shard suffixes produced by the upstream sorter:
// one per initial letter, plus "num" and "other".
func Buckets() []string {
	buckets := make([]string, 0, 28)
	for c := 'a'; c <= 'z'; c++ {
		buckets = append(buckets, string(c))
	}

	return append(buckets, "num", "other")
}

// FileName() returns the file name of the shard for the specified bucket.
func FileName(bucket string) string {
	return fmt.Sprintf("edges_%s.json", bucket)
}

// LoadShard() reads one shard file and returns its raw mapping.
// A file that cannot be read or decoded is fatal: it prevents the store from
// being assembled, which is the one non-recoverable condition of the engine.
func LoadShard(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shard %v: %w", path, err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode shard %v: %w", path, err)
	}

	return raw, nil
}

// LoadDir() merges every shard in dir into the store, one file at a time, and
// returns the number of edges merged. Missing buckets are skipped with a
// warning, so partial caches remain loadable.
func LoadDir(ctx context.Context, dir string, store Merger, l *logger.Aggregate) (int, error) {

	var edges int
	for _, bucket := range Buckets() {
		path := filepath.Join(dir, FileName(bucket))

		if _, err := os.Stat(path); os.IsNotExist(err) {
			l.Warn("shard %v not found, skipping", path)
			continue
		}

		raw, err := LoadShard(path)
		if err != nil {
			return edges, err
		}

		if err := store.Merge(ctx, raw); err != nil {
			return edges, fmt.Errorf("failed to merge shard %v: %w", path, err)
		}

		edges += len(raw)
	}

	return edges, nil
}
