// The wikigraph binary exposes the graph engine's query surface: path
// following, full distance computation, single-step navigation,
// distance-bucketed sampling and races.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vertex-lab/wikigraph/pkg/graph/memstore"
	"github.com/vertex-lab/wikigraph/pkg/graph/redistore"
	"github.com/vertex-lab/wikigraph/pkg/logger"
	"github.com/vertex-lab/wikigraph/pkg/models"
	"github.com/vertex-lab/wikigraph/pkg/shards"
	"github.com/vertex-lab/wikigraph/pkg/utils/redisutils"
)

// Config is assembled from the environment (optionally a .env file) and
// passed explicitly to whatever needs it; there is no module-level state.
type Config struct {
	ShardDir string
	Target   string
	LogFile  string
	Backend  string // "mem" or "redis"
	Workers  int
}

func LoadConfig() Config {
	// a missing .env file is fine; the environment may be set directly
	_ = godotenv.Load()

	cfg := Config{
		ShardDir: getenv("WIKIGRAPH_SHARDS", "cache/edges"),
		Target:   getenv("WIKIGRAPH_TARGET", "Philosophy"),
		LogFile:  getenv("WIKIGRAPH_LOG", "wikigraph.log"),
		Backend:  getenv("WIKIGRAPH_BACKEND", "mem"),
		Workers:  runtime.NumCPU(),
	}

	if workers, err := strconv.Atoi(os.Getenv("WIKIGRAPH_WORKERS")); err == nil && workers > 0 {
		cfg.Workers = workers
	}

	return cfg
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// SetupStore() assembles the edge store for the configured backend.
// The mem backend merges every shard into memory and derives the Reverse
// Index; the redis backend expects the store to have been loaded already
// (see the load command).
func SetupStore(ctx context.Context, cfg Config, l *logger.Aggregate) (models.EdgeStore, error) {
	switch cfg.Backend {

	case "redis":
		cl := redisutils.SetupProdClient()
		return redistore.NewStore(ctx, cl)

	case "mem":
		store := memstore.NewStore()
		edges, err := shards.LoadDir(ctx, cfg.ShardDir, store, l)
		if err != nil {
			return nil, err
		}
		l.Info("merged %d edges from %v", edges, cfg.ShardDir)

		if err := store.BuildReverseIndex(cfg.Workers); err != nil {
			return nil, err
		}

		return store, nil

	default:
		return nil, fmt.Errorf("unknown backend: %v", cfg.Backend)
	}
}

// HandleSignals() listens for OS signals and triggers context cancellation.
func HandleSignals(cancel context.CancelFunc, l *logger.Aggregate) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	<-signalChan // Block until a signal is received
	l.Info("signal received, shutting down...")
	cancel()
}

func main() {
	cfg := LoadConfig()

	l, file, err := logger.Init(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go HandleSignals(cancel, l)

	root := &cobra.Command{
		Use:           "wikigraph",
		Short:         "explore the Philosophy graph",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		pathCmd(ctx, cfg, l),
		distancesCmd(ctx, cfg, l),
		stepCmd(ctx, cfg, l),
		sampleCmd(ctx, cfg, l),
		raceCmd(ctx, cfg, l),
		statsCmd(ctx, cfg, l),
		loadCmd(ctx, cfg, l),
	)

	if err := root.Execute(); err != nil {
		l.Error("%v", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
