package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vertex-lab/wikigraph/pkg/distance"
	"github.com/vertex-lab/wikigraph/pkg/graph/redistore"
	"github.com/vertex-lab/wikigraph/pkg/logger"
	"github.com/vertex-lab/wikigraph/pkg/models"
	"github.com/vertex-lab/wikigraph/pkg/paths"
	"github.com/vertex-lab/wikigraph/pkg/race"
	"github.com/vertex-lab/wikigraph/pkg/shards"
	"github.com/vertex-lab/wikigraph/pkg/stats"
	"github.com/vertex-lab/wikigraph/pkg/utils/redisutils"
)

func pathCmd(ctx context.Context, cfg Config, l *logger.Aggregate) *cobra.Command {
	return &cobra.Command{
		Use:   "path <start>",
		Short: "follow the successor chain from start to " + cfg.Target,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := SetupStore(ctx, cfg, l)
			if err != nil {
				return err
			}

			path, err := paths.Follow(ctx, store, args[0], cfg.Target)
			if err != nil {
				return err
			}

			fmt.Println(strings.Join(path.Nodes, " -> "))
			switch path.Classification {
			case models.ReachedTarget:
				fmt.Printf("reached %v in %d steps\n", cfg.Target, len(path.Nodes)-1)
			case models.Cycle:
				fmt.Printf("looped back to %v after %d steps\n", path.Repeated, len(path.Nodes)-1)
			case models.DeadEnd:
				fmt.Printf("dead end after %d steps\n", len(path.Nodes)-1)
			}

			return nil
		},
	}
}

func distancesCmd(ctx context.Context, cfg Config, l *logger.Aggregate) *cobra.Command {
	var persist bool

	cmd := &cobra.Command{
		Use:   "distances [title]",
		Short: "compute every node's distance to " + cfg.Target,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := setupEngine(ctx, cfg, l)
			if err != nil {
				return err
			}

			coverage, err := engine.ComputeDistances(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("%.4f%% of nodes link to %v\n", coverage*100, cfg.Target)

			if persist {
				if err := engine.Persist(ctx); err != nil {
					return err
				}
			}

			if len(args) == 1 {
				d, err := engine.Distance(args[0])
				if err != nil {
					return fmt.Errorf("%v either does not link to %v, or is not a valid article title", args[0], cfg.Target)
				}
				fmt.Printf("%v is %d articles away from %v\n", args[0], d, cfg.Target)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&persist, "persist", false, "write the distances back to the store")
	return cmd
}

func stepCmd(ctx context.Context, cfg Config, l *logger.Aggregate) *cobra.Command {
	return &cobra.Command{
		Use:   "step <title> <toward|away>",
		Short: "move one hop toward or away from " + cfg.Target,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := setupEngine(ctx, cfg, l)
			if err != nil {
				return err
			}

			title, direction := args[0], args[1]
			var next string

			switch direction {
			case "toward":
				next, err = engine.StepToward(ctx, title)
			case "away":
				next, err = engine.StepAway(ctx, title)
			default:
				return fmt.Errorf("unknown direction: %v", direction)
			}
			if err != nil {
				return err
			}

			fmt.Println(next)
			return nil
		},
	}
}

func sampleCmd(ctx context.Context, cfg Config, l *logger.Aggregate) *cobra.Command {
	return &cobra.Command{
		Use:   "sample <distance>",
		Short: "pick a random node at the given distance from " + cfg.Target,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid distance: %v", args[0])
			}

			engine, err := setupEngine(ctx, cfg, l)
			if err != nil {
				return err
			}

			if _, err := engine.ComputeDistances(ctx); err != nil {
				return err
			}

			title, err := engine.SampleAtDistance(d)
			if err != nil {
				return err
			}

			fmt.Println(title)
			return nil
		},
	}
}

func raceCmd(ctx context.Context, cfg Config, l *logger.Aggregate) *cobra.Command {
	return &cobra.Command{
		Use:   "race <start> [start...]",
		Short: "race articles toward " + cfg.Target,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := SetupStore(ctx, cfg, l)
			if err != nil {
				return err
			}

			result, err := race.Run(ctx, store, cfg.Target, args)
			if err != nil {
				return err
			}

			for round, snapshot := range result.Rounds {
				fmt.Printf("round %2d: %v\n", round, strings.Join(snapshot, " | "))
			}

			if result.Classification == race.NoWinner {
				fmt.Println("all articles looped, so there is no winner!")
				return nil
			}

			fmt.Printf("winner(s): %v\n", strings.Join(result.Winners, ", "))
			return nil
		},
	}
}

func statsCmd(ctx context.Context, cfg Config, l *logger.Aggregate) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "graph-wide statistics: cycles, dead ends and heat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := SetupStore(ctx, cfg, l)
			if err != nil {
				return err
			}

			s, err := stats.Compute(ctx, store, l)
			if err != nil {
				return err
			}

			var members int
			for _, cycle := range s.Cycles {
				members += len(cycle)
			}

			fmt.Printf("%d cycles holding %d articles\n", len(s.Cycles), members)
			fmt.Printf("%d linkless articles\n", len(s.Linkless))
			fmt.Printf("%d articles nothing links to\n", len(s.Sources))

			var hottest string
			for title, heat := range s.Heat {
				if hottest == "" || heat > s.Heat[hottest] {
					hottest = title
				}
			}
			fmt.Printf("hottest article: %v (%d articles lead to it)\n", hottest, s.Heat[hottest])

			return nil
		},
	}
}

// loadCmd merges the shard files into the Redis store, so later runs with the
// redis backend can skip the in-memory assembly.
func loadCmd(ctx context.Context, cfg Config, l *logger.Aggregate) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "merge the shard files into the Redis store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl := redisutils.SetupProdClient()
			store, err := redistore.NewStore(ctx, cl)
			if err != nil {
				return err
			}

			edges, err := shards.LoadDir(ctx, cfg.ShardDir, store, l)
			if err != nil {
				return err
			}

			fmt.Printf("merged %d edges into redis\n", edges)
			return nil
		},
	}
}

func setupEngine(ctx context.Context, cfg Config, l *logger.Aggregate) (*distance.Engine, error) {
	store, err := SetupStore(ctx, cfg, l)
	if err != nil {
		return nil, err
	}

	return distance.New(store, cfg.Target, l)
}
