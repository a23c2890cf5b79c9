// The race package implements the Race Simulator: a cohort of racers advancing
// over the forward edges in lock-step, one edge per round, until one of them
// reaches the target or everyone is stuck looping.
package race

import (
	"context"
	"errors"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/vertex-lab/wikigraph/pkg/models"
)

const (
	// at least one racer reached the target; Winners holds all of them
	Winners string = "winners"

	// every racer looped or dead-ended before anyone reached the target
	NoWinner string = "no_winner"
)

// Racer is the in-progress state of one participant.
type Racer struct {
	Start    string
	Position string
	history  mapset.Set[string]

	// a racer that revisited its own history or hit a dead end keeps its
	// position but is excluded from further winning consideration
	Out bool
}

// Snapshot is the position of each racer after a round, in start order.
type Snapshot []string

// Result is the outcome of a race.
type Result struct {
	// the starts of all racers at the target on the winning round; nil when
	// Classification is NoWinner. Ties are reported as a set, never trimmed
	// to an arbitrary single winner.
	Winners []string

	Classification string

	// round-by-round positions, for presentation. Rounds[0] holds the
	// starting positions.
	Rounds []Snapshot
}

//--------------------------ERROR-CODES--------------------------

var ErrNoRacers = errors.New("a race needs at least one racer")
var ErrDuplicateRacers = errors.New("racers must be distinct start nodes")

/*
Run() advances every racer one edge per round simultaneously, using live
successor lookups rather than precomputed paths. After each round:

- racers now at the target all win together (ties are a set)

- a racer revisiting a node in its own history is marked out; the others race on

- when every racer is out, the race ends with NoWinner

Each racer terminates within a number of rounds bounded by the store size, so
the race as a whole is bounded too.
*/
func Run(ctx context.Context, store models.EdgeStore, target string, starts []string) (*Result, error) {

	if err := store.Validate(); err != nil {
		return nil, err
	}

	if len(starts) == 0 {
		return nil, ErrNoRacers
	}

	if mapset.NewSet(starts...).Cardinality() != len(starts) {
		return nil, ErrDuplicateRacers
	}

	racers := make([]*Racer, len(starts))
	for i, start := range starts {
		racers[i] = &Racer{
			Start:    start,
			Position: start,
			history:  mapset.NewSet(start),
		}
	}

	result := &Result{Rounds: []Snapshot{snapshot(racers)}}

	// a start already at the target wins before any round is run
	result.Winners = winners(racers, target)
	if len(result.Winners) > 0 {
		result.Classification = Winners
		return result, nil
	}

	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if allOut(racers) {
			result.Classification = NoWinner
			return result, nil
		}

		for _, racer := range racers {
			if racer.Out {
				continue
			}

			successor, err := store.Successor(ctx, racer.Position)
			if errors.Is(err, models.ErrUnknownNode) {
				racer.Out = true
				continue
			}
			if err != nil {
				return nil, err
			}

			if !successor.Resolved {
				racer.Out = true
				continue
			}

			racer.Position = successor.Title
			if racer.history.Contains(racer.Position) {
				racer.Out = true
				continue
			}

			racer.history.Add(racer.Position)
		}

		result.Rounds = append(result.Rounds, snapshot(racers))

		result.Winners = winners(racers, target)
		if len(result.Winners) > 0 {
			result.Classification = Winners
			return result, nil
		}
	}
}

// winners() returns the starts of the racers currently at the target.
func winners(racers []*Racer, target string) []string {
	var atTarget []string
	for _, racer := range racers {
		if !racer.Out && racer.Position == target {
			atTarget = append(atTarget, racer.Start)
		}
	}

	return atTarget
}

// allOut() returns whether every racer has been marked out.
func allOut(racers []*Racer) bool {
	for _, racer := range racers {
		if !racer.Out {
			return false
		}
	}

	return true
}

// snapshot() captures the current position of each racer.
func snapshot(racers []*Racer) Snapshot {
	positions := make(Snapshot, len(racers))
	for i, racer := range racers {
		positions[i] = racer.Position
	}

	return positions
}
