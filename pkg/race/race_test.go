package race

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/vertex-lab/wikigraph/pkg/graph/memstore"
	"github.com/vertex-lab/wikigraph/pkg/models"
)

func TestRunErrors(t *testing.T) {
	testCases := []struct {
		name          string
		storeType     string
		starts        []string
		expectedError error
	}{
		{
			name:          "nil store",
			storeType:     "nil",
			starts:        []string{"P1"},
			expectedError: models.ErrNilStore,
		},
		{
			name:          "empty store",
			storeType:     "empty",
			starts:        []string{"P1"},
			expectedError: models.ErrEmptyStore,
		},
		{
			name:          "no racers",
			storeType:     "race",
			starts:        []string{},
			expectedError: ErrNoRacers,
		},
		{
			name:          "duplicate racers",
			storeType:     "race",
			starts:        []string{"P1", "P1"},
			expectedError: ErrDuplicateRacers,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			store := memstore.SetupStore(test.storeType)

			_, err := Run(context.Background(), store, memstore.Target, test.starts)
			if !errors.Is(err, test.expectedError) {
				t.Fatalf("Run(%v): expected error %v, got %v", test.starts, test.expectedError, err)
			}
		})
	}
}

func TestRun(t *testing.T) {
	testCases := []struct {
		name                   string
		starts                 []string
		expectedWinners        []string
		expectedClassification string
		expectedRounds         int
	}{
		{
			name:                   "closest racer wins in round one, no second round",
			starts:                 []string{"P1", "P2"},
			expectedWinners:        []string{"P1"},
			expectedClassification: Winners,
			expectedRounds:         2, // starting positions + one round
		},
		{
			name:                   "tie is reported as a set of two",
			starts:                 []string{"P1", "Q1"},
			expectedWinners:        []string{"P1", "Q1"},
			expectedClassification: Winners,
			expectedRounds:         2,
		},
		{
			name:                   "all looping is a draw",
			starts:                 []string{"P3", "Q2"},
			expectedWinners:        nil,
			expectedClassification: NoWinner,
		},
		{
			name:                   "lone racer two hops away",
			starts:                 []string{"P2"},
			expectedWinners:        []string{"P2"},
			expectedClassification: Winners,
			expectedRounds:         3,
		},
		{
			name:                   "start already at the target wins with zero rounds",
			starts:                 []string{"Philosophy", "P2"},
			expectedWinners:        []string{"Philosophy"},
			expectedClassification: Winners,
			expectedRounds:         1,
		},
	}

	store := memstore.SetupStore("race")
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			result, err := Run(context.Background(), store, memstore.Target, test.starts)
			if err != nil {
				t.Fatalf("Run(%v): expected nil, got %v", test.starts, err)
			}

			if !reflect.DeepEqual(result.Winners, test.expectedWinners) {
				t.Errorf("Run(%v): expected winners %v, got %v", test.starts, test.expectedWinners, result.Winners)
			}

			if result.Classification != test.expectedClassification {
				t.Errorf("Run(%v): expected %v, got %v", test.starts, test.expectedClassification, result.Classification)
			}

			if test.expectedRounds > 0 && len(result.Rounds) != test.expectedRounds {
				t.Errorf("Run(%v): expected %d snapshots, got %d", test.starts, test.expectedRounds, len(result.Rounds))
			}
		})
	}
}

// the loser must not advance after a winner is found
func TestRunStopsAtWinningRound(t *testing.T) {
	store := memstore.SetupStore("race")

	result, err := Run(context.Background(), store, memstore.Target, []string{"P1", "P2"})
	if err != nil {
		t.Fatalf("Run(): expected nil, got %v", err)
	}

	last := result.Rounds[len(result.Rounds)-1]
	expected := Snapshot{"Philosophy", "Q1"}
	if !reflect.DeepEqual(last, expected) {
		t.Errorf("Run(): expected last snapshot %v, got %v", expected, last)
	}
}

func TestRunCanceledContext(t *testing.T) {
	store := memstore.SetupStore("race")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, store, memstore.Target, []string{"P2"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run(): expected %v, got %v", context.Canceled, err)
	}
}
