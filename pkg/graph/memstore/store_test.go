package memstore

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/vertex-lab/wikigraph/pkg/models"
	"github.com/vertex-lab/wikigraph/pkg/utils/sliceutils"
)

func TestMerge(t *testing.T) {
	ctx := context.Background()

	s := NewStore()
	if err := s.Merge(ctx, map[string]string{"A": "B", "B": ""}); err != nil {
		t.Fatalf("Merge(): expected nil, got %v", err)
	}

	// a later shard wins on duplicate titles
	if err := s.Merge(ctx, map[string]string{"B": "C", "C": Target}); err != nil {
		t.Fatalf("Merge(): expected nil, got %v", err)
	}

	expected := map[string]models.Successor{
		"A": models.Resolved("B"),
		"B": models.Resolved("C"),
		"C": models.Resolved(Target),
	}
	if !reflect.DeepEqual(s.Edges, expected) {
		t.Errorf("Merge(): expected edges %v, got %v", expected, s.Edges)
	}
}

func TestMergeNormalizesUnresolved(t *testing.T) {
	ctx := context.Background()

	s := NewStore()
	if err := s.Merge(ctx, map[string]string{"A": ""}); err != nil {
		t.Fatalf("Merge(): expected nil, got %v", err)
	}

	successor, err := s.Successor(ctx, "A")
	if err != nil {
		t.Fatalf("Successor(A): expected nil, got %v", err)
	}

	if successor.Resolved {
		t.Errorf("Successor(A): expected unresolved, got %v", successor)
	}
}

func TestSuccessor(t *testing.T) {
	testCases := []struct {
		name          string
		storeType     string
		title         string
		expectedError error
		expected      models.Successor
	}{
		{
			name:          "nil store",
			storeType:     "nil",
			title:         "A",
			expectedError: models.ErrNilStore,
		},
		{
			name:          "empty store",
			storeType:     "empty",
			title:         "A",
			expectedError: models.ErrEmptyStore,
		},
		{
			name:          "unknown node",
			storeType:     "chain",
			title:         "Zebra",
			expectedError: models.ErrUnknownNode,
		},
		{
			name:      "resolved successor",
			storeType: "chain",
			title:     "C",
			expected:  models.Resolved(Target),
		},
		{
			name:      "unresolved successor",
			storeType: "chain",
			title:     Target,
			expected:  models.Unresolved(),
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			s := SetupStore(test.storeType)

			successor, err := s.Successor(context.Background(), test.title)
			if !errors.Is(err, test.expectedError) {
				t.Fatalf("Successor(%v): expected error %v, got %v", test.title, test.expectedError, err)
			}

			if err == nil && successor != test.expected {
				t.Errorf("Successor(%v): expected %v, got %v", test.title, test.expected, successor)
			}
		})
	}
}

func TestBuildReverseIndex(t *testing.T) {
	t.Run("resolved edges only", func(t *testing.T) {
		s := SetupStore("simple")

		predSlice, err := s.Predecessors(context.Background(), Target, "A", "D", "B")
		if err != nil {
			t.Fatalf("Predecessors(): expected nil, got %v", err)
		}

		expected := [][]string{{"A"}, {"B"}, {"C"}, {}}
		if !reflect.DeepEqual(sliceutils.SortEach(predSlice), expected) {
			t.Errorf("Predecessors(): expected %v, got %v", expected, predSlice)
		}
	})

	t.Run("partitioned build matches the sequential one", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		s := GenerateStore(1000, 10, rng)

		sequential := make(map[string][]string, len(s.Pred))
		for title, preds := range s.Pred {
			sequential[title] = sliceutils.Sorted(preds.ToSlice())
		}

		if err := s.BuildReverseIndex(8); err != nil {
			t.Fatalf("BuildReverseIndex(8): expected nil, got %v", err)
		}

		partitioned := make(map[string][]string, len(s.Pred))
		for title, preds := range s.Pred {
			partitioned[title] = sliceutils.Sorted(preds.ToSlice())
		}

		if !reflect.DeepEqual(sequential, partitioned) {
			t.Errorf("BuildReverseIndex(8): partitioned build diverges from sequential")
		}
	})
}

func TestPredecessorCount(t *testing.T) {
	s := SetupStore("target-cycle")

	count, err := s.PredecessorCount(context.Background(), "X")
	if err != nil {
		t.Fatalf("PredecessorCount(X): expected nil, got %v", err)
	}

	if count != 2 { // Philosophy and Y both link to X
		t.Errorf("PredecessorCount(X): expected 2, got %d", count)
	}
}

func TestAllNodes(t *testing.T) {
	s := SetupStore("triangle")

	titles, err := s.AllNodes(context.Background())
	if err != nil {
		t.Fatalf("AllNodes(): expected nil, got %v", err)
	}

	expected := []string{"A", "B", "C"}
	if !reflect.DeepEqual(sliceutils.Sorted(titles), expected) {
		t.Errorf("AllNodes(): expected %v, got %v", expected, titles)
	}
}

func TestSetDistances(t *testing.T) {
	s := SetupStore("chain")

	distances := map[string]int{"A": 3, "B": 2, "C": 1, Target: 0}
	if err := s.SetDistances(context.Background(), distances); err != nil {
		t.Fatalf("SetDistances(): expected nil, got %v", err)
	}

	if !reflect.DeepEqual(s.Distances, distances) {
		t.Errorf("SetDistances(): expected %v, got %v", distances, s.Distances)
	}
}
