package redistore

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/vertex-lab/wikigraph/pkg/models"
	"github.com/vertex-lab/wikigraph/pkg/utils/redisutils"
	"github.com/vertex-lab/wikigraph/pkg/utils/sliceutils"
)

// setupClient returns a client to the test Redis, skipping the test when no
// server is reachable.
func setupClient(t *testing.T) *redis.Client {
	t.Helper()

	cl := redisutils.SetupTestClient()
	if !redisutils.Available(cl) {
		t.Skip("no test Redis reachable, skipping")
	}

	return cl
}

func TestSuccessor(t *testing.T) {
	cl := setupClient(t)
	defer redisutils.CleanupRedis(cl)

	s, err := SetupStore(cl, "chain")
	if err != nil {
		t.Fatalf("SetupStore(): expected nil, got %v", err)
	}

	testCases := []struct {
		name          string
		title         string
		expectedError error
		expected      models.Successor
	}{
		{
			name:          "unknown node",
			title:         "Zebra",
			expectedError: models.ErrUnknownNode,
		},
		{
			name:     "resolved successor",
			title:    "C",
			expected: models.Resolved(Target),
		},
		{
			name:     "unresolved successor",
			title:    Target,
			expected: models.Unresolved(),
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
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

func TestPredecessors(t *testing.T) {
	cl := setupClient(t)
	defer redisutils.CleanupRedis(cl)

	s, err := SetupStore(cl, "simple")
	if err != nil {
		t.Fatalf("SetupStore(): expected nil, got %v", err)
	}

	predSlice, err := s.Predecessors(context.Background(), Target, "A", "D", "B")
	if err != nil {
		t.Fatalf("Predecessors(): expected nil, got %v", err)
	}

	expected := [][]string{{"A"}, {"B"}, {"C"}, {}}
	if !reflect.DeepEqual(sliceutils.SortEach(predSlice), expected) {
		t.Errorf("Predecessors(): expected %v, got %v", expected, predSlice)
	}
}

func TestSizeAndContains(t *testing.T) {
	cl := setupClient(t)
	defer redisutils.CleanupRedis(cl)

	s, err := SetupStore(cl, "chain")
	if err != nil {
		t.Fatalf("SetupStore(): expected nil, got %v", err)
	}

	ctx := context.Background()
	if size := s.Size(ctx); size != 4 {
		t.Errorf("Size(): expected 4, got %d", size)
	}

	if !s.ContainsNode(ctx, "A") {
		t.Errorf("ContainsNode(A): expected true, got false")
	}

	if s.ContainsNode(ctx, "Zebra") {
		t.Errorf("ContainsNode(Zebra): expected false, got true")
	}
}

func TestScanNodes(t *testing.T) {
	cl := setupClient(t)
	defer redisutils.CleanupRedis(cl)

	s, err := SetupStore(cl, "chain")
	if err != nil {
		t.Fatalf("SetupStore(): expected nil, got %v", err)
	}

	ctx := context.Background()
	seen := make(map[string]bool)

	var cursor uint64
	for {
		titles, newCursor, err := s.ScanNodes(ctx, cursor, 100)
		if err != nil {
			t.Fatalf("ScanNodes(): expected nil, got %v", err)
		}

		for _, title := range titles {
			seen[title] = true
		}

		cursor = newCursor
		if cursor == 0 {
			break
		}
	}

	expected := map[string]bool{"A": true, "B": true, "C": true, Target: true}
	if !reflect.DeepEqual(seen, expected) {
		t.Errorf("ScanNodes(): expected %v, got %v", expected, seen)
	}
}

func TestSetDistances(t *testing.T) {
	cl := setupClient(t)
	defer redisutils.CleanupRedis(cl)

	s, err := SetupStore(cl, "chain")
	if err != nil {
		t.Fatalf("SetupStore(): expected nil, got %v", err)
	}

	ctx := context.Background()

	t.Run("unknown title prevents all writes", func(t *testing.T) {
		err := s.SetDistances(ctx, map[string]int{"A": 3, "Zebra": 1})
		if !errors.Is(err, models.ErrUnknownNode) {
			t.Fatalf("SetDistances(): expected %v, got %v", models.ErrUnknownNode, err)
		}

		exists, err := cl.Exists(ctx, KeyDistances).Result()
		if err != nil {
			t.Fatalf("Exists(): expected nil, got %v", err)
		}
		if exists != 0 {
			t.Errorf("SetDistances(): expected no distances hash, found one")
		}
	})

	t.Run("valid", func(t *testing.T) {
		distances := map[string]int{"A": 3, "B": 2, "C": 1, Target: 0}
		if err := s.SetDistances(ctx, distances); err != nil {
			t.Fatalf("SetDistances(): expected nil, got %v", err)
		}

		fields, err := cl.HGetAll(ctx, KeyDistances).Result()
		if err != nil {
			t.Fatalf("HGetAll(): expected nil, got %v", err)
		}

		parsed, err := redisutils.ParseDistances(fields)
		if err != nil {
			t.Fatalf("ParseDistances(): expected nil, got %v", err)
		}

		if !reflect.DeepEqual(parsed, distances) {
			t.Errorf("SetDistances(): expected %v, got %v", distances, parsed)
		}
	})
}
