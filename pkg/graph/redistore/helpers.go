package redistore

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/vertex-lab/wikigraph/pkg/models"
)

// the target every fixture is built around
const Target = "Philosophy"

// SetupStore() returns a store loaded with a fixture based on the storeType.
// The fixtures mirror the ones in memstore, so tests can run the same cases
// against both implementations.
func SetupStore(cl *redis.Client, storeType string) (*Store, error) {
	ctx := context.Background()
	if cl == nil {
		return nil, models.ErrNilClientPointer
	}

	switch storeType {

	case "nil":
		return nil, nil

	case "empty":
		return NewStore(ctx, cl)

	case "dandling":
		s, err := NewStore(ctx, cl)
		if err != nil {
			return nil, err
		}
		return s, s.Merge(ctx, map[string]string{
			"A": "B",
			"B": "",
		})

	case "chain":
		s, err := NewStore(ctx, cl)
		if err != nil {
			return nil, err
		}
		return s, s.Merge(ctx, map[string]string{
			"A":    "B",
			"B":    "C",
			"C":    Target,
			Target: "",
		})

	case "simple":
		s, err := NewStore(ctx, cl)
		if err != nil {
			return nil, err
		}
		return s, s.Merge(ctx, map[string]string{
			Target: "",
			"A":    Target,
			"B":    "A",
			"C":    "D",
			"D":    "C",
		})

	default:
		return nil, nil // default to nil
	}
}
