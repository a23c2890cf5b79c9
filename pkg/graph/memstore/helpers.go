package memstore

import (
	"math/rand"
	"strconv"

	"github.com/vertex-lab/wikigraph/pkg/models"
)

// the target every fixture is built around
const Target = "Philosophy"

// SetupStore() returns a store setup based on the storeType.
// Every non-nil fixture has its Reverse Index already built.
func SetupStore(storeType string) *Store {
	switch storeType {

	case "nil":
		return nil

	case "empty":
		return NewStore()

	case "one-node":
		s := NewStore()
		s.Edges[Target] = models.Unresolved()
		s.BuildReverseIndex(1)
		return s

	case "dandling":
		// B has no resolved successor, so A dead-ends after one hop
		s := NewStore()
		s.Edges["A"] = models.Resolved("B")
		s.Edges["B"] = models.Unresolved()
		s.BuildReverseIndex(1)
		return s

	case "triangle":
		// A --> B --> C --> A, no path to the target
		s := NewStore()
		s.Edges["A"] = models.Resolved("B")
		s.Edges["B"] = models.Resolved("C")
		s.Edges["C"] = models.Resolved("A")
		s.BuildReverseIndex(1)
		return s

	case "chain":
		// A --> B --> C --> Philosophy
		s := NewStore()
		s.Edges["A"] = models.Resolved("B")
		s.Edges["B"] = models.Resolved("C")
		s.Edges["C"] = models.Resolved(Target)
		s.Edges[Target] = models.Unresolved()
		s.BuildReverseIndex(1)
		return s

	case "simple":
		// exactly 3 of 5 nodes reach the target; C and D cycle between themselves
		s := NewStore()
		s.Edges[Target] = models.Unresolved()
		s.Edges["A"] = models.Resolved(Target)
		s.Edges["B"] = models.Resolved("A")
		s.Edges["C"] = models.Resolved("D")
		s.Edges["D"] = models.Resolved("C")
		s.BuildReverseIndex(1)
		return s

	case "target-cycle":
		// Philosophy --> X --> Philosophy; the target lies on a cycle through itself
		s := NewStore()
		s.Edges[Target] = models.Resolved("X")
		s.Edges["X"] = models.Resolved(Target)
		s.Edges["Y"] = models.Resolved("X")
		s.BuildReverseIndex(1)
		return s

	case "race":
		// P1 is one hop away, P2 two hops, P3 loops with Q2
		s := NewStore()
		s.Edges["P1"] = models.Resolved(Target)
		s.Edges["P2"] = models.Resolved("Q1")
		s.Edges["Q1"] = models.Resolved(Target)
		s.Edges["P3"] = models.Resolved("Q2")
		s.Edges["Q2"] = models.Resolved("P3")
		s.Edges[Target] = models.Unresolved()
		s.BuildReverseIndex(1)
		return s

	default:
		return nil // default to nil
	}
}

// GenerateStore() generates a random store with the specified number of nodes.
// Each node points to another random node (possibly itself), except a fixed
// share of nodes left unresolved.
func GenerateStore(nodesNum int, unresolvedEvery int, rng *rand.Rand) *Store {

	s := NewStore()
	for i := 0; i < nodesNum; i++ {
		title := "Article_" + strconv.Itoa(i)

		if unresolvedEvery > 0 && i%unresolvedEvery == 0 {
			s.Edges[title] = models.Unresolved()
			continue
		}

		successor := "Article_" + strconv.Itoa(rng.Intn(nodesNum))
		s.Edges[title] = models.Resolved(successor)
	}

	s.BuildReverseIndex(1)
	return s
}
