/*
The models package defines the fundamental structures and interfaces used in this project.
Interfaces:

EdgeStore:
The EdgeStore interface abstracts the functional graph (each node has at most one
outgoing edge), allowing for multiple implementations. Stores are built once from
external data and are read-only afterwards.
*/
package models

import (
	"context"
	"errors"
)

// Successor is the single outgoing edge of a node. A node whose first link could
// not be resolved upstream has Resolved == false, which is distinct from a
// self-loop and from the node being absent from the store.
type Successor struct {
	Title    string
	Resolved bool
}

// Resolved() returns the successor pointing to title.
func Resolved(title string) Successor {
	return Successor{Title: title, Resolved: true}
}

// Unresolved() returns the successor of a node with no known outgoing edge.
func Unresolved() Successor {
	return Successor{}
}

// The EdgeStore interface abstracts the graph basic functions.
// The Reverse Index (title --> set of predecessors) is derived once from the
// forward edges and served by Predecessors(); it is never mutated incrementally.
type EdgeStore interface {
	// Validate() returns the appropriate error if the store is nil or empty
	Validate() error

	// Size() returns the number of nodes in the store (ignores errors).
	Size(ctx context.Context) int

	// ContainsNode() returns whether a specified title is found in the store
	ContainsNode(ctx context.Context, title string) bool

	// Successor() returns the successor of title.
	// If title is not in the store, it returns ErrUnknownNode.
	Successor(ctx context.Context, title string) (Successor, error)

	// Predecessors() returns a slice that contains the predecessors of each title.
	// A title that nothing links to gets an empty slice, not an error.
	Predecessors(ctx context.Context, titles ...string) ([][]string, error)

	// PredecessorCount() returns the number of nodes whose successor is title.
	PredecessorCount(ctx context.Context, title string) (int, error)

	// AllNodes() returns a slice with the titles of all nodes in the store.
	// This is a blocking operation, so ScanNodes should be prefered when running in prod.
	AllNodes(ctx context.Context) ([]string, error)

	// ScanNodes() scans over the nodes and returns a batch of titles of size roughly equal to limit.
	// Limit controls how much "work" is invested in fetching the batch, hence it is not precise.
	ScanNodes(ctx context.Context, cursor uint64, limit int) ([]string, uint64, error)

	// SetDistances() persists the distance of each title according to the distance map
	SetDistances(ctx context.Context, distances map[string]int) error
}

//--------------------------ERROR-CODES--------------------------

var ErrNilStore = errors.New("edge store pointer is nil")
var ErrUnresolvedSuccessor = errors.New("node has no resolved successor")
var ErrEmptyStore = errors.New("edge store is empty")
var ErrUnknownNode = errors.New("node not found in the edge store")

var ErrNilClientPointer = errors.New("nil client pointer")
