package models

const (
	// the walk ended on the target node
	ReachedTarget string = "reached_target"

	// the walk revisited one of its own nodes; Repeated names it
	Cycle string = "cycle"

	// the walk hit a node with no resolved successor (or an unknown start)
	DeadEnd string = "dead_end"
)

// Path is an ordered walk over the forward edges, ending with its terminal
// classification. When Classification is Cycle, the repeated node is the last
// element of Nodes, so the loop is visible in the sequence.
type Path struct {
	Nodes          []string
	Classification string
	Repeated       string
}
