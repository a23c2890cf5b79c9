/*
The stats package computes graph-wide statistics over an EdgeStore: the set of
cycles, the linkless articles, the articles nothing links to, and the heat of
each article.

The heat of an article is the number of articles whose successor chain
eventually visits it. Every chain terminates at a linkless article or by
entering a cycle, so the reverse graph restricted to non-cycle nodes is a
forest rooted at the terminating nodes: tree heats accumulate bottom-up, and
each cycle member then inherits the heat of the whole cycle plus the other
members, since a chain entering the cycle anywhere loops through all of them.
*/
package stats

import (
	"context"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/vertex-lab/wikigraph/pkg/logger"
	"github.com/vertex-lab/wikigraph/pkg/models"
	"github.com/vertex-lab/wikigraph/pkg/utils/sliceutils"
)

// Stats holds the computed statistics. Cycles and Linkless are sorted so the
// output is deterministic for a fixed store.
type Stats struct {
	// every cycle in the graph, each reported as its sorted member set
	Cycles [][]string

	// articles with no resolved successor
	Linkless []string

	// articles that no other article links to (the leaves of the reverse forest)
	Sources []string

	// article --> number of articles whose successor chain visits it
	Heat map[string]int
}

// node states during the forward walk pass
const (
	unseen uint8 = iota
	active
	done
)

/*
Compute() derives the statistics in two passes.

The forward pass walks the successor chain from every unclassified node; a walk
closing on a node of its own path has found a new cycle (the path suffix from
the repeated node), and a walk stopping on an unresolved or out-of-store
successor has found a dead end. Each node is walked through exactly once.

The reverse pass accumulates heat bottom-up over the reverse forest rooted at
the terminating nodes (dead ends and cycle members), then folds each cycle:
every member ends up with the heat of the whole cycle plus the other members.

The context is checked between walks, so a full-scale run can be abandoned.
*/
func Compute(ctx context.Context, store models.EdgeStore, l *logger.Aggregate) (*Stats, error) {

	if err := store.Validate(); err != nil {
		return nil, err
	}

	titles, err := store.AllNodes(ctx)
	if err != nil {
		return nil, err
	}

	var (
		state      = make(map[string]uint8, len(titles))
		cycles     [][]string
		deadEnds   = mapset.NewSet[string]()
		linkless   []string
		successors = make([]string, 0, len(titles))
	)

	for _, title := range titles {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if state[title] != unseen {
			continue
		}

		path := []string{title}
		state[title] = active

	walk:
		for {
			current := path[len(path)-1]

			successor, err := store.Successor(ctx, current)
			if err != nil {
				return nil, err
			}

			if !successor.Resolved {
				linkless = append(linkless, current)
				deadEnds.Add(current)
				break
			}

			next := successor.Title
			successors = append(successors, next)

			switch state[next] {
			case active:
				// the walk closed on its own path; the suffix from next is a new cycle
				i := slices.Index(path, next)
				cycles = append(cycles, slices.Clone(path[i:]))
				break walk

			case done:
				break walk
			}

			if !store.ContainsNode(ctx, next) {
				deadEnds.Add(current)
				break
			}

			state[next] = active
			path = append(path, next)
		}

		for _, node := range path {
			state[node] = done
		}
	}

	cycleMembers := mapset.NewSet[string]()
	for _, cycle := range cycles {
		cycleMembers.Append(cycle...)
	}

	heat := make(map[string]int, len(titles))
	for _, title := range titles {
		heat[title] = 0
	}

	for _, root := range deadEnds.Union(cycleMembers).ToSlice() {
		if err := accumulate(ctx, store, cycleMembers, heat, root); err != nil {
			return nil, err
		}
	}

	// fold each cycle: a chain entering it anywhere loops through every member
	for _, cycle := range cycles {
		var total int
		for _, member := range cycle {
			total += heat[member]
		}
		for _, member := range cycle {
			heat[member] = total + len(cycle) - 1
		}
	}

	sliceutils.SortEach(cycles)
	slices.SortFunc(cycles, func(a, b []string) int { return slices.Compare(a, b) })
	slices.Sort(linkless)
	sources := sliceutils.Difference(titles, successors)

	l.Info("stats: %d cycles, %d linkless and %d source articles among %d nodes",
		len(cycles), len(linkless), len(sources), len(heat))

	return &Stats{
		Cycles:   cycles,
		Linkless: linkless,
		Sources:  sources,
		Heat:     heat,
	}, nil
}

// frame is one node of the reverse forest under traversal.
type frame struct {
	node     string
	children []string
	next     int
}

// accumulate() runs a post-order traversal of the reverse tree rooted at root,
// adding each child's heat (plus the child itself) into its parent. The stack
// is explicit: tree depth is bounded by the longest chain in the store.
func accumulate(ctx context.Context, store models.EdgeStore, cycleMembers mapset.Set[string], heat map[string]int, root string) error {

	children, err := treeChildren(ctx, store, cycleMembers, root)
	if err != nil {
		return err
	}

	stack := []frame{{node: root, children: children}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.next < len(top.children) {
			child := top.children[top.next]
			top.next++

			children, err := treeChildren(ctx, store, cycleMembers, child)
			if err != nil {
				return err
			}

			stack = append(stack, frame{node: child, children: children})
			continue
		}

		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			parent := &stack[len(stack)-1]
			heat[parent.node] += heat[top.node] + 1
		}
	}

	return nil
}

// treeChildren() returns the predecessors of node that are not cycle members,
// which keeps the traversal inside the reverse forest.
func treeChildren(ctx context.Context, store models.EdgeStore, cycleMembers mapset.Set[string], node string) ([]string, error) {
	predSlice, err := store.Predecessors(ctx, node)
	if err != nil {
		return nil, err
	}

	children := make([]string, 0, len(predSlice[0]))
	for _, pred := range predSlice[0] {
		if cycleMembers.Contains(pred) {
			continue
		}

		children = append(children, pred)
	}

	return children, nil
}
