package wayfinder

import (
	"fmt"
)

// StitchOptions sets the cost of moving between adjacent floors.
type StitchOptions struct {
	ElevatorCost float64
	StairCost    float64
	Policy       Coalesce
}

// StitchReport counts the inter-floor edges added between floor pairs.
type StitchReport struct {
	ElevatorLinks int
	StairLinks    int
}

// Stitch merges the floors, in order, into one graph and links each floor
// to the next one in the list: every elevator node to every elevator node
// above it with the same id, and likewise for stairs. Floors that are not
// neighbors in the list are never linked directly.
func Stitch(floors []*Floor, opts StitchOptions) (*Graph, StitchReport, error) {
	var report StitchReport
	g := newGraph(opts.Policy)

	seen := make(map[int]bool)
	merged := make([][]*Node, len(floors))
	for i, f := range floors {
		if seen[f.Index] {
			return nil, report, fmt.Errorf("%w: floor %d listed twice", ErrFloorCollision, f.Index)
		}
		seen[f.Index] = true

		nodes, err := g.merge(f)
		if err != nil {
			return nil, report, fmt.Errorf("floor %d: %w", f.Index, err)
		}
		merged[i] = nodes
	}

	for i := 0; i+1 < len(merged); i++ {
		lower, upper := merged[i], merged[i+1]
		elevators := groupBy(upper, func(n *Node) string { return n.ElevatorID })
		stairs := groupBy(upper, func(n *Node) string { return n.StairID })
		for _, n := range lower {
			if n.IsElevator() {
				for _, m := range elevators[n.ElevatorID] {
					g.addEdge(n, m, opts.ElevatorCost, ElevatorLink)
					report.ElevatorLinks++
				}
			}
			if n.IsStair() {
				for _, m := range stairs[n.StairID] {
					g.addEdge(n, m, opts.StairCost, StairLink)
					report.StairLinks++
				}
			}
		}
	}
	return g, report, nil
}

// merge copies the nodes and edges of f and returns the copies in the
// floor's node order.
func (g *Graph) merge(f *Floor) ([]*Node, error) {
	nodes := make([]*Node, len(f.nodes))
	for i, n := range f.nodes {
		c, err := g.addNode(n)
		if err != nil {
			return nil, err
		}
		nodes[i] = c
	}
	for _, e := range f.edges {
		g.addEdge(nodes[e.a], nodes[e.b], e.cost, e.kind)
	}
	return nodes, nil
}

func groupBy(nodes []*Node, id func(*Node) string) map[string][]*Node {
	out := make(map[string][]*Node)
	for _, n := range nodes {
		if k := id(n); k != "" {
			out[k] = append(out[k], n)
		}
	}
	return out
}
