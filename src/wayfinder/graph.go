package wayfinder

import (
	"errors"
	"fmt"
	"html"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// ErrFloorCollision is returned when two floors produce the same node key,
// which happens only when they share a level.
var ErrFloorCollision = errors.New("wayfinder: floors share a level")

// Graph is the building-wide walk graph. Node ids are dense and follow
// insertion order. Once built it is read-only.
type Graph struct {
	g      *simple.WeightedUndirectedGraph
	nodes  []*Node
	keys   map[Key]NodeID
	policy Coalesce
}

func newGraph(policy Coalesce) *Graph {
	return &Graph{
		g:      simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
		keys:   make(map[Key]NodeID),
		policy: policy,
	}
}

// addNode copies n into the graph under the next id.
func (g *Graph) addNode(n *Node) (*Node, error) {
	if _, ok := g.keys[n.Key]; ok {
		return nil, fmt.Errorf("%w: duplicate node %s", ErrFloorCollision, n.Key)
	}
	c := n.clone()
	c.id = NodeID(len(g.nodes))
	g.nodes = append(g.nodes, c)
	g.keys[c.Key] = c.id
	g.g.AddNode(c)
	return c, nil
}

func (g *Graph) addEdge(u, v *Node, cost float64, kind EdgeKind) {
	if u.id == v.id {
		return
	}
	if prev := g.g.WeightedEdge(u.ID(), v.ID()); prev != nil {
		if !g.policy.replace(prev.Weight(), cost) {
			return
		}
	}
	g.g.SetWeightedEdge(Edge{F: u, T: v, Cost: cost, Kind: kind})
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int { return g.g.Edges().Len() }

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	if id < 0 || int(id) >= len(g.nodes) {
		return Node{}, false
	}
	return *g.nodes[id].clone(), true
}

// Lookup returns the id of the node at key.
func (g *Graph) Lookup(key Key) (NodeID, bool) {
	id, ok := g.keys[key]
	return id, ok
}

// Edge returns the edge joining u and v.
func (g *Graph) Edge(u, v NodeID) (Edge, bool) {
	e := g.g.WeightedEdge(int64(u), int64(v))
	if e == nil {
		return Edge{}, false
	}
	return e.(Edge), true
}

// Neighbors returns the edges at id ordered by the id of the far end. Each
// returned edge has F at id.
func (g *Graph) Neighbors(id NodeID) []Edge {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	nbrs := graph.NodesOf(g.g.From(int64(id)))
	slices.SortFunc(nbrs, func(a, b graph.Node) int {
		return int(a.ID() - b.ID())
	})
	out := make([]Edge, 0, len(nbrs))
	for _, n := range nbrs {
		e, _ := g.Edge(id, NodeID(n.ID()))
		out = append(out, e)
	}
	return out
}

// Rooms maps each room name to the node hosting its entrance.
func (g *Graph) Rooms() map[string]NodeID {
	rooms := make(map[string]NodeID)
	for _, n := range g.nodes {
		for _, name := range n.RoomNames {
			rooms[name] = n.id
		}
	}
	return rooms
}

// Components returns the number of connected components.
func (g *Graph) Components() int {
	return len(topo.ConnectedComponents(g.g))
}

// Levels returns the distinct z values present, ascending.
func (g *Graph) Levels() []float64 {
	var zs []float64
	for _, n := range g.nodes {
		if !slices.Contains(zs, n.Key.Z) {
			zs = append(zs, n.Key.Z)
		}
	}
	slices.Sort(zs)
	return zs
}

// GenDot renders the graph in Graphviz DOT.
func (g *Graph) GenDot(name string) ([]byte, error) {
	return dot.Marshal(g.g, name, "", "  ")
}

const (
	stairColor    = "brown"
	elevatorColor = "red"
	roomColor     = "green"
	plainColor    = "blue"
)

func nodeColor(n *Node) string {
	switch {
	case n.IsElevator():
		return elevatorColor
	case n.IsStair():
		return stairColor
	case len(n.RoomNames) > 0:
		return roomColor
	}
	return plainColor
}

// GenSvg draws the nodes and edges of level z, scaled to a fixed width.
// Elevators are red, stairs brown, room entrances green and labeled.
func (g *Graph) GenSvg(z float64) string {
	var sb strings.Builder

	seen := false
	var minX, maxX, minY, maxY float64
	for _, node := range g.nodes {
		if node.Key.Z != z {
			continue
		}
		if !seen {
			minX, maxX = node.Key.X, node.Key.X
			minY, maxY = node.Key.Y, node.Key.Y
			seen = true
		}
		minX = math.Min(minX, node.Key.X)
		maxX = math.Max(maxX, node.Key.X)
		minY = math.Min(minY, node.Key.Y)
		maxY = math.Max(maxY, node.Key.Y)
	}
	xRange := maxX - minX
	yRange := maxY - minY
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	width := 800.0
	height := width * yRange / xRange
	scaleX := func(x float64) float64 { return (x - minX) / xRange * width }
	scaleY := func(y float64) float64 { return (y - minY) / yRange * height }

	sb.WriteString(fmt.Sprintf("<svg width=\"%f\" height=\"%f\" xmlns=\"http://www.w3.org/2000/svg\">\n", width, height))

	for _, u := range g.nodes {
		if u.Key.Z != z {
			continue
		}
		for _, e := range g.Neighbors(u.id) {
			v := e.T
			if v.Key.Z != z || v.id < u.id {
				continue
			}
			sb.WriteString(fmt.Sprintf("<line x1=\"%f\" y1=\"%f\" x2=\"%f\" y2=\"%f\" stroke=\"black\" data-uid=\"%d\" data-vid=\"%d\" data-cost=\"%s\" />\n",
				scaleX(u.Key.X), scaleY(u.Key.Y), scaleX(v.Key.X), scaleY(v.Key.Y), u.id, v.id, ftoa(e.Cost)))
		}
	}

	for _, n := range g.nodes {
		if n.Key.Z != z {
			continue
		}
		x, y := scaleX(n.Key.X), scaleY(n.Key.Y)
		sb.WriteString(fmt.Sprintf("<circle cx=\"%f\" cy=\"%f\" r=\"3\" fill=\"%s\" data-id=\"%d\" />\n", x, y, nodeColor(n), n.id))
		if len(n.RoomNames) > 0 {
			label := html.EscapeString(strings.Join(n.RoomNames, ", "))
			sb.WriteString(fmt.Sprintf("<text x=\"%f\" y=\"%f\" font-size=\"8\" text-anchor=\"end\">%s</text>\n", x, y, label))
		}
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}
