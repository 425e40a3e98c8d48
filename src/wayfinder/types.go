package wayfinder

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/pimlu/floorgraph/src/svgpath"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
)

// Key is the identity of a node. Two points are the same node only when all
// three coordinates are exactly equal; z encodes the floor.
type Key struct {
	X, Y, Z float64
}

// Point is the key's projection onto its floor.
func (k Key) Point() orb.Point {
	return orb.Point{k.X, k.Y}
}

func (k Key) String() string {
	return fmt.Sprintf("(%s,%s,%s)", ftoa(k.X), ftoa(k.Y), ftoa(k.Z))
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// floorKey lifts a diagram point to the level z.
func floorKey(p orb.Point, z float64) Key {
	return Key{X: p[0], Y: p[1], Z: z}
}

type NodeID int64

// Node is a walkable point with its semantic labels. An empty StairID or
// ElevatorID means the node is not a floor-changer of that kind.
type Node struct {
	id         NodeID
	Key        Key
	RoomNames  []string
	StairID    string
	ElevatorID string
}

// ID implements graph.Node.
func (n *Node) ID() int64 { return int64(n.id) }

func (n *Node) IsStair() bool    { return n.StairID != "" }
func (n *Node) IsElevator() bool { return n.ElevatorID != "" }

func (n *Node) clone() *Node {
	c := *n
	c.RoomNames = slices.Clone(n.RoomNames)
	return &c
}

// Attributes implements encoding.Attributer for DOT output.
func (n *Node) Attributes() []encoding.Attribute {
	attrs := []encoding.Attribute{{Key: "pos", Value: fmt.Sprintf("%s,%s", ftoa(n.Key.X), ftoa(n.Key.Y))}}
	if len(n.RoomNames) > 0 {
		attrs = append(attrs, encoding.Attribute{Key: "label", Value: strings.Join(n.RoomNames, ", ")})
	}
	if n.IsStair() {
		attrs = append(attrs, encoding.Attribute{Key: "stair", Value: n.StairID})
	}
	if n.IsElevator() {
		attrs = append(attrs, encoding.Attribute{Key: "elevator", Value: n.ElevatorID})
	}
	return attrs
}

// EdgeKind records where an edge came from. It is informational only.
type EdgeKind string

const (
	ElevatorLink EdgeKind = "Elevator"
	StairLink    EdgeKind = "Stairs"
	UnknownKind  EdgeKind = ""
)

// SegmentKind names an intra-floor edge after its geometric primitive.
func SegmentKind(k svgpath.Kind) EdgeKind {
	return EdgeKind(k.String())
}

// Edge is an undirected weighted connection. F and T are interchangeable.
type Edge struct {
	F, T *Node
	Cost float64
	Kind EdgeKind
}

func (e Edge) From() graph.Node         { return e.F }
func (e Edge) To() graph.Node           { return e.T }
func (e Edge) Weight() float64          { return e.Cost }
func (e Edge) ReversedEdge() graph.Edge { return Edge{F: e.T, T: e.F, Cost: e.Cost, Kind: e.Kind} }

// Attributes implements encoding.Attributer for DOT output.
func (e Edge) Attributes() []encoding.Attribute {
	attrs := []encoding.Attribute{{Key: "weight", Value: ftoa(e.Cost)}}
	if e.Kind != UnknownKind {
		attrs = append(attrs, encoding.Attribute{Key: "kind", Value: string(e.Kind)})
	}
	return attrs
}

// distance is the planar Euclidean distance between two points of one floor.
func distance(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}

// Coalesce decides the cost kept when two edges join the same pair of nodes.
type Coalesce string

const (
	KeepFirst Coalesce = "first"
	KeepLast  Coalesce = "last"
	KeepMin   Coalesce = "min"
)

// ParseCoalesce validates a policy name. The empty string means KeepFirst.
func ParseCoalesce(s string) (Coalesce, error) {
	switch c := Coalesce(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return KeepFirst, nil
	case KeepFirst, KeepLast, KeepMin:
		return c, nil
	}
	return "", fmt.Errorf("unknown parallel edge policy %q (want first, last or min)", s)
}

// replace reports whether an edge of cost next should supersede one of cost
// prev.
func (c Coalesce) replace(prev, next float64) bool {
	switch c {
	case KeepLast:
		return true
	case KeepMin:
		return next < prev
	}
	return false
}
