package wayfinder

import (
	"github.com/pimlu/floorgraph/src/svgpath"
)

// IngestFloor converts the midline paths of one floor into its graph. Every
// segment contributes its two endpoints as nodes, lifted to
// z = index*heightIncrement, and an edge weighted by their distance. A
// segment whose endpoints coincide contributes only the node.
func IngestFloor(paths []svgpath.Path, index int, heightIncrement float64, policy Coalesce) *Floor {
	z := float64(index) * heightIncrement
	floor := NewFloor(index, z, policy)
	for _, path := range paths {
		for _, seg := range path {
			a := floor.AddNode(floorKey(seg.Start, z))
			b := floor.AddNode(floorKey(seg.End, z))
			floor.AddEdge(a, b, distance(seg.Start, seg.End), SegmentKind(seg.Kind))
		}
	}
	return floor
}
