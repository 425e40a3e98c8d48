package wayfinder

import (
	"github.com/paulmach/orb"
	"github.com/pimlu/floorgraph/src/floorplan"
)

// Annotation summarizes the labels attached to one floor.
type Annotation struct {
	Stairs    int
	Elevators int
	Rooms     int

	// Unplaced lists markers whose center is not exactly on any node.
	Unplaced []floorplan.Marker
}

// markerIndex maps a position to the first marker found there.
type markerIndex map[orb.Point]string

func indexMarkers(set floorplan.MarkerSet) markerIndex {
	idx := make(markerIndex, set.Len())
	for _, m := range set.Markers() {
		if _, ok := idx[m.At]; !ok {
			idx[m.At] = m.ID
		}
	}
	return idx
}

// Annotate labels the nodes of f whose (x, y) equals a marker center. Each
// marker table is matched independently and exactly; when several markers of
// one table share a point the first one wins.
func Annotate(f *Floor, markers floorplan.Markers) Annotation {
	stairs := indexMarkers(markers.Stairs)
	elevators := indexMarkers(markers.Elevators)
	entrances := indexMarkers(markers.Entrances)

	var ann Annotation
	for _, n := range f.nodes {
		p := n.Key.Point()
		if id, ok := stairs[p]; ok {
			n.StairID = id
			ann.Stairs++
		}
		if id, ok := elevators[p]; ok {
			n.ElevatorID = id
			ann.Elevators++
		}
		if name, ok := entrances[p]; ok {
			n.RoomNames = append(n.RoomNames, name)
			ann.Rooms++
		}
	}

	for _, set := range []floorplan.MarkerSet{markers.Stairs, markers.Elevators, markers.Entrances} {
		for _, m := range set.Markers() {
			if _, ok := f.index[floorKey(m.At, f.Z)]; !ok {
				ann.Unplaced = append(ann.Unplaced, m)
			}
		}
	}
	return ann
}
