// Package svgpath reads the geometry of SVG shape elements as sequences of
// segments. Only segment endpoints and kinds are retained; control points are
// consumed to keep the grammar in step but are not exposed.
package svgpath

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Kind identifies the geometric primitive a segment came from.
type Kind int

const (
	Line Kind = iota
	CubicBezier
	QuadraticBezier
	Arc
)

func (k Kind) String() string {
	switch k {
	case Line:
		return "Line"
	case CubicBezier:
		return "CubicBezier"
	case QuadraticBezier:
		return "QuadraticBezier"
	case Arc:
		return "Arc"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Segment is a single drawn piece of a path.
type Segment struct {
	Kind  Kind
	Start orb.Point
	End   orb.Point
}

// Degenerate reports whether the segment starts and ends at the same point.
func (s Segment) Degenerate() bool {
	return s.Start == s.End
}

// Path is the ordered list of segments of one shape element.
type Path []Segment

// FromLine builds the single-segment path of a <line> element.
func FromLine(x1, y1, x2, y2 float64) Path {
	return Path{{Kind: Line, Start: orb.Point{x1, y1}, End: orb.Point{x2, y2}}}
}

// FromPoints builds the path of a <polyline> (closed=false) or <polygon>
// (closed=true) from its points attribute.
func FromPoints(points string, closed bool) (Path, error) {
	sc := &scanner{s: points}
	var pts []orb.Point
	for !sc.done() {
		x, err := sc.number()
		if err != nil {
			return nil, err
		}
		if sc.done() {
			return nil, sc.errorf(sc.pos, "odd number of coordinates in points")
		}
		y, err := sc.number()
		if err != nil {
			return nil, err
		}
		pts = append(pts, orb.Point{x, y})
	}
	return pointsPath(pts, closed), nil
}

func pointsPath(pts []orb.Point, closed bool) Path {
	if len(pts) < 2 {
		return nil
	}
	path := make(Path, 0, len(pts))
	for i := 1; i < len(pts); i++ {
		path = append(path, Segment{Kind: Line, Start: pts[i-1], End: pts[i]})
	}
	if closed && pts[len(pts)-1] != pts[0] {
		path = append(path, Segment{Kind: Line, Start: pts[len(pts)-1], End: pts[0]})
	}
	return path
}
