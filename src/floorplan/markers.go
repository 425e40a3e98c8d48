package floorplan

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/beevik/etree"
	"github.com/paulmach/orb"
)

var (
	// ErrMissingAttribute marks a marker lacking a required attribute.
	ErrMissingAttribute = errors.New("missing attribute")
	// ErrBadNumber marks a marker coordinate that is not a finite number.
	ErrBadNumber = errors.New("not a finite number")
)

// MarkerError reports a marker that could not be read.
type MarkerError struct {
	Group string
	Index int
	Attr  string
	Err   error
}

func (e *MarkerError) Error() string {
	return fmt.Sprintf("floorplan: %s marker %d: attribute %q: %v", e.Group, e.Index, e.Attr, e.Err)
}

func (e *MarkerError) Unwrap() error { return e.Err }

// Marker is a labeled point on a floor.
type Marker struct {
	ID string
	At orb.Point
}

// MarkerSet is an id → position table that remembers the order in which ids
// were first seen. A repeated id keeps its place and takes the later
// position.
type MarkerSet struct {
	// Found reports whether the marker group exists in the diagram at all.
	Found bool

	order []string
	pos   map[string]orb.Point
}

// NewMarkerSet builds a found set from markers in order.
func NewMarkerSet(markers ...Marker) MarkerSet {
	s := MarkerSet{Found: true}
	for _, m := range markers {
		s.put(m.ID, m.At)
	}
	return s
}

func (s *MarkerSet) put(id string, at orb.Point) {
	if s.pos == nil {
		s.pos = make(map[string]orb.Point)
	}
	if _, ok := s.pos[id]; !ok {
		s.order = append(s.order, id)
	}
	s.pos[id] = at
}

// Len returns the number of distinct ids.
func (s MarkerSet) Len() int { return len(s.order) }

// Position returns the position recorded for id.
func (s MarkerSet) Position(id string) (orb.Point, bool) {
	p, ok := s.pos[id]
	return p, ok
}

// Markers returns the table in first-seen order.
func (s MarkerSet) Markers() []Marker {
	out := make([]Marker, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, Marker{ID: id, At: s.pos[id]})
	}
	return out
}

// Markers holds the floor-changer and entrance tables of one diagram.
type Markers struct {
	Stairs    MarkerSet
	Elevators MarkerSet
	Entrances MarkerSet
}

// Extract reads the stair, elevator and entrance groups of doc. A group that
// is absent yields an empty set with Found false. A marker missing its
// identifier or center is an error.
func Extract(doc *etree.Document, labels Labels) (Markers, error) {
	var m Markers
	root := doc.Root()
	if root == nil {
		return m, nil
	}
	var err error
	if m.Stairs, err = extractGroup(root, labels.Stairs, labels.Adjacency, labels); err != nil {
		return m, err
	}
	if m.Elevators, err = extractGroup(root, labels.Elevators, labels.Adjacency, labels); err != nil {
		return m, err
	}
	if m.Entrances, err = extractGroup(root, labels.Entrances, labels.Name, labels); err != nil {
		return m, err
	}
	return m, nil
}

func extractGroup(root *etree.Element, group, idAttr string, labels Labels) (MarkerSet, error) {
	g := FindGroup(root, group)
	if g == nil {
		return MarkerSet{}, nil
	}
	set := MarkerSet{Found: true}
	for i, el := range g.ChildElements() {
		id := attr(el, idAttr)
		if id == nil {
			return set, &MarkerError{Group: group, Index: i, Attr: idAttr, Err: ErrMissingAttribute}
		}
		x, err := coordinate(el, group, i, labels.CX)
		if err != nil {
			return set, err
		}
		y, err := coordinate(el, group, i, labels.CY)
		if err != nil {
			return set, err
		}
		set.put(id.Value, orb.Point{x, y})
	}
	return set, nil
}

func coordinate(el *etree.Element, group string, index int, key string) (float64, error) {
	a := attr(el, key)
	if a == nil {
		return 0, &MarkerError{Group: group, Index: index, Attr: key, Err: ErrMissingAttribute}
	}
	return parseFloat(a.Value, func(err error) error {
		return &MarkerError{Group: group, Index: index, Attr: key, Err: err}
	})
}

func parseFloat(s string, wrap func(error) error) (float64, error) {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, wrap(fmt.Errorf("%w: %q", ErrBadNumber, s))
	}
	return val, nil
}
