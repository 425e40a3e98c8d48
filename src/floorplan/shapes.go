package floorplan

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/pimlu/floorgraph/src/svgpath"
)

// ShapeOptions selects which element kinds contribute midline geometry.
// <path> and <polyline> always do.
type ShapeOptions struct {
	Lines    bool `json:"lines" yaml:"lines"`
	Polygons bool `json:"polygons" yaml:"polygons"`
}

// Shapes collects the geometry of doc as segment paths. Elements are grouped
// by kind (paths, then polylines, polygons and lines), each kind in document
// order. Transforms are not applied.
func Shapes(doc *etree.Document, opts ShapeOptions) ([]svgpath.Path, error) {
	root := doc.Root()
	if root == nil {
		return nil, nil
	}
	var paths []svgpath.Path
	add := func(tag string, read func(*etree.Element) (svgpath.Path, error)) error {
		n := 0
		return walk(root, tag, func(el *etree.Element) error {
			p, err := read(el)
			if err != nil {
				return fmt.Errorf("floorplan: <%s> %d: %w", tag, n, err)
			}
			n++
			if len(p) > 0 {
				paths = append(paths, p)
			}
			return nil
		})
	}

	if err := add("path", readPath); err != nil {
		return nil, err
	}
	if err := add("polyline", readPoints(false)); err != nil {
		return nil, err
	}
	if opts.Polygons {
		if err := add("polygon", readPoints(true)); err != nil {
			return nil, err
		}
	}
	if opts.Lines {
		if err := add("line", readLine); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func readPath(el *etree.Element) (svgpath.Path, error) {
	d := attr(el, "d")
	if d == nil {
		return nil, nil
	}
	return svgpath.Parse(d.Value)
}

func readPoints(closed bool) func(*etree.Element) (svgpath.Path, error) {
	return func(el *etree.Element) (svgpath.Path, error) {
		pts := attr(el, "points")
		if pts == nil {
			return nil, nil
		}
		return svgpath.FromPoints(pts.Value, closed)
	}
}

func readLine(el *etree.Element) (svgpath.Path, error) {
	var v [4]float64
	for i, key := range []string{"x1", "y1", "x2", "y2"} {
		a := attr(el, key)
		if a == nil {
			continue
		}
		f, err := parseFloat(a.Value, func(err error) error {
			return fmt.Errorf("attribute %q: %w", key, err)
		})
		if err != nil {
			return nil, err
		}
		v[i] = f
	}
	return svgpath.FromLine(v[0], v[1], v[2], v[3]), nil
}
