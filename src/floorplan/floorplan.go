// Package floorplan reads vector floor-plan diagrams: it isolates the
// corridor midline layer, pulls the stair, elevator and entrance marker
// tables, and collects midline shapes as segment paths.
//
// A diagram is an SVG document. Layers are <g> elements identified by their
// id attribute; the identifiers and marker attribute names are given by
// Labels.
package floorplan

import (
	"errors"
	"fmt"
	"os"

	"github.com/beevik/etree"
)

// ErrMalformedDocument is returned when a diagram cannot be parsed as XML.
var ErrMalformedDocument = errors.New("floorplan: malformed document")

// Labels names the layers and marker attributes of a diagram.
type Labels struct {
	Midline   string `json:"midline" yaml:"midline"`
	Stairs    string `json:"stairs" yaml:"stairs"`
	Elevators string `json:"elevators" yaml:"elevators"`
	Entrances string `json:"entrances" yaml:"entrances"`

	Adjacency string `json:"adjacency_attr" yaml:"adjacency_attr"`
	Name      string `json:"name_attr" yaml:"name_attr"`
	CX        string `json:"cx_attr" yaml:"cx_attr"`
	CY        string `json:"cy_attr" yaml:"cy_attr"`
}

// DefaultLabels returns the label convention used by the building diagrams.
func DefaultLabels() Labels {
	return Labels{
		Midline:   "MidlinePath",
		Stairs:    "Stairs",
		Elevators: "Elevator",
		Entrances: "Entrance",
		Adjacency: "adjacency",
		Name:      "data-name",
		CX:        "cx",
		CY:        "cy",
	}
}

// Load parses the diagram at path. The file is closed before Load returns.
func Load(path string) (*etree.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open diagram: %w", err)
	}
	defer f.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, path, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: %s: no root element", ErrMalformedDocument, path)
	}
	return doc, nil
}

// attr returns the unprefixed attribute key of el, or nil.
func attr(el *etree.Element, key string) *etree.Attr {
	for i := range el.Attr {
		if el.Attr[i].Space == "" && el.Attr[i].Key == key {
			return &el.Attr[i]
		}
	}
	return nil
}

// FindGroup returns the first <g> below root, in document order, whose id is
// id. It returns nil when there is none.
func FindGroup(root *etree.Element, id string) *etree.Element {
	for _, child := range root.ChildElements() {
		if child.Tag == "g" {
			if a := attr(child, "id"); a != nil && a.Value == id {
				return child
			}
		}
		if found := FindGroup(child, id); found != nil {
			return found
		}
	}
	return nil
}

// walk calls fn for every element below root with the given local tag name,
// in document order.
func walk(root *etree.Element, tag string, fn func(*etree.Element) error) error {
	for _, child := range root.ChildElements() {
		if child.Tag == tag {
			if err := fn(child); err != nil {
				return err
			}
		}
		if err := walk(child, tag, fn); err != nil {
			return err
		}
	}
	return nil
}
