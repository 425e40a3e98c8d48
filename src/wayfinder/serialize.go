package wayfinder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
)

// Document is the serialized form of a Graph.
type Document struct {
	Nodes []NodeRecord `json:"nodes"`
}

type NodeRecord struct {
	ID          int64        `json:"id"`
	Coordinates Coordinates  `json:"coordinates"`
	RoomNames   []string     `json:"room_names"`
	Connections []Connection `json:"connections"`
}

type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Connection is one end of an edge as seen from a node. Cost is a pointer
// so that a document without costs can be told apart when read back.
type Connection struct {
	Target int64    `json:"target"`
	Cost   *float64 `json:"cost"`
}

// defaultCost is assumed for a connection that carries no cost.
const defaultCost = 1.0

// Document lists every node in id order with its connections sorted by
// target id. Each edge therefore appears once from each end.
func (g *Graph) Document() Document {
	doc := Document{Nodes: make([]NodeRecord, 0, len(g.nodes))}
	for _, n := range g.nodes {
		rec := NodeRecord{
			ID:          int64(n.id),
			Coordinates: Coordinates{X: n.Key.X, Y: n.Key.Y, Z: n.Key.Z},
			RoomNames:   slices.Clone(n.RoomNames),
			Connections: []Connection{},
		}
		if rec.RoomNames == nil {
			rec.RoomNames = []string{}
		}
		for _, e := range g.Neighbors(n.id) {
			cost := e.Cost
			rec.Connections = append(rec.Connections, Connection{Target: e.T.ID(), Cost: &cost})
		}
		doc.Nodes = append(doc.Nodes, rec)
	}
	return doc
}

// WriteJSON writes the graph document to w.
func (g *Graph) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(g.Document())
}

// WriteFile writes the graph document to path.
func (g *Graph) WriteFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create graph file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close graph file: %w", cerr)
		}
	}()
	if err := g.WriteJSON(f); err != nil {
		return fmt.Errorf("write graph file: %w", err)
	}
	return nil
}

// ErrBadDocument is returned by ReadGraph for structurally invalid input.
var ErrBadDocument = errors.New("wayfinder: bad graph document")

// ReadGraph rebuilds a graph from its serialized document. Ids must be
// exactly 0..N-1 and every connection must name an existing node. Stair and
// elevator ids are not part of the document and come back empty.
func ReadGraph(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}

	recs := slices.Clone(doc.Nodes)
	slices.SortFunc(recs, func(a, b NodeRecord) int { return int(a.ID - b.ID) })

	g := newGraph(KeepFirst)
	for i, rec := range recs {
		if rec.ID != int64(i) {
			return nil, fmt.Errorf("%w: node ids are not dense at %d", ErrBadDocument, rec.ID)
		}
		n := &Node{
			Key:       Key{X: rec.Coordinates.X, Y: rec.Coordinates.Y, Z: rec.Coordinates.Z},
			RoomNames: rec.RoomNames,
		}
		if _, err := g.addNode(n); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
		}
	}
	for _, rec := range recs {
		for _, c := range rec.Connections {
			if c.Target < 0 || c.Target >= int64(len(g.nodes)) {
				return nil, fmt.Errorf("%w: node %d connects to unknown node %d", ErrBadDocument, rec.ID, c.Target)
			}
			if c.Target == rec.ID {
				return nil, fmt.Errorf("%w: node %d connects to itself", ErrBadDocument, rec.ID)
			}
			cost := defaultCost
			if c.Cost != nil {
				cost = *c.Cost
			}
			g.addEdge(g.nodes[rec.ID], g.nodes[c.Target], cost, UnknownKind)
		}
	}
	return g, nil
}

// ReadFile reads a graph document from path.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph file: %w", err)
	}
	defer f.Close()
	return ReadGraph(f)
}
