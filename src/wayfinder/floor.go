package wayfinder

// Floor is the graph of a single level. Nodes live in an arena: the key map
// hands out a dense index on first sight and all annotation state is kept in
// the index-addressed node table.
type Floor struct {
	Index int
	Z     float64

	index  map[Key]int
	nodes  []*Node
	edges  []floorEdge
	pairs  map[[2]int]int
	policy Coalesce
}

type floorEdge struct {
	a, b int
	cost float64
	kind EdgeKind
}

// NewFloor returns an empty floor at level z.
func NewFloor(index int, z float64, policy Coalesce) *Floor {
	return &Floor{
		Index:  index,
		Z:      z,
		index:  make(map[Key]int),
		pairs:  make(map[[2]int]int),
		policy: policy,
	}
}

// AddNode returns the index of key, creating an unlabeled node the first
// time it is seen. Existing nodes are left as they are.
func (f *Floor) AddNode(key Key) int {
	if i, ok := f.index[key]; ok {
		return i
	}
	i := len(f.nodes)
	f.index[key] = i
	f.nodes = append(f.nodes, &Node{id: NodeID(i), Key: key})
	return i
}

// AddEdge connects two node indexes. A second edge between the same pair is
// coalesced according to the floor's policy. Self loops are ignored and
// reported as false.
func (f *Floor) AddEdge(a, b int, cost float64, kind EdgeKind) bool {
	if a == b {
		return false
	}
	pair := [2]int{a, b}
	if b < a {
		pair = [2]int{b, a}
	}
	if slot, ok := f.pairs[pair]; ok {
		if f.policy.replace(f.edges[slot].cost, cost) {
			f.edges[slot].cost = cost
			f.edges[slot].kind = kind
		}
		return true
	}
	f.pairs[pair] = len(f.edges)
	f.edges = append(f.edges, floorEdge{a: a, b: b, cost: cost, kind: kind})
	return true
}

// Lookup returns the node at key.
func (f *Floor) Lookup(key Key) (*Node, bool) {
	i, ok := f.index[key]
	if !ok {
		return nil, false
	}
	return f.nodes[i], true
}

// Nodes returns the floor's nodes in insertion order.
func (f *Floor) Nodes() []*Node { return f.nodes }

func (f *Floor) NodeCount() int { return len(f.nodes) }
func (f *Floor) EdgeCount() int { return len(f.edges) }

// Cost returns the cost of the edge between the nodes at a and b.
func (f *Floor) Cost(a, b Key) (float64, bool) {
	i, ok := f.index[a]
	if !ok {
		return 0, false
	}
	j, ok := f.index[b]
	if !ok {
		return 0, false
	}
	if j < i {
		i, j = j, i
	}
	slot, ok := f.pairs[[2]int{i, j}]
	if !ok {
		return 0, false
	}
	return f.edges[slot].cost, true
}
