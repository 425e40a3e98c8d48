package floorplan

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/paulmach/orb"
	"github.com/pimlu/floorgraph/src/svgpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const floorSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape" viewBox="0 0 100 100" width="100" inkscape:version="1.2">
  <g id="Background">
    <rect x="0" y="0" width="100" height="100"/>
    <path d="M0 0L100 100"/>
  </g>
  <g id="Layer">
    <g id="MidlinePath" inkscape:label="mid">
      <polyline points="0,0 10,0 10,10"/>
      <path d="M10 10L20 10"/>
    </g>
  </g>
  <g id="Stairs">
    <circle adjacency="S1" cx="0" cy="0" r="1"/>
  </g>
  <g id="Elevator">
    <circle adjacency="E1" cx="10" cy="0" r="1"/>
    <circle adjacency="E2" cx="20" cy="10" r="1"/>
  </g>
  <g id="Entrance">
    <circle data-name="R101" cx="10" cy="10" r="1"/>
    <circle data-name="R102" cx="20" cy="10" r="1"/>
  </g>
  <g id="MidlinePath">
    <path d="M50 50L60 60"/>
  </g>
</svg>
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadString(t *testing.T, content string) *etree.Document {
	t.Helper()
	doc, err := Load(writeFile(t, "floor.svg", content))
	require.NoError(t, err)
	return doc
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeFile(t, "bad.svg", "<svg><g id=Stairs></g></svg>"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDocument))

	_, err = Load(writeFile(t, "empty.svg", ""))
	assert.True(t, errors.Is(err, ErrMalformedDocument))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.svg"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFindGroupFirstMatchInDocumentOrder(t *testing.T) {
	doc := loadString(t, floorSVG)
	g := FindGroup(doc.Root(), "MidlinePath")
	require.NotNil(t, g)
	assert.Len(t, g.ChildElements(), 2, "nested group precedes the later sibling")
	assert.Nil(t, FindGroup(doc.Root(), "Fixtures"))
}

func TestReduce(t *testing.T) {
	doc := loadString(t, floorSVG)
	reduced, ok := Reduce(doc, "MidlinePath")
	require.True(t, ok)

	root := reduced.Root()
	require.NotNil(t, root)
	assert.Equal(t, "svg", root.Tag)
	assert.Equal(t, "0 0 100 100", root.SelectAttrValue("viewBox", ""))
	assert.Equal(t, "http://www.w3.org/2000/svg", root.SelectAttrValue("xmlns", ""))
	for _, a := range root.Attr {
		assert.Empty(t, a.Space, "prefixed attribute %s:%s kept on root", a.Space, a.Key)
	}

	children := root.ChildElements()
	require.Len(t, children, 1)
	group := children[0]
	assert.Equal(t, "MidlinePath", group.SelectAttrValue("id", ""))
	assert.Nil(t, attr(group, "label"))
	for _, a := range group.Attr {
		assert.Empty(t, a.Space)
	}

	// the source document is left untouched
	src := FindGroup(doc.Root(), "MidlinePath")
	assert.Equal(t, "mid", src.SelectAttrValue("inkscape:label", ""))
}

func TestReducePrefixedRoot(t *testing.T) {
	doc := loadString(t, `<svg:svg xmlns:svg="http://www.w3.org/2000/svg" width="5">
  <svg:g id="MidlinePath"><svg:path d="M0 0L1 1"/></svg:g>
</svg:svg>`)
	reduced, ok := Reduce(doc, "MidlinePath")
	require.True(t, ok)
	root := reduced.Root()
	assert.Equal(t, "http://www.w3.org/2000/svg", root.SelectAttrValue("xmlns", ""))
	assert.Equal(t, "5", root.SelectAttrValue("width", ""))
	path := root.FindElement("//path")
	require.NotNil(t, path)
	assert.Empty(t, path.Space)
}

func TestReduceMissingGroup(t *testing.T) {
	doc := loadString(t, `<svg xmlns="http://www.w3.org/2000/svg"><g id="Other"/></svg>`)
	reduced, ok := Reduce(doc, "MidlinePath")
	assert.False(t, ok)
	assert.Nil(t, reduced)
}

func TestWriteReducedRoundTrip(t *testing.T) {
	doc := loadString(t, floorSVG)
	reduced, ok := Reduce(doc, "MidlinePath")
	require.True(t, ok)

	out := filepath.Join(t.TempDir(), "midlines.svg")
	require.NoError(t, WriteReduced(reduced, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<?xml"))
	assert.NotContains(t, string(data), "Background")

	again, err := Load(out)
	require.NoError(t, err)
	paths, err := Shapes(again, ShapeOptions{})
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestExtract(t *testing.T) {
	doc := loadString(t, floorSVG)
	m, err := Extract(doc, DefaultLabels())
	require.NoError(t, err)

	assert.True(t, m.Stairs.Found)
	assert.Equal(t, []Marker{{ID: "S1", At: orb.Point{0, 0}}}, m.Stairs.Markers())
	assert.Equal(t, []Marker{
		{ID: "E1", At: orb.Point{10, 0}},
		{ID: "E2", At: orb.Point{20, 10}},
	}, m.Elevators.Markers())

	at, ok := m.Entrances.Position("R102")
	require.True(t, ok)
	assert.Equal(t, orb.Point{20, 10}, at)
	assert.Equal(t, 2, m.Entrances.Len())
}

func TestExtractAbsentGroups(t *testing.T) {
	doc := loadString(t, `<svg xmlns="http://www.w3.org/2000/svg"><g id="Stairs"/></svg>`)
	m, err := Extract(doc, DefaultLabels())
	require.NoError(t, err)
	assert.True(t, m.Stairs.Found)
	assert.Zero(t, m.Stairs.Len())
	assert.False(t, m.Elevators.Found)
	assert.False(t, m.Entrances.Found)
	assert.Empty(t, m.Entrances.Markers())
}

func TestExtractDuplicateIDKeepsOrderTakesLastPosition(t *testing.T) {
	doc := loadString(t, `<svg>
  <g id="Elevator">
    <circle adjacency="A" cx="1" cy="1"/>
    <circle adjacency="B" cx="2" cy="2"/>
    <circle adjacency="A" cx="3" cy="3"/>
  </g>
</svg>`)
	m, err := Extract(doc, DefaultLabels())
	require.NoError(t, err)
	assert.Equal(t, []Marker{
		{ID: "A", At: orb.Point{3, 3}},
		{ID: "B", At: orb.Point{2, 2}},
	}, m.Elevators.Markers())
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		attr  string
		cause error
	}{
		{"missing adjacency", `<g id="Stairs"><circle cx="1" cy="1"/></g>`, "adjacency", ErrMissingAttribute},
		{"missing cy", `<g id="Elevator"><circle adjacency="E" cx="1"/></g>`, "cy", ErrMissingAttribute},
		{"bad cx", `<g id="Entrance"><circle data-name="R" cx="abc" cy="1"/></g>`, "cx", ErrBadNumber},
		{"nan cx", `<g id="Entrance"><circle data-name="R" cx="NaN" cy="1"/></g>`, "cx", ErrBadNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := loadString(t, "<svg>"+tt.body+"</svg>")
			_, err := Extract(doc, DefaultLabels())
			require.Error(t, err)
			var me *MarkerError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, tt.attr, me.Attr)
			assert.Equal(t, 0, me.Index)
			assert.True(t, errors.Is(err, tt.cause))
		})
	}
}

func TestShapes(t *testing.T) {
	doc := loadString(t, `<svg>
  <line x1="0" y1="0" x2="5" y2="0"/>
  <polygon points="0,0 1,0 1,1"/>
  <polyline points="7,7 8,8"/>
  <g><path d="M1 1L2 2"/></g>
  <path/>
</svg>`)

	paths, err := Shapes(doc, ShapeOptions{})
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, orb.Point{1, 1}, paths[0][0].Start, "paths come before polylines")
	assert.Equal(t, orb.Point{7, 7}, paths[1][0].Start)

	paths, err = Shapes(doc, ShapeOptions{Lines: true, Polygons: true})
	require.NoError(t, err)
	require.Len(t, paths, 4)
	assert.Len(t, paths[2], 3, "polygon closes")
	assert.Equal(t, svgpath.FromLine(0, 0, 5, 0), paths[3])
}

func TestShapesBadPathData(t *testing.T) {
	doc := loadString(t, `<svg><path d="M0 0L1"/></svg>`)
	_, err := Shapes(doc, ShapeOptions{})
	require.Error(t, err)
	var syn *svgpath.SyntaxError
	assert.True(t, errors.As(err, &syn))
}
