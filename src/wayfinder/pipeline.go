package wayfinder

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pimlu/floorgraph/src/floorplan"
	"github.com/pimlu/floorgraph/src/monitoring"
)

// Source is one floor diagram and the floor it describes.
type Source struct {
	Path  string `json:"path" yaml:"path"`
	Index int    `json:"index" yaml:"index"`
}

// Options configures a pipeline run. Nothing is shared between runs, so
// several buildings can be processed side by side with distinct options.
type Options struct {
	HeightIncrement float64
	ElevatorCost    float64
	StairCost       float64
	Policy          Coalesce
	Labels          floorplan.Labels
	Shapes          floorplan.ShapeOptions

	// ScratchDir receives the reduced midline diagrams. When empty a
	// run-scoped directory is created under the system temp dir and removed
	// when the run ends, unless KeepScratch is set.
	ScratchDir  string
	KeepScratch bool
}

// Build converts every floor diagram and stitches the result. Floors are
// processed one after another in the order given.
func Build(sources []Source, opts Options) (*Graph, error) {
	scratch, cleanup, err := scratchDir(opts)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	floors := make([]*Floor, 0, len(sources))
	for _, src := range sources {
		f, err := BuildFloor(src, opts, scratch)
		if err != nil {
			return nil, fmt.Errorf("floor %d (%s): %w", src.Index, src.Path, err)
		}
		floors = append(floors, f)
	}

	g, report, err := Stitch(floors, StitchOptions{
		ElevatorCost: opts.ElevatorCost,
		StairCost:    opts.StairCost,
		Policy:       opts.Policy,
	})
	if err != nil {
		return nil, err
	}
	monitoring.Logf("stitched %d floors: %d nodes, %d edges (%d elevator links, %d stair links), %d components",
		len(floors), g.Len(), g.EdgeCount(), report.ElevatorLinks, report.StairLinks, g.Components())
	return g, nil
}

// BuildFloor runs one diagram through reduction, conversion and annotation.
// The reduced diagram is written to scratch and read back as the midline
// source.
func BuildFloor(src Source, opts Options, scratch string) (*Floor, error) {
	doc, err := floorplan.Load(src.Path)
	if err != nil {
		return nil, err
	}

	floor := NewFloor(src.Index, float64(src.Index)*opts.HeightIncrement, opts.Policy)
	if reduced, ok := floorplan.Reduce(doc, opts.Labels.Midline); ok {
		midlines := filepath.Join(scratch, fmt.Sprintf("midlines-floor-%d.svg", src.Index))
		if err := floorplan.WriteReduced(reduced, midlines); err != nil {
			return nil, fmt.Errorf("write reduced diagram: %w", err)
		}
		midDoc, err := floorplan.Load(midlines)
		if err != nil {
			return nil, err
		}
		paths, err := floorplan.Shapes(midDoc, opts.Shapes)
		if err != nil {
			return nil, err
		}
		floor = IngestFloor(paths, src.Index, opts.HeightIncrement, opts.Policy)
	} else {
		monitoring.Warnf("floor %d: no %q group in %s, floor has no walkable paths", src.Index, opts.Labels.Midline, src.Path)
	}

	markers, err := floorplan.Extract(doc, opts.Labels)
	if err != nil {
		return nil, err
	}
	for _, g := range []struct {
		name string
		set  floorplan.MarkerSet
	}{
		{opts.Labels.Stairs, markers.Stairs},
		{opts.Labels.Elevators, markers.Elevators},
		{opts.Labels.Entrances, markers.Entrances},
	} {
		if !g.set.Found {
			monitoring.Warnf("floor %d: no %q group", src.Index, g.name)
		}
	}

	ann := Annotate(floor, markers)
	for _, m := range ann.Unplaced {
		monitoring.Warnf("floor %d: marker %q at (%s,%s) is not on a midline node", src.Index, m.ID, ftoa(m.At[0]), ftoa(m.At[1]))
	}
	monitoring.Logf("floor %d: %d nodes, %d edges, %d rooms, %d stairs, %d elevators",
		src.Index, floor.NodeCount(), floor.EdgeCount(), ann.Rooms, ann.Stairs, ann.Elevators)
	return floor, nil
}

func scratchDir(opts Options) (string, func(), error) {
	if opts.ScratchDir != "" {
		if err := os.MkdirAll(opts.ScratchDir, 0o755); err != nil {
			return "", nil, fmt.Errorf("create scratch dir: %w", err)
		}
		return opts.ScratchDir, func() {}, nil
	}
	dir := filepath.Join(os.TempDir(), "wayfinder-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create scratch dir: %w", err)
	}
	if opts.KeepScratch {
		monitoring.Logf("keeping reduced diagrams in %s", dir)
		return dir, func() {}, nil
	}
	return dir, func() {
		if err := os.RemoveAll(dir); err != nil {
			monitoring.Warnf("remove scratch dir %s: %v", dir, err)
		}
	}, nil
}
