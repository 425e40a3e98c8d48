package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pimlu/floorgraph/src/config"
	"github.com/pimlu/floorgraph/src/monitoring"
	"github.com/pimlu/floorgraph/src/wayfinder"
)

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		monitoring.Logf("error: %v", err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		monitoring.Logf("error: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	graph, err := wayfinder.Build(cfg.Floors, opts)
	if err != nil {
		return err
	}

	out := cfg.GetOutputPath()
	if err := graph.WriteFile(out); err != nil {
		return err
	}
	monitoring.Logf("wrote %d nodes, %d rooms to %s", graph.Len(), len(graph.Rooms()), out)

	if cfg.DotPath != "" {
		dot, err := graph.GenDot("building")
		if err != nil {
			return fmt.Errorf("encode dot: %w", err)
		}
		if err := os.WriteFile(cfg.DotPath, dot, 0o644); err != nil {
			return fmt.Errorf("write dot: %w", err)
		}
		monitoring.Logf("wrote graph dump to %s", cfg.DotPath)
	}

	if cfg.PreviewDir != "" {
		if err := writePreviews(graph, cfg.Floors, opts.HeightIncrement, cfg.PreviewDir); err != nil {
			return err
		}
	}
	return nil
}

// writePreviews draws one SVG per floor, named after the floor index.
func writePreviews(graph *wayfinder.Graph, floors []wayfinder.Source, height float64, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preview dir: %w", err)
	}
	indices := make([]int, 0, len(floors))
	for _, f := range floors {
		indices = append(indices, f.Index)
	}
	sort.Ints(indices)
	for _, index := range indices {
		path := filepath.Join(dir, fmt.Sprintf("floor-%d.svg", index))
		svg := graph.GenSvg(float64(index) * height)
		if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
	}
	monitoring.Logf("wrote %d floor previews to %s", len(indices), dir)
	return nil
}
