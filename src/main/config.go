package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pimlu/floorgraph/src/config"
	"github.com/pimlu/floorgraph/src/wayfinder"
)

// floorList collects repeated -floor path:index flags.
type floorList []wayfinder.Source

func (l *floorList) String() string {
	parts := make([]string, len(*l))
	for i, s := range *l {
		parts[i] = fmt.Sprintf("%s:%d", s.Path, s.Index)
	}
	return strings.Join(parts, ",")
}

func (l *floorList) Set(value string) error {
	sep := strings.LastIndex(value, ":")
	if sep <= 0 || sep == len(value)-1 {
		return fmt.Errorf("floor %q must look like path:index", value)
	}
	index, err := strconv.Atoi(value[sep+1:])
	if err != nil {
		return fmt.Errorf("floor %q: bad index: %w", value, err)
	}
	*l = append(*l, wayfinder.Source{Path: value[:sep], Index: index})
	return nil
}

// LoadConfig builds the run configuration from an optional config file and
// the command line. Flags take precedence over the file; WAYFINDER_CONFIG and
// WAYFINDER_OUTPUT stand in for -config and -out when those are not given.
func LoadConfig(args []string) (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get cwd: %w", err)
	}

	var floors floorList
	flagSet := flag.NewFlagSet("wayfinder", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagConfig := flagSet.String("config", os.Getenv("WAYFINDER_CONFIG"), "path to building config (.json, .yaml)")
	flagSet.Var(&floors, "floor", "floor diagram as path:index, repeatable")
	flagHeight := flagSet.Float64("height", config.DefaultHeightIncrement, "vertical distance between floors")
	flagOut := flagSet.String("out", os.Getenv("WAYFINDER_OUTPUT"), "output graph JSON path")
	flagDot := flagSet.String("dot", "", "write the graph in Graphviz DOT to this path")
	flagPreview := flagSet.String("preview", "", "write per-floor SVG previews to this directory")
	flagKeep := flagSet.Bool("keep-scratch", false, "keep the reduced midline diagrams")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
		}
		return nil, err
	}
	if flagSet.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))
	}
	given := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) { given[f.Name] = true })

	cfg := &config.Config{}
	if path := strings.TrimSpace(*flagConfig); path != "" {
		cfg, err = config.Read(resolvePath(path, cwd))
		if err != nil {
			return nil, err
		}
	}

	if len(floors) > 0 {
		cfg.Floors = cfg.Floors[:0]
		for _, f := range floors {
			cfg.Floors = append(cfg.Floors, wayfinder.Source{Path: resolvePath(f.Path, cwd), Index: f.Index})
		}
	}
	if given["height"] {
		h := *flagHeight
		cfg.HeightIncrement = &h
	}
	if out := strings.TrimSpace(*flagOut); out != "" {
		cfg.OutputPath = resolvePath(out, cwd)
	}
	if given["dot"] {
		cfg.DotPath = resolvePath(*flagDot, cwd)
	}
	if given["preview"] {
		cfg.PreviewDir = resolvePath(*flagPreview, cwd)
	}
	if given["keep-scratch"] {
		cfg.KeepScratch = *flagKeep
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func resolvePath(path string, cwd string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Join(cwd, trimmed)
}
