package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pimlu/floorgraph/src/floorplan"
	"github.com/pimlu/floorgraph/src/wayfinder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "building.json", `{
		"floors": [
			{"path": "maps/ground.svg", "index": 0},
			{"path": "/abs/first.svg", "index": 1}
		],
		"height_increment": 40,
		"elevator_cost": 0,
		"parallel_edges": "min",
		"labels": {"midline": "Corridors"},
		"shapes": {"lines": true},
		"output_path": "out.json"
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Floors, 2)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "maps/ground.svg"), cfg.Floors[0].Path)
	assert.Equal(t, "/abs/first.svg", cfg.Floors[1].Path)
	assert.Equal(t, 40.0, cfg.GetHeightIncrement())
	assert.Equal(t, 0.0, cfg.GetElevatorCost(), "an explicit zero is kept")
	assert.Equal(t, 40.0, cfg.GetStairCost(), "stairs cost one floor of rise")
	assert.Equal(t, "out.json", cfg.GetOutputPath())

	labels := cfg.GetLabels()
	assert.Equal(t, "Corridors", labels.Midline)
	assert.Equal(t, "Stairs", labels.Stairs)
	assert.Equal(t, "data-name", labels.Name)

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, wayfinder.KeepMin, opts.Policy)
	assert.True(t, opts.Shapes.Lines)
	assert.False(t, opts.Shapes.Polygons)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "building.yaml", `
floors:
  - path: ground.svg
    index: 0
  - path: first.svg
    index: 1
stair_cost: 75
keep_scratch: true
labels:
  entrances: Doors
  name_attr: room
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultHeightIncrement, cfg.GetHeightIncrement())
	assert.Equal(t, DefaultElevatorCost, cfg.GetElevatorCost())
	assert.Equal(t, 75.0, cfg.GetStairCost())
	assert.Equal(t, DefaultOutputPath, cfg.GetOutputPath())
	assert.True(t, cfg.KeepScratch)

	labels := cfg.GetLabels()
	assert.Equal(t, "Doors", labels.Entrances)
	assert.Equal(t, "room", labels.Name)
	assert.Equal(t, floorplan.DefaultLabels().Midline, labels.Midline)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"extension", "building.toml", `floors = []`, "extension"},
		{"bad json", "building.json", `{"floors": [`, "failed to parse config JSON"},
		{"bad yaml", "building.yml", "floors: [\n", "failed to parse config YAML"},
		{"no floors", "building.json", `{"floors": []}`, ErrNoFloors.Error()},
		{"duplicate index", "building.json", `{"floors": [{"path": "a.svg", "index": 0}, {"path": "b.svg", "index": 0}]}`, "listed twice"},
		{"blank path", "building.json", `{"floors": [{"path": "", "index": 0}]}`, "path is required"},
		{"zero height", "building.json", `{"floors": [{"path": "a.svg"}], "height_increment": 0}`, "height_increment"},
		{"negative cost", "building.json", `{"floors": [{"path": "a.svg"}], "stair_cost": -1}`, "stair_cost"},
		{"policy", "building.json", `{"floors": [{"path": "a.svg"}], "parallel_edges": "avg"}`, "parallel edge policy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q should mention %q", err, tt.want)
		})
	}
}

func TestLoadNoFloorsIsSentinel(t *testing.T) {
	_, err := Load(writeConfig(t, "building.json", `{}`))
	assert.True(t, errors.Is(err, ErrNoFloors))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidateStairCostFollowsHeight(t *testing.T) {
	cfg := &Config{
		Floors:          []wayfinder.Source{{Path: "a.svg"}},
		HeightIncrement: ptrFloat64(12),
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 12.0, cfg.GetStairCost())

	cfg.StairCost = ptrFloat64(3)
	assert.Equal(t, 3.0, cfg.GetStairCost())
}

func TestReadSkipsValidation(t *testing.T) {
	cfg, err := Read(writeConfig(t, "partial.yaml", "output_path: out.json\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Floors)
	assert.True(t, errors.Is(cfg.Validate(), ErrNoFloors))
}
