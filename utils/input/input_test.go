package input

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/macrodrive/utils/config"
)

const mapYAML = `
header:
  name: tiny
  date: "2024-01-01"
  north: 3.5
  south: -3.5
  east: 10
  west: 0
roads:
  - id: 1
    boundary:
      - [{x: 0, y: -3.5}, {x: 10, y: -3.5}, {x: 10, y: 3.5}, {x: 0, y: 3.5}]
    midline: [{x: 0, y: 0}, {x: 10, y: 0}]
    successor: {element_type: junction, element_id: 7}
    lane_sections:
      - lanes:
          - id: 0
            type: none
          - id: -1
            type: driving
            boundary:
              - [{x: 0, y: -3.5}, {x: 10, y: -3.5}, {x: 10, y: 0}, {x: 0, y: 0}]
            midline: [{x: 0, y: -1.75}, {x: 10, y: -1.75}]
            markings:
              - {type: solid, color: white, width: 0.15}
junctions:
  - id: 7
    boundary:
      - - [{x: 10, y: -5}, {x: 20, y: -5}, {x: 20, y: 5}, {x: 10, y: 5}]
junction_groups:
  - id: 1
    type: roundabout
    junctions: [7]
`

func TestParse(t *testing.T) {
	data, err := Parse([]byte(mapYAML))
	require.NoError(t, err)
	assert.NoError(t, Validate(data))

	assert.Equal(t, "tiny", data.Header.Name)
	require.Len(t, data.Roads, 1)
	r := data.Roads[0]
	assert.Nil(t, r.Junction)
	assert.Nil(t, r.Predecessor)
	assert.Equal(t, &LinkData{ElementType: "junction", ElementID: 7}, r.Successor)
	require.Len(t, r.LaneSections[0].Lanes, 2)
	assert.Equal(t, "white", r.LaneSections[0].Lanes[1].Markings[0].Color)
	assert.Len(t, Rings(r.Boundary)[0], 4)
	assert.Equal(t, []int32{7}, data.JunctionGroups[0].JunctionIDs)
	assert.Len(t, data.Junctions[0].Boundary, 1)
}

func TestParseRejectsUnknownField(t *testing.T) {
	_, err := Parse([]byte("header: {name: x}\nroads: []\nlanes: []\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	data, err := Parse([]byte(mapYAML))
	require.NoError(t, err)
	data.Roads[0].Successor.ElementType = "lane"
	assert.Error(t, Validate(data))

	data, err = Parse([]byte(mapYAML))
	require.NoError(t, err)
	data.Roads[0].Midline = data.Roads[0].Midline[:1]
	assert.Error(t, Validate(data))

	data, err = Parse([]byte(mapYAML))
	require.NoError(t, err)
	data.Roads[0].LaneSections[0].Lanes[1].ID = 0
	assert.Error(t, Validate(data))
}

func TestInitFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.yaml")
	require.NoError(t, os.WriteFile(path, []byte(mapYAML), 0o644))

	data, err := Init(context.Background(), config.Input{Map: config.InputPath{File: path}})
	require.NoError(t, err)
	assert.Equal(t, "tiny", data.Header.Name)

	_, err = Init(context.Background(), config.Input{Map: config.InputPath{File: path + ".missing"}})
	assert.Error(t, err)
	_, err = Init(context.Background(), config.Input{})
	assert.Error(t, err)
}
