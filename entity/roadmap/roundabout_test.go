package roadmap

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/macrodrive/entity/roadmap/roadmaptest"
	"github.com/tsinghua-fib-lab/macrodrive/utils/input"
)

// roundaboutNetwork 环岛路网，道路几何互不重叠，第i条道路位于y=20*i
//
//	20: 环岛路段，200 -> 201
//	21: 环岛路段，201 -> 200
//	22: 入口道路，无前驱 -> 200
//	23: 普通路口之间的道路，300 -> 300
//	30: 200内连接道路，21 -> 20
//	31: 200内连接道路，22 -> 20
//	32: 201内连接道路，路口200 -> 21
//	40,41: 201内互为前驱后继的连接道路
//	42: 300内连接道路，23 -> 23
func roundaboutNetwork() *input.MapData {
	type testCase struct {
		id       int32
		junction *int32
		pre, suc *input.LinkData
	}
	cases := []testCase{
		{20, nil, roadmaptest.ToJunction(200), roadmaptest.ToJunction(201)},
		{21, nil, roadmaptest.ToJunction(201), roadmaptest.ToJunction(200)},
		{22, nil, nil, roadmaptest.ToJunction(200)},
		{23, nil, roadmaptest.ToJunction(300), roadmaptest.ToJunction(300)},
		{30, lo.ToPtr[int32](200), roadmaptest.ToRoad(21), roadmaptest.ToRoad(20)},
		{31, lo.ToPtr[int32](200), roadmaptest.ToRoad(22), roadmaptest.ToRoad(20)},
		{32, lo.ToPtr[int32](201), roadmaptest.ToJunction(200), roadmaptest.ToRoad(21)},
		{40, lo.ToPtr[int32](201), roadmaptest.ToRoad(41), roadmaptest.ToRoad(41)},
		{41, lo.ToPtr[int32](201), roadmaptest.ToRoad(40), roadmaptest.ToRoad(40)},
		{42, lo.ToPtr[int32](300), roadmaptest.ToRoad(23), roadmaptest.ToRoad(23)},
	}
	desc := &input.MapData{Header: input.Header{Name: "roundabout"}}
	for i, s := range cases {
		r := roadmaptest.HorizontalRoad(s.id, 0, 10, float64(20*i))
		r.Junction, r.Predecessor, r.Successor = s.junction, s.pre, s.suc
		desc.Roads = append(desc.Roads, r)
	}
	desc.Junctions = []input.JunctionData{
		{ID: 200, Boundary: [][][]input.XY{roadmaptest.Rect(100, 0, 110, 10)}},
		{ID: 201, Boundary: [][][]input.XY{roadmaptest.Rect(120, 0, 130, 10)}},
		{ID: 300, Boundary: [][][]input.XY{roadmaptest.Rect(140, 0, 150, 10)}},
	}
	desc.JunctionGroups = []input.JunctionGroupData{
		{ID: 1, Name: "ring", Type: "roundabout", JunctionIDs: []int32{200, 201}},
		{ID: 2, Name: "plain", Type: "signalized", JunctionIDs: []int32{300}},
	}
	return desc
}

func TestRoadInRoundabout(t *testing.T) {
	m := New(roundaboutNetwork())
	assert.True(t, m.Junction(200).Group().IsRoundabout())
	assert.False(t, m.Junction(300).Group().IsRoundabout())

	cases := []struct {
		name string
		road int32
		want bool
	}{
		{"ring road between roundabout junctions", 20, true},
		{"ring road back to first junction", 21, true},
		{"entry road without predecessor", 22, false},
		{"road between plain junctions", 23, false},
		{"connector between ring roads", 30, true},
		{"connector from entry road", 31, false},
		{"connector from roundabout junction", 32, true},
		{"cyclic connectors", 40, true},
		{"connector in plain junction", 42, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, m.RoadInRoundabout(m.Road(c.road)))
		})
	}
}

func TestRoadInRoundaboutDeadEnd(t *testing.T) {
	m := New(roadmaptest.Junction())
	for _, r := range m.Roads() {
		assert.False(t, m.RoadInRoundabout(r), "%v", r)
	}
}

func TestInRoundabout(t *testing.T) {
	m := New(roundaboutNetwork())
	in, err := m.InRoundabout(geometry.Point{X: 5, Y: -1}, nil)
	assert.NoError(t, err)
	assert.True(t, in)

	in, err = m.InRoundabout(geometry.Point{X: 5, Y: 39}, lo.ToPtr(0.0))
	assert.NoError(t, err)
	assert.False(t, in)

	_, err = m.InRoundabout(geometry.Point{X: 500, Y: 500}, nil)
	assert.ErrorIs(t, err, ErrNoRoad)
}
