package route

import (
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/entity/agent/macro"
	"github.com/tsinghua-fib-lab/macrodrive/entity/roadmap"
	"github.com/tsinghua-fib-lab/macrodrive/entity/roadmap/roadmaptest"
)

const agentID int32 = 3

func startFrame() entity.Frame {
	return entity.Frame{agentID: {Position: geometry.Point{X: 45, Y: -1.75}, Velocity: 10}}
}

func TestAStarThroughJunction(t *testing.T) {
	m := roadmap.New(roadmaptest.Junction())
	goal := entity.NewPointGoal(geometry.Point{X: 100, Y: -1.75}, 1.5)

	costs, plans := NewAStar(20).Search(agentID, startFrame(), goal, m, false, 1000)
	require.Len(t, plans, 1)
	require.Len(t, costs, 1)
	assert.InDelta(t, 64.5, costs[0], 1e-6)

	plan := plans[0]
	last := plan[len(plan)-1]
	require.Equal(t, macro.KindContinue, last.Kind())
	assert.Equal(t, roadmaptest.RoadEast, last.(*macro.Continue).Lane().Road().ID())
	assert.True(t, goal.PassedThrough(last.Path()))

	exits := lo.Filter(plan, func(ma macro.MacroAction, _ int) bool { return ma.Kind() == macro.KindExit })
	require.Len(t, exits, 1)
	assert.Equal(t, roadmaptest.ConnectorEast, exits[0].(*macro.Exit).Connector().ID())
	for _, ma := range plan {
		assert.Equal(t, agentID, ma.AgentID())
	}
}

func TestAStarNorthExit(t *testing.T) {
	m := roadmap.New(roadmaptest.Junction())
	goal := entity.NewPointGoal(geometry.Point{X: 56.75, Y: 40}, 1.5)

	_, plans := NewAStar(20).Search(agentID, startFrame(), goal, m, false, 1000)
	require.Len(t, plans, 1)
	exits := lo.Filter(plans[0], func(ma macro.MacroAction, _ int) bool { return ma.Kind() == macro.KindExit })
	require.Len(t, exits, 1)
	assert.Equal(t, roadmaptest.ConnectorNorth, exits[0].(*macro.Exit).Connector().ID())
}

func TestAStarNoPath(t *testing.T) {
	m := roadmap.New(roadmaptest.Junction())
	planner := NewAStar(20)

	// 目标不在路网上
	costs, plans := planner.Search(agentID, startFrame(), entity.NewPointGoal(geometry.Point{X: 0, Y: 80}, 1), m, false, 1000)
	assert.Empty(t, costs)
	assert.Empty(t, plans)

	// 智能体不在帧中
	_, plans = planner.Search(agentID+1, startFrame(), entity.NewPointGoal(geometry.Point{X: 100, Y: -1.75}, 1.5), m, false, 1000)
	assert.Empty(t, plans)

	// 迭代次数耗尽
	_, plans = planner.Search(agentID, startFrame(), entity.NewPointGoal(geometry.Point{X: 100, Y: -1.75}, 1.5), m, false, 1)
	assert.Empty(t, plans)
}

func TestKeyOf(t *testing.T) {
	a := entity.AgentState{Position: geometry.Point{X: 1.01, Y: 2}, Heading: 0.01}
	b := entity.AgentState{Position: geometry.Point{X: 0.99, Y: 2.02}, Heading: -0.02}
	c := entity.AgentState{Position: geometry.Point{X: 1.5, Y: 2}}
	assert.Equal(t, keyOf(a), keyOf(b))
	assert.NotEqual(t, keyOf(a), keyOf(c))
}
