package macro

import (
	"math"
	"testing"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/entity/roadmap"
	"github.com/tsinghua-fib-lab/macrodrive/entity/roadmap/roadmaptest"
)

const agentID int32 = 7

func at(x, y, heading, v float64) entity.AgentState {
	return entity.AgentState{Position: geometry.Point{X: x, Y: y}, Heading: heading, Velocity: v}
}

func observe(m *roadmap.RoadNetwork, state entity.AgentState) Observation {
	return Observation{Frame: entity.Frame{agentID: state}, ScenarioMap: m}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Continue", KindContinue.String())
	assert.Equal(t, "Exit", KindExit.String())
	assert.Equal(t, "Stop", KindStop.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestContinue(t *testing.T) {
	m := roadmap.New(roadmaptest.Junction())
	start := at(45, -1.75, 0, 10)
	assert.Len(t, KindContinue.PossibleArgs(start, m, geometry.Point{}), 1)

	ma, err := KindContinue.New(agentID, entity.Frame{agentID: start}, m, false, Args{})
	require.NoError(t, err)
	assert.Equal(t, KindContinue, ma.Kind())
	assert.Equal(t, agentID, ma.AgentID())
	assert.InDelta(t, 4.5, ma.Length(), 1e-9)
	assert.Equal(t, roadmaptest.RoadIn, ma.(*Continue).Lane().Road().ID())

	final := ma.FinalState()
	assert.InDelta(t, 49.5, final.Position.X, 1e-9)
	assert.InDelta(t, -1.75, final.Position.Y, 1e-9)
	assert.InDelta(t, 0, final.Heading, 1e-9)
	assert.InDelta(t, 9, final.Time, 1)

	assert.False(t, ma.Done(observe(m, start)))
	assert.True(t, ma.Done(observe(m, at(49, -1.75, 0, 10))))
}

func TestContinueNotApplicable(t *testing.T) {
	m := roadmap.New(roadmaptest.Junction())
	end := at(49.2, -1.75, 0, 10)
	assert.Empty(t, KindContinue.PossibleArgs(end, m, geometry.Point{}))
	_, err := KindContinue.New(agentID, entity.Frame{agentID: end}, m, false, Args{})
	assert.ErrorIs(t, err, ErrNotApplicable)

	off := at(20, 30, 0, 10)
	_, err = KindContinue.New(agentID, entity.Frame{agentID: off}, m, false, Args{})
	assert.ErrorIs(t, err, ErrNotApplicable)

	_, err = KindContinue.New(agentID, entity.Frame{}, m, false, Args{})
	assert.Error(t, err)
}

func TestContinueReversedLane(t *testing.T) {
	m := roadmap.New(roadmaptest.Straight())
	start := at(80, 1.75, math.Pi, 10)
	ma, err := KindContinue.New(agentID, entity.Frame{agentID: start}, m, false, Args{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), ma.(*Continue).Lane().ID())
	assert.InDelta(t, 79.5, ma.Length(), 1e-9)
	assert.InDelta(t, 0.5, ma.FinalState().Position.X, 1e-9)
}

func TestExitPossibleArgs(t *testing.T) {
	m := roadmap.New(roadmaptest.Junction())
	args := KindExit.PossibleArgs(at(45, -1.75, 0, 10), m, geometry.Point{})
	require.Len(t, args, 2)
	assert.Equal(t, geometry.Point{X: 60, Y: -1.75}, *args[0].TurnTarget)
	assert.Equal(t, geometry.Point{X: 56.75, Y: 5}, *args[1].TurnTarget)

	// 出口道路没有后继路口
	assert.Empty(t, KindExit.PossibleArgs(at(80, -1.75, 0, 10), m, geometry.Point{}))
	// 反向车道驶向前驱路口，但没有反向的连接道路
	assert.Empty(t, KindExit.PossibleArgs(at(80, 1.75, math.Pi, 10), m, geometry.Point{}))
}

func TestExit(t *testing.T) {
	m := roadmap.New(roadmaptest.Junction())
	start := at(45, -1.75, 0, 10)
	frame := entity.Frame{agentID: start}

	ma, err := KindExit.New(agentID, frame, m, false, Args{TurnTarget: lo.ToPtr(geometry.Point{X: 56.75, Y: 5})})
	require.NoError(t, err)
	exit := ma.(*Exit)
	assert.Equal(t, roadmaptest.ConnectorNorth, exit.Connector().ID())
	assert.Equal(t, geometry.Point{X: 56.75, Y: 5}, exit.TurnTarget())
	assert.InDelta(t, 19.5, ma.Length(), 1e-9)

	final := ma.FinalState()
	assert.InDelta(t, 56.75, final.Position.X, 1e-9)
	assert.InDelta(t, 6, final.Position.Y, 1e-9)
	assert.InDelta(t, math.Pi/2, final.Heading, 1e-9)
	assert.Equal(t, TurnSpeed, final.Velocity)

	// 不指定目标时取第一个出口
	ma, err = KindExit.New(agentID, frame, m, false, Args{})
	require.NoError(t, err)
	assert.Equal(t, roadmaptest.ConnectorEast, ma.(*Exit).Connector().ID())
	assert.InDelta(t, 61, ma.FinalState().Position.X, 1e-9)

	_, err = KindExit.New(agentID, frame, m, false, Args{TurnTarget: lo.ToPtr(geometry.Point{X: 0, Y: 0})})
	assert.ErrorIs(t, err, ErrNotApplicable)
	_, err = KindExit.New(agentID, entity.Frame{agentID: at(80, -1.75, 0, 10)}, m, false, Args{})
	assert.ErrorIs(t, err, ErrNotApplicable)
}

func TestExitManeuvers(t *testing.T) {
	m := roadmap.New(roadmaptest.Junction())
	ma, err := KindExit.New(agentID, entity.Frame{agentID: at(45, -1.75, 0, 10)}, m, false, Args{})
	require.NoError(t, err)

	first := ma.CurrentManeuver()
	require.NotNil(t, first)
	ma.NextAction(observe(m, at(45, -1.75, 0, 10)))
	assert.Same(t, first, ma.CurrentManeuver())

	// 接近车道末端后切换到路口内的机动
	obs := observe(m, at(49.5, -1.75, 0, 10))
	assert.False(t, ma.Done(obs))
	ma.NextAction(obs)
	assert.NotSame(t, first, ma.CurrentManeuver())
	assert.False(t, ma.Done(obs))
	assert.True(t, ma.Done(observe(m, at(60.5, -1.75, 0, 5))))
}

func TestFollowLaneAction(t *testing.T) {
	m := roadmap.New(roadmaptest.Junction())
	start := at(10, -1.75, 0, 10)
	ma, err := KindContinue.New(agentID, entity.Frame{agentID: start}, m, false, Args{})
	require.NoError(t, err)

	action := ma.NextAction(observe(m, start))
	assert.InDelta(t, 0, action.Acceleration, 1e-9)
	assert.InDelta(t, 0, action.Steering, 1e-9)

	action = ma.NextAction(observe(m, at(10, -1.75, 0, 0)))
	assert.InDelta(t, maxAcceleration, action.Acceleration, 1e-9)

	// 偏左时向右转
	action = ma.NextAction(observe(m, at(10, -1, 0, 10)))
	assert.Less(t, action.Steering, 0.0)
	// 超速时减速
	action = ma.NextAction(observe(m, at(10, -1.75, 0, 15)))
	assert.Less(t, action.Acceleration, 0.0)
}

func TestOpenLoop(t *testing.T) {
	m := roadmap.New(roadmaptest.Junction())
	start := at(40, -1.75, 0, 10)
	ma, err := KindContinue.New(agentID, entity.Frame{agentID: start}, m, true, Args{FPS: 10})
	require.NoError(t, err)
	// 9.5m / 10m/s * 10fps
	obs := observe(m, start)
	for range 10 {
		assert.False(t, ma.Done(obs))
		ma.NextAction(obs)
	}
	assert.True(t, ma.Done(obs))
}

func TestStop(t *testing.T) {
	m := roadmap.New(roadmaptest.Straight())
	start := at(10, -1.75, 0, 10)
	assert.Equal(t, []Args{{StopDuration: DefaultStopDuration}}, KindStop.PossibleArgs(start, m, geometry.Point{}))

	ma, err := KindStop.New(agentID, entity.Frame{agentID: start}, m, false, Args{StopDuration: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 0.5, ma.(*Stop).Duration())
	assert.Nil(t, ma.Path())
	assert.Equal(t, 0.0, ma.Length())
	assert.Equal(t, int32(10), ma.FinalState().Time)
	assert.Equal(t, start.Position, ma.FinalState().Position)

	obs := observe(m, start)
	assert.Equal(t, entity.Action{Acceleration: -stopDeceleration}, ma.NextAction(obs))
	action := ma.NextAction(observe(m, at(10, -1.75, 0, 0.1)))
	assert.InDelta(t, -2, action.Acceleration, 1e-9)
	for range 8 {
		assert.False(t, ma.Done(obs))
		ma.NextAction(obs)
	}
	assert.True(t, ma.Done(obs))
}
