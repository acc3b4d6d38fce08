package macro

import (
	"fmt"

	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/entity/roadmap"
	"github.com/tsinghua-fib-lab/macrodrive/utils/shape"
)

const (
	laneEndMargin     = 0.5 // Continue在车道末端前结束的距离（m）
	minContinueLength = 1.0 // Continue的最短路径（m）
)

// Continue 沿当前车道行驶到车道末端前laneEndMargin处
type Continue struct {
	base
	lane entity.ILane
}

func continuePath(state entity.AgentState, m *roadmap.RoadNetwork) (entity.ILane, *shape.Curve, error) {
	lane := currentLane(state, m)
	if lane == nil {
		return nil, nil, fmt.Errorf("%w: no lane at %v", ErrNotApplicable, state)
	}
	path := lanePath(lane)
	if path == nil {
		return nil, nil, fmt.Errorf("%w: %v has no midline", ErrNotApplicable, lane)
	}
	from := path.Project(state.Position)
	to := path.Length() - laneEndMargin
	if to-from < minContinueLength {
		return nil, nil, fmt.Errorf("%w: %.2fm left on %v", ErrNotApplicable, to-from, lane)
	}
	return lane, shape.NewCurve(path.Sub(from, to)), nil
}

func continuePossibleArgs(state entity.AgentState, m *roadmap.RoadNetwork) []Args {
	if _, _, err := continuePath(state, m); err != nil {
		return nil
	}
	return []Args{{}}
}

func newContinue(agentID int32, state entity.AgentState, m *roadmap.RoadNetwork, openLoop bool, args Args) (*Continue, error) {
	lane, path, err := continuePath(state, m)
	if err != nil {
		return nil, err
	}
	fps := args.fps()
	c := &Continue{
		base: base{
			kind:      KindContinue,
			agentID:   agentID,
			openLoop:  openLoop,
			maneuvers: []Maneuver{newFollowLane(agentID, path, DefaultTargetSpeed, openLoop, fps)},
			path:      path,
			final:     finalState(state, path, DefaultTargetSpeed, fps),
		},
		lane: lane,
	}
	return c, nil
}

// Lane 行驶的车道
func (c *Continue) Lane() entity.ILane {
	return c.lane
}
