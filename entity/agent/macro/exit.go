package macro

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/entity/roadmap"
	"github.com/tsinghua-fib-lab/macrodrive/utils/shape"
)

const (
	exitLeadIn          = 1.0 // 驶出后在出口道路上额外行驶的距离（m）
	turnTargetTolerance = 1.0 // 驶出目标点与连接道路终点的最大偏差（m）
	minApproachLength   = 1e-3
)

// Exit 沿当前车道驶入下一个路口，经连接道路驶出
// 机动序列：当前车道剩余部分、连接道路及驶出后的lead-in
type Exit struct {
	base
	connector  entity.IRoad
	turnTarget geometry.Point
}

// exitOption 一条可选的路口连接道路
type exitOption struct {
	connector entity.IRoad
	path      *shape.Curve // 连接道路车道在行驶方向上的中心线
}

func (o exitOption) target() geometry.Point {
	return o.path.End()
}

func firstDrivableLane(r entity.IRoad, left bool) entity.ILane {
	for _, s := range r.LaneSections() {
		lanes := s.RightLanes()
		if left {
			lanes = s.LeftLanes()
		}
		for _, l := range lanes {
			if l.Drivable() && l.Midline() != nil {
				return l
			}
		}
	}
	return nil
}

// exitOptions 当前车道与其驶向路口中从当前道路出发的连接道路
// 功能：id<0的车道驶向后继，id>0的车道驶向前驱；
// 连接道路的前驱是当前道路时沿参考线方向行驶（右侧车道），后继是当前道路时反向行驶（左侧车道）
func exitOptions(state entity.AgentState, m *roadmap.RoadNetwork) (entity.ILane, []exitOption) {
	lane := currentLane(state, m)
	if lane == nil || lanePath(lane) == nil {
		return nil, nil
	}
	road := lane.Road()
	next := road.Successor()
	if lane.ID() > 0 {
		next = road.Predecessor()
	}
	if next.Junction == nil {
		return lane, nil
	}
	var options []exitOption
	for _, c := range next.Junction.Roads() {
		var l entity.ILane
		switch {
		case c.Predecessor().Road != nil && c.Predecessor().Road.ID() == road.ID():
			l = firstDrivableLane(c, false)
		case c.Successor().Road != nil && c.Successor().Road.ID() == road.ID():
			l = firstDrivableLane(c, true)
		}
		if l == nil {
			continue
		}
		options = append(options, exitOption{connector: c, path: lanePath(l)})
	}
	return lane, options
}

func exitPossibleArgs(state entity.AgentState, m *roadmap.RoadNetwork) []Args {
	_, options := exitOptions(state, m)
	return lo.Map(options, func(o exitOption, _ int) Args {
		return Args{TurnTarget: lo.ToPtr(o.target())}
	})
}

func newExit(agentID int32, state entity.AgentState, m *roadmap.RoadNetwork, openLoop bool, args Args) (*Exit, error) {
	lane, options := exitOptions(state, m)
	if len(options) == 0 {
		return nil, fmt.Errorf("%w: no junction exit from %v", ErrNotApplicable, state)
	}
	option := options[0]
	if args.TurnTarget != nil {
		target := *args.TurnTarget
		option = lo.MinBy(options, func(a, b exitOption) bool {
			return distance(a.target(), target) < distance(b.target(), target)
		})
		if d := distance(option.target(), target); d > turnTargetTolerance {
			return nil, fmt.Errorf("%w: turn target (%.2f, %.2f) is %.2fm away from any exit", ErrNotApplicable, target.X, target.Y, d)
		}
	}

	lp := lanePath(lane)
	approach := lp.Sub(lp.Project(state.Position), lp.Length())
	_, h := option.path.Calc(option.path.Length())
	turn := joinPoints(option.path.Points(), []geometry.Point{extend(option.target(), h, exitLeadIn)})
	path := shape.NewCurve(joinPoints(approach, turn))

	fps := args.fps()
	var maneuvers []Maneuver
	if approachPath := shape.NewCurve(approach); approachPath.Length() > minApproachLength {
		maneuvers = append(maneuvers, newFollowLane(agentID, approachPath, DefaultTargetSpeed, openLoop, fps))
	}
	maneuvers = append(maneuvers, newFollowLane(agentID, shape.NewCurve(turn), TurnSpeed, openLoop, fps))

	e := &Exit{
		base: base{
			kind:      KindExit,
			agentID:   agentID,
			openLoop:  openLoop,
			maneuvers: maneuvers,
			path:      path,
			final:     finalState(state, path, TurnSpeed, fps),
		},
		connector:  option.connector,
		turnTarget: option.target(),
	}
	return e, nil
}

// Connector 经过的路口连接道路
func (e *Exit) Connector() entity.IRoad {
	return e.connector
}

// TurnTarget 连接道路的终点
func (e *Exit) TurnTarget() geometry.Point {
	return e.turnTarget
}
