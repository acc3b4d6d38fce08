package macro

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/entity/roadmap"
	"github.com/tsinghua-fib-lab/macrodrive/utils/shape"
)

// 折线拼接时视为重合的距离
const pointEpsilon = 1e-6

// currentLane 智能体所在的可行驶车道
func currentLane(state entity.AgentState, m *roadmap.RoadNetwork) entity.ILane {
	heading := state.Heading
	return m.BestLaneAt(state.Position, &heading, true, 0, nil)
}

// lanePath 车道行驶方向上的中心线，id>0的车道与道路参考线方向相反
func lanePath(l entity.ILane) *shape.Curve {
	mid := l.Midline()
	if mid == nil {
		return nil
	}
	if l.ID() > 0 {
		return mid.Reversed()
	}
	return mid
}

// joinPoints 按顺序拼接折线，跳过与上一点重合的点
func joinPoints(parts ...[]geometry.Point) []geometry.Point {
	var res []geometry.Point
	for _, part := range parts {
		for _, p := range part {
			if n := len(res); n > 0 && math.Hypot(p.X-res[n-1].X, p.Y-res[n-1].Y) < pointEpsilon {
				continue
			}
			res = append(res, p)
		}
	}
	return res
}

// extend 沿heading方向延伸d
func extend(p geometry.Point, heading, d float64) geometry.Point {
	return geometry.Point{X: p.X + d*math.Cos(heading), Y: p.Y + d*math.Sin(heading)}
}

// finalState 以speed走完path后的预计状态
func finalState(start entity.AgentState, path *shape.Curve, speed float64, fps int) entity.AgentState {
	p, h := path.Calc(path.Length())
	return entity.AgentState{
		Time:     start.Time + int32(travelSteps(path.Length(), speed, fps)),
		Position: p,
		Velocity: speed,
		Heading:  h,
	}
}

func distance(a, b geometry.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
