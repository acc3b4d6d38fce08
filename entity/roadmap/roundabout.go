package roadmap

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
)

// InRoundabout 判断点处的道路是否位于环岛内
// 参数：point-查询点，heading-朝向（可为nil）
// 返回：是否位于环岛内；点处没有道路时返回ErrNoRoad
func (m *RoadNetwork) InRoundabout(point geometry.Point, heading *float64) (bool, error) {
	road := m.BestRoadAt(point, heading, true, nil)
	if road == nil {
		return false, fmt.Errorf("%w at (%.3f, %.3f)", ErrNoRoad, point.X, point.Y)
	}
	return m.RoadInRoundabout(road), nil
}

// RoadInRoundabout 判断道路是否位于环岛内
// 功能：满足以下任一条件的道路位于环岛内：
// 1. 属于环岛类型路口组的路口，且前驱后继（道路或路口）也都属于同一环岛，即非出入口的连接道路
// 2. 普通道路，前驱后继都是属于同一环岛类型路口组的路口
// 算法说明：
// 前驱后继为道路时递归判断。递归过程中记录已完成的结果与正在计算的道路，
// 再次遇到正在计算的道路说明链接成环，此时假定其位于环岛上，保证在任意链接图上都能终止
// 参数：road-道路
// 返回：true表示位于环岛内；缺少前驱或后继的道路总是返回false
func (m *RoadNetwork) RoadInRoundabout(road entity.IRoad) bool {
	q := &roundaboutQuery{
		done:     make(map[int32]bool),
		visiting: make(map[int32]struct{}),
	}
	return q.check(road)
}

type roundaboutQuery struct {
	done     map[int32]bool
	visiting map[int32]struct{}
}

func (q *roundaboutQuery) check(road entity.IRoad) bool {
	if res, ok := q.done[road.ID()]; ok {
		return res
	}
	if _, ok := q.visiting[road.ID()]; ok {
		return true
	}
	q.visiting[road.ID()] = struct{}{}
	res := q.evaluate(road)
	delete(q.visiting, road.ID())
	q.done[road.ID()] = res
	return res
}

func (q *roundaboutQuery) evaluate(road entity.IRoad) bool {
	pre, suc := road.Predecessor(), road.Successor()
	if pre.IsEmpty() || suc.IsEmpty() {
		return false
	}
	if j := road.Junction(); j != nil {
		group := j.Group()
		if group == nil || !group.IsRoundabout() {
			return false
		}
		switch {
		case pre.Road != nil && suc.Road != nil:
			return q.check(pre.Road) && q.check(suc.Road)
		case pre.Junction != nil && suc.Road != nil:
			return sameGroup(pre.Junction, group) && q.check(suc.Road)
		case suc.Junction != nil && pre.Road != nil:
			return sameGroup(suc.Junction, group) && q.check(pre.Road)
		default:
			return sameGroup(pre.Junction, group) && sameGroup(suc.Junction, group)
		}
	}
	if pre.Junction == nil || suc.Junction == nil {
		return false
	}
	group := pre.Junction.Group()
	return group != nil && group.IsRoundabout() && sameGroup(suc.Junction, group)
}

func sameGroup(j entity.IJunction, group entity.IJunctionGroup) bool {
	g := j.Group()
	return g != nil && g.ID() == group.ID()
}
