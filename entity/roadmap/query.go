package roadmap

import (
	"math"
	"sort"

	"git.fiblab.net/general/common/v2/geometry"
	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/utils/shape"
)

// candidateRoads R树粗筛出的道路，按描述顺序排列
func (m *RoadNetwork) candidateRoads(point geometry.Point, maxDistance float64) []entity.IRoad {
	hits := m.index.candidates(point.X, point.Y, maxDistance)
	roads := make([]entity.IRoad, 0, len(hits))
	for id := range hits {
		roads = append(roads, m.roads[m.order[id]])
	}
	sort.Slice(roads, func(i, j int) bool {
		return m.order[roads[i].ID()] < m.order[roads[j].ID()]
	})
	return roads
}

// roadHeadingAt 道路参考线在点投影处的切线朝向
func roadHeadingAt(r entity.IRoad, point geometry.Point) float64 {
	return r.Midline().Heading(point)
}

// RoadsAt 查找点附近的道路
// 功能：返回边界到点的距离小于maxDistance的道路
// 参数：point-查询点，drivable-是否只返回可行驶道路，maxDistance-距离阈值，<=0时使用RoadPrecisionError
// 返回：道路列表，按描述顺序
func (m *RoadNetwork) RoadsAt(point geometry.Point, drivable bool, maxDistance float64) []entity.IRoad {
	if maxDistance <= 0 {
		maxDistance = RoadPrecisionError
	}
	return lo.Filter(m.candidateRoads(point, maxDistance), func(r entity.IRoad, _ int) bool {
		if drivable && !r.Drivable() {
			return false
		}
		return r.Boundary().Distance(point) < maxDistance
	})
}

// LanesAt 查找点附近的车道
// 功能：在RoadsAt返回的道路中，收集边界到点的距离小于maxDistance的车道
// 参数：point-查询点，drivableOnly-是否只返回可行驶车道，maxDistance-距离阈值，<=0时使用LanePrecisionError
// 返回：车道列表（不含中心车道，无重复）
func (m *RoadNetwork) LanesAt(point geometry.Point, drivableOnly bool, maxDistance float64) []entity.ILane {
	if maxDistance <= 0 {
		maxDistance = LanePrecisionError
	}
	lanes := make([]entity.ILane, 0)
	seen := make(map[entity.LaneKey]struct{})
	for _, r := range m.RoadsAt(point, false, maxDistance) {
		for _, s := range r.LaneSections() {
			for _, l := range s.AllLanes() {
				if l.ID() == 0 || (drivableOnly && !l.Drivable()) {
					continue
				}
				if _, ok := seen[l.Key()]; ok {
					continue
				}
				if l.Boundary().Distance(point) < maxDistance {
					seen[l.Key()] = struct{}{}
					lanes = append(lanes, l)
				}
			}
		}
	}
	return lanes
}

// RoadsWithinAngle 查找点附近朝向与heading相近的道路
// 功能：
// 1. threshold<=0时返回空
// 2. 只有一条道路时直接返回，不比较角度
// 3. 多条道路且点位于路口内时，改为检查该路口的全部道路
// 4. 非路口道路参考线朝向与heading相差超过π/2时改用反向heading，夹角小于threshold则保留
// 参数：point-查询点，heading-朝向，threshold-角度阈值，maxDistance-距离阈值（<=0时使用RoadPrecisionError）
// 返回：道路列表
func (m *RoadNetwork) RoadsWithinAngle(point geometry.Point, heading, threshold, maxDistance float64) []entity.IRoad {
	if threshold <= 0 {
		return []entity.IRoad{}
	}
	roads := m.RoadsAt(point, false, maxDistance)
	if len(roads) == 1 {
		return roads
	}
	if len(roads) > 1 {
		if j := m.JunctionAt(point); j != nil {
			roads = j.Roads()
		}
	}
	return lo.Filter(roads, func(r entity.IRoad, _ int) bool {
		angle := roadHeadingAt(r, point)
		h := heading
		if r.Junction() == nil && shape.AngleGap(heading, angle) > math.Pi/2 {
			h = heading + math.Pi
		}
		return shape.AngleGap(h, angle) < threshold
	})
}

// LanesWithinAngle 查找点附近朝向与heading相近的车道
// 功能：在RoadsWithinAngle的道路中查找边界距离小于maxDistance的非中心车道，
// 车道朝向取道路参考线切线（id>0的车道取反向），夹角小于threshold则保留
// 参数：point-查询点，heading-朝向，threshold-角度阈值，drivableOnly-是否只返回可行驶车道，maxDistance-距离阈值（<=0时使用LanePrecisionError）
// 返回：车道列表
func (m *RoadNetwork) LanesWithinAngle(point geometry.Point, heading, threshold float64, drivableOnly bool, maxDistance float64) []entity.ILane {
	if maxDistance <= 0 {
		maxDistance = LanePrecisionError
	}
	lanes := make([]entity.ILane, 0)
	for _, r := range m.RoadsWithinAngle(point, heading, threshold, maxDistance) {
		roadAngle := roadHeadingAt(r, point)
		for _, s := range r.LaneSections() {
			for _, l := range s.AllLanes() {
				if l.ID() == 0 || (drivableOnly && !l.Drivable()) {
					continue
				}
				angle := roadAngle
				if l.ID() > 0 {
					angle += math.Pi
				}
				if l.Boundary().Distance(point) < maxDistance && shape.AngleGap(heading, angle) < threshold {
					lanes = append(lanes, l)
				}
			}
		}
	}
	return lanes
}

// pyMod 结果符号与除数一致的取模
func pyMod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// BestRoadAt 选出点处最符合朝向的道路
// 功能：
// 1. 没有道路时返回nil
// 2. 只有一条道路或heading为nil时返回第一条
// 3. 否则选择角度差最小的道路：
//   - 路口内没有右侧车道的道路，参考朝向取反
//   - 非路口道路朝向与heading相差超过π/2时，改用反向heading
//   - 给定goal且已有候选时，仅当道路参考线比当前最优更接近goal时替换
//
// 参数：point-查询点，heading-朝向（可为nil），drivable-是否只考虑可行驶道路，goal-导航目标（可为nil）
// 返回：道路，可能为nil
func (m *RoadNetwork) BestRoadAt(point geometry.Point, heading *float64, drivable bool, goal entity.Goal) entity.IRoad {
	roads := m.RoadsAt(point, false, RoadPrecisionError)
	if len(roads) == 0 {
		log.Debugf("no roads found at point (%.3f, %.3f)", point.X, point.Y)
		return nil
	}
	if len(roads) == 1 || heading == nil {
		return roads[0]
	}

	var best entity.IRoad
	bestDiff := mathutil.INF
	for _, r := range roads {
		if drivable && !r.Drivable() {
			continue
		}
		angle := roadHeadingAt(r, point)
		h := *heading
		if r.Junction() != nil {
			if !r.HasRightLanes() {
				angle += math.Pi
			}
		} else if shape.AngleGap(h, angle) > math.Pi/2 {
			h += math.Pi
		}
		diff := math.Abs(pyMod(h-angle+math.Pi, 2*math.Pi) - math.Pi)
		if goal != nil && best != nil {
			if goal.Distance(r.Midline()) < goal.Distance(best.Midline()) {
				best, bestDiff = r, diff
			}
		} else if diff < bestDiff {
			best, bestDiff = r, diff
		}
	}
	return best
}

// BestLaneAt 选出点处最符合朝向的车道
// 功能：先用BestRoadAt选出道路（可行驶），再在其非中心车道中选出“角度差+距离”最小者
// 参数：point-查询点，heading-朝向（可为nil），drivableOnly-是否只考虑可行驶车道，maxDistance-距离阈值（<=0时使用LanePrecisionError），goal-导航目标（可为nil）
// 返回：车道，可能为nil
func (m *RoadNetwork) BestLaneAt(point geometry.Point, heading *float64, drivableOnly bool, maxDistance float64, goal entity.Goal) entity.ILane {
	if maxDistance <= 0 {
		maxDistance = LanePrecisionError
	}
	r := m.BestRoadAt(point, heading, true, goal)
	if r == nil {
		return nil
	}
	roadAngle := roadHeadingAt(r, point)

	var best entity.ILane
	bestScore := mathutil.INF
	for _, s := range r.LaneSections() {
		for _, l := range s.AllLanes() {
			if l.ID() == 0 || (drivableOnly && !l.Drivable()) {
				continue
			}
			d := l.Boundary().Distance(point)
			if d >= maxDistance {
				continue
			}
			angleDiff := 0.0
			if heading != nil {
				angle := roadAngle
				if l.ID() > 0 {
					angle += math.Pi
				}
				angleDiff = shape.AngleGap(*heading, angle)
			}
			if best == nil || angleDiff+d < bestScore {
				best, bestScore = l, angleDiff+d
			}
		}
	}
	return best
}

// JunctionAt 查找点所在的路口
// 返回：第一个边界到点的距离小于JunctionPrecisionError的路口，没有时返回nil
func (m *RoadNetwork) JunctionAt(point geometry.Point) entity.IJunction {
	for _, j := range m.junctions {
		if j.Boundary().Distance(point) < JunctionPrecisionError {
			return j
		}
	}
	return nil
}

// AdjacentLanesAt 查找点处最佳车道的相邻车道
// 参数：point-查询点，heading-朝向（可为nil），sameDirection-是否只返回同向车道，drivableOnly-是否只返回可行驶车道
// 返回：车道列表，找不到当前车道时为空
func (m *RoadNetwork) AdjacentLanesAt(point geometry.Point, heading *float64, sameDirection, drivableOnly bool) []entity.ILane {
	current := m.BestLaneAt(point, heading, true, LanePrecisionError, nil)
	if current == nil {
		return []entity.ILane{}
	}
	return m.GetAdjacentLanes(current, sameDirection, drivableOnly)
}

// GetAdjacentLanes 同一车道段中除自身与中心车道外的车道
// 参数：current-当前车道，sameDirection-是否只返回同向（id同号）车道，drivableOnly-是否只返回可行驶车道
func (m *RoadNetwork) GetAdjacentLanes(current entity.ILane, sameDirection, drivableOnly bool) []entity.ILane {
	return lo.Filter(current.LaneSection().AllLanes(), func(l entity.ILane, _ int) bool {
		if l.ID() == current.ID() || l.ID() == 0 {
			return false
		}
		if sameDirection && (l.ID() > 0) != (current.ID() > 0) {
			return false
		}
		return !drivableOnly || l.Drivable()
	})
}
