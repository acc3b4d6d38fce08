package road

import (
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/entity/lane"
	"github.com/tsinghua-fib-lab/macrodrive/utils/input"
)

// LaneSection 车道段
// 功能：道路沿参考线方向划分的一段，车道数量与类型在段内不变
type LaneSection struct {
	index  int
	road   entity.IRoad
	lanes  []entity.ILane
	left   []entity.ILane
	right  []entity.ILane
	center entity.ILane
	byID   map[int32]entity.ILane
}

func newLaneSection(road *Road, index int, base input.LaneSectionData) *LaneSection {
	s := &LaneSection{
		index: index,
		road:  road,
		byID:  make(map[int32]entity.ILane, len(base.Lanes)),
	}
	for _, ld := range base.Lanes {
		if _, ok := s.byID[ld.ID]; ok {
			log.Panicf("road %d section %d: duplicated lane id %d", road.id, index, ld.ID)
		}
		l := lane.New(road.id, index, ld)
		l.SetParentSectionWhenInit(s)
		s.lanes = append(s.lanes, l)
		s.byID[l.ID()] = l
		switch {
		case l.ID() > 0:
			s.left = append(s.left, l)
		case l.ID() < 0:
			s.right = append(s.right, l)
		default:
			s.center = l
		}
	}
	return s
}

func (s *LaneSection) Index() int {
	return s.index
}

func (s *LaneSection) Road() entity.IRoad {
	return s.road
}

// AllLanes 所有车道，按描述顺序
func (s *LaneSection) AllLanes() []entity.ILane {
	return s.lanes
}

func (s *LaneSection) LeftLanes() []entity.ILane {
	return s.left
}

func (s *LaneSection) RightLanes() []entity.ILane {
	return s.right
}

func (s *LaneSection) CenterLane() entity.ILane {
	return s.center
}

// Lane 按id查找车道，不存在时返回nil
func (s *LaneSection) Lane(id int32) entity.ILane {
	return s.byID[id]
}

