// 路网：道路、车道、路口的只读集合与空间查询
package roadmap

import (
	"errors"
	"fmt"

	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/entity/junction"
	"github.com/tsinghua-fib-lab/macrodrive/entity/road"
	"github.com/tsinghua-fib-lab/macrodrive/utils/input"
)

// 默认查询容差
const (
	RoadPrecisionError     = 1e-8
	LanePrecisionError     = 1e-8
	JunctionPrecisionError = 1e-8
)

var (
	ErrNoRoad = errors.New("no road found")
)

// RoadNetwork 路网
// 功能：持有全部道路、路口、路口组及元数据，提供按位置与朝向的空间查询
// 说明：New返回后不再修改，可被多个智能体并发只读访问
type RoadNetwork struct {
	header input.Header

	roadManager     entity.IRoadManager
	junctionManager entity.IJunctionManager

	roads     []entity.IRoad          // 按描述顺序
	order     map[int32]int           // road id -> 描述顺序
	junctions []entity.IJunction      // 按描述顺序
	groups    []entity.IJunctionGroup // 按描述顺序
	index     *roadIndex
}

// New 根据已解析的路网描述构建路网
// 功能：依次初始化路口、道路，再建立道路的路口归属与前驱后继，最后建立空间索引
// 参数：desc-路网描述
// 返回：路网
// 说明：重复ID、引用不存在的元素、非法车道类型等构造错误会panic
func New(desc *input.MapData) *RoadNetwork {
	m := &RoadNetwork{
		header:          desc.Header,
		roadManager:     road.NewManager(),
		junctionManager: junction.NewManager(),
	}
	m.junctionManager.Init(desc.Junctions, desc.JunctionGroups)
	m.roadManager.Init(desc.Roads)
	m.roadManager.InitAfterJunction(m.junctionManager)

	m.roads = m.roadManager.Roads()
	m.order = make(map[int32]int, len(m.roads))
	for i, r := range m.roads {
		m.order[r.ID()] = i
	}
	m.junctions = m.junctionManager.Junctions()
	m.groups = m.junctionManager.Groups()
	m.index = newRoadIndex(m.roads)
	log.Debugf("road network %s: %d roads, %d junctions, %d junction groups",
		m.header.Name, len(m.roads), len(m.junctions), len(m.groups))
	return m
}

func (m *RoadNetwork) String() string {
	return fmt.Sprintf("RoadNetwork(%s)", m.header.Name)
}

// 元数据

func (m *RoadNetwork) Name() string         { return m.header.Name }
func (m *RoadNetwork) Date() string         { return m.header.Date }
func (m *RoadNetwork) GeoReference() string { return m.header.GeoReference }
func (m *RoadNetwork) North() float64       { return m.header.North }
func (m *RoadNetwork) South() float64       { return m.header.South }
func (m *RoadNetwork) East() float64        { return m.header.East }
func (m *RoadNetwork) West() float64        { return m.header.West }

// Roads 所有道路，按描述顺序
func (m *RoadNetwork) Roads() []entity.IRoad {
	return m.roads
}

// Road 根据ID获取道路，如果不存在则panic
func (m *RoadNetwork) Road(id int32) entity.IRoad {
	return m.roadManager.Get(id)
}

// RoadOrError 根据ID获取道路，如果不存在则返回错误
func (m *RoadNetwork) RoadOrError(id int32) (entity.IRoad, error) {
	return m.roadManager.GetOrError(id)
}

// Junctions 所有路口，按描述顺序
func (m *RoadNetwork) Junctions() []entity.IJunction {
	return m.junctions
}

// Junction 根据ID获取路口，如果不存在则panic
func (m *RoadNetwork) Junction(id int32) entity.IJunction {
	return m.junctionManager.Get(id)
}

// JunctionGroups 所有路口组，按描述顺序
func (m *RoadNetwork) JunctionGroups() []entity.IJunctionGroup {
	return m.groups
}

// GetLane 按道路ID、车道ID、车道段序号获取车道
// 功能：道路不存在或车道段序号越界时panic，车道不存在时返回nil
func (m *RoadNetwork) GetLane(roadID, laneID int32, sectionIndex int) entity.ILane {
	l, err := m.GetLaneOrError(roadID, laneID, sectionIndex)
	if err != nil {
		log.Panicf("%v", err)
	}
	return l
}

// GetLaneOrError 按道路ID、车道ID、车道段序号获取车道
// 功能：道路不存在或车道段序号越界时返回错误，车道不存在时返回nil
func (m *RoadNetwork) GetLaneOrError(roadID, laneID int32, sectionIndex int) (entity.ILane, error) {
	r, err := m.roadManager.GetOrError(roadID)
	if err != nil {
		return nil, err
	}
	sections := r.LaneSections()
	if sectionIndex < 0 || sectionIndex >= len(sections) {
		return nil, fmt.Errorf("road %d has no lane section %d (total %d)", roadID, sectionIndex, len(sections))
	}
	return sections[sectionIndex].Lane(laneID), nil
}

// IsValid 检查路网几何是否合法
// 功能：所有道路、左右车道与路口的边界都必须非空且为合法多边形
// 返回：true表示合法
func (m *RoadNetwork) IsValid() bool {
	for _, r := range m.roads {
		if !r.Boundary().IsValid() {
			log.Debugf("%v has invalid boundary", r)
			return false
		}
		for _, s := range r.LaneSections() {
			for _, l := range s.AllLanes() {
				if l.ID() == 0 {
					continue
				}
				if !l.Boundary().IsValid() {
					log.Debugf("%v has invalid boundary", l)
					return false
				}
			}
		}
	}
	for _, j := range m.junctions {
		if !j.Boundary().IsValid() {
			log.Debugf("%v has invalid boundary", j)
			return false
		}
	}
	return true
}
