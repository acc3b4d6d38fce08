package entity

import (
	"fmt"

	"github.com/tsinghua-fib-lab/macrodrive/utils/shape"
)

// 道路前驱/后继连接，Road与Junction至多一个非空
type Link struct {
	Road     IRoad
	Junction IJunction
}

// IsEmpty 是否没有连接
func (l Link) IsEmpty() bool {
	return l.Road == nil && l.Junction == nil
}

func (l Link) String() string {
	switch {
	case l.Road != nil:
		return fmt.Sprintf("Link{Road=%d}", l.Road.ID())
	case l.Junction != nil:
		return fmt.Sprintf("Link{Junction=%d}", l.Junction.ID())
	}
	return "Link{}"
}

// 车道标线（仅存储）
type LaneMarking struct {
	Type  string
	Color string
	Width float64
}

// 车道唯一标识
type LaneKey struct {
	RoadID  int32
	Section int
	LaneID  int32
}

func (k LaneKey) String() string {
	return fmt.Sprintf("%d.%d.%d", k.RoadID, k.Section, k.LaneID)
}

// entity/road/road.go的依赖倒置
type IRoad interface {
	// 初始化

	SetJunctionWhenInit(junction IJunction)    // 设置所属路口
	SetLinksWhenInit(predecessor, successor Link) // 设置前驱后继

	String() string

	ID() int32
	Name() string
	Boundary() *shape.Boundary   // 道路边界
	Midline() *shape.Curve       // 道路参考线
	Predecessor() Link           // 前驱
	Successor() Link             // 后继
	LaneSections() []ILaneSection // 车道段（按道路方向排序）
	Junction() IJunction         // 所属路口，非路口内道路为nil
	Drivable() bool              // 是否包含可行驶车道
	HasRightLanes() bool         // 是否有右侧（id<0）车道
}

// entity/road/road.go中车道段的依赖倒置
type ILaneSection interface {
	Index() int           // 在道路中的序号
	Road() IRoad          // 所属道路
	AllLanes() []ILane    // 所有车道（含中心车道）
	LeftLanes() []ILane   // id>0的车道
	RightLanes() []ILane  // id<0的车道
	CenterLane() ILane    // id=0的车道，可能为nil
	Lane(id int32) ILane  // 按id查找车道，不存在时返回nil
}

// entity/lane/lane.go的依赖倒置
type ILane interface {
	SetParentSectionWhenInit(section ILaneSection) // 设置所在车道段

	String() string

	ID() int32
	Key() LaneKey
	Type() LaneType
	Drivable() bool
	Boundary() *shape.Boundary
	Midline() *shape.Curve
	Markings() []LaneMarking
	LaneSection() ILaneSection
	Road() IRoad
}

// entity/junction/junction.go的依赖倒置
type IJunction interface {
	AddRoadWhenInit(road IRoad) // 添加路口内道路

	String() string

	ID() int32
	Name() string
	Boundary() *shape.Boundary
	Roads() []IRoad         // 路口内道路，按道路描述顺序
	Group() IJunctionGroup  // 所属路口组，可能为nil
}

// entity/junction/group.go的依赖倒置
type IJunctionGroup interface {
	ID() int32
	Name() string
	Type() string
	JunctionIDs() []int32
	IsRoundabout() bool
}
