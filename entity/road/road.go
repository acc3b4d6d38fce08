package road

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/utils/input"
	"github.com/tsinghua-fib-lab/macrodrive/utils/shape"
)

// Road 道路实体
// 功能：表示地图中的道路，包含边界、参考线、车道段与前驱后继连接
type Road struct {
	id       int32
	name     string
	boundary *shape.Boundary
	midline  *shape.Curve
	sections []entity.ILaneSection

	// 初始化临时变量

	initJunctionID  *int32
	initPredecessor *input.LinkData
	initSuccessor   *input.LinkData

	junction    entity.IJunction // 所属路口
	predecessor entity.Link      // 前驱
	successor   entity.Link      // 后继

	drivable      bool // 是否包含可行驶车道
	hasRightLanes bool // 是否有id<0的车道
}

// newRoad 创建并初始化一个新的Road实例
// 功能：根据道路描述创建Road对象，构造几何与车道段
// 参数：base-道路描述
// 返回：初始化完成的Road实例
// 说明：路口与前驱后继在InitAfterJunction阶段建立
func newRoad(base input.RoadData) *Road {
	r := &Road{
		id:              base.ID,
		name:            base.Name,
		midline:         shape.NewCurve(input.Points(base.Midline)),
		initJunctionID:  base.Junction,
		initPredecessor: base.Predecessor,
		initSuccessor:   base.Successor,
	}
	if len(base.Boundary) > 0 {
		r.boundary = shape.NewPolygon(input.Rings(base.Boundary)...)
	}
	if r.midline == nil {
		log.Panicf("road %d: midline needs at least 2 points", r.id)
	}
	for i, sd := range base.LaneSections {
		r.sections = append(r.sections, newLaneSection(r, i, sd))
	}
	for _, s := range r.sections {
		if lo.SomeBy(s.AllLanes(), func(l entity.ILane) bool { return l.Drivable() }) {
			r.drivable = true
		}
		if len(s.RightLanes()) > 0 {
			r.hasRightLanes = true
		}
	}
	return r
}

// SetJunctionWhenInit 设置所属路口
func (r *Road) SetJunctionWhenInit(junction entity.IJunction) {
	r.junction = junction
}

// SetLinksWhenInit 设置前驱后继
func (r *Road) SetLinksWhenInit(predecessor, successor entity.Link) {
	r.predecessor = predecessor
	r.successor = successor
}

// initAfterJunction 在Junction初始化后设置Road的路口归属与前驱后继
// 功能：解析描述中的路口ID与链接，建立指针关系，并把自身加入所属路口
// 参数：roadManager-Road管理器，junctionManager-Junction管理器
// 说明：链接到不存在的元素视为构造错误并panic
func (r *Road) initAfterJunction(roadManager entity.IRoadManager, junctionManager entity.IJunctionManager) {
	if r.initJunctionID != nil {
		j := junctionManager.Get(*r.initJunctionID)
		r.SetJunctionWhenInit(j)
		j.AddRoadWhenInit(r)
	}
	resolve := func(data *input.LinkData) entity.Link {
		if data == nil {
			return entity.Link{}
		}
		switch data.ElementType {
		case "road":
			return entity.Link{Road: roadManager.Get(data.ElementID)}
		case "junction":
			return entity.Link{Junction: junctionManager.Get(data.ElementID)}
		default:
			log.Panicf("road %d: bad link element type %q", r.id, data.ElementType)
		}
		return entity.Link{}
	}
	r.SetLinksWhenInit(resolve(r.initPredecessor), resolve(r.initSuccessor))
	r.initJunctionID = nil
	r.initPredecessor = nil
	r.initSuccessor = nil
}

func (r *Road) String() string {
	return fmt.Sprintf("Road(%d)", r.id)
}

func (r *Road) ID() int32 {
	return r.id
}

func (r *Road) Name() string {
	return r.name
}

func (r *Road) Boundary() *shape.Boundary {
	return r.boundary
}

func (r *Road) Midline() *shape.Curve {
	return r.midline
}

func (r *Road) Predecessor() entity.Link {
	return r.predecessor
}

func (r *Road) Successor() entity.Link {
	return r.successor
}

func (r *Road) LaneSections() []entity.ILaneSection {
	return r.sections
}

func (r *Road) Junction() entity.IJunction {
	return r.junction
}

func (r *Road) Drivable() bool {
	return r.drivable
}

func (r *Road) HasRightLanes() bool {
	return r.hasRightLanes
}
