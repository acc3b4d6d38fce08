package lane

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/utils/input"
	"github.com/tsinghua-fib-lab/macrodrive/utils/shape"
)

// Lane 车道实体
// 功能：表示车道段中的一条车道，包含边界、中心线、类型与标线
// 说明：id>0为左侧车道（与道路参考线方向相反），id<0为右侧车道，id=0为中心车道
type Lane struct {
	id       int32
	roadID   int32
	section  int
	typ      entity.LaneType
	boundary *shape.Boundary
	midline  *shape.Curve
	markings []entity.LaneMarking

	parentSection entity.ILaneSection // 所在车道段
}

// New 创建并初始化一个新的Lane实例
// 功能：根据车道描述构造边界与中心线，解析车道类型
// 参数：roadID-所在道路ID，section-所在车道段序号，base-车道描述
// 返回：初始化完成的Lane实例
// 说明：未知车道类型视为构造错误并panic
func New(roadID int32, section int, base input.LaneData) *Lane {
	typ, err := entity.ParseLaneType(base.Type)
	if err != nil {
		log.Panicf("lane %d.%d.%d: %v", roadID, section, base.ID, err)
	}
	l := &Lane{
		id:      base.ID,
		roadID:  roadID,
		section: section,
		typ:     typ,
		markings: lo.Map(base.Markings, func(m input.LaneMarkingData, _ int) entity.LaneMarking {
			return entity.LaneMarking{Type: m.Type, Color: m.Color, Width: m.Width}
		}),
	}
	if len(base.Boundary) > 0 {
		l.boundary = shape.NewPolygon(input.Rings(base.Boundary)...)
	}
	l.midline = shape.NewCurve(input.Points(base.Midline))
	return l
}

// SetParentSectionWhenInit 设置lane所在车道段
func (l *Lane) SetParentSectionWhenInit(section entity.ILaneSection) {
	l.parentSection = section
}

func (l *Lane) String() string {
	return fmt.Sprintf("Lane(%v)", l.Key())
}

func (l *Lane) ID() int32 {
	return l.id
}

func (l *Lane) Key() entity.LaneKey {
	return entity.LaneKey{RoadID: l.roadID, Section: l.section, LaneID: l.id}
}

func (l *Lane) Type() entity.LaneType {
	return l.typ
}

// Drivable 是否为机动车道
func (l *Lane) Drivable() bool {
	return l.typ == entity.LaneTypeDriving
}

// Boundary 车道边界，中心车道可能为nil
func (l *Lane) Boundary() *shape.Boundary {
	return l.boundary
}

// Midline 车道中心线（沿道路参考线方向），可能为nil
func (l *Lane) Midline() *shape.Curve {
	return l.midline
}

func (l *Lane) Markings() []entity.LaneMarking {
	return l.markings
}

func (l *Lane) LaneSection() entity.ILaneSection {
	return l.parentSection
}

func (l *Lane) Road() entity.IRoad {
	if l.parentSection == nil {
		return nil
	}
	return l.parentSection.Road()
}
