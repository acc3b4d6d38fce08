package junction

import (
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/utils/input"
	"github.com/tsinghua-fib-lab/macrodrive/utils/shape"
)

// Junction 路口实体
// 功能：表示道路交汇区域，包含边界（可由多个多边形组成）与路口内连接道路
type Junction struct {
	id       int32
	name     string
	boundary *shape.Boundary
	roads    []entity.IRoad        // 路口内道路，按道路描述顺序
	group    entity.IJunctionGroup // 所属路口组
}

// newJunction 创建并初始化一个新的Junction实例
func newJunction(base input.JunctionData) *Junction {
	j := &Junction{
		id:    base.ID,
		name:  base.Name,
		roads: make([]entity.IRoad, 0),
	}
	polygons := make([][][]geometry.Point, 0, len(base.Boundary))
	for _, p := range base.Boundary {
		polygons = append(polygons, input.Rings(p))
	}
	j.boundary = shape.NewMultiPolygon(polygons...)
	return j
}

// AddRoadWhenInit 添加路口内道路
func (j *Junction) AddRoadWhenInit(road entity.IRoad) {
	j.roads = append(j.roads, road)
}

func (j *Junction) String() string {
	return fmt.Sprintf("Junction(%d)", j.id)
}

func (j *Junction) ID() int32 {
	return j.id
}

func (j *Junction) Name() string {
	return j.name
}

// Boundary 路口边界，可能为nil
func (j *Junction) Boundary() *shape.Boundary {
	return j.boundary
}

func (j *Junction) Roads() []entity.IRoad {
	return j.roads
}

// Group 所属路口组，可能为nil
func (j *Junction) Group() entity.IJunctionGroup {
	return j.group
}
