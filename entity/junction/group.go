package junction

import (
	"fmt"

	"github.com/tsinghua-fib-lab/macrodrive/utils/input"
)

// 环岛类型标记
const RoundaboutType = "roundabout"

// Group 路口组
// 功能：将若干路口组织为一个整体（如环岛）
type Group struct {
	id          int32
	name        string
	typ         string
	junctionIDs []int32
}

func newGroup(base input.JunctionGroupData) *Group {
	return &Group{
		id:          base.ID,
		name:        base.Name,
		typ:         base.Type,
		junctionIDs: append([]int32{}, base.JunctionIDs...),
	}
}

func (g *Group) String() string {
	return fmt.Sprintf("JunctionGroup(%d, %s)", g.id, g.typ)
}

func (g *Group) ID() int32 {
	return g.id
}

func (g *Group) Name() string {
	return g.name
}

func (g *Group) Type() string {
	return g.typ
}

func (g *Group) JunctionIDs() []int32 {
	return g.junctionIDs
}

func (g *Group) IsRoundabout() bool {
	return g.typ == RoundaboutType
}
