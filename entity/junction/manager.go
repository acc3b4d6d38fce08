package junction

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/utils/input"
)

// JunctionManager Junction管理器
// 功能：管理所有Junction与JunctionGroup实体，提供创建、查找功能
type JunctionManager struct {
	data      map[int32]*Junction
	junctions []*Junction
	groups    []*Group
}

// NewManager 创建Junction管理器实例
func NewManager() *JunctionManager {
	return &JunctionManager{
		data:      make(map[int32]*Junction),
		junctions: make([]*Junction, 0),
		groups:    make([]*Group, 0),
	}
}

// Init 初始化所有Junction与JunctionGroup
// 功能：创建路口与路口组，并根据路口组的成员列表设置路口的所属路口组
// 参数：datas-路口描述列表，groups-路口组描述列表
// 说明：重复ID或路口组引用不存在的路口视为构造错误并panic
func (m *JunctionManager) Init(datas []input.JunctionData, groups []input.JunctionGroupData) {
	for _, d := range datas {
		if _, ok := m.data[d.ID]; ok {
			log.Panicf("duplicated junction id %d", d.ID)
		}
		j := newJunction(d)
		m.junctions = append(m.junctions, j)
		m.data[j.id] = j
	}
	groupIDs := make(map[int32]struct{}, len(groups))
	for _, gd := range groups {
		if _, ok := groupIDs[gd.ID]; ok {
			log.Panicf("duplicated junction group id %d", gd.ID)
		}
		groupIDs[gd.ID] = struct{}{}
		g := newGroup(gd)
		m.groups = append(m.groups, g)
		for _, id := range g.junctionIDs {
			j, ok := m.data[id]
			if !ok {
				log.Panicf("junction group %d: no id %d in junction data", g.id, id)
			}
			if j.group != nil {
				log.Warnf("junction %d belongs to groups %d and %d, keep the latter", id, j.group.ID(), g.id)
			}
			j.group = g
		}
	}
}

// Get 根据ID获取Junction实例，如果不存在则panic
func (m *JunctionManager) Get(id int32) entity.IJunction {
	if junction, ok := m.data[id]; !ok {
		log.Panicf("no id %d in junction data", id)
		return nil
	} else {
		return junction
	}
}

// GetOrError 根据ID获取Junction实例，如果不存在则返回错误
func (m *JunctionManager) GetOrError(id int32) (entity.IJunction, error) {
	if junction, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %d in junction data", id)
	} else {
		return junction, nil
	}
}

// Junctions 所有Junction，按描述顺序
func (m *JunctionManager) Junctions() []entity.IJunction {
	return lo.Map(m.junctions, func(j *Junction, _ int) entity.IJunction { return j })
}

// Groups 所有JunctionGroup，按描述顺序
func (m *JunctionManager) Groups() []entity.IJunctionGroup {
	return lo.Map(m.groups, func(g *Group, _ int) entity.IJunctionGroup { return g })
}
