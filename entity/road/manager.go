package road

import (
	"fmt"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/utils/input"
)

// RoadManager Road管理器
// 功能：管理所有Road实体，提供创建、查找、初始化功能
// 说明：roads保持道路描述中的顺序，所有空间查询按此顺序返回结果
type RoadManager struct {
	data  map[int32]*Road
	roads []*Road
}

// NewManager 创建Road管理器实例
func NewManager() *RoadManager {
	return &RoadManager{
		data:  make(map[int32]*Road),
		roads: make([]*Road, 0),
	}
}

// Init 初始化所有Road
// 功能：根据道路描述初始化所有Road对象，建立ID映射关系
// 参数：datas-道路描述列表
// 说明：重复ID视为构造错误并panic；几何构造使用并行处理
func (m *RoadManager) Init(datas []input.RoadData) {
	// 并行构造前在当前协程内完成检查，保证panic可被调用方recover
	seen := make(map[int32]struct{}, len(datas))
	for _, d := range datas {
		if _, ok := seen[d.ID]; ok {
			log.Panicf("duplicated road id %d", d.ID)
		}
		seen[d.ID] = struct{}{}
		check(d)
	}
	m.roads = parallel.GoMap(datas, func(d input.RoadData) *Road {
		return newRoad(d)
	})
	m.data = lo.SliceToMap(m.roads, func(r *Road) (int32, *Road) {
		return r.id, r
	})
}

func check(d input.RoadData) {
	if len(d.Midline) < 2 {
		log.Panicf("road %d: midline needs at least 2 points", d.ID)
	}
	for i, s := range d.LaneSections {
		ids := make(map[int32]struct{}, len(s.Lanes))
		for _, l := range s.Lanes {
			if _, ok := ids[l.ID]; ok {
				log.Panicf("road %d section %d: duplicated lane id %d", d.ID, i, l.ID)
			}
			ids[l.ID] = struct{}{}
			if _, err := entity.ParseLaneType(l.Type); err != nil {
				log.Panicf("lane %d.%d.%d: %v", d.ID, i, l.ID, err)
			}
		}
	}
}

// InitAfterJunction 初始化所有Road的Junction关系
// 功能：在所有Junction初始化完成后，设置Road的所属路口与前驱后继
// 参数：junctionManager-Junction管理器
// 说明：顺序处理，保证路口内道路列表与道路描述顺序一致
func (m *RoadManager) InitAfterJunction(junctionManager entity.IJunctionManager) {
	for _, r := range m.roads {
		r.initAfterJunction(m, junctionManager)
	}
}

// Get 根据ID获取Road实例，如果不存在则panic
func (m *RoadManager) Get(id int32) entity.IRoad {
	if road, ok := m.data[id]; !ok {
		log.Panicf("no id %d in road data", id)
		return nil
	} else {
		return road
	}
}

// GetOrError 根据ID获取Road实例，如果不存在则返回错误
func (m *RoadManager) GetOrError(id int32) (entity.IRoad, error) {
	if road, ok := m.data[id]; !ok {
		return nil, fmt.Errorf("no id %d in road data", id)
	} else {
		return road, nil
	}
}

// Roads 所有Road，按描述顺序
func (m *RoadManager) Roads() []entity.IRoad {
	return lo.Map(m.roads, func(r *Road, _ int) entity.IRoad { return r })
}
