package entity

import "github.com/tsinghua-fib-lab/macrodrive/utils/input"

// Manager依赖倒置

// entity/road/manager.go的依赖倒置
type IRoadManager interface {
	Init(datas []input.RoadData)                        // 初始化
	InitAfterJunction(junctionManager IJunctionManager) // 初始化所有Road的Junction关系与前驱后继

	// 输入Road ID，查找Road，如果不存在则panic
	Get(id int32) IRoad
	// 输入Road ID，查找Road，如果不存在则返回error
	GetOrError(id int32) (IRoad, error)
	// 所有Road，按描述顺序
	Roads() []IRoad
}

// entity/junction/manager.go的依赖倒置
type IJunctionManager interface {
	Init(datas []input.JunctionData, groups []input.JunctionGroupData) // 初始化

	// 输入Junction ID，查找Junction，如果不存在则panic
	Get(id int32) IJunction
	// 输入Junction ID，查找Junction，如果不存在则返回error
	GetOrError(id int32) (IJunction, error)
	// 所有Junction，按描述顺序
	Junctions() []IJunction
	// 所有JunctionGroup，按描述顺序
	Groups() []IJunctionGroup
}
