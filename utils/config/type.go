package config

// InputPath 指定输入数据来源的配置（MongoDB、文件系统）
// 功能：定义数据输入路径的配置结构，支持多种数据源
// 说明：File非空时优先从文件加载，否则从MongoDB的{db}.{col}中按name查找文档
type InputPath struct {
	DB   string `yaml:"db"`                             // 数据库名
	Col  string `yaml:"col"`                            // 集合名
	Name string `yaml:"name,omitempty"`                 // 文档名（MongoDB中header.name）
	File string `yaml:"file,omitempty" validate:"required_without=Col"` // 文件路径（优先级高于MongoDB）
}

// GetDb 获取数据库名
func (p InputPath) GetDb() string {
	return p.DB
}

// GetColl 获取集合名
func (p InputPath) GetColl() string {
	return p.Col
}

// Input 指定模拟器所有输入数据的配置项
type Input struct {
	URI string    `yaml:"uri"` // MongoDB连接字符串
	Map InputPath `yaml:"map"` // 地图
}

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
type ControlStep struct {
	Start    int32   `yaml:"start" validate:"gte=0"`    // 开始步数
	Total    int32   `yaml:"total" validate:"gt=0"`     // 总步数
	Interval float64 `yaml:"interval" validate:"gt=0"` // 每步的时间间隔（秒）
}

// Planner 路径规划配置
type Planner struct {
	MaxIterations int `yaml:"max_iterations,omitempty" validate:"gte=0"` // A*最大迭代次数，0表示使用默认值
}

// Control 模拟器控制配置
type Control struct {
	Step     ControlStep `yaml:"step"`
	Planner  Planner     `yaml:"planner,omitempty"`
	Progress bool        `yaml:"progress,omitempty"` // 是否在终端显示进度条
}

// Vehicle 车辆运动学模型配置
type Vehicle struct {
	Wheelbase       float64 `yaml:"wheelbase,omitempty" validate:"gte=0"`        // 轴距（m）
	MaxAcceleration float64 `yaml:"max_acceleration,omitempty" validate:"gte=0"` // 最大加/减速度（m/s^2）
	MaxSteering     float64 `yaml:"max_steering,omitempty" validate:"gte=0"`     // 最大前轮转角（弧度）
	NoiseStd        float64 `yaml:"noise_std,omitempty" validate:"gte=0"`        // 执行噪声标准差
	Seed            uint64  `yaml:"seed,omitempty"`                              // 噪声随机种子
}

// XY 平面坐标
type XY struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Goal 智能体导航目标
type Goal struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius" validate:"gt=0"` // 到达判定半径
}

// Agent 智能体配置
type Agent struct {
	ID         int32   `yaml:"id"`
	Type       string  `yaml:"type" validate:"oneof=traffic ego"`  // traffic/ego
	Position   XY      `yaml:"position"`
	Heading    float64 `yaml:"heading"`
	Velocity   float64 `yaml:"velocity" validate:"gte=0"`
	Goal       Goal    `yaml:"goal"`
	ViewRadius float64 `yaml:"view_radius,omitempty" validate:"gte=0"` // 仅ego有效，0表示默认值
}

// Server 地图查询HTTP服务配置
type Server struct {
	Listen string `yaml:"listen,omitempty"` // 监听地址，为空则不启动
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
type Config struct {
	Input   Input   `yaml:"input"`                            // 输入
	Control Control `yaml:"control"`                          // 模拟过程控制
	Vehicle Vehicle `yaml:"vehicle,omitempty"`                // 车辆模型
	Agents  []Agent `yaml:"agents" validate:"unique=ID,dive"` // 智能体
	Server  Server  `yaml:"server,omitempty"`                 // HTTP服务
}
