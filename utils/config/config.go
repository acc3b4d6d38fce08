package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// 默认参数
const (
	DefaultMaxIterations   = 1000
	DefaultWheelbase       = 2.5
	DefaultMaxAcceleration = 5.0
	DefaultMaxSteering     = 0.6
	DefaultViewRadius      = 50.0
)

var validate = validator.New()

// Load 解析并校验YAML配置
// 功能：使用严格模式解析YAML（未知字段报错），再按struct tag校验取值范围
// 参数：data-YAML文本
// 返回：配置对象与错误
func Load(data []byte) (Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return c, fmt.Errorf("config unmarshal err: %w", err)
	}
	if err := validate.Struct(c); err != nil {
		return c, fmt.Errorf("config validate err: %w", err)
	}
	return c, nil
}

// RuntimeConfig 运行时配置
// 功能：存储补齐默认值后的配置
type RuntimeConfig struct {
	All     Config  // 全部配置
	C       Control // 全局控制配置
	Vehicle Vehicle // 补齐默认值后的车辆配置
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：为未指定的规划迭代次数与车辆参数填充默认值
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{
		All:     config,
		C:       config.Control,
		Vehicle: config.Vehicle,
	}
	if rc.C.Planner.MaxIterations == 0 {
		rc.C.Planner.MaxIterations = DefaultMaxIterations
	}
	if rc.Vehicle.Wheelbase == 0 {
		rc.Vehicle.Wheelbase = DefaultWheelbase
	}
	if rc.Vehicle.MaxAcceleration == 0 {
		rc.Vehicle.MaxAcceleration = DefaultMaxAcceleration
	}
	if rc.Vehicle.MaxSteering == 0 {
		rc.Vehicle.MaxSteering = DefaultMaxSteering
	}
	for i := range rc.All.Agents {
		if rc.All.Agents[i].Type == "ego" && rc.All.Agents[i].ViewRadius == 0 {
			rc.All.Agents[i].ViewRadius = DefaultViewRadius
		}
	}
	return rc
}

