// 车辆动力学：将底层控制指令转换为下一帧的运动状态
package vehicle

import (
	"math"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/utils/config"
	"github.com/tsinghua-fib-lab/macrodrive/utils/randengine"
	"github.com/tsinghua-fib-lab/macrodrive/utils/shape"
)

// Vehicle 车辆动力学模型
type Vehicle interface {
	// ExecuteAction 执行一帧控制指令
	ExecuteAction(action entity.Action)
	// State 当前运动状态，Time字段取time
	State(time int32) entity.AgentState
	// Reset 恢复到初始状态
	Reset()
}

// Kinematic 运动学自行车模型
// 功能：加速度与前轮转角先叠加执行噪声再截断到车辆能力范围内，
// 速度按匀加速更新（刹停后不倒车），朝向变化量为 d/L·tan(δ)
type Kinematic struct {
	initial entity.AgentState
	state   entity.AgentState
	dt      float64
	attr    config.Vehicle
	rng     *randengine.Engine // 为nil时不加噪声
}

// NewKinematic 创建运动学车辆
// 参数：initial-初始状态，fps-帧率，attr-车辆参数（0值取默认），rng-噪声随机数引擎
func NewKinematic(initial entity.AgentState, fps int, attr config.Vehicle, rng *randengine.Engine) *Kinematic {
	if fps <= 0 {
		log.Panicf("invalid fps %d", fps)
	}
	if attr.Wheelbase <= 0 {
		attr.Wheelbase = config.DefaultWheelbase
	}
	if attr.MaxAcceleration <= 0 {
		attr.MaxAcceleration = config.DefaultMaxAcceleration
	}
	if attr.MaxSteering <= 0 {
		attr.MaxSteering = config.DefaultMaxSteering
	}
	return &Kinematic{
		initial: initial,
		state:   initial,
		dt:      1 / float64(fps),
		attr:    attr,
		rng:     rng,
	}
}

// computeVAndDistance 匀加速运动一步后的速度与行驶距离，减速到0时停止
func computeVAndDistance(v, a, dt float64) (float64, float64) {
	dv := a * dt
	if v+dv < 0 {
		// 刹车到停止
		return 0, v * v / 2 / -a
	}
	return v + dv, (v + dv/2) * dt
}

func (k *Kinematic) noise() float64 {
	if k.rng == nil {
		return 0
	}
	return k.rng.Gaussian(k.attr.NoiseStd)
}

func (k *Kinematic) ExecuteAction(action entity.Action) {
	acc := lo.Clamp(action.Acceleration+k.noise(), -k.attr.MaxAcceleration, k.attr.MaxAcceleration)
	steering := lo.Clamp(action.Steering+k.noise(), -k.attr.MaxSteering, k.attr.MaxSteering)

	v, d := computeVAndDistance(k.state.Velocity, acc, k.dt)
	dHeading := d / k.attr.Wheelbase * math.Tan(steering)
	// 按中点朝向前进
	mid := k.state.Heading + dHeading/2
	k.state.Position.X += d * math.Cos(mid)
	k.state.Position.Y += d * math.Sin(mid)
	k.state.Heading = shape.NormalizeAngle(k.state.Heading + dHeading)
	k.state.Velocity = v
	k.state.Acceleration = acc
	k.state.Time++
}

func (k *Kinematic) State(time int32) entity.AgentState {
	s := k.state
	s.Time = time
	return s
}

func (k *Kinematic) Reset() {
	k.state = k.initial
}
