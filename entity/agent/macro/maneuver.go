package macro

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/utils/shape"
)

const (
	DefaultTargetSpeed  = 10.0 // 沿车道行驶的目标速度（m/s）
	TurnSpeed           = 5.0  // 路口内转弯的目标速度（m/s）
	DefaultStopDuration = 2.0  // 默认停车时长（s）

	wheelbase        = 2.5 // 纯追踪使用的轴距（m）
	maxAcceleration  = 5.0 // 最大加速度（m/s^2）
	stopDeceleration = 5.0 // 最大减速度（m/s^2）
	idmTheta         = 4   // IDM速度指数
	minLookahead     = 3.0 // 最小预瞄距离（m）
	lookaheadTime    = 0.5 // 预瞄时间（s）
	arriveDistance   = 1.0 // 距路径终点小于该值视为完成（m）
)

func agentState(obs Observation, agentID int32) entity.AgentState {
	state, ok := obs.Frame[agentID]
	if !ok {
		log.Panicf("agent %d not in frame", agentID)
	}
	return state
}

// freeRoadAcceleration 无前车时IDM模型的加速度
// a = maxA * (1 - (v/targetV)^4)
func freeRoadAcceleration(v, targetV float64) float64 {
	acc := maxAcceleration * (1 - math.Pow(v/targetV, idmTheta))
	return lo.Clamp(acc, -stopDeceleration, maxAcceleration)
}

// purePursuit 纯追踪算法计算前轮转角
// 功能：取路径上投影点前方lookahead处为预瞄点，δ = atan(2L·sin(α)/d)
func purePursuit(path *shape.Curve, state entity.AgentState) float64 {
	lookahead := math.Max(minLookahead, state.Velocity*lookaheadTime)
	target, _ := path.Calc(path.Project(state.Position) + lookahead)
	dx, dy := target.X-state.Position.X, target.Y-state.Position.Y
	d := math.Hypot(dx, dy)
	if d < 1e-6 {
		return 0
	}
	alpha := shape.NormalizeAngle(math.Atan2(dy, dx) - state.Heading)
	return math.Atan2(2*wheelbase*math.Sin(alpha), d)
}

// travelSteps 以speed走完length所需的帧数，至少为1
func travelSteps(length, speed float64, fps int) int {
	return max(1, int(math.Ceil(length/speed*float64(fps))))
}

// FollowLane 沿路径行驶
// 闭环：距路径终点小于arriveDistance时完成；开环：执行满预计帧数后完成
type FollowLane struct {
	agentID     int32
	path        *shape.Curve
	targetSpeed float64
	openLoop    bool
	steps       int // 开环预计帧数
	executed    int
}

func newFollowLane(agentID int32, path *shape.Curve, targetSpeed float64, openLoop bool, fps int) *FollowLane {
	return &FollowLane{
		agentID:     agentID,
		path:        path,
		targetSpeed: targetSpeed,
		openLoop:    openLoop,
		steps:       travelSteps(path.Length(), targetSpeed, fps),
	}
}

func (f *FollowLane) String() string {
	return fmt.Sprintf("FollowLane(length=%.1f, v=%.1f)", f.path.Length(), f.targetSpeed)
}

func (f *FollowLane) Path() *shape.Curve {
	return f.path
}

func (f *FollowLane) Done(obs Observation) bool {
	if f.openLoop {
		return f.executed >= f.steps
	}
	state := agentState(obs, f.agentID)
	return f.path.Length()-f.path.Project(state.Position) <= arriveDistance
}

func (f *FollowLane) NextAction(obs Observation) entity.Action {
	f.executed++
	state := agentState(obs, f.agentID)
	return entity.Action{
		Acceleration: freeRoadAcceleration(state.Velocity, f.targetSpeed),
		Steering:     purePursuit(f.path, state),
	}
}

// StopManeuver 刹停并保持指定时长
type StopManeuver struct {
	agentID  int32
	duration float64
	fps      int
	steps    int
	executed int
}

func newStopManeuver(agentID int32, duration float64, fps int) *StopManeuver {
	return &StopManeuver{
		agentID:  agentID,
		duration: duration,
		fps:      fps,
		steps:    max(1, int(math.Ceil(duration*float64(fps)))),
	}
}

func (s *StopManeuver) String() string {
	return fmt.Sprintf("Stop(duration=%.1f)", s.duration)
}

func (s *StopManeuver) Done(obs Observation) bool {
	return s.executed >= s.steps
}

func (s *StopManeuver) NextAction(obs Observation) entity.Action {
	s.executed++
	state := agentState(obs, s.agentID)
	// 一帧内即可停下时只施加恰好停车的减速度
	return entity.Action{Acceleration: -math.Min(stopDeceleration, state.Velocity*float64(s.fps))}
}
