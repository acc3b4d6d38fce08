package entity

import (
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/geometry"
)

// AgentState 智能体在某一帧的运动状态
type AgentState struct {
	Time         int32          // 帧序号
	Position     geometry.Point // 位置
	Velocity     float64        // 速度（m/s）
	Acceleration float64        // 加速度（m/s^2）
	Heading      float64        // 朝向（弧度）
}

func (s AgentState) String() string {
	return fmt.Sprintf("AgentState{t=%d, pos=(%.2f,%.2f), v=%.2f, a=%.2f, heading=%.3f}",
		s.Time, s.Position.X, s.Position.Y, s.Velocity, s.Acceleration, s.Heading)
}

// Action 底层控制指令
type Action struct {
	Acceleration float64 // 加速度
	Steering     float64 // 前轮转角
}

// Frame 同一时刻所有智能体的状态
type Frame map[int32]AgentState

// Clone 复制帧
func (f Frame) Clone() Frame {
	next := make(Frame, len(f)+1)
	for k, v := range f {
		next[k] = v
	}
	return next
}

// With 返回替换了id对应状态的新帧，不修改原帧
func (f Frame) With(id int32, state AgentState) Frame {
	next := f.Clone()
	next[id] = state
	return next
}

// StateTrajectory 按帧记录的状态轨迹
type StateTrajectory struct {
	fps    int
	states []AgentState
}

func NewStateTrajectory(fps int, states ...AgentState) *StateTrajectory {
	return &StateTrajectory{fps: fps, states: append([]AgentState{}, states...)}
}

// AddState 追加一个状态
func (t *StateTrajectory) AddState(s AgentState) {
	t.states = append(t.states, s)
}

func (t *StateTrajectory) States() []AgentState {
	return t.states
}

func (t *StateTrajectory) Len() int {
	return len(t.states)
}

func (t *StateTrajectory) FPS() int {
	return t.fps
}

// Last 最后一个状态
func (t *StateTrajectory) Last() (AgentState, bool) {
	if len(t.states) == 0 {
		return AgentState{}, false
	}
	return t.states[len(t.states)-1], true
}

// PathLength 轨迹经过的路程
func (t *StateTrajectory) PathLength() float64 {
	length := 0.0
	for i := 1; i < len(t.states); i++ {
		a, b := t.states[i-1].Position, t.states[i].Position
		length += math.Hypot(b.X-a.X, b.Y-a.Y)
	}
	return length
}

// Duration 轨迹时长（秒）
func (t *StateTrajectory) Duration() float64 {
	if len(t.states) < 2 || t.fps <= 0 {
		return 0
	}
	return float64(len(t.states)-1) / float64(t.fps)
}
