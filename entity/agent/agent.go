// 智能体：执行宏动作并通过车辆模型推进自身状态
package agent

import (
	"errors"
	"fmt"
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/entity/agent/macro"
	"github.com/tsinghua-fib-lab/macrodrive/entity/vehicle"
)

// Observation 当前帧所有智能体状态与路网
type Observation = macro.Observation

var (
	ErrNoPath    = errors.New("no path to goal")
	ErrNoGoal    = errors.New("agent has no goal")
	ErrNoPlanner = errors.New("agent has no route planner")
)

// ExecState 宏动作执行状态
type ExecState int

const (
	NoMacroAction        ExecState = iota // 尚未设置宏动作
	ExecutingMacroAction                  // 正在执行宏动作
	Exhausted                             // 宏动作已全部完成
)

var execStateNames = map[ExecState]string{
	NoMacroAction:        "NoMacroAction",
	ExecutingMacroAction: "ExecutingMacroAction",
	Exhausted:            "Exhausted",
}

func (s ExecState) String() string {
	if name, ok := execStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ExecState(%d)", int(s))
}

// Agent 仿真循环驱动的智能体
type Agent interface {
	ID() int32
	// NextAction 当前帧的控制指令
	NextAction(obs Observation) (entity.Action, error)
	// NextState 执行控制指令后下一帧的状态
	NextState(obs Observation) (entity.AgentState, error)
	Done(obs Observation) bool
	ExecState(obs Observation) ExecState
	Reset()
	Trajectory() *entity.StateTrajectory
}

// MacroAgent 执行单个宏动作的智能体
type MacroAgent struct {
	id           int32
	initialState entity.AgentState
	goal         entity.Goal
	fps          int
	vehicle      vehicle.Vehicle

	trajectory     *entity.StateTrajectory // 闭环轨迹，首个状态为初始状态
	currentMacro   macro.MacroAction
	maneuverEndIdx []int // 每个机动完成时闭环轨迹的下标
}

// NewMacroAgent 创建宏动作智能体
// 参数：id-智能体ID，initial-初始状态，goal-导航目标（可为nil），fps-帧率，v-车辆模型
func NewMacroAgent(id int32, initial entity.AgentState, goal entity.Goal, fps int, v vehicle.Vehicle) *MacroAgent {
	return &MacroAgent{
		id:           id,
		initialState: initial,
		goal:         goal,
		fps:          fps,
		vehicle:      v,
		trajectory:   entity.NewStateTrajectory(fps, initial),
	}
}

func (m *MacroAgent) String() string {
	return fmt.Sprintf("MacroAgent{id=%d, macro=%v}", m.id, m.currentMacro)
}

func (m *MacroAgent) ID() int32 {
	return m.id
}

func (m *MacroAgent) Goal() entity.Goal {
	return m.goal
}

func (m *MacroAgent) InitialState() entity.AgentState {
	return m.initialState
}

// CurrentMacro 当前宏动作，未设置时为nil
func (m *MacroAgent) CurrentMacro() macro.MacroAction {
	return m.currentMacro
}

// ManeuverEndIdx 每个机动完成时闭环轨迹的下标
func (m *MacroAgent) ManeuverEndIdx() []int {
	return m.maneuverEndIdx
}

// Trajectory 闭环轨迹
func (m *MacroAgent) Trajectory() *entity.StateTrajectory {
	return m.trajectory
}

func (m *MacroAgent) mustHaveMacro() {
	if m.currentMacro == nil {
		log.Panicf("macro action of agent %d is nil", m.id)
	}
}

// act 当前机动已完成时记录完成下标，再由宏动作计算控制指令
func (m *MacroAgent) act(obs Observation) entity.Action {
	if cm := m.currentMacro.CurrentManeuver(); cm != nil && cm.Done(obs) {
		m.maneuverEndIdx = append(m.maneuverEndIdx, m.trajectory.Len()-1)
	}
	return m.currentMacro.NextAction(obs)
}

// NextAction 当前宏动作的下一条控制指令，未设置宏动作时panic
func (m *MacroAgent) NextAction(obs Observation) (entity.Action, error) {
	m.mustHaveMacro()
	return m.act(obs), nil
}

// step 计算控制指令并交给车辆执行，返回time+1帧的状态并记入闭环轨迹
func (m *MacroAgent) step(obs Observation, next func(Observation) (entity.Action, error)) (entity.AgentState, error) {
	action, err := next(obs)
	if err != nil {
		return entity.AgentState{}, err
	}
	prev, ok := obs.Frame[m.id]
	if !ok {
		prev, _ = m.trajectory.Last()
	}
	m.vehicle.ExecuteAction(action)
	state := m.vehicle.State(prev.Time + 1)
	m.trajectory.AddState(state)
	return state, nil
}

func (m *MacroAgent) NextState(obs Observation) (entity.AgentState, error) {
	return m.step(obs, m.NextAction)
}

// Done 当前宏动作是否完成，未设置宏动作时panic
func (m *MacroAgent) Done(obs Observation) bool {
	m.mustHaveMacro()
	return m.currentMacro.Done(obs)
}

func (m *MacroAgent) ExecState(obs Observation) ExecState {
	switch {
	case m.currentMacro == nil:
		return NoMacroAction
	case m.currentMacro.Done(obs):
		return Exhausted
	}
	return ExecutingMacroAction
}

// Reset 车辆回到初始状态，清空宏动作与轨迹
func (m *MacroAgent) Reset() {
	m.vehicle.Reset()
	m.currentMacro = nil
	m.maneuverEndIdx = nil
	m.trajectory = entity.NewStateTrajectory(m.fps, m.initialState)
}

// UpdateMacroAction 以指定类型的宏动作替换当前宏动作
// 算法说明：
// 1. 枚举当前状态下该类型宏动作的可行参数
// 2. Exit有多个候选时只保留驶出目标点距导航目标中心最近的一个
// 3. 按顺序构造每组参数对应的宏动作并依次设为当前宏动作，最后一个构造成功的生效
func (m *MacroAgent) UpdateMacroAction(kind macro.Kind, obs Observation) error {
	if m.goal == nil {
		return fmt.Errorf("update %v for agent %d: %w", kind, m.id, ErrNoGoal)
	}
	state, ok := obs.Frame[m.id]
	if !ok {
		return fmt.Errorf("update %v: agent %d not in frame", kind, m.id)
	}
	center := m.goal.Center()
	candidates := kind.PossibleArgs(state, obs.ScenarioMap, center)
	if len(candidates) > 1 && kind == macro.KindExit {
		withTarget := lo.Filter(candidates, func(a macro.Args, _ int) bool { return a.TurnTarget != nil })
		if len(withTarget) > 0 {
			closest := lo.MinBy(withTarget, func(a, b macro.Args) bool {
				return dist(*a.TurnTarget, center) < dist(*b.TurnTarget, center)
			})
			candidates = []macro.Args{closest}
		}
	}
	if len(candidates) == 0 {
		log.Warnf("agent %d: %v not applicable at %v", m.id, kind, state)
		return fmt.Errorf("update %v for agent %d: %w", kind, m.id, macro.ErrNotApplicable)
	}
	if len(candidates) > 1 {
		log.Debugf("agent %d: %d candidates for %v, the last one is kept", m.id, len(candidates), kind)
	}
	var lastErr error
	installed := false
	for _, args := range candidates {
		args.FPS = m.fps
		ma, err := kind.New(m.id, obs.Frame, obs.ScenarioMap, false, args)
		if err != nil {
			lastErr = err
			continue
		}
		m.currentMacro = ma
		installed = true
	}
	if !installed {
		return fmt.Errorf("update %v for agent %d: %w", kind, m.id, lastErr)
	}
	return nil
}

func dist(a, b geometry.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
