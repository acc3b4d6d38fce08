package agent

import (
	"fmt"

	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/entity/agent/macro"
	"github.com/tsinghua-fib-lab/macrodrive/entity/agent/route"
	"github.com/tsinghua-fib-lab/macrodrive/entity/vehicle"
	"github.com/tsinghua-fib-lab/macrodrive/utils/config"
	"github.com/tsinghua-fib-lab/macrodrive/utils/container"
)

// TrafficAgent 按宏动作序列行驶的智能体，序列为空时调用规划器生成
type TrafficAgent struct {
	*MacroAgent
	plan          *container.Queue[macro.MacroAction]
	planner       route.Planner
	maxIterations int
}

// NewTrafficAgent 创建交通智能体
// 参数：planner-路径规划器，为nil时只能通过SetMacroActions设置宏动作序列
func NewTrafficAgent(
	id int32, initial entity.AgentState, goal entity.Goal, fps int,
	v vehicle.Vehicle, planner route.Planner,
) *TrafficAgent {
	return &TrafficAgent{
		MacroAgent:    NewMacroAgent(id, initial, goal, fps, v),
		plan:          container.NewQueue[macro.MacroAction](),
		planner:       planner,
		maxIterations: config.DefaultMaxIterations,
	}
}

func (t *TrafficAgent) String() string {
	return fmt.Sprintf("TrafficAgent{id=%d, macro=%v, pending=%d}", t.id, t.currentMacro, t.plan.Len())
}

// SetMaxIterations 规划器的最大迭代次数
func (t *TrafficAgent) SetMaxIterations(n int) {
	if n > 0 {
		t.maxIterations = n
	}
}

// SetMacroActions 替换待执行的宏动作序列，序列不能为空
func (t *TrafficAgent) SetMacroActions(actions []macro.MacroAction) {
	if len(actions) == 0 {
		log.Panicf("empty macro action list given to agent %d", t.id)
	}
	t.plan = container.NewQueue(actions...)
}

// MacroActions 待执行的宏动作
func (t *TrafficAgent) MacroActions() []macro.MacroAction {
	return t.plan.Items()
}

// SetDestination 规划到达goal的宏动作序列
// 参数：goal-新的导航目标，为nil时使用当前目标
// 返回：没有目标或规划器时返回ErrNoGoal/ErrNoPlanner，规划失败返回ErrNoPath，失败时序列保持不变
func (t *TrafficAgent) SetDestination(obs Observation, goal entity.Goal) error {
	if goal != nil {
		t.goal = goal
	}
	if t.goal == nil {
		return fmt.Errorf("set destination of agent %d: %w", t.id, ErrNoGoal)
	}
	if t.planner == nil {
		return fmt.Errorf("set destination of agent %d: %w", t.id, ErrNoPlanner)
	}
	log.Debugf("finding path for agent %d", t.id)
	_, plans := t.planner.Search(t.id, obs.Frame, t.goal, obs.ScenarioMap, false, t.maxIterations)
	if len(plans) == 0 || len(plans[0]) == 0 {
		return fmt.Errorf("agent %d to %v: %w", t.id, t.goal.Center(), ErrNoPath)
	}
	t.plan = container.NewQueue(plans[0]...)
	return nil
}

func (t *TrafficAgent) advance() {
	next, _ := t.plan.Pop()
	t.currentMacro = next
	log.Debugf("agent %d starts %v, %d pending", t.id, next, t.plan.Len())
}

// NextAction 当前宏动作完成时切换到序列中的下一个，序列耗尽后返回零指令
func (t *TrafficAgent) NextAction(obs Observation) (entity.Action, error) {
	if t.currentMacro == nil {
		if t.plan.Empty() {
			if err := t.SetDestination(obs, nil); err != nil {
				return entity.Action{}, err
			}
		}
		t.advance()
	}
	if t.currentMacro.Done(obs) {
		if t.plan.Empty() {
			return entity.Action{}, nil
		}
		t.advance()
	}
	return t.act(obs), nil
}

func (t *TrafficAgent) NextState(obs Observation) (entity.AgentState, error) {
	return t.step(obs, t.NextAction)
}

// Done 序列为空且当前宏动作已完成，尚未开始执行时为false
func (t *TrafficAgent) Done(obs Observation) bool {
	return t.plan.Empty() && t.currentMacro != nil && t.currentMacro.Done(obs)
}

func (t *TrafficAgent) ExecState(obs Observation) ExecState {
	switch {
	case t.currentMacro == nil:
		return NoMacroAction
	case t.Done(obs):
		return Exhausted
	}
	return ExecutingMacroAction
}

// Reset 恢复初始状态并清空宏动作序列
func (t *TrafficAgent) Reset() {
	t.MacroAgent.Reset()
	t.plan.Clear()
}
