package task

import (
	"flag"
	"time"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/entity/agent"
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// observer 只能感知部分智能体的智能体
type observer interface {
	Observe(obs agent.Observation) agent.Observation
}

// prepare 准备阶段，每步执行一次
// 功能：推进时钟并定期输出心跳日志
func (ctx *Context) prepare() {
	ctx.clock.Next()
	if *heartBeatInterval > 0 && ctx.clock.InternalStep%int32(*heartBeatInterval) == 0 {
		hour, minute, second := ctx.clock.GetHourMinuteSecond()
		running := lo.CountBy(ctx.agents, func(a agent.Agent) bool { return ctx.status[a.ID()] == statusRunning })
		log.Infof(
			"STEP: %d(%d:%d:%.2f) running agents: %d",
			ctx.clock.InternalStep,
			hour, minute, second,
			running,
		)
	}
}

// update 更新阶段，每步执行一次
// 功能：按id顺序让每个运行中的智能体基于上一帧计算下一帧状态
// 说明：已完成或规划失败的智能体保持原状态；规划失败不会中止仿真
func (ctx *Context) update() {
	obs := agent.Observation{Frame: ctx.frame, ScenarioMap: ctx.network}
	next := ctx.frame.Clone()
	changed := make(map[int32]agentStatus)
	counts := make(map[agent.ExecState]int)
	for _, a := range ctx.agents {
		id := a.ID()
		switch ctx.status[id] {
		case statusDone:
			counts[agent.Exhausted]++
			continue
		case statusFailed:
			counts[agent.NoMacroAction]++
			continue
		}
		if a.Done(obs) {
			changed[id] = statusDone
			counts[agent.Exhausted]++
			ctx.metrics.AgentsDone.Inc()
			last, _ := a.Trajectory().Last()
			log.Infof("agent %d done at step %d: %v, path length %.2fm",
				id, ctx.clock.InternalStep, last, a.Trajectory().PathLength())
			continue
		}
		own := obs
		if o, ok := a.(observer); ok {
			own = o.Observe(obs)
		}
		state, err := a.NextState(own)
		if err != nil {
			changed[id] = statusFailed
			counts[agent.NoMacroAction]++
			ctx.metrics.PlanFailures.Inc()
			log.Warnf("agent %d stopped: %v", id, err)
			continue
		}
		next[id] = state
		counts[a.ExecState(agent.Observation{Frame: next, ScenarioMap: ctx.network})]++
	}
	for _, s := range []agent.ExecState{agent.NoMacroAction, agent.ExecutingMacroAction, agent.Exhausted} {
		ctx.metrics.AgentStates.WithLabelValues(s.String()).Set(float64(counts[s]))
	}
	ctx.commit(next, changed)
}

// finished 所有智能体均已结束
func (ctx *Context) finished() bool {
	return lo.EveryBy(ctx.agents, func(a agent.Agent) bool { return ctx.status[a.ID()] != statusRunning })
}

// Step 推进一帧
func (ctx *Context) Step() {
	start := time.Now()
	ctx.prepare()
	ctx.update()
	ctx.metrics.Steps.Inc()
	ctx.metrics.StepDuration.Observe(time.Since(start).Seconds())
	if ctx.bar != nil {
		_ = ctx.bar.Add(1)
	}
}

// Run 运行
// 功能：初始化后逐帧推进，直到到达结束帧、所有智能体结束或收到关闭指令
func (ctx *Context) Run() {
	// 初始化
	ctx.Init()
	ctx.Serve()
	for !ctx.clock.Finished() && !ctx.finished() && !ctx.closed.Load() {
		ctx.Step()
	}
	log.Infof("engine complete at step %d", ctx.clock.InternalStep)
	ctx.Close()
}

// Results 每个智能体的闭环轨迹
func (ctx *Context) Results() map[int32]*entity.StateTrajectory {
	return lo.SliceToMap(ctx.agents, func(a agent.Agent) (int32, *entity.StateTrajectory) {
		return a.ID(), a.Trajectory()
	})
}
