package agent

import (
	"math"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/entity/agent/route"
	"github.com/tsinghua-fib-lab/macrodrive/entity/vehicle"
	"github.com/tsinghua-fib-lab/macrodrive/utils/config"
)

// EgoTrafficAgent 只能感知视野半径内其他智能体的交通智能体
type EgoTrafficAgent struct {
	*TrafficAgent
	viewRadius float64
}

// NewEgoTrafficAgent viewRadius<=0时取默认值50m
func NewEgoTrafficAgent(
	id int32, initial entity.AgentState, goal entity.Goal, fps int,
	v vehicle.Vehicle, planner route.Planner, viewRadius float64,
) *EgoTrafficAgent {
	if viewRadius <= 0 {
		viewRadius = config.DefaultViewRadius
	}
	return &EgoTrafficAgent{
		TrafficAgent: NewTrafficAgent(id, initial, goal, fps, v, planner),
		viewRadius:   viewRadius,
	}
}

func (e *EgoTrafficAgent) ViewRadius() float64 {
	return e.viewRadius
}

// Observe 过滤掉视野外的智能体，自身不在帧中时原样返回
func (e *EgoTrafficAgent) Observe(obs Observation) Observation {
	self, ok := obs.Frame[e.id]
	if !ok {
		return obs
	}
	visible := lo.PickBy(obs.Frame, func(_ int32, s entity.AgentState) bool {
		return math.Hypot(s.Position.X-self.Position.X, s.Position.Y-self.Position.Y) <= e.viewRadius
	})
	return Observation{Frame: visible, ScenarioMap: obs.ScenarioMap}
}
