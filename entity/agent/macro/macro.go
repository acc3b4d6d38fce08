// 宏动作：由若干底层机动组成的高层驾驶行为（沿车道行驶、驶出路口、停车）
package macro

import (
	"errors"
	"fmt"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/entity/roadmap"
	"github.com/tsinghua-fib-lab/macrodrive/utils/shape"
)

// 默认帧率
const DefaultFPS = 20

var (
	ErrNotApplicable = errors.New("macro action not applicable")
)

// Observation 当前帧所有智能体状态与路网
type Observation struct {
	Frame       entity.Frame
	ScenarioMap *roadmap.RoadNetwork
}

// Kind 宏动作类型
type Kind int

const (
	KindContinue Kind = iota // 沿当前车道行驶到车道末端
	KindExit                 // 经路口连接道路驶出
	KindStop                 // 原地刹停并保持一段时间
)

var kindNames = map[Kind]string{
	KindContinue: "Continue",
	KindExit:     "Exit",
	KindStop:     "Stop",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Args 宏动作实例化参数
type Args struct {
	TurnTarget   *geometry.Point // Exit：驶出目标点
	StopDuration float64         // Stop：停车时长（秒）
	FPS          int             // 帧率，0表示DefaultFPS
}

func (a Args) fps() int {
	if a.FPS <= 0 {
		return DefaultFPS
	}
	return a.FPS
}

// PossibleArgs 枚举在给定状态下可行的实例化参数
// 参数：state-智能体状态，m-路网，goalCenter-目标中心
// 返回：参数列表，宏动作不可用时为空
func (k Kind) PossibleArgs(state entity.AgentState, m *roadmap.RoadNetwork, goalCenter geometry.Point) []Args {
	switch k {
	case KindContinue:
		return continuePossibleArgs(state, m)
	case KindExit:
		return exitPossibleArgs(state, m)
	case KindStop:
		return []Args{{StopDuration: DefaultStopDuration}}
	}
	log.Panicf("unknown macro action kind %v", k)
	return nil
}

// New 构造宏动作
// 参数：agentID-智能体ID，frame-当前帧，m-路网，openLoop-是否开环执行，args-实例化参数
// 返回：宏动作，在当前状态下不可用时返回ErrNotApplicable
func (k Kind) New(agentID int32, frame entity.Frame, m *roadmap.RoadNetwork, openLoop bool, args Args) (MacroAction, error) {
	state, ok := frame[agentID]
	if !ok {
		return nil, fmt.Errorf("agent %d not in frame", agentID)
	}
	switch k {
	case KindContinue:
		return newContinue(agentID, state, m, openLoop, args)
	case KindExit:
		return newExit(agentID, state, m, openLoop, args)
	case KindStop:
		return newStop(agentID, state, openLoop, args), nil
	}
	log.Panicf("unknown macro action kind %v", k)
	return nil, nil
}

// Maneuver 宏动作中的一段连续控制过程
type Maneuver interface {
	fmt.Stringer
	Done(obs Observation) bool
	NextAction(obs Observation) entity.Action
}

// MacroAction 宏动作
type MacroAction interface {
	fmt.Stringer
	Kind() Kind
	AgentID() int32
	// Done 最后一个机动已完成
	Done(obs Observation) bool
	// NextAction 当前机动完成时先切换到下一个机动，再计算控制指令
	NextAction(obs Observation) entity.Action
	// CurrentManeuver 当前机动，没有机动时为nil
	CurrentManeuver() Maneuver
	// FinalState 宏动作完成时的预计状态
	FinalState() entity.AgentState
	// Length 路径长度
	Length() float64
	// Path 宏动作经过的路径，可能为nil
	Path() *shape.Curve
}

// base 宏动作公共部分：按顺序执行的机动序列
type base struct {
	kind      Kind
	agentID   int32
	openLoop  bool
	maneuvers []Maneuver
	current   int

	path  *shape.Curve
	final entity.AgentState
}

func (b *base) String() string {
	return fmt.Sprintf("%v(agent=%d, maneuver=%d/%d)", b.kind, b.agentID, b.current+1, len(b.maneuvers))
}

func (b *base) Kind() Kind {
	return b.kind
}

func (b *base) AgentID() int32 {
	return b.agentID
}

func (b *base) CurrentManeuver() Maneuver {
	if b.current >= len(b.maneuvers) {
		return nil
	}
	return b.maneuvers[b.current]
}

func (b *base) Done(obs Observation) bool {
	m := b.CurrentManeuver()
	if m == nil {
		return true
	}
	return b.current == len(b.maneuvers)-1 && m.Done(obs)
}

func (b *base) NextAction(obs Observation) entity.Action {
	m := b.CurrentManeuver()
	if m == nil {
		return entity.Action{}
	}
	for m.Done(obs) && b.current < len(b.maneuvers)-1 {
		b.current++
		m = b.maneuvers[b.current]
		log.Tracef("agent %d switches to %v", b.agentID, m)
	}
	return m.NextAction(obs)
}

func (b *base) FinalState() entity.AgentState {
	return b.final
}

func (b *base) Length() float64 {
	if b.path == nil {
		return 0
	}
	return b.path.Length()
}

func (b *base) Path() *shape.Curve {
	return b.path
}
