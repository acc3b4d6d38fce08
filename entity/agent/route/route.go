// 宏动作级路径规划：搜索从当前状态到达目标的宏动作序列
package route

import (
	"math"

	"git.fiblab.net/general/common/v2/geometry"
	"github.com/tsinghua-fib-lab/macrodrive/entity"
	"github.com/tsinghua-fib-lab/macrodrive/entity/agent/macro"
	"github.com/tsinghua-fib-lab/macrodrive/entity/roadmap"
	"github.com/tsinghua-fib-lab/macrodrive/utils/config"
	"github.com/tsinghua-fib-lab/macrodrive/utils/container"
)

// Planner 宏动作规划器
type Planner interface {
	// Search 搜索到达goal的宏动作序列
	// 返回：各方案的代价与对应的宏动作序列，按代价升序；没有方案时均为空
	Search(
		agentID int32, frame entity.Frame, goal entity.Goal, m *roadmap.RoadNetwork,
		openLoop bool, maxIterations int,
	) ([]float64, [][]macro.MacroAction)
}

// 参与搜索的宏动作类型（Stop不改变位置，不参与搜索）
var searchKinds = []macro.Kind{macro.KindContinue, macro.KindExit}

// 状态去重的量化精度
const (
	positionResolution = 0.1 // m
	headingResolution  = 0.1 // rad
)

type stateKey struct {
	x, y, heading int64
}

func keyOf(s entity.AgentState) stateKey {
	return stateKey{
		x:       int64(math.Round(s.Position.X / positionResolution)),
		y:       int64(math.Round(s.Position.Y / positionResolution)),
		heading: int64(math.Round(s.Heading / headingResolution)),
	}
}

type node struct {
	frame   entity.Frame
	actions []macro.MacroAction
	cost    float64 // 已走过的路径长度
}

// AStar 以路径长度为代价、到目标中心直线距离为启发值的宏动作A*搜索
type AStar struct {
	fps          int
	MaxSolutions int // 最多返回的方案数
}

func NewAStar(fps int) *AStar {
	return &AStar{fps: fps, MaxSolutions: 1}
}

func heuristic(p, goal geometry.Point) float64 {
	return math.Hypot(goal.X-p.X, goal.Y-p.Y)
}

// Search 宏动作A*搜索
// 算法说明：
// 1. 弹出优先级最小的节点，最后一个宏动作的路径经过目标时记为一个方案
// 2. 否则对Continue、Exit的每组可行参数构造宏动作，以其预计终止状态作为后继节点
// 3. 已展开过的（量化后）状态不再展开，弹出次数达到maxIterations后停止
func (a *AStar) Search(
	agentID int32, frame entity.Frame, goal entity.Goal, m *roadmap.RoadNetwork,
	openLoop bool, maxIterations int,
) ([]float64, [][]macro.MacroAction) {
	if _, ok := frame[agentID]; !ok {
		log.Debugf("agent %d not in frame", agentID)
		return nil, nil
	}
	if maxIterations <= 0 {
		maxIterations = config.DefaultMaxIterations
	}
	var (
		costs     []float64
		solutions [][]macro.MacroAction
	)
	center := goal.Center()
	visited := make(map[stateKey]struct{})
	pq := container.NewPriorityQueue[*node]()
	pq.HeapPush(&node{frame: frame}, heuristic(frame[agentID].Position, center))

	iterations := 0
	for pq.Len() > 0 && iterations < maxIterations && len(solutions) < a.MaxSolutions {
		iterations++
		cur, _ := pq.HeapPop()
		if n := len(cur.actions); n > 0 && goal.PassedThrough(cur.actions[n-1].Path()) {
			costs = append(costs, cur.cost)
			solutions = append(solutions, cur.actions)
			continue
		}
		state := cur.frame[agentID]
		key := keyOf(state)
		if _, ok := visited[key]; ok {
			continue
		}
		visited[key] = struct{}{}

		for _, kind := range searchKinds {
			for _, args := range kind.PossibleArgs(state, m, center) {
				args.FPS = a.fps
				ma, err := kind.New(agentID, cur.frame, m, openLoop, args)
				if err != nil {
					log.Tracef("skip %v for agent %d: %v", kind, agentID, err)
					continue
				}
				final := ma.FinalState()
				next := &node{
					frame:   cur.frame.With(agentID, final),
					actions: append(append([]macro.MacroAction{}, cur.actions...), ma),
					cost:    cur.cost + ma.Length(),
				}
				pq.HeapPush(next, next.cost+heuristic(final.Position, center))
			}
		}
	}
	if len(solutions) == 0 {
		log.Debugf("agent %d: no plan to %v after %d iterations", agentID, center, iterations)
		return nil, nil
	}
	log.Debugf("agent %d: %d plan(s) found after %d iterations", agentID, len(solutions), iterations)
	return costs, solutions
}
