// 搜索树节点上的动作选择策略
package policy

import (
	"math"

	"github.com/samber/lo"
)

// Node 搜索树节点：可选动作及其统计量，各切片按动作下标对齐
type Node interface {
	Actions() []any
	QValues() []float64
	StateVisits() int   // 节点被访问次数
	ActionVisits() []int // 每个动作被选择的次数
}

// Policy 动作选择策略
type Policy interface {
	// Select 选择一个动作，返回动作及其下标；节点没有动作时返回(nil, -1)
	Select(node Node) (any, int)
}

// argmax 最大值的下标，并列时取第一个
func argmax(values []float64) int {
	best := -1
	for i, v := range values {
		if best < 0 || v > values[best] {
			best = i
		}
	}
	return best
}

func pick(node Node, values []float64) (any, int) {
	idx := argmax(values)
	if idx < 0 {
		return nil, -1
	}
	return node.Actions()[idx], idx
}

// MaxPolicy 选择Q值最大的动作
type MaxPolicy struct{}

func (MaxPolicy) Select(node Node) (any, int) {
	return pick(node, node.QValues())
}

// UCB1 上置信界策略：Q + C·sqrt(ln N / n)
// 未被选择过的动作（n=0）优先
type UCB1 struct {
	C float64 // 探索系数
}

// NewUCB1 探索系数为√2的UCB1策略
func NewUCB1() *UCB1 {
	return &UCB1{C: math.Sqrt2}
}

func (p *UCB1) Select(node Node) (any, int) {
	lnN := math.Log(float64(node.StateVisits()))
	visits := node.ActionVisits()
	values := lo.Map(node.QValues(), func(q float64, i int) float64 {
		if visits[i] <= 0 {
			return math.Inf(1)
		}
		return q + p.C*math.Sqrt(lnN/float64(visits[i]))
	})
	return pick(node, values)
}
