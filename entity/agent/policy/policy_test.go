package policy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type table struct {
	actions      []any
	q            []float64
	stateVisits  int
	actionVisits []int
}

func (t *table) Actions() []any { return t.actions }
func (t *table) QValues() []float64 { return t.q }
func (t *table) StateVisits() int { return t.stateVisits }
func (t *table) ActionVisits() []int { return t.actionVisits }

func TestMaxPolicy(t *testing.T) {
	n := &table{actions: []any{"a", "b", "c"}, q: []float64{1, 3, 2}}
	action, idx := MaxPolicy{}.Select(n)
	assert.Equal(t, "b", action)
	assert.Equal(t, 1, idx)

	// 并列取第一个
	n.q = []float64{5, 5, 1}
	_, idx = MaxPolicy{}.Select(n)
	assert.Equal(t, 0, idx)

	action, idx = MaxPolicy{}.Select(&table{})
	assert.Nil(t, action)
	assert.Equal(t, -1, idx)
}

func TestUCB1(t *testing.T) {
	p := NewUCB1()
	assert.Equal(t, math.Sqrt2, p.C)

	// 探索项使访问少的动作胜出
	n := &table{
		actions:      []any{"a", "b"},
		q:            []float64{1, 0.8},
		stateVisits:  100,
		actionVisits: []int{90, 10},
	}
	action, idx := p.Select(n)
	assert.Equal(t, "b", action)
	assert.Equal(t, 1, idx)

	// C=0时退化为MaxPolicy
	_, idx = (&UCB1{}).Select(n)
	assert.Equal(t, 0, idx)
}

func TestUCB1Unvisited(t *testing.T) {
	n := &table{
		actions:      []any{"a", "b", "c"},
		q:            []float64{10, 0, 0},
		stateVisits:  5,
		actionVisits: []int{5, 0, 0},
	}
	_, idx := NewUCB1().Select(n)
	assert.Equal(t, 1, idx)
}
